package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

type ChallengeProgressStore struct {
	pool *pgxpool.Pool
}

func NewChallengeProgressStore(pool *pgxpool.Pool) *ChallengeProgressStore {
	return &ChallengeProgressStore{pool: pool}
}

// IncrementMetric adds delta to the user's running total for one
// challenge metric, creating the row on first update.
func (s *ChallengeProgressStore) IncrementMetric(ctx context.Context, userID int64, metric string, delta int64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO challenge_progress (user_id, metric, value, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id, metric) DO UPDATE SET
		   value = challenge_progress.value + EXCLUDED.value,
		   updated_at = now()`,
		userID, metric, delta,
	)
	if err != nil {
		return fmt.Errorf("increment challenge metric %q: %w", metric, err)
	}
	return nil
}
