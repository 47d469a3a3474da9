package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"DRIVING_ANALYSIS/go-backend/internal/models"
)

type UserScoreStore struct {
	pool *pgxpool.Pool
}

func NewUserScoreStore(pool *pgxpool.Pool) *UserScoreStore {
	return &UserScoreStore{pool: pool}
}

// Upsert writes the daily/weekly/monthly scores for one user and date.
func (s *UserScoreStore) Upsert(ctx context.Context, sc *models.UserScore) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO user_scores (user_id, daily_score, weekly_score, monthly_score, score_date)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, score_date) DO UPDATE SET
		   daily_score = EXCLUDED.daily_score,
		   weekly_score = EXCLUDED.weekly_score,
		   monthly_score = EXCLUDED.monthly_score
		 RETURNING score_id`,
		sc.UserID, sc.DailyScore, sc.WeeklyScore, sc.MonthlyScore, sc.ScoreDate,
	).Scan(&sc.ScoreID)
	if err != nil {
		return fmt.Errorf("upsert user score: %w", err)
	}
	return nil
}

// ListDailyScores returns the daily scores recorded for the user in
// [from, to], oldest first.
func (s *UserScoreStore) ListDailyScores(ctx context.Context, userID int64, from, to time.Time) ([]models.UserScore, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT score_id, user_id, daily_score, weekly_score, monthly_score, score_date
		 FROM user_scores
		 WHERE user_id = $1 AND score_date >= $2 AND score_date <= $3
		 ORDER BY score_date`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("select daily scores: %w", err)
	}
	defer rows.Close()

	var scores []models.UserScore
	for rows.Next() {
		var sc models.UserScore
		if err := rows.Scan(&sc.ScoreID, &sc.UserID, &sc.DailyScore, &sc.WeeklyScore, &sc.MonthlyScore, &sc.ScoreDate); err != nil {
			return nil, fmt.Errorf("scan daily score: %w", err)
		}
		scores = append(scores, sc)
	}
	return scores, rows.Err()
}
