package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"DRIVING_ANALYSIS/go-backend/internal/models"
)

type AnalysisResultStore struct {
	pool *pgxpool.Pool
}

func NewAnalysisResultStore(pool *pgxpool.Pool) *AnalysisResultStore {
	return &AnalysisResultStore{pool: pool}
}

func (s *AnalysisResultStore) Create(ctx context.Context, r *models.AnalysisResult) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO analysis_results
		   (video_id, user_id, drowsiness_count, phone_usage_count, smoking_count,
		    driving_score, total_duration, analyzed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING result_id`,
		r.VideoID, r.UserID, r.DrowsinessCount, r.PhoneUsageCount, r.SmokingCount,
		r.DrivingScore, r.TotalDuration, r.AnalyzedAt,
	).Scan(&r.ResultID)
	if err != nil {
		return fmt.Errorf("insert analysis result: %w", err)
	}
	return nil
}

// ListDrivingScores returns the driving scores of all results analyzed
// for the user in [from, to).
func (s *AnalysisResultStore) ListDrivingScores(ctx context.Context, userID int64, from, to time.Time) ([]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT driving_score FROM analysis_results
		 WHERE user_id = $1 AND analyzed_at >= $2 AND analyzed_at < $3
		 ORDER BY analyzed_at`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("select driving scores: %w", err)
	}
	defer rows.Close()

	var scores []int
	for rows.Next() {
		var score int
		if err := rows.Scan(&score); err != nil {
			return nil, fmt.Errorf("scan driving score: %w", err)
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}
