package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"DRIVING_ANALYSIS/go-backend/internal/models"
)

type FeedbackStore struct {
	pool *pgxpool.Pool
}

func NewFeedbackStore(pool *pgxpool.Pool) *FeedbackStore {
	return &FeedbackStore{pool: pool}
}

func (s *FeedbackStore) Create(ctx context.Context, f *models.Feedback) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO feedbacks (user_id, feedback_type, content, severity_level, generated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING feedback_id`,
		f.UserID, f.FeedbackType, f.Content, f.SeverityLevel, f.GeneratedAt,
	).Scan(&f.FeedbackID)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}
