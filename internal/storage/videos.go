package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"DRIVING_ANALYSIS/go-backend/internal/models"
)

type VideoStore struct {
	pool *pgxpool.Pool
}

func NewVideoStore(pool *pgxpool.Pool) *VideoStore {
	return &VideoStore{pool: pool}
}

// Create inserts a driving-video record for a finished session.
func (s *VideoStore) Create(ctx context.Context, userID int64, fileName string, duration int) (*models.DrivingVideo, error) {
	now := time.Now()
	v := &models.DrivingVideo{
		UserID:      userID,
		FileName:    fileName,
		Duration:    duration,
		Status:      models.VideoAnalyzed,
		ProcessedAt: &now,
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO driving_videos (user_id, file_name, duration, status, processed_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING video_id, uploaded_at`,
		userID, fileName, duration, v.Status, now,
	).Scan(&v.VideoID, &v.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("insert driving video: %w", err)
	}
	return v, nil
}
