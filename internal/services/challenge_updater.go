package services

import (
	"context"
	"fmt"

	"DRIVING_ANALYSIS/go-backend/internal/models"
)

// Challenge metric keys. Counts accumulate across sessions;
// driving_score accumulates so clients can derive averages from the
// session count.
const (
	MetricDrowsinessCount = "drowsiness_count"
	MetricPhoneUsageCount = "phone_usage_count"
	MetricSmokingCount    = "smoking_count"
	MetricDrivingScore    = "driving_score"
	MetricSessionsDriven  = "sessions_driven"
)

// ChallengeStore increments one running challenge metric.
type ChallengeStore interface {
	IncrementMetric(ctx context.Context, userID int64, metric string, delta int64) error
}

// ChallengeProgressUpdater feeds session results into the per-user
// challenge metrics.
type ChallengeProgressUpdater struct {
	store ChallengeStore
}

func NewChallengeProgressUpdater(store ChallengeStore) *ChallengeProgressUpdater {
	return &ChallengeProgressUpdater{store: store}
}

// UpdateFrom applies one session result to every challenge metric.
// The first failed increment aborts the rest; the caller treats the
// whole update as best-effort.
func (u *ChallengeProgressUpdater) UpdateFrom(ctx context.Context, result *models.AnalysisResult) error {
	updates := []struct {
		metric string
		delta  int64
	}{
		{MetricDrowsinessCount, int64(result.DrowsinessCount)},
		{MetricPhoneUsageCount, int64(result.PhoneUsageCount)},
		{MetricSmokingCount, int64(result.SmokingCount)},
		{MetricDrivingScore, int64(result.DrivingScore)},
		{MetricSessionsDriven, 1},
	}
	for _, up := range updates {
		if err := u.store.IncrementMetric(ctx, result.UserID, up.metric, up.delta); err != nil {
			return fmt.Errorf("update challenge progress: %w", err)
		}
	}
	return nil
}
