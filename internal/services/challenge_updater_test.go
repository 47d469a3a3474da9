package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DRIVING_ANALYSIS/go-backend/internal/models"
)

type fakeChallengeStore struct {
	failOn     string
	increments map[string]int64
}

func newFakeChallengeStore() *fakeChallengeStore {
	return &fakeChallengeStore{increments: make(map[string]int64)}
}

func (f *fakeChallengeStore) IncrementMetric(ctx context.Context, userID int64, metric string, delta int64) error {
	if metric == f.failOn {
		return errors.New("increment failed")
	}
	f.increments[metric] += delta
	return nil
}

func TestUpdateFromAppliesAllMetrics(t *testing.T) {
	store := newFakeChallengeStore()
	updater := NewChallengeProgressUpdater(store)

	err := updater.UpdateFrom(context.Background(), &models.AnalysisResult{
		UserID:          1,
		DrowsinessCount: 2,
		PhoneUsageCount: 3,
		SmokingCount:    1,
		DrivingScore:    85,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), store.increments[MetricDrowsinessCount])
	assert.Equal(t, int64(3), store.increments[MetricPhoneUsageCount])
	assert.Equal(t, int64(1), store.increments[MetricSmokingCount])
	assert.Equal(t, int64(85), store.increments[MetricDrivingScore])
	assert.Equal(t, int64(1), store.increments[MetricSessionsDriven])
}

func TestUpdateFromCleanSessionStillCountsSession(t *testing.T) {
	store := newFakeChallengeStore()
	updater := NewChallengeProgressUpdater(store)

	err := updater.UpdateFrom(context.Background(), &models.AnalysisResult{UserID: 1, DrivingScore: 100})
	require.NoError(t, err)

	assert.Zero(t, store.increments[MetricDrowsinessCount])
	assert.Equal(t, int64(1), store.increments[MetricSessionsDriven])
}

func TestUpdateFromStopsOnFirstFailure(t *testing.T) {
	store := newFakeChallengeStore()
	store.failOn = MetricSmokingCount
	updater := NewChallengeProgressUpdater(store)

	err := updater.UpdateFrom(context.Background(), &models.AnalysisResult{
		UserID:          1,
		DrowsinessCount: 1,
		PhoneUsageCount: 1,
		SmokingCount:    1,
		DrivingScore:    90,
	})
	assert.Error(t, err)

	// Metrics before the failing one were applied, later ones were not.
	assert.Equal(t, int64(1), store.increments[MetricDrowsinessCount])
	assert.Equal(t, int64(1), store.increments[MetricPhoneUsageCount])
	assert.Zero(t, store.increments[MetricDrivingScore])
	assert.Zero(t, store.increments[MetricSessionsDriven])
}
