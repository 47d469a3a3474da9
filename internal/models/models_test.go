package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAnalysisResultScore(t *testing.T) {
	tests := []struct {
		name                       string
		drowsiness, phone, smoking int
		want                       int
	}{
		{"clean session", 0, 0, 0, 100},
		{"one of each", 1, 1, 1, 90},
		{"drowsiness heavy", 5, 0, 0, 75},
		{"floors at zero", 20, 10, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewAnalysisResult(1, 1, tt.drowsiness, tt.phone, tt.smoking, 60)
			assert.Equal(t, tt.want, r.DrivingScore)
		})
	}
}

func TestNewAnalysisResultFields(t *testing.T) {
	r := NewAnalysisResult(7, 42, 1, 2, 3, 120)

	assert.Equal(t, int64(7), r.VideoID)
	assert.Equal(t, int64(42), r.UserID)
	assert.Equal(t, 1, r.DrowsinessCount)
	assert.Equal(t, 2, r.PhoneUsageCount)
	assert.Equal(t, 3, r.SmokingCount)
	assert.Equal(t, 120, r.TotalDuration)
	assert.False(t, r.AnalyzedAt.IsZero())
}
