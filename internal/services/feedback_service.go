package services

import (
	"context"
	"fmt"
	"time"

	"DRIVING_ANALYSIS/go-backend/internal/models"
)

// FeedbackSink persists generated feedback entries.
type FeedbackSink interface {
	Create(ctx context.Context, f *models.Feedback) error
}

// FeedbackService turns a session's analysis result into a stored
// feedback message for the driver.
type FeedbackService struct {
	store FeedbackSink
	now   func() time.Time
}

func NewFeedbackService(store FeedbackSink) *FeedbackService {
	return &FeedbackService{store: store, now: time.Now}
}

// GenerateDrivingFeedback builds feedback from the session result and
// stores it. The feedback type follows the dominant risk behavior;
// severity follows the driving score.
func (s *FeedbackService) GenerateDrivingFeedback(ctx context.Context, result *models.AnalysisResult) (*models.Feedback, error) {
	f := &models.Feedback{
		UserID:        result.UserID,
		FeedbackType:  mainFeedbackType(result),
		SeverityLevel: severityFor(result.DrivingScore),
		GeneratedAt:   s.now(),
	}
	f.Content = feedbackContent(f.FeedbackType, result)

	if err := s.store.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("generate driving feedback: %w", err)
	}
	return f, nil
}

// mainFeedbackType picks the behavior with the highest count. Ties go
// to the more dangerous behavior: drowsiness over phone usage over
// smoking. A clean session gets general feedback.
func mainFeedbackType(r *models.AnalysisResult) models.FeedbackType {
	max := r.DrowsinessCount
	kind := models.FeedbackDrowsiness
	if r.PhoneUsageCount > max {
		max = r.PhoneUsageCount
		kind = models.FeedbackPhoneUsage
	}
	if r.SmokingCount > max {
		max = r.SmokingCount
		kind = models.FeedbackSmoking
	}
	if max == 0 {
		return models.FeedbackGeneral
	}
	return kind
}

func severityFor(score int) models.SeverityLevel {
	switch {
	case score >= 75:
		return models.SeverityLow
	case score >= 60:
		return models.SeverityMedium
	default:
		return models.SeverityHigh
	}
}

func feedbackContent(kind models.FeedbackType, r *models.AnalysisResult) string {
	switch kind {
	case models.FeedbackDrowsiness:
		return fmt.Sprintf(
			"Drowsiness was detected %d time(s) this session. Make sure to rest before long drives and take a break every two hours.",
			r.DrowsinessCount)
	case models.FeedbackPhoneUsage:
		return fmt.Sprintf(
			"Phone usage was detected %d time(s) while driving. Keep your phone out of reach or use a hands-free mount.",
			r.PhoneUsageCount)
	case models.FeedbackSmoking:
		return fmt.Sprintf(
			"Smoking was detected %d time(s) while driving. Smoking behind the wheel takes a hand off the wheel and eyes off the road.",
			r.SmokingCount)
	default:
		return fmt.Sprintf(
			"Great session! No risky behavior was detected and your driving score is %d. Keep it up.",
			r.DrivingScore)
	}
}
