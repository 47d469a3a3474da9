package services

import (
	"context"
	"fmt"
	"time"

	"DRIVING_ANALYSIS/go-backend/internal/models"
)

// ScoreResultSource lists per-session driving scores for the rolling averages.
type ScoreResultSource interface {
	ListDrivingScores(ctx context.Context, userID int64, from, to time.Time) ([]int, error)
}

// ScoreStore persists the per-day score rows.
type ScoreStore interface {
	Upsert(ctx context.Context, sc *models.UserScore) error
	ListDailyScores(ctx context.Context, userID int64, from, to time.Time) ([]models.UserScore, error)
}

// ScoreService maintains daily, weekly and monthly driving score
// averages. The daily score is the mean of all session scores recorded
// today; weekly and monthly scores are means over the daily scores of
// the current calendar week (Monday start) and month.
type ScoreService struct {
	results ScoreResultSource
	scores  ScoreStore
	now     func() time.Time
}

func NewScoreService(results ScoreResultSource, scores ScoreStore) *ScoreService {
	return &ScoreService{
		results: results,
		scores:  scores,
		now:     time.Now,
	}
}

// UpdateUserScore recomputes the user's score row for today after a new
// session result has been stored.
func (s *ScoreService) UpdateUserScore(ctx context.Context, userID int64, result *models.AnalysisResult) error {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	daily, err := s.dailyScore(ctx, userID, today, result)
	if err != nil {
		return err
	}

	weekStart := startOfWeek(today)
	weekly, err := s.periodScore(ctx, userID, weekStart, today, daily)
	if err != nil {
		return err
	}

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	monthly, err := s.periodScore(ctx, userID, monthStart, today, daily)
	if err != nil {
		return err
	}

	sc := &models.UserScore{
		UserID:       userID,
		DailyScore:   daily,
		WeeklyScore:  weekly,
		MonthlyScore: monthly,
		ScoreDate:    today,
	}
	if err := s.scores.Upsert(ctx, sc); err != nil {
		return fmt.Errorf("update user score: %w", err)
	}
	return nil
}

// dailyScore averages every session score recorded today. The result
// that triggered the update is already persisted, so the list includes
// it; if the query comes back empty we fall back to that result alone.
func (s *ScoreService) dailyScore(ctx context.Context, userID int64, today time.Time, result *models.AnalysisResult) (int, error) {
	scores, err := s.results.ListDrivingScores(ctx, userID, today, today.AddDate(0, 0, 1))
	if err != nil {
		return 0, fmt.Errorf("list today's scores: %w", err)
	}
	if len(scores) == 0 {
		return result.DrivingScore, nil
	}
	sum := 0
	for _, score := range scores {
		sum += score
	}
	return sum / len(scores), nil
}

// periodScore averages the stored daily scores in [from, today) plus
// today's freshly computed daily score.
func (s *ScoreService) periodScore(ctx context.Context, userID int64, from, today time.Time, todayDaily int) (int, error) {
	rows, err := s.scores.ListDailyScores(ctx, userID, from, today.AddDate(0, 0, -1))
	if err != nil {
		return 0, fmt.Errorf("list daily scores: %w", err)
	}
	sum := todayDaily
	count := 1
	for _, row := range rows {
		sum += row.DailyScore
		count++
	}
	return sum / count, nil
}

// startOfWeek returns the Monday of the week containing day.
func startOfWeek(day time.Time) time.Time {
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}
