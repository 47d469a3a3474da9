package models

import "time"

type User struct {
	UserID       int64     `json:"user_id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type VideoStatus string

const (
	VideoUploaded VideoStatus = "UPLOADED"
	VideoAnalyzed VideoStatus = "ANALYZED"
)

type DrivingVideo struct {
	VideoID     int64       `json:"video_id"`
	UserID      int64       `json:"user_id"`
	FileName    string      `json:"file_name"`
	Duration    int         `json:"duration"`
	Status      VideoStatus `json:"status"`
	UploadedAt  time.Time   `json:"uploaded_at"`
	ProcessedAt *time.Time  `json:"processed_at,omitempty"`
}

type AnalysisResult struct {
	ResultID        int64     `json:"result_id"`
	VideoID         int64     `json:"video_id"`
	UserID          int64     `json:"user_id"`
	DrowsinessCount int       `json:"drowsiness_count"`
	PhoneUsageCount int       `json:"phone_usage_count"`
	SmokingCount    int       `json:"smoking_count"`
	DrivingScore    int       `json:"driving_score"`
	TotalDuration   int       `json:"total_duration"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

// NewAnalysisResult computes the driving score from the risk counts:
// base 100, minus 5 per drowsiness event, 3 per phone usage and 2 per
// smoking event, floored at 0.
func NewAnalysisResult(videoID, userID int64, drowsiness, phoneUsage, smoking, duration int) *AnalysisResult {
	score := 100 - 5*drowsiness - 3*phoneUsage - 2*smoking
	if score < 0 {
		score = 0
	}
	return &AnalysisResult{
		VideoID:         videoID,
		UserID:          userID,
		DrowsinessCount: drowsiness,
		PhoneUsageCount: phoneUsage,
		SmokingCount:    smoking,
		DrivingScore:    score,
		TotalDuration:   duration,
		AnalyzedAt:      time.Now(),
	}
}

type UserScore struct {
	ScoreID      int64     `json:"score_id"`
	UserID       int64     `json:"user_id"`
	DailyScore   int       `json:"daily_score"`
	WeeklyScore  int       `json:"weekly_score"`
	MonthlyScore int       `json:"monthly_score"`
	ScoreDate    time.Time `json:"score_date"`
}

type FeedbackType string

const (
	FeedbackDrowsiness FeedbackType = "DROWSINESS"
	FeedbackPhoneUsage FeedbackType = "PHONE_USAGE"
	FeedbackSmoking    FeedbackType = "SMOKING"
	FeedbackGeneral    FeedbackType = "GENERAL"
)

type SeverityLevel string

const (
	SeverityLow    SeverityLevel = "LOW"
	SeverityMedium SeverityLevel = "MEDIUM"
	SeverityHigh   SeverityLevel = "HIGH"
)

type Feedback struct {
	FeedbackID    int64         `json:"feedback_id"`
	UserID        int64         `json:"user_id"`
	FeedbackType  FeedbackType  `json:"feedback_type"`
	Content       string        `json:"content"`
	SeverityLevel SeverityLevel `json:"severity_level"`
	GeneratedAt   time.Time     `json:"generated_at"`
}

type ChallengeProgress struct {
	ProgressID int64     `json:"progress_id"`
	UserID     int64     `json:"user_id"`
	Metric     string    `json:"metric"`
	Value      int64     `json:"value"`
	UpdatedAt  time.Time `json:"updated_at"`
}
