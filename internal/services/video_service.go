package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"DRIVING_ANALYSIS/go-backend/internal/models"
)

// Analyzer is the vision-service client seen by the pipeline. Both
// calls report remote failures inside the result value, never as an
// error, so an unreachable analysis backend cannot break ingestion.
type Analyzer interface {
	AnalyzeBatch(ctx context.Context, userID int64, batchID int32, timestamp int64, frames []models.Frame) models.RealtimeResult
	EndSession(ctx context.Context, userID, sessionID, startTimestamp, endTimestamp int64) models.FinalResult
}

// AlertSink receives risk events for connected drivers.
type AlertSink interface {
	Publish(event models.RiskEvent)
	Unsubscribe(userID int64)
}

// SessionTracker records frame activity per user and yields the
// observed session bounds on end.
type SessionTracker interface {
	OnFrame(userID int64, batchID int32, timestamp int64)
	OnSessionEnd(userID int64) (start, last int64)
}

type UserSource interface {
	GetByID(ctx context.Context, userID int64) (*models.User, error)
}

type VideoCreator interface {
	Create(ctx context.Context, userID int64, fileName string, duration int) (*models.DrivingVideo, error)
}

type ResultWriter interface {
	Create(ctx context.Context, r *models.AnalysisResult) error
}

type ScoreUpdater interface {
	UpdateUserScore(ctx context.Context, userID int64, result *models.AnalysisResult) error
}

type FeedbackGenerator interface {
	GenerateDrivingFeedback(ctx context.Context, result *models.AnalysisResult) (*models.Feedback, error)
}

type ProgressUpdater interface {
	UpdateFrom(ctx context.Context, result *models.AnalysisResult) error
}

// VideoService drives the per-batch and end-of-session flow: it hands
// frames to the analyzer, fans detections out as alerts, and on session
// end persists the result and runs the derived updates.
type VideoService struct {
	analyzer   Analyzer
	alerts     AlertSink
	tracker    SessionTracker
	users      UserSource
	videos     VideoCreator
	results    ResultWriter
	scores     ScoreUpdater
	feedback   FeedbackGenerator
	challenges ProgressUpdater
	metrics    *Metrics
}

func NewVideoService(
	analyzer Analyzer,
	alerts AlertSink,
	tracker SessionTracker,
	users UserSource,
	videos VideoCreator,
	results ResultWriter,
	scores ScoreUpdater,
	feedback FeedbackGenerator,
	challenges ProgressUpdater,
	metrics *Metrics,
) *VideoService {
	return &VideoService{
		analyzer:   analyzer,
		alerts:     alerts,
		tracker:    tracker,
		users:      users,
		videos:     videos,
		results:    results,
		scores:     scores,
		feedback:   feedback,
		challenges: challenges,
		metrics:    metrics,
	}
}

// ProcessFrameBatch acknowledges the batch immediately and dispatches
// analysis in the background. The ack means "received and queued", not
// "analyzed": per-batch results only surface through the alert channel.
func (s *VideoService) ProcessFrameBatch(ctx context.Context, batch *models.FrameBatch) (*models.FrameProcessedResponse, error) {
	if batch == nil || batch.UserID <= 0 {
		return nil, fmt.Errorf("invalid frame batch: missing user id")
	}

	// The user is checked once per session, on the opening batch.
	if batch.BatchID == 0 {
		if _, err := s.users.GetByID(ctx, batch.UserID); err != nil {
			return nil, fmt.Errorf("user %d: %w", batch.UserID, err)
		}
	}

	valid := 0
	for _, f := range batch.Frames {
		if len(f.Data) > 0 {
			valid++
		}
	}

	s.tracker.OnFrame(batch.UserID, batch.BatchID, batch.Timestamp)
	s.metrics.IncrementBatches(valid)

	if valid > 0 {
		go s.analyzeAndAlert(*batch)
	}

	return &models.FrameProcessedResponse{
		UserID:    batch.UserID,
		BatchID:   batch.BatchID,
		Timestamp: batch.Timestamp,
		Processed: true,
	}, nil
}

// analyzeAndAlert runs on its own goroutine with a fresh context; a
// closed ingestion socket must not cancel an in-flight analysis call.
// The client applies its own per-call deadline.
func (s *VideoService) analyzeAndAlert(batch models.FrameBatch) {
	started := time.Now()
	result := s.analyzer.AnalyzeBatch(context.Background(), batch.UserID, batch.BatchID, batch.Timestamp, batch.Frames)
	s.metrics.RecordLatency(time.Since(started))

	if !result.AnalysisCompleted {
		s.metrics.IncrementErrors()
		log.Printf("Analysis failed for user %d batch %d: %s", batch.UserID, batch.BatchID, result.ErrorMessage)
		return
	}

	now := time.Now().UnixMilli()
	s.publishIf(result.DrowsinessDetected, models.RiskEvent{
		UserID:    batch.UserID,
		Kind:      models.RiskDrowsiness,
		Detected:  true,
		BatchID:   batch.BatchID,
		Message:   "Drowsiness detected. Pull over at a safe spot and take a break.",
		Timestamp: now,
	})
	s.publishIf(result.PhoneUsageDetected, models.RiskEvent{
		UserID:    batch.UserID,
		Kind:      models.RiskPhoneUsage,
		Detected:  true,
		BatchID:   batch.BatchID,
		Message:   "Phone usage detected. Keep your eyes on the road.",
		Timestamp: now,
	})
	s.publishIf(result.SmokingDetected, models.RiskEvent{
		UserID:    batch.UserID,
		Kind:      models.RiskSmoking,
		Detected:  true,
		BatchID:   batch.BatchID,
		Message:   "Smoking detected. Keep both hands on the wheel.",
		Timestamp: now,
	})
}

func (s *VideoService) publishIf(detected bool, event models.RiskEvent) {
	if !detected {
		return
	}
	s.alerts.Publish(event)
	s.metrics.IncrementAlerts()
}

// EndDrivingSession closes out a session: it asks the analyzer for the
// whole-session statistics, persists a session record and result, and
// runs the score, feedback and challenge updates. Failures in the
// derived updates are logged and swallowed so the response always
// reflects the stored result; only local persistence failures surface
// as an error.
func (s *VideoService) EndDrivingSession(ctx context.Context, req *models.SessionEndRequest) (*models.SessionEndResponse, error) {
	if req == nil || req.UserID <= 0 {
		return nil, fmt.Errorf("invalid session end request: missing user id")
	}

	start, last := s.tracker.OnSessionEnd(req.UserID)
	end := req.EndTimestamp
	if end == 0 {
		end = time.Now().UnixMilli()
	}

	final := s.analyzer.EndSession(ctx, req.UserID, req.SessionID, start, end)
	s.alerts.Unsubscribe(req.UserID)
	s.metrics.IncrementSessionsEnded()

	if !final.AnalysisCompleted {
		s.metrics.IncrementErrors()
		log.Printf("Final analysis failed for user %d session %d: %s", req.UserID, req.SessionID, final.ErrorMessage)
	}

	duration := sessionDurationSeconds(start, last)
	video, err := s.videos.Create(ctx, req.UserID, fmt.Sprintf("session_%d", req.SessionID), duration)
	if err != nil {
		return nil, fmt.Errorf("save session record: %w", err)
	}

	result := models.NewAnalysisResult(video.VideoID, req.UserID,
		final.DrowsinessCount, final.PhoneUsageCount, final.SmokingCount, duration)
	if err := s.results.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("save analysis result: %w", err)
	}

	if err := s.scores.UpdateUserScore(ctx, req.UserID, result); err != nil {
		log.Printf("Score update failed for user %d: %v", req.UserID, err)
	}
	if _, err := s.feedback.GenerateDrivingFeedback(ctx, result); err != nil {
		log.Printf("Feedback generation failed for user %d: %v", req.UserID, err)
	}
	if err := s.challenges.UpdateFrom(ctx, result); err != nil {
		log.Printf("Challenge update failed for user %d: %v", req.UserID, err)
	}

	return &models.SessionEndResponse{
		UserID:          req.UserID,
		SessionID:       req.SessionID,
		DrowsinessCount: result.DrowsinessCount,
		PhoneUsageCount: result.PhoneUsageCount,
		SmokingCount:    result.SmokingCount,
		DrivingScore:    result.DrivingScore,
		Saved:           true,
	}, nil
}

// CleanupOnDisconnect drops the tracked session and alert channel for a
// user whose frame socket closed without an explicit session end.
func (s *VideoService) CleanupOnDisconnect(userID int64) {
	if userID <= 0 {
		return
	}
	s.tracker.OnSessionEnd(userID)
	s.alerts.Unsubscribe(userID)
}

// sessionDurationSeconds derives the session length from the tracked
// frame timestamps, never less than one second.
func sessionDurationSeconds(start, last int64) int {
	if last <= start {
		return 1
	}
	duration := int((last - start) / 1000)
	if duration < 1 {
		duration = 1
	}
	return duration
}
