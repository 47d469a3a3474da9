package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sethvargo/go-retry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"

	"DRIVING_ANALYSIS/go-backend/internal/models"
	"DRIVING_ANALYSIS/go-backend/pkg/pb"
)

// RetryPolicy bounds the retry loop around a remote analysis call:
// MaxAttempts total attempts, exponential backoff starting at BaseDelay,
// retrying only while Retryable says the error is transient.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Retryable   func(error) bool
}

// transientStatus treats remote unavailability and expired deadlines as
// retryable; every other status fails immediately.
func transientStatus(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return true
	default:
		return false
	}
}

// callWithRetry runs fn under the policy. Both RPC operations share this
// helper so neither carries its own backoff loop.
func callWithRetry(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(uint64(policy.MaxAttempts-1), retry.NewExponential(policy.BaseDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && policy.Retryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// AnalysisClient talks to the remote vision service over one long-lived
// gRPC channel. Failures surface as result values with
// AnalysisCompleted=false, never as errors the ingestion path must catch.
type AnalysisClient struct {
	conn    *grpc.ClientConn
	client  pb.VideoAnalysisServiceClient
	addr    string
	timeout time.Duration
	policy  RetryPolicy
}

func NewAnalysisClient(addr string, timeout time.Duration, maxRetries int, baseDelay time.Duration) (*AnalysisClient, error) {
	log.Printf("Connecting to AI analysis server at %s", addr)

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(10*1024*1024),
			grpc.MaxCallSendMsgSize(10*1024*1024),
		),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                120 * time.Second,
			Timeout:             20 * time.Second,
			PermitWithoutStream: true,
		}),
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not connect to AI server at %s: %w", addr, err)
	}

	return &AnalysisClient{
		conn:    conn,
		client:  pb.NewVideoAnalysisServiceClient(conn),
		addr:    addr,
		timeout: timeout,
		policy: RetryPolicy{
			MaxAttempts: maxRetries,
			BaseDelay:   baseDelay,
			Retryable:   transientStatus,
		},
	}, nil
}

// NewAnalysisClientForConn wraps an existing connection. Used by tests
// with bufconn.
func NewAnalysisClientForConn(conn *grpc.ClientConn, timeout time.Duration, maxRetries int, baseDelay time.Duration) *AnalysisClient {
	return &AnalysisClient{
		conn:    conn,
		client:  pb.NewVideoAnalysisServiceClient(conn),
		timeout: timeout,
		policy: RetryPolicy{
			MaxAttempts: maxRetries,
			BaseDelay:   baseDelay,
			Retryable:   transientStatus,
		},
	}
}

// AnalyzeBatch submits one frame batch for realtime classification.
// Frames with empty payloads are dropped; a batch with no payload left
// short-circuits without an RPC call.
func (c *AnalysisClient) AnalyzeBatch(ctx context.Context, userID int64, batchID int32, timestamp int64, frames []models.Frame) models.RealtimeResult {
	valid := make([]*pb.Frame, 0, len(frames))
	for _, f := range frames {
		if len(f.Data) == 0 {
			continue
		}
		valid = append(valid, &pb.Frame{Data: f.Data, FrameId: f.FrameID})
	}

	if len(valid) == 0 {
		log.Printf("No valid frames to analyze: userId=%d, batchId=%d", userID, batchID)
		return models.RealtimeResult{AnalysisCompleted: false, ErrorMessage: "no valid frames to analyze"}
	}

	req := &pb.FrameBatch{
		UserId:    userID,
		BatchId:   batchID,
		Timestamp: timestamp,
		Frames:    valid,
	}

	var resp *pb.RealtimeAnalysisResponse
	err := callWithRetry(ctx, c.policy, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		var err error
		resp, err = c.client.AnalyzeFrames(callCtx, req)
		return err
	})
	if err != nil {
		log.Printf("AnalyzeFrames failed for userId=%d, batchId=%d: %v", userID, batchID, err)
		return models.RealtimeResult{
			AnalysisCompleted: false,
			ErrorMessage:      fmt.Sprintf("gRPC call failed: %v", err),
		}
	}

	return models.RealtimeResult{
		DrowsinessDetected: resp.DrowsinessDetected,
		PhoneUsageDetected: resp.PhoneUsageDetected,
		SmokingDetected:    resp.SmokingDetected,
		AnalysisCompleted:  resp.AnalysisCompleted,
		ErrorMessage:       resp.ErrorMessage,
	}
}

// EndSession requests the authoritative whole-session statistics.
func (c *AnalysisClient) EndSession(ctx context.Context, userID, sessionID, startTimestamp, endTimestamp int64) models.FinalResult {
	if startTimestamp == 0 {
		startTimestamp = time.Now().Add(-time.Hour).UnixMilli()
	}
	if endTimestamp == 0 {
		endTimestamp = time.Now().UnixMilli()
	}

	req := &pb.DrivingSessionEnd{
		UserId:         userID,
		SessionId:      sessionID,
		StartTimestamp: startTimestamp,
		EndTimestamp:   endTimestamp,
	}

	var resp *pb.FinalAnalysisResponse
	err := callWithRetry(ctx, c.policy, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		var err error
		resp, err = c.client.EndDrivingSession(callCtx, req)
		return err
	})
	if err != nil {
		log.Printf("EndDrivingSession failed for userId=%d, sessionId=%d: %v", userID, sessionID, err)
		return models.FinalResult{
			AnalysisCompleted: false,
			ErrorMessage:      fmt.Sprintf("gRPC call failed: %v", err),
		}
	}

	return models.FinalResult{
		DrowsinessCount:   int(resp.DrowsinessCount),
		PhoneUsageCount:   int(resp.PhoneUsageCount),
		SmokingCount:      int(resp.SmokingCount),
		AnalysisCompleted: resp.AnalysisCompleted,
		ErrorMessage:      resp.ErrorMessage,
	}
}

func (c *AnalysisClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
