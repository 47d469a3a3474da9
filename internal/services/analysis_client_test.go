package services

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"DRIVING_ANALYSIS/go-backend/internal/models"
	"DRIVING_ANALYSIS/go-backend/pkg/pb"
)

// fakeAnalysisServer scripts the responses of the remote vision service.
type fakeAnalysisServer struct {
	analyzeCalls atomic.Int32
	endCalls     atomic.Int32

	analyze func(call int32, in *pb.FrameBatch) (*pb.RealtimeAnalysisResponse, error)
	end     func(call int32, in *pb.DrivingSessionEnd) (*pb.FinalAnalysisResponse, error)
}

func (f *fakeAnalysisServer) AnalyzeFrames(ctx context.Context, in *pb.FrameBatch) (*pb.RealtimeAnalysisResponse, error) {
	call := f.analyzeCalls.Add(1)
	return f.analyze(call, in)
}

func (f *fakeAnalysisServer) EndDrivingSession(ctx context.Context, in *pb.DrivingSessionEnd) (*pb.FinalAnalysisResponse, error) {
	call := f.endCalls.Add(1)
	return f.end(call, in)
}

func newBufconnClient(t *testing.T, srv pb.VideoAnalysisServiceServer, maxRetries int) *AnalysisClient {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	server := grpc.NewServer()
	pb.RegisterVideoAnalysisServiceServer(server, srv)
	go server.Serve(lis)
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewAnalysisClientForConn(conn, 2*time.Second, maxRetries, time.Millisecond)
}

func someFrames() []models.Frame {
	return []models.Frame{
		{FrameID: 0, Data: []byte{0x01, 0x02}},
		{FrameID: 1, Data: []byte{0x03}},
	}
}

func TestAnalyzeBatchSuccess(t *testing.T) {
	srv := &fakeAnalysisServer{
		analyze: func(_ int32, in *pb.FrameBatch) (*pb.RealtimeAnalysisResponse, error) {
			assert.Equal(t, int64(42), in.UserId)
			assert.Equal(t, int32(3), in.BatchId)
			assert.Len(t, in.Frames, 2)
			return &pb.RealtimeAnalysisResponse{
				DrowsinessDetected: true,
				AnalysisCompleted:  true,
			}, nil
		},
	}
	client := newBufconnClient(t, srv, 3)

	result := client.AnalyzeBatch(context.Background(), 42, 3, 1700000000000, someFrames())

	assert.True(t, result.AnalysisCompleted)
	assert.True(t, result.DrowsinessDetected)
	assert.False(t, result.PhoneUsageDetected)
	assert.Empty(t, result.ErrorMessage)
	assert.Equal(t, int32(1), srv.analyzeCalls.Load())
}

func TestAnalyzeBatchRetriesTransientFailures(t *testing.T) {
	srv := &fakeAnalysisServer{
		analyze: func(call int32, _ *pb.FrameBatch) (*pb.RealtimeAnalysisResponse, error) {
			if call < 3 {
				return nil, status.Error(codes.Unavailable, "backend restarting")
			}
			return &pb.RealtimeAnalysisResponse{AnalysisCompleted: true}, nil
		},
	}
	client := newBufconnClient(t, srv, 3)

	result := client.AnalyzeBatch(context.Background(), 1, 0, 1, someFrames())

	assert.True(t, result.AnalysisCompleted)
	assert.Equal(t, int32(3), srv.analyzeCalls.Load())
}

func TestAnalyzeBatchExhaustsRetries(t *testing.T) {
	srv := &fakeAnalysisServer{
		analyze: func(_ int32, _ *pb.FrameBatch) (*pb.RealtimeAnalysisResponse, error) {
			return nil, status.Error(codes.Unavailable, "backend down")
		},
	}
	client := newBufconnClient(t, srv, 3)

	result := client.AnalyzeBatch(context.Background(), 1, 0, 1, someFrames())

	assert.False(t, result.AnalysisCompleted)
	assert.Contains(t, result.ErrorMessage, "gRPC call failed")
	assert.Equal(t, int32(3), srv.analyzeCalls.Load())
}

func TestAnalyzeBatchDoesNotRetryNonTransientErrors(t *testing.T) {
	srv := &fakeAnalysisServer{
		analyze: func(_ int32, _ *pb.FrameBatch) (*pb.RealtimeAnalysisResponse, error) {
			return nil, status.Error(codes.InvalidArgument, "bad frame encoding")
		},
	}
	client := newBufconnClient(t, srv, 3)

	result := client.AnalyzeBatch(context.Background(), 1, 0, 1, someFrames())

	assert.False(t, result.AnalysisCompleted)
	assert.Equal(t, int32(1), srv.analyzeCalls.Load())
}

func TestAnalyzeBatchSkipsEmptyFrames(t *testing.T) {
	srv := &fakeAnalysisServer{
		analyze: func(_ int32, in *pb.FrameBatch) (*pb.RealtimeAnalysisResponse, error) {
			assert.Len(t, in.Frames, 1)
			return &pb.RealtimeAnalysisResponse{AnalysisCompleted: true}, nil
		},
	}
	client := newBufconnClient(t, srv, 3)

	frames := []models.Frame{
		{FrameID: 0, Data: nil},
		{FrameID: 1, Data: []byte{0x01}},
		{FrameID: 2, Data: []byte{}},
	}
	result := client.AnalyzeBatch(context.Background(), 1, 0, 1, frames)
	assert.True(t, result.AnalysisCompleted)
}

func TestAnalyzeBatchAllFramesEmptyShortCircuits(t *testing.T) {
	srv := &fakeAnalysisServer{
		analyze: func(_ int32, _ *pb.FrameBatch) (*pb.RealtimeAnalysisResponse, error) {
			t.Error("no RPC expected for an empty batch")
			return nil, status.Error(codes.Internal, "unexpected call")
		},
	}
	client := newBufconnClient(t, srv, 3)

	result := client.AnalyzeBatch(context.Background(), 1, 0, 1, []models.Frame{{FrameID: 0}})

	assert.False(t, result.AnalysisCompleted)
	assert.Equal(t, "no valid frames to analyze", result.ErrorMessage)
	assert.Zero(t, srv.analyzeCalls.Load())
}

func TestEndSessionSuccess(t *testing.T) {
	srv := &fakeAnalysisServer{
		end: func(_ int32, in *pb.DrivingSessionEnd) (*pb.FinalAnalysisResponse, error) {
			assert.Equal(t, int64(42), in.UserId)
			assert.Equal(t, int64(7), in.SessionId)
			assert.Equal(t, int64(1000), in.StartTimestamp)
			assert.Equal(t, int64(5000), in.EndTimestamp)
			return &pb.FinalAnalysisResponse{
				DrowsinessCount:   2,
				PhoneUsageCount:   1,
				SmokingCount:      0,
				AnalysisCompleted: true,
			}, nil
		},
	}
	client := newBufconnClient(t, srv, 3)

	result := client.EndSession(context.Background(), 42, 7, 1000, 5000)

	assert.True(t, result.AnalysisCompleted)
	assert.Equal(t, 2, result.DrowsinessCount)
	assert.Equal(t, 1, result.PhoneUsageCount)
	assert.Zero(t, result.SmokingCount)
}

func TestEndSessionDefaultsZeroTimestamps(t *testing.T) {
	srv := &fakeAnalysisServer{
		end: func(_ int32, in *pb.DrivingSessionEnd) (*pb.FinalAnalysisResponse, error) {
			assert.Positive(t, in.StartTimestamp)
			assert.Positive(t, in.EndTimestamp)
			assert.Less(t, in.StartTimestamp, in.EndTimestamp)
			return &pb.FinalAnalysisResponse{AnalysisCompleted: true}, nil
		},
	}
	client := newBufconnClient(t, srv, 3)

	result := client.EndSession(context.Background(), 1, 1, 0, 0)
	assert.True(t, result.AnalysisCompleted)
}

func TestEndSessionFailureReturnsValue(t *testing.T) {
	srv := &fakeAnalysisServer{
		end: func(_ int32, _ *pb.DrivingSessionEnd) (*pb.FinalAnalysisResponse, error) {
			return nil, status.Error(codes.Unavailable, "backend down")
		},
	}
	client := newBufconnClient(t, srv, 2)

	result := client.EndSession(context.Background(), 1, 1, 1000, 2000)

	assert.False(t, result.AnalysisCompleted)
	assert.Contains(t, result.ErrorMessage, "gRPC call failed")
	assert.Equal(t, int32(2), srv.endCalls.Load())
}
