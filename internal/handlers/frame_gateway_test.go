package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DRIVING_ANALYSIS/go-backend/internal/models"
	"DRIVING_ANALYSIS/go-backend/internal/protocol"
	"DRIVING_ANALYSIS/go-backend/internal/services"
	"DRIVING_ANALYSIS/go-backend/internal/session"
)

type stubAnalyzer struct{}

func (stubAnalyzer) AnalyzeBatch(ctx context.Context, userID int64, batchID int32, timestamp int64, frames []models.Frame) models.RealtimeResult {
	return models.RealtimeResult{AnalysisCompleted: true}
}

func (stubAnalyzer) EndSession(ctx context.Context, userID, sessionID, startTimestamp, endTimestamp int64) models.FinalResult {
	return models.FinalResult{AnalysisCompleted: true, DrowsinessCount: 1}
}

type recordingAlertSink struct {
	mu           sync.Mutex
	unsubscribed []int64
}

func (r *recordingAlertSink) Publish(models.RiskEvent) {}

func (r *recordingAlertSink) Unsubscribe(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsubscribed = append(r.unsubscribed, userID)
}

func (r *recordingAlertSink) users() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int64, len(r.unsubscribed))
	copy(out, r.unsubscribed)
	return out
}

type stubUserSource struct{}

func (stubUserSource) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	return &models.User{UserID: userID, Username: "driver"}, nil
}

type stubVideoCreator struct{}

func (stubVideoCreator) Create(ctx context.Context, userID int64, fileName string, duration int) (*models.DrivingVideo, error) {
	return &models.DrivingVideo{VideoID: 1, UserID: userID, FileName: fileName, Duration: duration}, nil
}

type stubResultWriter struct{}

func (stubResultWriter) Create(ctx context.Context, r *models.AnalysisResult) error { return nil }

type stubScoreUpdater struct{}

func (stubScoreUpdater) UpdateUserScore(ctx context.Context, userID int64, result *models.AnalysisResult) error {
	return nil
}

type stubFeedbackGenerator struct{}

func (stubFeedbackGenerator) GenerateDrivingFeedback(ctx context.Context, result *models.AnalysisResult) (*models.Feedback, error) {
	return &models.Feedback{UserID: result.UserID}, nil
}

type stubProgressUpdater struct{}

func (stubProgressUpdater) UpdateFrom(ctx context.Context, result *models.AnalysisResult) error {
	return nil
}

type gatewayFixture struct {
	tracker *session.Tracker
	sink    *recordingAlertSink
	server  *httptest.Server
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()

	f := &gatewayFixture{
		tracker: session.NewTracker(),
		sink:    &recordingAlertSink{},
	}
	svc := services.NewVideoService(
		stubAnalyzer{}, f.sink, f.tracker, stubUserSource{}, stubVideoCreator{},
		stubResultWriter{}, stubScoreUpdater{}, stubFeedbackGenerator{},
		stubProgressUpdater{}, services.NewMetrics(),
	)
	gateway := NewFrameGateway(svc, services.NewMetrics(), 30*1024*1024)

	f.server = httptest.NewServer(http.HandlerFunc(gateway.HandleFrames))
	t.Cleanup(f.server.Close)
	return f
}

func (f *gatewayFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func sendBatch(t *testing.T, conn *websocket.Conn, userID int64, batchID int32) {
	t.Helper()
	payload, err := protocol.Encode(&models.FrameBatch{
		UserID:    userID,
		BatchID:   batchID,
		Timestamp: 1700000000000 + int64(batchID)*1000,
		Frames:    []models.Frame{{FrameID: 0, Data: []byte{0x01, 0x02}}},
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, payload))
}

func readJSON(t *testing.T, conn *websocket.Conn, v interface{}) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, v))
}

func TestGatewayAcksBatches(t *testing.T) {
	f := newGatewayFixture(t)
	conn := f.dial(t)
	defer conn.Close()

	sendBatch(t, conn, 42, 0)

	var ack models.FrameProcessedResponse
	readJSON(t, conn, &ack)
	assert.Equal(t, int64(42), ack.UserID)
	assert.Equal(t, int32(0), ack.BatchID)
	assert.True(t, ack.Processed)
	assert.True(t, f.tracker.Active(42))
}

func TestGatewayMalformedBatchKeepsConnectionOpen(t *testing.T) {
	f := newGatewayFixture(t)
	conn := f.dial(t)
	defer conn.Close()

	// Length prefix claims more metadata bytes than follow.
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x00, 0x00, 0x00, 0x50, 'x'}))

	var errResp models.ErrorResponse
	readJSON(t, conn, &errResp)
	assert.Equal(t, "error", errResp.Status)
	assert.NotEmpty(t, errResp.Message)

	// The same connection still accepts a well-formed batch.
	sendBatch(t, conn, 7, 0)

	var ack models.FrameProcessedResponse
	readJSON(t, conn, &ack)
	assert.True(t, ack.Processed)
	assert.Equal(t, int64(7), ack.UserID)
}

func TestGatewayUnrecognizedControlMessage(t *testing.T) {
	f := newGatewayFixture(t)
	conn := f.dial(t)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"SOMETHING_ELSE"}`)))

	var errResp models.ErrorResponse
	readJSON(t, conn, &errResp)
	assert.Equal(t, "error", errResp.Status)

	sendBatch(t, conn, 5, 0)
	var ack models.FrameProcessedResponse
	readJSON(t, conn, &ack)
	assert.True(t, ack.Processed)
}

func TestGatewayAbruptDisconnectCleansUp(t *testing.T) {
	f := newGatewayFixture(t)
	conn := f.dial(t)

	sendBatch(t, conn, 7, 0)
	var ack models.FrameProcessedResponse
	readJSON(t, conn, &ack)
	require.True(t, f.tracker.Active(7))

	// Drop the socket without END_SESSION.
	conn.Close()

	require.Eventually(t, func() bool {
		return !f.tracker.Active(7) && len(f.sink.users()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []int64{7}, f.sink.users())
}

func TestGatewayEndSessionFlow(t *testing.T) {
	f := newGatewayFixture(t)
	conn := f.dial(t)

	sendBatch(t, conn, 9, 0)
	var ack models.FrameProcessedResponse
	readJSON(t, conn, &ack)

	end, err := json.Marshal(models.SessionEndRequest{
		Type:         "END_SESSION",
		UserID:       9,
		SessionID:    3,
		EndTimestamp: time.Now().UnixMilli(),
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, end))

	var resp models.SessionEndResponse
	readJSON(t, conn, &resp)
	assert.True(t, resp.Saved)
	assert.Equal(t, int64(9), resp.UserID)
	assert.Equal(t, int64(3), resp.SessionID)
	assert.Equal(t, 1, resp.DrowsinessCount)
	assert.False(t, f.tracker.Active(9))
	assert.Equal(t, []int64{9}, f.sink.users())

	// An explicit session end means no second cleanup when the socket
	// closes afterwards.
	conn.Close()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []int64{9}, f.sink.users())
}
