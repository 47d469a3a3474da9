package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"DRIVING_ANALYSIS/go-backend/internal/models"
	"DRIVING_ANALYSIS/go-backend/internal/protocol"
	"DRIVING_ANALYSIS/go-backend/internal/services"
)

const writeWait = 10 * time.Second

// FrameGateway terminates the frame ingestion WebSocket. Binary
// messages carry length-prefixed frame batches; text messages carry
// the END_SESSION control request.
type FrameGateway struct {
	video           *services.VideoService
	metrics         *services.Metrics
	maxMessageBytes int64
	upgrader        websocket.Upgrader
}

func NewFrameGateway(video *services.VideoService, metrics *services.Metrics, maxMessageBytes int64) *FrameGateway {
	return &FrameGateway{
		video:           video,
		metrics:         metrics,
		maxMessageBytes: maxMessageBytes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleFrames upgrades the connection and runs the read loop until the
// client goes away. One connection serves one driving session.
func (g *FrameGateway) HandleFrames(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Frame socket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(g.maxMessageBytes)
	g.metrics.IncrementWebSocketConnections()
	defer g.metrics.DecrementWebSocketConnections()

	log.Printf("Frame socket connected: %s", r.RemoteAddr)

	// userID observed on this connection, for cleanup when the client
	// disconnects without an explicit END_SESSION.
	var sessionUserID int64
	sessionEnded := false

	defer func() {
		if sessionUserID > 0 && !sessionEnded {
			log.Printf("Frame socket closed without session end, cleaning up user %d", sessionUserID)
			g.video.CleanupOnDisconnect(sessionUserID)
		}
		log.Printf("Frame socket disconnected: %s", r.RemoteAddr)
	}()

	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Frame socket error: %v", err)
			}
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			if userID := g.handleBatch(r.Context(), conn, payload); userID > 0 {
				sessionUserID = userID
				sessionEnded = false
			}

		case websocket.TextMessage:
			if g.handleControl(r.Context(), conn, payload) {
				sessionEnded = true
			}

		default:
			g.writeError(conn, "unsupported message type")
		}
	}
}

// handleBatch decodes and dispatches one binary batch. Malformed
// payloads get an error reply but keep the connection open. Returns the
// batch's user id, or 0 when the batch was rejected.
func (g *FrameGateway) handleBatch(ctx context.Context, conn *websocket.Conn, payload []byte) int64 {
	batch, err := protocol.Decode(payload)
	if err != nil {
		log.Printf("Frame batch decode failed: %v", err)
		g.metrics.IncrementErrors()
		g.writeError(conn, "malformed frame batch: "+err.Error())
		return 0
	}

	resp, err := g.video.ProcessFrameBatch(ctx, batch)
	if err != nil {
		log.Printf("Frame batch rejected: %v", err)
		g.writeError(conn, err.Error())
		return 0
	}

	g.writeJSON(conn, resp)
	return batch.UserID
}

// handleControl processes a text message. Only END_SESSION is
// recognized; it reports whether the session was ended.
func (g *FrameGateway) handleControl(ctx context.Context, conn *websocket.Conn, payload []byte) bool {
	var req models.SessionEndRequest
	if err := json.Unmarshal(payload, &req); err != nil || !strings.EqualFold(req.Type, "END_SESSION") {
		g.writeError(conn, "unrecognized control message")
		return false
	}

	resp, err := g.video.EndDrivingSession(ctx, &req)
	if err != nil {
		log.Printf("Session end failed for user %d: %v", req.UserID, err)
		g.writeError(conn, "failed to finalize session")
		return false
	}

	g.writeJSON(conn, resp)
	log.Printf("Session %d ended for user %d, score %d", req.SessionID, req.UserID, resp.DrivingScore)
	return true
}

func (g *FrameGateway) writeJSON(conn *websocket.Conn, v interface{}) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(v); err != nil {
		log.Printf("Frame socket write failed: %v", err)
	}
}

func (g *FrameGateway) writeError(conn *websocket.Conn, message string) {
	g.writeJSON(conn, models.ErrorResponse{Status: "error", Message: message})
}
