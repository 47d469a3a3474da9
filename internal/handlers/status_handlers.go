package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"DRIVING_ANALYSIS/go-backend/internal/alerts"
	"DRIVING_ANALYSIS/go-backend/internal/services"
)

// StatusHandler serves the health and metrics endpoints.
type StatusHandler struct {
	metrics   *services.Metrics
	hub       *alerts.Hub
	pool      *pgxpool.Pool
	startedAt time.Time
}

func NewStatusHandler(metrics *services.Metrics, hub *alerts.Hub, pool *pgxpool.Pool) *StatusHandler {
	return &StatusHandler{
		metrics:   metrics,
		hub:       hub,
		pool:      pool,
		startedAt: time.Now(),
	}
}

func (h *StatusHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": "Method not allowed"})
		return
	}

	dbStatus := "up"
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.pool.Ping(ctx); err != nil {
		dbStatus = "down"
	}

	status := "healthy"
	code := http.StatusOK
	if dbStatus == "down" {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":            status,
		"database":          dbStatus,
		"frame_connections": h.metrics.GetWebSocketConnections(),
		"alert_connections": h.hub.Count(),
		"uptime_sec":        int(time.Since(h.startedAt).Seconds()),
		"timestamp":         time.Now().Format(time.RFC3339),
	})
}

func (h *StatusHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": "Method not allowed"})
		return
	}

	if claims, ok := ClaimsFromContext(r.Context()); ok {
		log.Printf("Metrics requested by %s (userId: %d)", claims.Subject, claims.UserID)
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"total_batches":     h.metrics.GetTotalBatches(),
		"total_frames":      h.metrics.GetTotalFrames(),
		"total_errors":      h.metrics.GetTotalErrors(),
		"alerts_sent":       h.metrics.GetAlertsSent(),
		"sessions_ended":    h.metrics.GetSessionsEnded(),
		"frame_connections": h.metrics.GetWebSocketConnections(),
		"alert_connections": h.hub.Count(),
		"avg_latency_ms":    h.metrics.GetAvgLatency(),
		"last_batch_time":   h.metrics.GetLastBatchTime(),
		"timestamp":         time.Now().Format(time.RFC3339),
	})
}
