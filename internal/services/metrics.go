package services

import (
	"sync/atomic"
	"time"
)

// Metrics holds the process counters exposed on /api/metrics.
type Metrics struct {
	totalBatches  atomic.Int64
	totalFrames   atomic.Int64
	totalErrors   atomic.Int64
	totalLatency  atomic.Int64
	alertsSent    atomic.Int64
	sessionsEnded atomic.Int64
	lastBatchTime atomic.Int64
	wsConnections atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) IncrementBatches(frames int) {
	m.totalBatches.Add(1)
	m.totalFrames.Add(int64(frames))
	m.lastBatchTime.Store(time.Now().Unix())
}

func (m *Metrics) IncrementErrors() {
	m.totalErrors.Add(1)
}

func (m *Metrics) IncrementAlerts() {
	m.alertsSent.Add(1)
}

func (m *Metrics) IncrementSessionsEnded() {
	m.sessionsEnded.Add(1)
}

func (m *Metrics) RecordLatency(duration time.Duration) {
	m.totalLatency.Add(duration.Milliseconds())
}

func (m *Metrics) IncrementWebSocketConnections() {
	m.wsConnections.Add(1)
}

func (m *Metrics) DecrementWebSocketConnections() {
	m.wsConnections.Add(-1)
}

func (m *Metrics) GetTotalBatches() int64 { return m.totalBatches.Load() }
func (m *Metrics) GetTotalFrames() int64  { return m.totalFrames.Load() }
func (m *Metrics) GetTotalErrors() int64  { return m.totalErrors.Load() }
func (m *Metrics) GetAlertsSent() int64   { return m.alertsSent.Load() }

func (m *Metrics) GetSessionsEnded() int64 { return m.sessionsEnded.Load() }

func (m *Metrics) GetWebSocketConnections() int64 { return m.wsConnections.Load() }

func (m *Metrics) GetLastBatchTime() int64 { return m.lastBatchTime.Load() }

// GetAvgLatency is the mean per-batch analysis latency in milliseconds.
func (m *Metrics) GetAvgLatency() float64 {
	batches := m.totalBatches.Load()
	if batches == 0 {
		return 0
	}
	return float64(m.totalLatency.Load()) / float64(batches)
}
