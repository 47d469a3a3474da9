// Package alerts fans risk-behavior events out to subscribed users, one
// push channel per user, with keep-alive probing and idle eviction.
package alerts

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"DRIVING_ANALYSIS/go-backend/internal/models"
)

// Conn is one push channel to a subscriber. Send must fail fast rather
// than block indefinitely; Close must tolerate being called twice.
type Conn interface {
	Send(event string, data interface{}) error
	Close() error
}

type connection struct {
	id           string
	conn         Conn
	createdAt    time.Time
	lastActivity time.Time
}

// Hub owns the per-user connection map exclusively. The mutex guards
// only the map and the activity timestamps; network sends always happen
// outside it, so one stalled subscriber cannot hold up delivery,
// subscribes or teardown for any other user. Send failures are handled
// here by tearing the channel down; they never reach the producer of an
// event.
type Hub struct {
	mu    sync.Mutex
	conns map[int64]*connection

	pingInterval  time.Duration
	sweepInterval time.Duration
	idleTimeout   time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewHub(pingInterval, sweepInterval, idleTimeout time.Duration) *Hub {
	return &Hub{
		conns:         make(map[int64]*connection),
		pingInterval:  pingInterval,
		sweepInterval: sweepInterval,
		idleTimeout:   idleTimeout,
		stop:          make(chan struct{}),
	}
}

// Start launches the keep-alive and idle-eviction loops.
func (h *Hub) Start() {
	h.wg.Add(2)
	go h.keepAliveLoop()
	go h.sweepLoop()
	log.Printf("Alert hub started: ping interval=%v, sweep interval=%v, idle timeout=%v",
		h.pingInterval, h.sweepInterval, h.idleTimeout)
}

// lookup returns the registered channel for userID, if any.
func (h *Hub) lookup(userID int64) (*connection, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.conns[userID]
	return c, ok
}

// touch refreshes the activity timestamp if the given connection is
// still the registered one. Reports whether it was.
func (h *Hub) touch(userID int64, connID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.conns[userID]
	if !ok || c.id != connID {
		return false
	}
	c.lastActivity = time.Now()
	return true
}

// retire removes and closes the channel for userID if it still carries
// the given connection id. The id check keeps a stale prober or sweeper
// from tearing down a replacement registered after it picked its victim.
func (h *Hub) retire(userID int64, connID string) {
	h.mu.Lock()
	c, ok := h.conns[userID]
	if !ok || c.id != connID {
		h.mu.Unlock()
		return
	}
	delete(h.conns, userID)
	h.mu.Unlock()
	c.conn.Close()
}

// Subscribe registers conn as the push channel for userID. If the user
// already has a channel that still answers a probe, that one stays
// authoritative and conn is closed (reused=true). A stale channel is
// retired first. The new channel is registered only after its connect
// acknowledgement goes through; if that first send fails the channel is
// closed and never registered. A subscribe that loses a registration
// race also comes back reused=true with conn closed.
func (h *Hub) Subscribe(userID int64, conn Conn) (reused bool, err error) {
	if existing, ok := h.lookup(userID); ok {
		probeErr := existing.conn.Send("ping", map[string]interface{}{
			"timestamp": time.Now().UnixMilli(),
			"message":   "Connection check",
		})
		if probeErr == nil && h.touch(userID, existing.id) {
			log.Printf("Reusing existing alert connection for userId: %d", userID)
			conn.Close()
			return true, nil
		}
		if probeErr != nil {
			log.Printf("Existing alert connection for userId: %d is stale, replacing", userID)
			h.retire(userID, existing.id)
		}
	}

	now := time.Now()
	c := &connection{
		id:           uuid.NewString(),
		conn:         conn,
		createdAt:    now,
		lastActivity: now,
	}

	if err := conn.Send("connect", map[string]interface{}{
		"message":      "Connected successfully",
		"timestamp":    now.UnixMilli(),
		"connectionId": c.id,
	}); err != nil {
		log.Printf("Error sending connect event to userId: %d: %v", userID, err)
		conn.Close()
		return false, err
	}

	h.mu.Lock()
	if _, ok := h.conns[userID]; ok {
		h.mu.Unlock()
		log.Printf("Lost subscribe race for userId: %d, keeping existing connection", userID)
		conn.Close()
		return true, nil
	}
	h.conns[userID] = c
	h.mu.Unlock()

	log.Printf("Alert connection established for userId: %d", userID)
	return false, nil
}

// Publish delivers a risk event to the user's channel. Without a channel
// the event is dropped; a failed send retires the channel. Either way
// the caller never sees an error.
func (h *Hub) Publish(event models.RiskEvent) {
	c, ok := h.lookup(event.UserID)
	if !ok {
		log.Printf("No active alert connection for userId: %d, dropping %s event", event.UserID, event.Kind)
		return
	}

	if err := c.conn.Send(string(event.Kind), event); err != nil {
		log.Printf("Error sending %s alert to userId: %d, batchId: %d: %v",
			event.Kind, event.UserID, event.BatchID, err)
		h.retire(event.UserID, c.id)
		return
	}

	h.touch(event.UserID, c.id)
	log.Printf("%s alert sent to userId: %d, batchId: %d", event.Kind, event.UserID, event.BatchID)
}

// Unsubscribe sends a best-effort close notice and retires the user's
// channel. Calling it for an absent user is a no-op.
func (h *Hub) Unsubscribe(userID int64) {
	h.mu.Lock()
	c, ok := h.conns[userID]
	if ok {
		delete(h.conns, userID)
	}
	h.mu.Unlock()
	if !ok {
		return
	}

	c.conn.Send("close", map[string]interface{}{
		"message":   "Connection closed by server",
		"timestamp": time.Now().UnixMilli(),
	})
	c.conn.Close()
	log.Printf("Removed alert connection for userId: %d", userID)
}

// Count reports the number of registered channels.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Shutdown stops the background loops and closes every channel.
func (h *Hub) Shutdown() {
	h.stopOnce.Do(func() { close(h.stop) })
	h.wg.Wait()

	h.mu.Lock()
	remaining := make([]*connection, 0, len(h.conns))
	for userID, c := range h.conns {
		remaining = append(remaining, c)
		delete(h.conns, userID)
	}
	h.mu.Unlock()

	for _, c := range remaining {
		c.conn.Close()
	}
	log.Println("Alert hub shut down")
}

func (h *Hub) keepAliveLoop() {
	defer h.wg.Done()
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
			h.pingAll()
		}
	}
}

func (h *Hub) pingAll() {
	h.mu.Lock()
	targets := make(map[int64]*connection, len(h.conns))
	for userID, c := range h.conns {
		targets[userID] = c
	}
	h.mu.Unlock()

	failed := 0
	for userID, c := range targets {
		err := c.conn.Send("ping", map[string]interface{}{"timestamp": time.Now().UnixMilli()})
		if err != nil {
			log.Printf("Failed to send ping to userId: %d, removing connection: %v", userID, err)
			h.retire(userID, c.id)
			failed++
			continue
		}
		h.touch(userID, c.id)
	}
	if failed > 0 {
		log.Printf("Cleaned up %d connections during ping", failed)
	}
}

func (h *Hub) sweepLoop() {
	defer h.wg.Done()
	ticker := time.NewTicker(h.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
			h.sweepIdle()
		}
	}
}

type idleEntry struct {
	userID       int64
	connID       string
	conn         Conn
	lastActivity time.Time
}

func (h *Hub) sweepIdle() {
	now := time.Now()

	h.mu.Lock()
	var idle []idleEntry
	for userID, c := range h.conns {
		if now.Sub(c.lastActivity) > h.idleTimeout {
			idle = append(idle, idleEntry{
				userID:       userID,
				connID:       c.id,
				conn:         c.conn,
				lastActivity: c.lastActivity,
			})
		}
	}
	h.mu.Unlock()

	for _, e := range idle {
		log.Printf("Connection idle timeout for userId: %d, last activity: %v", e.userID, e.lastActivity)
		e.conn.Send("timeout", map[string]interface{}{
			"message":   "Connection closed due to inactivity",
			"timestamp": now.UnixMilli(),
		})
		h.retire(e.userID, e.connID)
	}
	if len(idle) > 0 {
		log.Printf("Cleaned up %d stale connections", len(idle))
	}
}
