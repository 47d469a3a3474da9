package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"DRIVING_ANALYSIS/go-backend/internal/alerts"
)

// AlertHandler upgrades alert subscriptions and registers them with the
// hub. The hub owns the connection from then on; reads from the client
// are discarded.
type AlertHandler struct {
	hub      *alerts.Hub
	upgrader websocket.Upgrader
}

func NewAlertHandler(hub *alerts.Hub) *AlertHandler {
	return &AlertHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *AlertHandler) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil || userID <= 0 {
		http.Error(w, "userId query parameter is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Alert socket upgrade failed: %v", err)
		return
	}

	reused, err := h.hub.Subscribe(userID, alerts.NewWSConn(conn))
	if err != nil {
		log.Printf("Alert subscribe failed for user %d: %v", userID, err)
		conn.Close()
		return
	}
	if reused {
		log.Printf("Alert channel already open for user %d, kept existing connection", userID)
		return
	}
	log.Printf("Alert channel opened for user %d", userID)

	// Drain the client side so close frames and pongs are processed.
	// Teardown is left to the hub: the next push or keepalive ping to a
	// dead socket fails and removes the registration, so a reconnect
	// that raced in is never torn down by the old socket's reader.
	go func() {
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
