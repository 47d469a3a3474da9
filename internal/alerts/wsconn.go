package alerts

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// Event is the JSON envelope pushed to alert subscribers.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// WSConn adapts a gorilla websocket connection to the hub's Conn. Writes
// are serialized and bounded by a deadline so a dead peer fails the send
// instead of blocking the hub.
type WSConn struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func NewWSConn(conn *websocket.Conn) *WSConn {
	return &WSConn{conn: conn}
}

func (w *WSConn) Send(event string, data interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return w.conn.WriteJSON(Event{Event: event, Data: data})
}

func (w *WSConn) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	w.conn.SetWriteDeadline(time.Now().Add(time.Second))
	w.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return w.conn.Close()
}
