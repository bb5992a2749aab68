package ws

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hupe1980/bcikit/core"
)

// DefaultWriteTimeout bounds a single marker write.
const DefaultWriteTimeout = 5 * time.Second

// MarkerOutlet is a MarkerChannel writing each marker as one websocket text
// frame. Writes are serialized; a failed write surfaces the transport error
// to the caller, which treats markers as fire-and-forget and only logs it.
type MarkerOutlet struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	writeTimeout time.Duration
}

var _ core.MarkerChannel = (*MarkerOutlet)(nil)

// DialMarkerOutlet connects to the marker endpoint.
func DialMarkerOutlet(url string) (*MarkerOutlet, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial marker outlet: %w", err)
	}
	return NewMarkerOutlet(conn), nil
}

// NewMarkerOutlet wraps an established connection (server-side accepts,
// tests with httptest upgrades).
func NewMarkerOutlet(conn *websocket.Conn) *MarkerOutlet {
	return &MarkerOutlet{conn: conn, writeTimeout: DefaultWriteTimeout}
}

// Write sends one marker frame.
func (m *MarkerOutlet) Write(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return fmt.Errorf("marker outlet is closed")
	}
	if err := m.conn.SetWriteDeadline(time.Now().Add(m.writeTimeout)); err != nil {
		return fmt.Errorf("write marker: %w", err)
	}
	if err := m.conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return fmt.Errorf("write marker: %w", err)
	}
	return nil
}

// Close shuts the connection down.
func (m *MarkerOutlet) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}
