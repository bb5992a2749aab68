package ws

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/hupe1980/bcikit/core"
)

// ResponseInlet is a ResponseChannel reading inbound token frames from a
// websocket. Each text frame is split on commas into a token batch; frames
// arriving while polling is off are dropped. The reader goroutine only ever
// touches the pending queue, so Pending remains a cheap drain on the
// scheduler thread.
type ResponseInlet struct {
	url string

	mu      sync.Mutex
	conn    *websocket.Conn
	polling bool
	pending []string
	readErr error
}

var _ core.ResponseChannel = (*ResponseInlet)(nil)

// NewResponseInlet constructs an inlet for the given endpoint. The
// connection is established by Connect.
func NewResponseInlet(url string) *ResponseInlet {
	return &ResponseInlet{url: url}
}

// Connect dials the endpoint and starts the background reader.
func (r *ResponseInlet) Connect() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn != nil {
		return nil
	}
	conn, _, err := websocket.DefaultDialer.Dial(r.url, nil)
	if err != nil {
		return fmt.Errorf("dial response inlet: %w", err)
	}
	r.conn = conn
	r.readErr = nil
	go r.readLoop(conn)
	return nil
}

// Disconnect closes the connection; the reader goroutine exits on the read
// error that follows. Pending tokens are discarded.
func (r *ResponseInlet) Disconnect() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	r.polling = false
	r.pending = nil
	return err
}

// Connected reports whether the inlet holds an established connection.
func (r *ResponseInlet) Connected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn != nil
}

// StartPolling begins buffering inbound tokens.
func (r *ResponseInlet) StartPolling() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return fmt.Errorf("response inlet is not connected")
	}
	r.polling = true
	return nil
}

// StopPolling stops buffering inbound tokens.
func (r *ResponseInlet) StopPolling() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.polling = false
}

// Polling reports whether the inlet is buffering tokens.
func (r *ResponseInlet) Polling() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.polling
}

// Pending drains the buffered tokens in delivery order.
func (r *ResponseInlet) Pending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.pending
	r.pending = nil
	return out
}

// ReadErr returns the error that terminated the reader, if any.
func (r *ResponseInlet) ReadErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readErr
}

func (r *ResponseInlet) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			r.mu.Lock()
			if r.conn == conn {
				r.readErr = err
				r.conn = nil
				r.polling = false
			}
			r.mu.Unlock()
			return
		}
		tokens := strings.Split(string(data), ",")
		r.mu.Lock()
		if r.polling && r.conn == conn {
			r.pending = append(r.pending, tokens...)
		}
		r.mu.Unlock()
	}
}
