package inmem

import (
	"sync"

	"github.com/hupe1980/bcikit/core"
)

// ResponseFeed is an in-memory ResponseChannel. Drivers push token batches
// from any goroutine; the session's receive loop drains them on its next
// tick via Pending, which is the marshalling boundary onto the scheduler
// thread.
type ResponseFeed struct {
	mu        sync.Mutex
	connected bool
	polling   bool
	pending   []string
}

var _ core.ResponseChannel = (*ResponseFeed)(nil)

// NewResponseFeed constructs a disconnected feed.
func NewResponseFeed() *ResponseFeed {
	return &ResponseFeed{}
}

// Connect marks the feed established.
func (f *ResponseFeed) Connect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = true
	return nil
}

// Disconnect tears the feed down, discarding pending tokens.
func (f *ResponseFeed) Disconnect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	f.polling = false
	f.pending = nil
	return nil
}

// Connected reports whether the feed is established.
func (f *ResponseFeed) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

// StartPolling begins accumulating pushed tokens.
func (f *ResponseFeed) StartPolling() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polling = true
	return nil
}

// StopPolling stops accumulating pushed tokens.
func (f *ResponseFeed) StopPolling() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polling = false
}

// Polling reports whether the feed is accumulating tokens.
func (f *ResponseFeed) Polling() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polling
}

// Push enqueues a batch of tokens. Tokens pushed while the feed is not
// polling are dropped, mirroring a transport that only buffers while a
// consumer listens.
func (f *ResponseFeed) Push(tokens ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.polling {
		return
	}
	f.pending = append(f.pending, tokens...)
}

// Pending drains and returns all queued tokens in delivery order.
func (f *ResponseFeed) Pending() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.pending
	f.pending = nil
	return out
}
