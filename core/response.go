package core

// ResponseHandler consumes one batch of inbound response tokens. Handlers are
// invoked synchronously on the scheduler thread; they must not block.
type ResponseHandler func(tokens []string)

// ResponseChannel is a pollable source of asynchronous classifier/user
// response tokens. Token vocabulary consumed by the session: "ping"
// (liveness), "" (ignored) and decimal integers (selection indices).
//
// Transports may enqueue tokens from any goroutine; Pending is only ever
// called from the scheduler thread, which drains the queue once per tick and
// dispatches the batch to the bound ResponseHandler. That drain loop is the
// marshalling boundary required by the single-threaded session core.
type ResponseChannel interface {
	// Connect establishes the underlying stream.
	Connect() error
	// Disconnect tears the stream down. Pending tokens are discarded.
	Disconnect() error
	// Connected reports whether the stream is established.
	Connected() bool

	// StartPolling begins accumulating inbound tokens.
	StartPolling() error
	// StopPolling stops accumulating inbound tokens.
	StopPolling()
	// Polling reports whether the channel is accumulating tokens.
	Polling() bool

	// Pending drains and returns all tokens received since the last call,
	// in delivery order. Returns nil when nothing arrived.
	Pending() []string
}
