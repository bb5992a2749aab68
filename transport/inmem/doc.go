// Package inmem houses in-memory implementations of the core marker and
// response channel contracts. They are safe for concurrent access and best
// suited for tests, simulations and wiring demos: the MarkerRecorder
// captures every emitted marker for inspection, and the ResponseFeed lets a
// driver push token batches that the session's receive loop will drain on
// its next tick.
//
// The ResponseFeed buffers only while polling is on: tokens pushed before
// StartPolling (or after StopPolling) are dropped, like a transport that
// only reads while a consumer listens. Tests driving the feed directly must
// start a run or call StartPolling before pushing.
//
// Add real transports (LSL, websocket, message broker) in sibling packages
// without changing any calling code; only the wiring layer decides which
// implementation to instantiate.
package inmem
