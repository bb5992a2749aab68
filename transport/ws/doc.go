// Package ws provides websocket-backed marker and response transports for
// hosts whose recording/classification pipeline speaks websockets instead of
// a native lab streaming layer. MarkerOutlet writes each marker as one text
// frame; ResponseInlet reads text frames on a background goroutine and
// buffers the contained tokens until the session's receive loop drains them
// on the scheduler thread.
package ws
