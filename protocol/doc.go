// Package protocol provides the composition root of a stimulus session. It
// wires the scheduler, registry, session state, stimulus engine, selection
// coordinator and training sequencer together (including the two-phase bind
// between engine and coordinator across the response path) and exposes one
// delegating facade the host drives from its frame loop.
//
// Most applications interact with this package by:
//  1. Creating a Session via New() with their marker/response transports and
//     item source (in-memory implementations exist under transport/inmem)
//  2. Driving Session.Advance from the frame loop
//  3. Calling the run/selection/training operations from host input handlers
package protocol
