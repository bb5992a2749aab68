// Package scheduler implements the cooperative frame-by-frame task scheduler
// the stimulus session runs on. All timed loops of a session (stimulus cycle,
// periodic marker emission, response reception, deferred selection, training
// supervision) are routines started in a named slot; a slot holds at most one
// live routine and starting a new routine in a slot cancels and replaces the
// previous occupant.
//
// Routines execute on dedicated goroutines but in strict lockstep with the
// scheduler: exactly one of scheduler and routine is ever runnable, handed
// over through an unbuffered channel handshake at every suspension point.
// The scheduler therefore behaves like a single logical thread and session
// state needs no cross-loop locking.
//
// Time is virtual. The host drives the scheduler from its frame loop by
// calling Advance with the frame delta; routines suspend with Sleep, Yield
// and Until and resume only when the virtual clock or the awaited condition
// says so. Tests drive time explicitly and run fully deterministic.
package scheduler
