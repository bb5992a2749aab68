package scheduler

import "time"

// TaskContext carries the suspension API available inside a running routine.
// It is only valid on the goroutine of the routine it was handed to.
type TaskContext struct {
	t *task
}

// Now returns the scheduler's current virtual time.
func (tc *TaskContext) Now() time.Duration { return tc.t.sched.now }

// Slot returns the slot this routine occupies.
func (tc *TaskContext) Slot() Slot { return tc.t.slot }

// Sleep suspends the routine until at least d of virtual time has passed.
// Returns ErrCanceled if the routine was cancelled while suspended.
func (tc *TaskContext) Sleep(d time.Duration) error {
	tc.t.kind = waitTime
	tc.t.wakeAt = tc.t.sched.now + d
	return tc.park()
}

// Yield suspends the routine until the next tick.
func (tc *TaskContext) Yield() error {
	tc.t.kind = waitTime
	tc.t.wakeAt = tc.t.sched.now
	return tc.park()
}

// Until suspends the routine until pred reports true. The predicate is
// evaluated once per tick on the scheduler side, before any resumption.
func (tc *TaskContext) Until(pred func() bool) error {
	tc.t.kind = waitCond
	tc.t.cond = pred
	return tc.park()
}

// park performs the task half of the lockstep handshake: report parked, wait
// to be resumed, surface cancellation.
func (tc *TaskContext) park() error {
	if tc.t.canceled {
		return ErrCanceled
	}
	tc.t.parked <- parkMsg{}
	<-tc.t.resume
	tc.t.cond = nil
	if tc.t.canceled {
		return ErrCanceled
	}
	return nil
}
