package scheduler

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/bcikit/logging"
)

// ErrCanceled is returned from a routine's suspension points after the
// routine was cancelled (replaced, its slot cancelled, or scheduler
// shutdown). Routines propagate it to unwind; the scheduler discards it.
var ErrCanceled = errors.New("scheduler: task canceled")

// Slot names a loop position. Each slot holds at most one live routine.
type Slot string

// The loop slots of a stimulus session.
const (
	// SlotReceiveMarkers drains the response channel once per tick.
	SlotReceiveMarkers Slot = "receiveMarkers"
	// SlotSendMarkers runs the periodic marker-emission loop.
	SlotSendMarkers Slot = "sendMarkers"
	// SlotRunStimulus runs the repeating stimulus cycle.
	SlotRunStimulus Slot = "runStimulus"
	// SlotWaitToSelect runs the deferred end-of-run selection.
	SlotWaitToSelect Slot = "waitToSelect"
	// SlotTraining runs the training supervising loop.
	SlotTraining Slot = "training"
)

// Routine is a cooperative task body. It runs until it returns or until a
// suspension point reports cancellation.
type Routine func(tc *TaskContext) error

// Handle identifies a started routine for log correlation.
type Handle struct {
	id   string
	slot Slot
}

// ID returns the unique id assigned to the routine.
func (h *Handle) ID() string { return h.id }

// Slot returns the slot the routine was started in.
func (h *Handle) Slot() Slot { return h.slot }

type waitKind int

const (
	waitTime waitKind = iota
	waitCond
)

// parkMsg is the task-to-scheduler half of the lockstep handshake.
type parkMsg struct {
	done bool
	err  error
}

type task struct {
	id    string
	slot  Slot
	sched *Scheduler

	resume chan struct{}
	parked chan parkMsg

	// Written by the task goroutine before parking, read by the scheduler
	// after receiving the handshake message.
	kind   waitKind
	wakeAt time.Duration
	cond   func() bool

	// Owned by the scheduler side of the handshake.
	canceled bool
	done     bool
}

// Options configures a Scheduler.
type Options struct {
	// Logger receives slot transition and routine failure logs.
	Logger logging.Logger
}

// Scheduler owns the slot table and the virtual clock. It is not safe for
// concurrent use: all calls (Advance, Start, Cancel, ...) must come from the
// host's frame thread or from within a running routine.
type Scheduler struct {
	now    time.Duration
	order  []*task
	slots  map[Slot]*task
	curr   *task
	logger logging.Logger
}

// New constructs a Scheduler with optional overrides.
func New(optFns ...func(o *Options)) *Scheduler {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Scheduler{slots: make(map[Slot]*task), logger: opts.Logger}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration { return s.now }

// Running reports whether a slot currently holds a live routine.
func (s *Scheduler) Running(slot Slot) bool { return s.slots[slot] != nil }

// ActiveCount returns the number of live routines across all slots.
func (s *Scheduler) ActiveCount() int { return len(s.slots) }

// Start launches r in the given slot, cancelling and replacing any previous
// occupant first. The routine runs synchronously up to its first suspension
// point before Start returns.
func (s *Scheduler) Start(slot Slot, r Routine) *Handle {
	if prev := s.slots[slot]; prev != nil {
		s.logger.Debug("replacing loop slot occupant", "slot", string(slot), "task_id", prev.id)
		if prev == s.curr {
			prev.canceled = true
			delete(s.slots, slot)
		} else {
			s.cancelTask(prev)
		}
	}

	t := &task{
		id:     uuid.NewString(),
		slot:   slot,
		sched:  s,
		resume: make(chan struct{}),
		parked: make(chan parkMsg),
	}
	s.slots[slot] = t
	s.order = append(s.order, t)
	s.logger.Debug("loop slot started", "slot", string(slot), "task_id", t.id)

	go func() {
		<-t.resume
		if t.canceled {
			t.parked <- parkMsg{done: true, err: ErrCanceled}
			return
		}
		err := r(&TaskContext{t: t})
		t.parked <- parkMsg{done: true, err: err}
	}()

	s.step(t)
	return &Handle{id: t.id, slot: slot}
}

// Cancel removes the routine occupying the slot, if any. The routine's next
// resumption is prevented; its suspension point reports ErrCanceled and it
// unwinds before Cancel returns (self-cancellation from within the occupying
// routine defers the unwind to the routine's own return).
func (s *Scheduler) Cancel(slot Slot) {
	t := s.slots[slot]
	if t == nil {
		return
	}
	if t == s.curr {
		// The occupant is the routine calling us: just mark it and free the
		// slot; its own frame unwinds at the next suspension point.
		t.canceled = true
		delete(s.slots, slot)
		s.logger.Debug("loop slot self-cancelled", "slot", string(slot), "task_id", t.id)
		return
	}
	s.cancelTask(t)
}

// Advance moves the virtual clock forward by d and resumes every due routine
// once, in start order. Routines started during this Advance are not resumed
// again until the next Advance.
func (s *Scheduler) Advance(d time.Duration) {
	s.now += d

	live := make([]*task, len(s.order))
	copy(live, s.order)
	for _, t := range live {
		if t.done || t.canceled {
			continue
		}
		if !s.due(t) {
			continue
		}
		s.step(t)
	}

	s.compact()
}

// Shutdown cancels every live routine. The scheduler stays usable afterwards.
func (s *Scheduler) Shutdown() {
	for _, slot := range []Slot{SlotTraining, SlotRunStimulus, SlotSendMarkers, SlotWaitToSelect, SlotReceiveMarkers} {
		s.Cancel(slot)
	}
	// Slots outside the predeclared set.
	for slot := range s.slots {
		s.Cancel(slot)
	}
	s.compact()
}

func (s *Scheduler) due(t *task) bool {
	switch t.kind {
	case waitCond:
		return t.cond()
	default:
		return s.now >= t.wakeAt
	}
}

// step resumes t and blocks until it parks again or finishes. All routine
// execution funnels through here, preserving the single-logical-thread model.
func (s *Scheduler) step(t *task) {
	prev := s.curr
	s.curr = t
	t.resume <- struct{}{}
	msg := <-t.parked
	s.curr = prev

	if msg.done {
		t.done = true
		if s.slots[t.slot] == t {
			delete(s.slots, t.slot)
		}
		if msg.err != nil && !errors.Is(msg.err, ErrCanceled) {
			s.logger.Error("loop routine failed", "slot", string(t.slot), "task_id", t.id, "error", msg.err)
		}
	}
}

// cancelTask unwinds a parked routine. Must not be called for the routine
// currently being stepped.
func (s *Scheduler) cancelTask(t *task) {
	t.canceled = true
	if s.slots[t.slot] == t {
		delete(s.slots, t.slot)
	}
	t.resume <- struct{}{}
	msg := <-t.parked
	t.done = true
	if !msg.done {
		// Routines must propagate ErrCanceled from suspension points; a
		// routine that parks again after cancellation is a programming
		// error we surface loudly.
		s.logger.Error("cancelled routine parked again", "slot", string(t.slot), "task_id", t.id)
	}
}

func (s *Scheduler) compact() {
	live := s.order[:0]
	for _, t := range s.order {
		if !t.done {
			live = append(live, t)
		}
	}
	s.order = live
}
