package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRunsUntilFirstSuspension(t *testing.T) {
	s := New()
	var steps []string

	s.Start(Slot("demo"), func(tc *TaskContext) error {
		steps = append(steps, "before")
		if err := tc.Sleep(time.Second); err != nil {
			return err
		}
		steps = append(steps, "after")
		return nil
	})

	assert.Equal(t, []string{"before"}, steps)
	assert.True(t, s.Running(Slot("demo")))

	s.Advance(time.Second)
	assert.Equal(t, []string{"before", "after"}, steps)
	assert.False(t, s.Running(Slot("demo")))
}

func TestSleepWakesAtDeadline(t *testing.T) {
	s := New()
	woke := false

	s.Start(Slot("demo"), func(tc *TaskContext) error {
		if err := tc.Sleep(3 * time.Second); err != nil {
			return err
		}
		woke = true
		return nil
	})

	s.Advance(time.Second)
	s.Advance(time.Second)
	assert.False(t, woke)
	s.Advance(time.Second)
	assert.True(t, woke)
}

func TestYieldResumesNextTick(t *testing.T) {
	s := New()
	resumptions := 0

	s.Start(Slot("demo"), func(tc *TaskContext) error {
		for {
			resumptions++
			if err := tc.Yield(); err != nil {
				return err
			}
		}
	})

	require.Equal(t, 1, resumptions)
	s.Advance(16 * time.Millisecond)
	assert.Equal(t, 2, resumptions)
	s.Advance(16 * time.Millisecond)
	assert.Equal(t, 3, resumptions)
	s.Shutdown()
}

func TestUntilPollsOncePerTick(t *testing.T) {
	s := New()
	flag := false
	polls := 0
	done := false

	s.Start(Slot("demo"), func(tc *TaskContext) error {
		if err := tc.Until(func() bool { polls++; return flag }); err != nil {
			return err
		}
		done = true
		return nil
	})

	s.Advance(time.Millisecond)
	s.Advance(time.Millisecond)
	assert.Equal(t, 2, polls)
	assert.False(t, done)

	flag = true
	s.Advance(time.Millisecond)
	assert.True(t, done)
}

func TestStartReplacesSlotOccupant(t *testing.T) {
	s := New()
	var cancelErr error

	s.Start(Slot("demo"), func(tc *TaskContext) error {
		cancelErr = tc.Sleep(time.Hour)
		return cancelErr
	})
	second := 0
	s.Start(Slot("demo"), func(tc *TaskContext) error {
		for {
			second++
			if err := tc.Yield(); err != nil {
				return err
			}
		}
	})

	// The first routine unwound with ErrCanceled before the second started.
	require.ErrorIs(t, cancelErr, ErrCanceled)
	assert.Equal(t, 1, s.ActiveCount())

	s.Advance(time.Hour)
	s.Advance(time.Hour)
	assert.Equal(t, 3, second)
	s.Shutdown()
}

func TestRepeatedStartLeavesOneLiveTask(t *testing.T) {
	s := New()
	live := 0

	for i := 0; i < 5; i++ {
		s.Start(SlotRunStimulus, func(tc *TaskContext) error {
			live++
			defer func() { live-- }()
			for {
				if err := tc.Yield(); err != nil {
					return err
				}
			}
		})
	}

	assert.Equal(t, 1, live)
	assert.Equal(t, 1, s.ActiveCount())
	s.Shutdown()
	assert.Equal(t, 0, live)
	assert.Equal(t, 0, s.ActiveCount())
}

func TestCancelPreventsFutureResumption(t *testing.T) {
	s := New()
	resumptions := 0

	s.Start(Slot("demo"), func(tc *TaskContext) error {
		for {
			resumptions++
			if err := tc.Yield(); err != nil {
				return err
			}
		}
	})

	s.Cancel(Slot("demo"))
	assert.False(t, s.Running(Slot("demo")))

	s.Advance(time.Second)
	assert.Equal(t, 1, resumptions)
}

func TestCancelEmptySlotIsNoOp(t *testing.T) {
	s := New()
	s.Cancel(Slot("demo"))
	assert.Equal(t, 0, s.ActiveCount())
}

func TestNestedStartFromRoutine(t *testing.T) {
	s := New()
	var inner []time.Duration

	s.Start(Slot("outer"), func(tc *TaskContext) error {
		s.Start(Slot("inner"), func(tc *TaskContext) error {
			for {
				inner = append(inner, tc.Now())
				if err := tc.Sleep(time.Second); err != nil {
					return err
				}
			}
		})
		return tc.Sleep(10 * time.Second)
	})

	require.Equal(t, 2, s.ActiveCount())
	require.Len(t, inner, 1)

	// New tasks are not resumed twice within the tick that started them.
	s.Advance(time.Second)
	assert.Len(t, inner, 2)
	s.Shutdown()
}

func TestSelfCancelFromRoutine(t *testing.T) {
	s := New()
	var after error

	s.Start(Slot("demo"), func(tc *TaskContext) error {
		s.Cancel(Slot("demo"))
		after = tc.Yield()
		return after
	})

	require.ErrorIs(t, after, ErrCanceled)
	assert.False(t, s.Running(Slot("demo")))
	s.Advance(time.Second)
}

func TestCancelFromSiblingRoutine(t *testing.T) {
	s := New()
	var victimErr error

	s.Start(Slot("victim"), func(tc *TaskContext) error {
		victimErr = tc.Sleep(time.Hour)
		return victimErr
	})
	s.Start(Slot("killer"), func(tc *TaskContext) error {
		if err := tc.Sleep(time.Second); err != nil {
			return err
		}
		s.Cancel(Slot("victim"))
		return nil
	})

	s.Advance(time.Second)
	assert.ErrorIs(t, victimErr, ErrCanceled)
	assert.Equal(t, 0, s.ActiveCount())
}

func TestRoutineErrorReleasesSlot(t *testing.T) {
	s := New()
	boom := errors.New("boom")

	s.Start(Slot("demo"), func(tc *TaskContext) error {
		if err := tc.Yield(); err != nil {
			return err
		}
		return boom
	})

	require.True(t, s.Running(Slot("demo")))
	s.Advance(time.Millisecond)
	assert.False(t, s.Running(Slot("demo")))
}

func TestVirtualClockAccumulates(t *testing.T) {
	s := New()
	s.Advance(250 * time.Millisecond)
	s.Advance(250 * time.Millisecond)
	assert.Equal(t, 500*time.Millisecond, s.Now())
}

func TestResumeOrderFollowsStartOrder(t *testing.T) {
	s := New()
	var order []string
	loop := func(name string) Routine {
		return func(tc *TaskContext) error {
			for {
				if err := tc.Yield(); err != nil {
					return err
				}
				order = append(order, name)
			}
		}
	}

	s.Start(Slot("a"), loop("a"))
	s.Start(Slot("b"), loop("b"))
	s.Start(Slot("c"), loop("c"))

	s.Advance(time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	s.Shutdown()
}
