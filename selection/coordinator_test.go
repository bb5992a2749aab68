package selection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bcikit/core"
	"github.com/hupe1980/bcikit/internal/testutil"
	"github.com/hupe1980/bcikit/registry"
	"github.com/hupe1980/bcikit/scheduler"
	"github.com/hupe1980/bcikit/session"
)

type stopRecorder struct {
	state *session.State
	stops int
}

func (s *stopRecorder) StopStimulusRun() {
	s.stops++
	s.state.SetStimulusRunning(false)
}

func newFixture(t *testing.T, n int) (*Coordinator, *scheduler.Scheduler, *session.State, []*testutil.FakeItem, *stopRecorder) {
	t.Helper()

	items := make([]core.SelectableItem, n)
	fakes := make([]*testutil.FakeItem, n)
	for i := range items {
		fakes[i] = testutil.NewFakeItem(string(rune('a' + i)))
		items[i] = fakes[i]
	}
	source := testutil.NewStaticSource("BCI", items...)

	sched := scheduler.New()
	state := session.NewState()
	reg := registry.New(source)
	require.NoError(t, reg.Populate(registry.StrategyTag))

	c := New(sched, state, reg)
	stopper := &stopRecorder{state: state}
	c.BindRunStopper(stopper)
	return c, sched, state, fakes, stopper
}

func TestSelectByIndex(t *testing.T) {
	c, _, state, fakes, _ := newFixture(t, 3)

	c.SelectByIndex(1, false)

	assert.Equal(t, 1, fakes[1].SelectCount)
	assert.Same(t, fakes[1], state.LastSelected())
}

func TestSelectByIndexStopsRun(t *testing.T) {
	c, _, state, _, stopper := newFixture(t, 3)
	state.SetStimulusRunning(true)

	c.SelectByIndex(0, true)

	assert.Equal(t, 1, stopper.stops)
	assert.False(t, state.StimulusRunning())
}

func TestSelectByIndexOutOfRangeIsNoOp(t *testing.T) {
	c, _, state, fakes, stopper := newFixture(t, 3)

	c.SelectByIndex(-1, true)
	c.SelectByIndex(3, true)

	for _, f := range fakes {
		assert.Zero(t, f.SelectCount)
	}
	assert.Nil(t, state.LastSelected())
	assert.Zero(t, stopper.stops)
}

func TestSelectByIndexEmptyRegistryIsNoOp(t *testing.T) {
	c, _, state, _, _ := newFixture(t, 0)

	c.SelectByIndex(0, false)

	assert.Nil(t, state.LastSelected())
}

func TestSelectAtEndOfRunSelectsWhenNothingElseDid(t *testing.T) {
	c, sched, state, fakes, _ := newFixture(t, 3)
	state.SetStimulusRunning(true)

	c.SelectAtEndOfRun(2)
	sched.Advance(time.Millisecond)
	assert.Zero(t, fakes[2].SelectCount) // run still active

	state.SetStimulusRunning(false)
	sched.Advance(time.Millisecond)

	assert.Equal(t, 1, fakes[2].SelectCount)
	assert.Same(t, fakes[2], state.LastSelected())
	assert.False(t, sched.Running(scheduler.SlotWaitToSelect))
}

func TestSelectAtEndOfRunSkipsAfterOtherSelection(t *testing.T) {
	c, sched, state, fakes, _ := newFixture(t, 3)
	state.SetStimulusRunning(true)

	c.SelectAtEndOfRun(2)
	c.SelectByIndex(0, false)

	state.SetStimulusRunning(false)
	sched.Advance(time.Millisecond)

	assert.Zero(t, fakes[2].SelectCount)
	assert.Same(t, fakes[0], state.LastSelected())
}

func TestSelectAtEndOfRunRearmReplacesWait(t *testing.T) {
	c, sched, state, fakes, _ := newFixture(t, 3)
	state.SetStimulusRunning(true)

	c.SelectAtEndOfRun(0)
	c.SelectAtEndOfRun(1)
	require.True(t, sched.Running(scheduler.SlotWaitToSelect))

	state.SetStimulusRunning(false)
	sched.Advance(time.Millisecond)

	assert.Zero(t, fakes[0].SelectCount)
	assert.Equal(t, 1, fakes[1].SelectCount)
}

func TestHandleIncomingResponses(t *testing.T) {
	c, _, state, fakes, stopper := newFixture(t, 5)

	c.HandleIncomingResponses([]string{"ping", "ping", "2", "", "abc"})

	assert.Equal(t, 2, c.PingCount())
	assert.Equal(t, 1, fakes[2].SelectCount)
	for i, f := range fakes {
		if i == 2 {
			continue
		}
		assert.Zero(t, f.SelectCount)
	}
	// The direct-select path bypasses last-selected bookkeeping and never
	// stops the run.
	assert.Nil(t, state.LastSelected())
	assert.Zero(t, stopper.stops)
}

func TestHandleIncomingResponsesIgnoresOutOfRange(t *testing.T) {
	c, _, _, fakes, _ := newFixture(t, 2)

	c.HandleIncomingResponses([]string{"5", "-1"})

	for _, f := range fakes {
		assert.Zero(t, f.SelectCount)
	}
}

func TestHandleIncomingResponsesNoDeduplication(t *testing.T) {
	c, _, _, fakes, _ := newFixture(t, 2)

	c.HandleIncomingResponses([]string{"1", "1", "0"})

	assert.Equal(t, 2, fakes[1].SelectCount)
	assert.Equal(t, 1, fakes[0].SelectCount)
}
