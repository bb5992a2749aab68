package selection

import (
	"strconv"

	"github.com/hupe1980/bcikit/logging"
	"github.com/hupe1980/bcikit/registry"
	"github.com/hupe1980/bcikit/scheduler"
	"github.com/hupe1980/bcikit/session"
)

// PingToken is the liveness token a classifier sends between decisions.
const PingToken = "ping"

// RunStopper stops the active stimulus run. Implemented by stimulus.Engine;
// declared here so the coordinator does not depend on the engine package.
type RunStopper interface {
	StopStimulusRun()
}

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Logger receives selection diagnostics.
	Logger logging.Logger
}

// Coordinator ties responses and direct input to selectable items, recording
// the last selection in session state. All methods must be called on the
// scheduler thread; inbound response batches reach HandleIncomingResponses
// through the engine's reception loop, which guarantees that.
type Coordinator struct {
	sched  *scheduler.Scheduler
	state  *session.State
	reg    *registry.Registry
	runs   RunStopper
	logger logging.Logger

	pings int
}

// New constructs a Coordinator with optional overrides. The RunStopper is
// bound separately (BindRunStopper) because engine and coordinator reference
// each other across the response path.
func New(
	sched *scheduler.Scheduler,
	state *session.State,
	reg *registry.Registry,
	optFns ...func(o *Options),
) *Coordinator {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Coordinator{sched: sched, state: state, reg: reg, logger: opts.Logger}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// BindRunStopper installs the engine that stop-on-select delegates to.
// Called once at wiring time.
func (c *Coordinator) BindRunStopper(rs RunStopper) { c.runs = rs }

// SelectByIndex invokes the select capability of item i and records it as
// the last selection. Fails softly (logged, no state change) on an empty
// registry, an out-of-range index or an invalid item. With stopRun set, a
// successful selection also stops the active stimulus run.
func (c *Coordinator) SelectByIndex(i int, stopRun bool) {
	if c.reg.Count() == 0 {
		c.logger.Warn("selection ignored: registry is empty", "index", i)
		return
	}
	item, err := c.reg.Get(i)
	if err != nil {
		c.logger.Warn("selection ignored: index out of range", "index", i, "count", c.reg.Count())
		return
	}
	if item == nil {
		c.logger.Warn("selection ignored: item is invalid", "index", i)
		return
	}

	item.Select()
	c.state.SetLastSelected(item)
	c.logger.Info("item selected", "index", i, "stop_run", stopRun)

	if stopRun && c.runs != nil {
		c.runs.StopStimulusRun()
	}
}

// SelectAtEndOfRun arms the default selection: when the stimulus run ends
// and nothing else was selected during it, item i is selected. Arming again
// replaces the previous wait.
func (c *Coordinator) SelectAtEndOfRun(i int) {
	c.sched.Start(scheduler.SlotWaitToSelect, func(tc *scheduler.TaskContext) error {
		if err := tc.Until(func() bool { return !c.state.StimulusRunning() }); err != nil {
			return err
		}
		if c.state.LastSelected() == nil {
			c.SelectByIndex(i, false)
		}
		return nil
	})
}

// HandleIncomingResponses processes one batch of inbound tokens, each
// exactly once, in delivery order. "ping" bumps the liveness counter, the
// empty token is ignored, and any other token is parsed as a selection
// index. A parseable in-range index triggers the item's select capability
// directly: this path intentionally bypasses SelectByIndex, so it neither
// updates the last selection nor stops the run. Parse failures are dropped.
func (c *Coordinator) HandleIncomingResponses(tokens []string) {
	for _, token := range tokens {
		switch token {
		case "":
			continue
		case PingToken:
			c.pings++
			c.logger.Debug("ping received", "total", c.pings)
			continue
		}

		index, err := strconv.Atoi(token)
		if err != nil {
			c.logger.Debug("response token ignored", "token", token)
			continue
		}
		item, err := c.reg.Get(index)
		if err != nil {
			c.logger.Warn("response selection ignored: index out of range", "index", index, "count", c.reg.Count())
			continue
		}
		item.Select()
		c.logger.Info("response selection", "index", index)
	}
}

// PingCount returns the number of liveness pings received so far.
func (c *Coordinator) PingCount() int { return c.pings }
