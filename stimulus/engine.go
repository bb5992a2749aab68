package stimulus

import (
	"fmt"

	"github.com/hupe1980/bcikit/config"
	"github.com/hupe1980/bcikit/core"
	"github.com/hupe1980/bcikit/logging"
	"github.com/hupe1980/bcikit/registry"
	"github.com/hupe1980/bcikit/scheduler"
	"github.com/hupe1980/bcikit/session"
)

// CycleHook is invoked by the stimulus-cycle loop. Per-cycle hooks run once
// per frame while the run is active; completion hooks run once after the run
// flag flips to false. Hooks may suspend through the TaskContext and must
// propagate any error it returns.
type CycleHook func(tc *scheduler.TaskContext) error

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Logger receives run lifecycle and marker diagnostics.
	Logger logging.Logger
	// OnCycle is the overridable per-cycle behavior (default no-op).
	OnCycle CycleHook
	// OnRunComplete is the overridable completion behavior (default no-op).
	OnRunComplete CycleHook
}

// Engine owns the "stimulus running" loop and its paired periodic
// marker-emission loop. All methods must be called on the scheduler thread.
type Engine struct {
	sched     *scheduler.Scheduler
	state     *session.State
	reg       *registry.Registry
	markers   core.MarkerChannel
	responses core.ResponseChannel
	handler   core.ResponseHandler
	cfg       config.Config

	logger        logging.Logger
	onCycle       CycleHook
	onRunComplete CycleHook
}

// New constructs an Engine with optional overrides. Marker and response
// channels are operational preconditions: starting a run without them is a
// collaborator contract violation surfaced as an error.
func New(
	sched *scheduler.Scheduler,
	state *session.State,
	reg *registry.Registry,
	markers core.MarkerChannel,
	responses core.ResponseChannel,
	cfg config.Config,
	optFns ...func(o *Options),
) *Engine {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{
		sched:         sched,
		state:         state,
		reg:           reg,
		markers:       markers,
		responses:     responses,
		cfg:           cfg,
		logger:        opts.Logger,
		onCycle:       opts.OnCycle,
		onRunComplete: opts.OnRunComplete,
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithOnCycle installs the protocol-specific per-cycle behavior.
func WithOnCycle(h CycleHook) func(o *Options) {
	return func(o *Options) { o.OnCycle = h }
}

// WithOnRunComplete installs the protocol-specific completion behavior.
func WithOnRunComplete(h CycleHook) func(o *Options) {
	return func(o *Options) { o.OnRunComplete = h }
}

// BindResponseHandler installs the consumer of inbound response batches.
// Called once at wiring time, before any run starts.
func (e *Engine) BindResponseHandler(h core.ResponseHandler) { e.handler = h }

// StartStimulusRun begins a stimulus run. An active run is stopped first,
// including its marker emission. The run clears the last selection, emits
// the trial-start marker, (re)starts response reception, repopulates the
// registry by tag and starts the stimulus-cycle loop. When
// sendConstantMarkers is set the periodic marker-emission loop starts too;
// per-event protocols (oddball / P300 style) leave it off. A start that fails
// past the trial-start marker rolls back: reception stops, the run flag
// clears and the trial-end marker is emitted.
func (e *Engine) StartStimulusRun(sendConstantMarkers bool) error {
	if e.markers == nil {
		return core.ErrNoMarkerChannel
	}
	if e.responses == nil {
		return core.ErrNoResponseChannel
	}

	if e.state.StimulusRunning() {
		e.StopStimulusRun()
	}
	// A marker loop from a stopped run may still be parked in its slot until
	// the next tick; it must not survive into a run that left emission off.
	e.sched.Cancel(scheduler.SlotSendMarkers)

	e.state.SetStimulusRunning(true)
	e.state.ClearLastSelected()
	e.write(core.MarkerTrialStarted)

	if err := e.StartResponseReception(); err != nil {
		e.StopStimulusRun()
		return fmt.Errorf("start stimulus run: %w", err)
	}

	if err := e.reg.Populate(registry.StrategyTag); err != nil {
		e.StopResponseReception()
		e.StopStimulusRun()
		return fmt.Errorf("start stimulus run: %w", err)
	}

	e.sched.Start(scheduler.SlotRunStimulus, e.stimulusLoop)
	if sendConstantMarkers {
		e.sched.Start(scheduler.SlotSendMarkers, e.markerLoop)
	}

	e.logger.Info("stimulus run started", "constant_markers", sendConstantMarkers, "items", e.reg.Count())
	return nil
}

// StopStimulusRun flags the run as stopped and emits the trial-end marker.
// The cycle and marker loops observe the flag and wind down on their next
// resumption. Safe to call without an active run; the marker write is
// skipped when no marker channel is bound (teardown).
func (e *Engine) StopStimulusRun() {
	e.state.SetStimulusRunning(false)
	if e.markers != nil {
		e.write(core.MarkerTrialEnds)
	}
	e.logger.Info("stimulus run stopped")
}

// StartResponseReception connects the response channel if needed, starts
// polling and (re)starts the reception loop that drains inbound tokens once
// per tick and dispatches them synchronously to the bound handler.
func (e *Engine) StartResponseReception() error {
	if e.responses == nil {
		return core.ErrNoResponseChannel
	}
	if !e.responses.Connected() {
		if err := e.responses.Connect(); err != nil {
			return fmt.Errorf("connect response channel: %w", err)
		}
	}
	if err := e.responses.StartPolling(); err != nil {
		return fmt.Errorf("start response polling: %w", err)
	}
	e.sched.Start(scheduler.SlotReceiveMarkers, e.receiveLoop)
	return nil
}

// StopResponseReception cancels the reception loop and stops polling.
func (e *Engine) StopResponseReception() {
	e.sched.Cancel(scheduler.SlotReceiveMarkers)
	if e.responses != nil {
		e.responses.StopPolling()
	}
}

// stimulusLoop is the body of the runStimulus slot: yield to the per-cycle
// behavior while the run flag holds, then yield once to the completion
// behavior and release the marker-emission slot.
func (e *Engine) stimulusLoop(tc *scheduler.TaskContext) error {
	for e.state.StimulusRunning() {
		if e.onCycle != nil {
			if err := e.onCycle(tc); err != nil {
				return err
			}
		}
		if err := tc.Yield(); err != nil {
			return err
		}
	}
	if e.onRunComplete != nil {
		if err := e.onRunComplete(tc); err != nil {
			return err
		}
	}
	e.sched.Cancel(scheduler.SlotSendMarkers)
	return nil
}

// markerLoop is the body of the sendMarkers slot: emit one window marker,
// then rest for windowLength + interWindowInterval.
func (e *Engine) markerLoop(tc *scheduler.TaskContext) error {
	for e.state.StimulusRunning() {
		payload := core.MarkerWindow
		if target := e.state.TrainTarget(); target <= e.reg.Count() {
			payload = fmt.Sprintf("%s,%d", core.MarkerWindow, target)
		}
		e.write(payload)
		if err := tc.Sleep(e.cfg.WindowPeriod()); err != nil {
			return err
		}
	}
	return nil
}

// receiveLoop is the body of the receiveMarkers slot. It runs until the slot
// is cancelled or replaced.
func (e *Engine) receiveLoop(tc *scheduler.TaskContext) error {
	for {
		if tokens := e.responses.Pending(); len(tokens) > 0 && e.handler != nil {
			e.handler(tokens)
		}
		if err := tc.Yield(); err != nil {
			return err
		}
	}
}

func (e *Engine) write(marker string) {
	if err := e.markers.Write(marker); err != nil {
		e.logger.Warn("marker write failed", "marker", marker, "error", err)
		return
	}
	e.logger.Debug("marker emitted", "marker", marker)
}
