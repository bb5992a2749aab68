package protocol

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/bcikit/config"
	"github.com/hupe1980/bcikit/core"
	"github.com/hupe1980/bcikit/logging"
	"github.com/hupe1980/bcikit/registry"
	"github.com/hupe1980/bcikit/scheduler"
	"github.com/hupe1980/bcikit/selection"
	"github.com/hupe1980/bcikit/session"
	"github.com/hupe1980/bcikit/stimulus"
	"github.com/hupe1980/bcikit/training"
)

// Options configures the Session facade.
type Options struct {
	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
	// Rand drives the training target draw; override for deterministic tests.
	Rand *rand.Rand
	// OnCycle is the protocol-specific per-cycle stimulus behavior.
	OnCycle stimulus.CycleHook
	// OnRunComplete is the protocol-specific run-completion behavior.
	OnRunComplete stimulus.CycleHook
	// IterativeRoutine is the paradigm-specific iterative training protocol.
	IterativeRoutine training.PhaseRoutine
	// UserRoutine is the paradigm-specific user training protocol.
	UserRoutine training.PhaseRoutine
}

// Session is the high-level facade aggregating the orchestration components
// of one stimulus-presentation session. It is driven by a single frame
// thread; none of its methods are safe for concurrent use.
type Session struct {
	id    string
	cfg   config.Config
	sched *scheduler.Scheduler
	state *session.State
	reg   *registry.Registry

	engine    *stimulus.Engine
	coord     *selection.Coordinator
	sequencer *training.Sequencer

	logger logging.Logger
}

// New creates a Session wired against the given transports and item source.
// Any unset option falls back to a safe default.
func New(
	cfg config.Config,
	markers core.MarkerChannel,
	responses core.ResponseChannel,
	source core.ItemSource,
	optFns ...func(o *Options),
) *Session {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	id := uuid.NewString()
	logger := opts.Logger

	sched := scheduler.New(func(o *scheduler.Options) { o.Logger = logger })
	state := session.NewState()
	reg := registry.New(source, func(o *registry.Options) {
		o.GroupTag = cfg.GroupTag
		o.Logger = logger
	})

	engine := stimulus.New(sched, state, reg, markers, responses, cfg,
		stimulus.WithLogger(logger),
		stimulus.WithOnCycle(opts.OnCycle),
		stimulus.WithOnRunComplete(opts.OnRunComplete),
	)
	coord := selection.New(sched, state, reg, selection.WithLogger(logger))

	// Engine and coordinator reference each other across the response path;
	// bind after construction.
	engine.BindResponseHandler(coord.HandleIncomingResponses)
	coord.BindRunStopper(engine)

	seqOpts := []func(o *training.Options){training.WithLogger(logger)}
	if opts.Rand != nil {
		seqOpts = append(seqOpts, training.WithRand(opts.Rand))
	}
	if opts.IterativeRoutine != nil {
		seqOpts = append(seqOpts, training.WithIterativeRoutine(opts.IterativeRoutine))
	}
	if opts.UserRoutine != nil {
		seqOpts = append(seqOpts, training.WithUserRoutine(opts.UserRoutine))
	}
	sequencer := training.New(sched, state, reg, engine, markers, cfg, seqOpts...)

	return &Session{
		id:        id,
		cfg:       cfg,
		sched:     sched,
		state:     state,
		reg:       reg,
		engine:    engine,
		coord:     coord,
		sequencer: sequencer,
		logger:    logger,
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithRand overrides the training target-draw randomness source.
func WithRand(r *rand.Rand) func(o *Options) {
	return func(o *Options) { o.Rand = r }
}

// ID returns the unique session identifier used in logs.
func (s *Session) ID() string { return s.id }

// State exposes the session state for host-side inspection.
func (s *Session) State() *session.State { return s.state }

// Registry exposes the selectable registry (predefined population, counts).
func (s *Session) Registry() *registry.Registry { return s.reg }

// Scheduler exposes the underlying scheduler (slot inspection in tests and
// custom paradigm loops).
func (s *Session) Scheduler() *scheduler.Scheduler { return s.sched }

// Advance drives the session from the host's frame loop by the frame delta.
func (s *Session) Advance(d time.Duration) { s.sched.Advance(d) }

// StartStimulusRun begins a stimulus run; see stimulus.Engine.
func (s *Session) StartStimulusRun(sendConstantMarkers bool) error {
	return s.engine.StartStimulusRun(sendConstantMarkers)
}

// StopStimulusRun stops the active stimulus run; see stimulus.Engine.
func (s *Session) StopStimulusRun() { s.engine.StopStimulusRun() }

// SelectByIndex selects item i; see selection.Coordinator.
func (s *Session) SelectByIndex(i int, stopRun bool) { s.coord.SelectByIndex(i, stopRun) }

// SelectAtEndOfRun arms the end-of-run default selection; see
// selection.Coordinator.
func (s *Session) SelectAtEndOfRun(i int) { s.coord.SelectAtEndOfRun(i) }

// StartTraining begins a training session; see training.Sequencer.
func (s *Session) StartTraining(t session.TrainingType) error {
	return s.sequencer.StartTraining(t)
}

// StopTraining ends the active training session; see training.Sequencer.
func (s *Session) StopTraining() { s.sequencer.StopTraining() }

// Shutdown cancels every live loop. The session stays usable afterwards.
func (s *Session) Shutdown() {
	s.sequencer.StopTraining()
	s.engine.StopResponseReception()
	s.sched.Shutdown()
}
