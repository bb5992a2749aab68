package training

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/hupe1980/bcikit/config"
	"github.com/hupe1980/bcikit/core"
	"github.com/hupe1980/bcikit/logging"
	"github.com/hupe1980/bcikit/registry"
	"github.com/hupe1980/bcikit/scheduler"
	"github.com/hupe1980/bcikit/session"
	"github.com/hupe1980/bcikit/stimulus"
)

// settleDelay separates the target highlight from the stimulus run so the
// participant's gaze settles before windows start.
const settleDelay = 500 * time.Millisecond

// PhaseRoutine is one full execution of a training protocol's phase
// sequence. Routines suspend through the TaskContext and must propagate its
// errors to unwind on cancellation.
type PhaseRoutine func(tc *scheduler.TaskContext) error

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Logger receives training lifecycle diagnostics.
	Logger logging.Logger
	// Rand drives the target draw; override for deterministic tests.
	Rand *rand.Rand
	// Automated overrides the built-in automated phase routine.
	Automated PhaseRoutine
	// Iterative overrides the default iterative stub.
	Iterative PhaseRoutine
	// User overrides the default user stub.
	User PhaseRoutine
}

// Sequencer is the training state machine over the session's TrainingType.
// Types other than None are "running"; None is both initial and terminal for
// each session. All methods must be called on the scheduler thread.
type Sequencer struct {
	sched   *scheduler.Scheduler
	state   *session.State
	reg     *registry.Registry
	engine  *stimulus.Engine
	markers core.MarkerChannel
	cfg     config.Config

	logger logging.Logger
	rng    *rand.Rand

	automated PhaseRoutine
	iterative PhaseRoutine
	user      PhaseRoutine
}

// New constructs a Sequencer with optional overrides.
func New(
	sched *scheduler.Scheduler,
	state *session.State,
	reg *registry.Registry,
	engine *stimulus.Engine,
	markers core.MarkerChannel,
	cfg config.Config,
	optFns ...func(o *Options),
) *Sequencer {
	opts := Options{
		Logger: logging.NoOpLogger{},
		Rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Sequencer{
		sched:     sched,
		state:     state,
		reg:       reg,
		engine:    engine,
		markers:   markers,
		cfg:       cfg,
		logger:    opts.Logger,
		rng:       opts.Rand,
		automated: opts.Automated,
		iterative: opts.Iterative,
		user:      opts.User,
	}
	if s.automated == nil {
		s.automated = s.automatedRoutine
	}
	if s.iterative == nil {
		s.iterative = s.iterativeRoutine
	}
	if s.user == nil {
		s.user = s.userRoutine
	}
	return s
}

// WithLogger overrides the default no-op logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithRand overrides the target-draw randomness source.
func WithRand(r *rand.Rand) func(o *Options) {
	return func(o *Options) { o.Rand = r }
}

// WithIterativeRoutine installs the paradigm-specific iterative protocol.
func WithIterativeRoutine(r PhaseRoutine) func(o *Options) {
	return func(o *Options) { o.Iterative = r }
}

// WithUserRoutine installs the paradigm-specific user protocol.
func WithUserRoutine(r PhaseRoutine) func(o *Options) {
	return func(o *Options) { o.User = r }
}

// StartTraining begins a training session of the given type, stopping any
// active stimulus run first. Automated and Iterative (re)start response
// reception before the supervising loop launches. TrainingNone is
// equivalent to StopTraining.
func (s *Sequencer) StartTraining(t session.TrainingType) error {
	if t == session.TrainingNone {
		s.StopTraining()
		return nil
	}

	if s.state.StimulusRunning() {
		s.engine.StopStimulusRun()
		s.sched.Cancel(scheduler.SlotSendMarkers)
	}

	var routine PhaseRoutine
	switch t {
	case session.TrainingAutomated:
		routine = s.automated
	case session.TrainingIterative:
		routine = s.iterative
	case session.TrainingUser:
		routine = s.user
	default:
		return fmt.Errorf("unknown training type %d", t)
	}

	if t == session.TrainingAutomated || t == session.TrainingIterative {
		if err := s.engine.StartResponseReception(); err != nil {
			return fmt.Errorf("start training: %w", err)
		}
	}

	s.state.SetTrainingType(t)
	s.logger.Info("training started", "type", t.String())

	s.sched.Start(scheduler.SlotTraining, func(tc *scheduler.TaskContext) error {
		for s.state.TrainingType() == t {
			if err := routine(tc); err != nil {
				if !errors.Is(err, scheduler.ErrCanceled) {
					s.logger.Error("training phase failed", "type", t.String(), "error", err)
					s.StopTraining()
				}
				return err
			}
			// Natural completion: one finished routine invocation ends the
			// session, flipping the type and exiting the loop.
			s.StopTraining()
		}
		return nil
	})
	return nil
}

// StopTraining resets the training type to None and cancels the supervising
// loop. Safe to call without an active session.
func (s *Sequencer) StopTraining() {
	if s.state.TrainingType() == session.TrainingNone && !s.sched.Running(scheduler.SlotTraining) {
		return
	}
	s.state.SetTrainingType(session.TrainingNone)
	s.sched.Cancel(scheduler.SlotTraining)
	s.logger.Info("training stopped")
}

// automatedRoutine runs one complete automated training session: repopulate,
// draw distinct targets, then highlight each target and run one bounded
// stimulus cycle for it, with rest periods in between.
func (s *Sequencer) automatedRoutine(tc *scheduler.TaskContext) error {
	if err := s.reg.Populate(registry.StrategyTag); err != nil {
		return fmt.Errorf("automated training: %w", err)
	}

	count := s.reg.Count()
	n := s.cfg.NumTrainingSelections
	if n > count {
		return fmt.Errorf("%w: requested %d of %d", core.ErrTooFewItems, n, count)
	}
	targets := s.rng.Perm(count)[:n]
	s.logger.Info("automated training targets drawn", "targets", targets)

	if err := tc.Sleep(s.cfg.PauseBeforeTrainingDuration()); err != nil {
		return err
	}

	for _, target := range targets {
		item, err := s.reg.Get(target)
		if err != nil {
			return fmt.Errorf("automated training: %w", err)
		}

		s.state.SetTrainTarget(target)
		item.OnTrainTargetEnter()
		s.logger.Debug("train target highlighted", "target", target)

		if err := tc.Sleep(s.cfg.PresentationDuration()); err != nil {
			return err
		}
		if !s.cfg.TrainTargetPersistent {
			item.OnTrainTargetExit()
		}
		if err := tc.Sleep(settleDelay); err != nil {
			return err
		}

		if err := s.engine.StartStimulusRun(true); err != nil {
			return fmt.Errorf("automated training: %w", err)
		}
		if err := tc.Sleep(s.cfg.TrainRunDuration()); err != nil {
			return err
		}
		s.engine.StopStimulusRun()

		if s.cfg.TrainTargetPersistent {
			item.OnTrainTargetExit()
		}
		if s.cfg.ShamFeedback {
			item.Select()
		}

		s.state.ClearTrainTarget()
		if err := tc.Sleep(s.cfg.TrainBreakDuration()); err != nil {
			return err
		}
	}

	if err := s.markers.Write(core.MarkerTrainingComplete); err != nil {
		s.logger.Warn("marker write failed", "marker", core.MarkerTrainingComplete, "error", err)
	}
	s.logger.Info("automated training complete", "targets", len(targets))
	return nil
}

// iterativeRoutine is the default iterative stub; paradigms override it.
func (s *Sequencer) iterativeRoutine(tc *scheduler.TaskContext) error {
	s.logger.Warn("iterative training has no paradigm routine installed")
	return nil
}

// userRoutine is the default user stub; paradigms override it.
func (s *Sequencer) userRoutine(tc *scheduler.TaskContext) error {
	s.logger.Warn("no training available for user protocol")
	return nil
}
