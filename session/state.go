package session

import (
	"sync"

	"github.com/hupe1980/bcikit/core"
)

// TrainingType enumerates the training protocols a session can run. None is
// both the initial and the terminal state of every training session.
type TrainingType int

const (
	// TrainingNone means no training session is active.
	TrainingNone TrainingType = iota
	// TrainingAutomated is the fully scripted multi-target protocol.
	TrainingAutomated
	// TrainingIterative is the paradigm-specific iterative protocol.
	TrainingIterative
	// TrainingUser is the paradigm-specific user-driven protocol.
	TrainingUser
)

// String returns the string representation of the training type.
func (t TrainingType) String() string {
	switch t {
	case TrainingNone:
		return "none"
	case TrainingAutomated:
		return "automated"
	case TrainingIterative:
		return "iterative"
	case TrainingUser:
		return "user"
	default:
		return "unknown"
	}
}

// NoTrainTarget is the sentinel train-target value meaning "no active
// target". Any value above the current selectable count has the same effect;
// 99 mirrors the conventional sentinel of BCI stimulus protocols.
const NoTrainTarget = 99

// State is the session-scoped mutable state. All orchestration loops mutate
// it from the single logical scheduler thread; the mutex exists for the
// benefit of host code that inspects state from outside the frame loop.
type State struct {
	mu sync.RWMutex

	stimulusRunning bool
	lastSelected    core.SelectableItem
	trainingType    TrainingType
	trainTarget     int
}

// NewState returns a State with no run active and no training target.
func NewState() *State {
	return &State{trainingType: TrainingNone, trainTarget: NoTrainTarget}
}

// StimulusRunning reports whether a stimulus run is active.
func (s *State) StimulusRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stimulusRunning
}

// SetStimulusRunning flips the stimulus-run flag.
func (s *State) SetStimulusRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stimulusRunning = running
}

// LastSelected returns the most recently selected item, or nil if no
// selection occurred since the last run started.
func (s *State) LastSelected() core.SelectableItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSelected
}

// SetLastSelected records a selection.
func (s *State) SetLastSelected(item core.SelectableItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSelected = item
}

// ClearLastSelected resets the selection record; called at run start.
func (s *State) ClearLastSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSelected = nil
}

// TrainingType returns the active training protocol (TrainingNone when no
// training session is running).
func (s *State) TrainingType() TrainingType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trainingType
}

// SetTrainingType records the active training protocol.
func (s *State) SetTrainingType(t TrainingType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trainingType = t
}

// TrainingRunning reports whether any training session is active. It holds
// exactly when TrainingType is not TrainingNone.
func (s *State) TrainingRunning() bool {
	return s.TrainingType() != TrainingNone
}

// TrainTarget returns the active training-target index, or a sentinel value
// (NoTrainTarget or anything above the selectable count) when none is set.
func (s *State) TrainTarget() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trainTarget
}

// SetTrainTarget records the active training-target index.
func (s *State) SetTrainTarget(target int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trainTarget = target
}

// ClearTrainTarget resets the training target to the sentinel.
func (s *State) ClearTrainTarget() {
	s.SetTrainTarget(NoTrainTarget)
}
