package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/bcikit/internal/testutil"
)

func TestNewStateDefaults(t *testing.T) {
	s := NewState()

	assert.False(t, s.StimulusRunning())
	assert.Nil(t, s.LastSelected())
	assert.Equal(t, TrainingNone, s.TrainingType())
	assert.False(t, s.TrainingRunning())
	assert.Equal(t, NoTrainTarget, s.TrainTarget())
}

func TestLastSelectedRoundTrip(t *testing.T) {
	s := NewState()
	item := testutil.NewFakeItem("A")

	s.SetLastSelected(item)
	assert.Same(t, item, s.LastSelected())

	s.ClearLastSelected()
	assert.Nil(t, s.LastSelected())
}

func TestTrainingRunningTracksType(t *testing.T) {
	s := NewState()

	s.SetTrainingType(TrainingAutomated)
	assert.True(t, s.TrainingRunning())

	s.SetTrainingType(TrainingNone)
	assert.False(t, s.TrainingRunning())
}

func TestClearTrainTarget(t *testing.T) {
	s := NewState()

	s.SetTrainTarget(2)
	assert.Equal(t, 2, s.TrainTarget())

	s.ClearTrainTarget()
	assert.Equal(t, NoTrainTarget, s.TrainTarget())
}

func TestTrainingTypeString(t *testing.T) {
	assert.Equal(t, "none", TrainingNone.String())
	assert.Equal(t, "automated", TrainingAutomated.String())
	assert.Equal(t, "iterative", TrainingIterative.String())
	assert.Equal(t, "user", TrainingUser.String())
	assert.Equal(t, "unknown", TrainingType(42).String())
}
