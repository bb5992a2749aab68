package protocol

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bcikit/config"
	"github.com/hupe1980/bcikit/internal/testutil"
	"github.com/hupe1980/bcikit/session"
	"github.com/hupe1980/bcikit/transport/inmem"
)

const frame = 10 * time.Millisecond

type fixture struct {
	sess    *Session
	markers *inmem.MarkerRecorder
	feed    *inmem.ResponseFeed
	items   []*testutil.FakeItem
}

func newFixture(t *testing.T, cfg config.Config, optFns ...func(o *Options)) *fixture {
	t.Helper()

	items := []*testutil.FakeItem{
		testutil.NewFakeItem("A"),
		testutil.NewFakeItem("B"),
		testutil.NewFakeItem("C"),
		testutil.NewFakeItem("D"),
	}
	markers := inmem.NewMarkerRecorder()
	feed := inmem.NewResponseFeed()
	source := testutil.NewStaticSource(cfg.GroupTag, items[0], items[1], items[2], items[3])

	opts := append([]func(o *Options){
		WithRand(rand.New(rand.NewSource(1))),
	}, optFns...)
	sess := New(cfg, markers, feed, source, opts...)

	return &fixture{sess: sess, markers: markers, feed: feed, items: items}
}

func quickConfig() config.Config {
	cfg := config.Default()
	cfg.WindowLength = 0.1
	cfg.NumTrainingSelections = 2
	cfg.NumTrainWindows = 2
	cfg.PauseBeforeTraining = 0.1
	cfg.TrainTargetPresentationTime = 0.1
	cfg.TrainBreak = 0.1
	return cfg
}

// drive advances the session frame by frame until done reports true.
func drive(t *testing.T, f *fixture, done func() bool) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		if done() {
			return
		}
		f.sess.Advance(frame)
	}
	t.Fatal("session did not settle within the frame budget")
}

func countMarker(markers []string, text string) int {
	n := 0
	for _, m := range markers {
		if m == text {
			n++
		}
	}
	return n
}

func TestSessionIDsAreUnique(t *testing.T) {
	cfg := quickConfig()
	a := newFixture(t, cfg)
	b := newFixture(t, cfg)

	assert.NotEmpty(t, a.sess.ID())
	assert.NotEqual(t, a.sess.ID(), b.sess.ID())
}

func TestStimulusRunEmitsTrialMarkers(t *testing.T) {
	f := newFixture(t, quickConfig())

	require.NoError(t, f.sess.StartStimulusRun(true))
	assert.True(t, f.sess.State().StimulusRunning())
	assert.Equal(t, 4, f.sess.Registry().Count())

	for i := 0; i < 30; i++ {
		f.sess.Advance(frame)
	}
	f.sess.StopStimulusRun()

	markers := f.markers.Markers()
	require.NotEmpty(t, markers)
	assert.Equal(t, "Trial Started", markers[0])
	assert.Equal(t, "Trial Ends", markers[len(markers)-1])
	assert.GreaterOrEqual(t, countMarker(markers, "marker"), 1)
}

func TestResponseTokensSelectItems(t *testing.T) {
	f := newFixture(t, quickConfig())

	require.NoError(t, f.sess.StartStimulusRun(false))
	f.feed.Push("ping", "2", "ping")

	f.sess.Advance(frame)

	assert.Equal(t, 1, f.items[2].SelectCount)
	assert.Equal(t, 0, f.items[0].SelectCount)
}

func TestSelectByIndexStopsRun(t *testing.T) {
	f := newFixture(t, quickConfig())

	require.NoError(t, f.sess.StartStimulusRun(false))
	f.sess.SelectByIndex(1, true)

	assert.Equal(t, 1, f.items[1].SelectCount)
	assert.Same(t, f.items[1], f.sess.State().LastSelected())
	assert.False(t, f.sess.State().StimulusRunning())
}

func TestSelectAtEndOfRunFiresWhenNothingSelected(t *testing.T) {
	f := newFixture(t, quickConfig())

	require.NoError(t, f.sess.StartStimulusRun(false))
	f.sess.SelectAtEndOfRun(3)
	f.sess.Advance(frame)
	assert.Equal(t, 0, f.items[3].SelectCount)

	f.sess.StopStimulusRun()
	f.sess.Advance(frame)

	assert.Equal(t, 1, f.items[3].SelectCount)
	assert.Same(t, f.items[3], f.sess.State().LastSelected())
}

func TestAutomatedTrainingEndToEnd(t *testing.T) {
	f := newFixture(t, quickConfig())

	require.NoError(t, f.sess.StartTraining(session.TrainingAutomated))
	assert.True(t, f.sess.State().TrainingRunning())

	drive(t, f, func() bool { return !f.sess.State().TrainingRunning() })

	markers := f.markers.Markers()
	assert.Equal(t, 1, countMarker(markers, "Training Complete"))
	assert.Equal(t, 2, countMarker(markers, "Trial Started"))
	assert.Equal(t, 2, countMarker(markers, "Trial Ends"))

	highlighted := 0
	for _, item := range f.items {
		if item.EnterCount > 0 {
			highlighted++
			assert.Equal(t, item.EnterCount, item.ExitCount)
		}
	}
	assert.Equal(t, 2, highlighted)
	assert.Equal(t, session.NoTrainTarget, f.sess.State().TrainTarget())
	assert.False(t, f.sess.State().StimulusRunning())
}

func TestStopTrainingMidSession(t *testing.T) {
	f := newFixture(t, quickConfig())

	require.NoError(t, f.sess.StartTraining(session.TrainingAutomated))
	f.sess.Advance(frame)
	f.sess.StopTraining()

	assert.False(t, f.sess.State().TrainingRunning())
	assert.Equal(t, 0, countMarker(f.markers.Markers(), "Training Complete"))
}

func TestShutdownStopsEverything(t *testing.T) {
	f := newFixture(t, quickConfig())

	require.NoError(t, f.sess.StartTraining(session.TrainingAutomated))
	f.sess.Advance(frame)

	f.sess.Shutdown()

	assert.False(t, f.sess.State().TrainingRunning())
	assert.Equal(t, 0, f.sess.Scheduler().ActiveCount())
	assert.False(t, f.feed.Polling())
}
