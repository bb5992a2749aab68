package core

// Marker vocabulary produced by a stimulus session. Markers are plain strings
// so they can be forwarded verbatim to any recording/classification pipeline.
const (
	// MarkerTrialStarted is emitted once when a stimulus run begins.
	MarkerTrialStarted = "Trial Started"

	// MarkerTrialEnds is emitted once when a stimulus run stops.
	MarkerTrialEnds = "Trial Ends"

	// MarkerWindow is the base payload of the periodic marker-emission loop.
	// An active training target is appended as ",<index>".
	MarkerWindow = "marker"

	// MarkerTrainingComplete is emitted once after an automated training
	// session finishes all of its targets.
	MarkerTrainingComplete = "Training Complete"
)

// MarkerChannel is a write-only timestamped event emitter. Writes are
// fire-and-forget: the channel acknowledges nothing and the session never
// waits on it. Timestamping is the transport's responsibility.
type MarkerChannel interface {
	// Write sends one marker string.
	Write(text string) error
}
