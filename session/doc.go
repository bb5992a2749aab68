// Package session houses the mutable state shared by the stimulus, selection
// and training components of one presentation session. The State container
// is the single source of truth the cooperative loops observe to decide
// continuation: the stimulus cycle polls StimulusRunning, the deferred
// selection waits for it to flip, and the training supervisor checks the
// active TrainingType.
package session
