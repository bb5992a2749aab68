package inmem

import (
	"sync"
	"time"
)

// TimestampedMarker is one captured marker write.
type TimestampedMarker struct {
	Text string
	At   time.Time
}

// MarkerRecorder is a MarkerChannel that captures every written marker.
type MarkerRecorder struct {
	mu      sync.Mutex
	markers []TimestampedMarker
}

// NewMarkerRecorder constructs an empty recorder.
func NewMarkerRecorder() *MarkerRecorder {
	return &MarkerRecorder{}
}

// Write captures the marker with the current wall-clock timestamp.
func (m *MarkerRecorder) Write(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = append(m.markers, TimestampedMarker{Text: text, At: time.Now()})
	return nil
}

// Markers returns a copy of all captured marker texts in write order.
func (m *MarkerRecorder) Markers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.markers))
	for i, tm := range m.markers {
		out[i] = tm.Text
	}
	return out
}

// Entries returns a copy of all captured markers with timestamps.
func (m *MarkerRecorder) Entries() []TimestampedMarker {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TimestampedMarker, len(m.markers))
	copy(out, m.markers)
	return out
}

// Reset discards all captured markers.
func (m *MarkerRecorder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = nil
}
