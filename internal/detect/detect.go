// Package detect runs the cooperative mood-detection loop.
//
// A [Loop] acquires a camera stream, polls a [Detector] for expression and
// age estimates, and locks a debounced [Observation] once any expression
// clears the confidence threshold. The loop owns the session state machine;
// callers observe it through [Loop.Session] and the result channel.
package detect

import (
	"context"
	"time"

	"github.com/desertthunder/vibescan/internal/synth"
)

// DefaultLockThreshold is the confidence an expression must exceed for the
// loop to lock. Values at the threshold keep polling.
const DefaultLockThreshold = 0.6

// DefaultPollInterval paces detection cycles so inference and UI work share
// the process without starving each other.
const DefaultPollInterval = 100 * time.Millisecond

// DefaultOverrideAge stands in for an unknown age when the user picks a mood
// manually before any detection has run.
const DefaultOverrideAge = 25

// Detection is one raw inference result: a score per expression label plus an
// age estimate.
type Detection struct {
	Expressions map[synth.Mood]float64 `json:"expressions"`
	Age         float64                `json:"age"`
}

// Dominant returns the highest-scoring expression and its score. Labels are
// compared in vocabulary order, so equal scores resolve to the earlier label.
func (d Detection) Dominant() (synth.Mood, float64) {
	best := synth.MoodNeutral
	bestScore := -1.0
	for _, m := range synth.Moods {
		if score, ok := d.Expressions[m]; ok && score > bestScore {
			best = m
			bestScore = score
		}
	}
	return best, bestScore
}

// Observation is a locked detection result.
type Observation struct {
	Mood       synth.Mood `json:"mood"`
	Age        uint       `json:"age"`
	Confidence float64    `json:"confidence"`
	LockedAt   time.Time  `json:"locked_at"`
}

// SessionState is the camera session lifecycle.
type SessionState int

const (
	SessionOff SessionState = iota
	SessionStreaming
	SessionBusy
	SessionLocked
)

func (s SessionState) String() string {
	switch s {
	case SessionOff:
		return "off"
	case SessionStreaming:
		return "streaming"
	case SessionBusy:
		return "busy"
	case SessionLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Frame is a single captured image, encoded for transport to the detector.
type Frame struct {
	Data        []byte
	ContentType string
}

// Stream is an open camera session. Close releases the device; it must be
// called on every exit path so the camera indicator never outlives a scan.
type Stream interface {
	Frame(ctx context.Context) (*Frame, error)
	Close() error
}

// Camera acquires a [Stream].
type Camera interface {
	Open(ctx context.Context) (Stream, error)
}

// Detector estimates expressions and age from a frame. A nil Detection with a
// nil error means no face was found this cycle.
type Detector interface {
	Detect(ctx context.Context, frame *Frame) (*Detection, error)
}
