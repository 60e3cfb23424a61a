package tasks

import (
	"fmt"

	"github.com/desertthunder/vibescan/internal/detect"
	"github.com/desertthunder/vibescan/internal/synth"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	AcquireCamera Phase = iota
	Scanning
	Locked
	Synthesize
	Search
	NoResult
	Done
)

func (p Phase) String() string {
	switch p {
	case AcquireCamera:
		return "acquire_camera"
	case Scanning:
		return "scanning"
	case Locked:
		return "locked"
	case Synthesize:
		return "synthesize"
	case Search:
		return "search"
	case NoResult:
		return "no_result"
	case Done:
		return "done"
	default:
		return ""
	}
}

func acquireCameraUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   AcquireCamera,
		Message: "Acquiring camera...",
	}
}

func scanningUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Scanning,
		Message: "Scanning for a mood...",
	}
}

func lockedUpdate(obs *detect.Observation) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Locked,
		Message: fmt.Sprintf("Locked: %s (%.0f%% confidence)", obs.Mood, obs.Confidence*100),
		Data:    obs,
	}
}

func synthesizeUpdate(obs *detect.Observation) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Synthesize,
		Message: fmt.Sprintf("Synthesizing queries for %s...", obs.Mood),
	}
}

func searchUpdate(query synth.Query) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Search,
		Message: fmt.Sprintf("Searching: %s", query.Primary),
		Data:    query,
	}
}

func noResultUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   NoResult,
		Message: "Nothing usable in the catalog for this vibe",
	}
}

func doneUpdate(result *VibeResult) ProgressUpdate {
	message := "Done"
	if result.Playlist != nil {
		message = fmt.Sprintf("Found: %s", result.Playlist.Name)
	}
	return ProgressUpdate{
		Phase:   Done,
		Message: message,
		Data:    result,
	}
}
