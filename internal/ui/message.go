package ui

import (
	"github.com/desertthunder/vibescan/internal/tasks"
)

type progressUpdateMsg tasks.ProgressUpdate

type vibeCompleteMsg struct {
	result *tasks.VibeResult
	err    error
}
