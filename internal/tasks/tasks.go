// package tasks implements the scan, synthesize and resolve pipeline.
//
// The core abstraction is [Engine], which orchestrates detection, query
// synthesis and catalog resolution. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibescan/internal/catalog"
	"github.com/desertthunder/vibescan/internal/detect"
	"github.com/desertthunder/vibescan/internal/shared"
	"github.com/desertthunder/vibescan/internal/store"
	"github.com/desertthunder/vibescan/internal/synth"
)

// VibeResult contains all data from a completed scan or override.
type VibeResult struct {
	Observation *detect.Observation // Locked mood, age and confidence
	Query       synth.Query         // Synthesized search queries and trace
	Playlist    *catalog.Playlist   // Resolved playlist (nil if the catalog had nothing usable)
	Scan        *store.Scan         // Recorded history row (nil when recording is disabled or failed)
}

// Engine defines the scan-to-playlist operations.
type Engine interface {
	// Run performs a full camera scan: locks a mood, synthesizes queries, resolves a playlist and records the result.
	Run(ctx context.Context, genre synth.Genre, progress chan<- ProgressUpdate) (*VibeResult, error)

	// Override skips the camera and locks a user-chosen mood, then runs the same synthesis and resolution tail.
	Override(ctx context.Context, mood synth.Mood, genre synth.Genre, progress chan<- ProgressUpdate) (*VibeResult, error)
}

// PlaylistResolver resolves a synthesized query to a playlist.
// This abstraction allows for easier testing and decoupling from the concrete catalog client.
type PlaylistResolver interface {
	Resolve(ctx context.Context, query synth.Query) (*catalog.Playlist, error)
}

// ScanRecorder persists completed scans for history and sharing.
type ScanRecorder interface {
	Create(scan *store.Scan) error
}

// VibeEngine implements [Engine].
type VibeEngine struct {
	loop     *detect.Loop
	synth    *synth.Engine
	resolver PlaylistResolver
	scans    ScanRecorder
	logger   *log.Logger
	now      func() time.Time
}

// NewVibeEngine creates a VibeEngine. A nil recorder disables history.
func NewVibeEngine(loop *detect.Loop, engine *synth.Engine, resolver PlaylistResolver, scans ScanRecorder, logger *log.Logger) *VibeEngine {
	return &VibeEngine{
		loop:     loop,
		synth:    engine,
		resolver: resolver,
		scans:    scans,
		logger:   logger,
		now:      time.Now,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *VibeEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run performs a full camera scan and resolves a playlist for the locked mood.
func (e *VibeEngine) Run(ctx context.Context, genre synth.Genre, progress chan<- ProgressUpdate) (*VibeResult, error) {
	if e.loop == nil {
		return nil, fmt.Errorf("%w: detection loop not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, acquireCameraUpdate())
	e.sendProgress(progress, scanningUpdate())

	obs, err := e.loop.Scan(ctx)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, lockedUpdate(obs))
	return e.finish(ctx, obs, genre, progress)
}

// Override locks a user-chosen mood and resolves a playlist for it.
func (e *VibeEngine) Override(ctx context.Context, mood synth.Mood, genre synth.Genre, progress chan<- ProgressUpdate) (*VibeResult, error) {
	if e.loop == nil {
		return nil, fmt.Errorf("%w: detection loop not initialized", shared.ErrServiceUnavailable)
	}

	obs := e.loop.Override(mood)
	e.sendProgress(progress, lockedUpdate(obs))
	return e.finish(ctx, obs, genre, progress)
}

// finish runs the synthesis, resolution and recording tail shared by scans
// and overrides.
func (e *VibeEngine) finish(ctx context.Context, obs *detect.Observation, genre synth.Genre, progress chan<- ProgressUpdate) (*VibeResult, error) {
	if e.resolver == nil {
		return nil, fmt.Errorf("%w: catalog resolver not initialized", shared.ErrServiceUnavailable)
	}

	result := &VibeResult{Observation: obs}

	e.sendProgress(progress, synthesizeUpdate(obs))
	result.Query = e.synth.Synthesize(obs.Mood, genre, obs.Age, e.now().Hour())

	e.sendProgress(progress, searchUpdate(result.Query))
	playlist, err := e.resolver.Resolve(ctx, result.Query)
	if err != nil {
		return result, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	result.Playlist = playlist

	if playlist == nil {
		e.sendProgress(progress, noResultUpdate())
	}

	result.Scan = e.record(obs, genre, result.Query, playlist)
	e.sendProgress(progress, doneUpdate(result))
	return result, nil
}

// record persists the scan best effort. History must never fail a vibe the
// user already has on screen.
func (e *VibeEngine) record(obs *detect.Observation, genre synth.Genre, query synth.Query, playlist *catalog.Playlist) *store.Scan {
	if e.scans == nil {
		return nil
	}

	scan := &store.Scan{
		Mood:         string(obs.Mood),
		Age:          int(obs.Age),
		Confidence:   obs.Confidence,
		Genre:        string(genre),
		Trace:        query.Trace,
		PrimaryQuery: query.Primary,
	}
	if playlist != nil {
		scan.PlaylistID = playlist.ID
		scan.PlaylistName = playlist.Name
	}

	if err := e.scans.Create(scan); err != nil {
		e.logger.Warn("failed to record scan", "error", err)
		return nil
	}

	return scan
}
