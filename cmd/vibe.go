package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vibescan/internal/shared"
	"github.com/desertthunder/vibescan/internal/synth"
	"github.com/desertthunder/vibescan/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Scan runs the detection cycle until a mood locks and prints the observation.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	if r.loop == nil {
		return fmt.Errorf("%w: detection loop not initialized", shared.ErrServiceUnavailable)
	}

	r.writePlain("→ Scanning for a steady mood...\n")

	obs, err := r.loop.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(obs, cmd.Bool("pretty"))
	}

	r.writePlainln("✓ Mood locked")
	r.writePlain("Mood: %s\n", obs.Mood)
	r.writePlain("Age: %d\n", obs.Age)
	r.writePlain("Confidence: %.2f\n", obs.Confidence)

	return nil
}

// Vibe runs the full pipeline: lock a mood, synthesize queries and resolve a playlist.
//
// With --mood the camera is skipped and the given mood locks directly.
func (r *Runner) Vibe(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: vibe engine not initialized", shared.ErrServiceUnavailable)
	}

	genre := synth.ParseGenre(cmd.String("genre"))

	progress := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		for update := range progress {
			r.writePlain("→ %s\n", update.Message)
		}
		close(drained)
	}()

	var result *tasks.VibeResult
	var err error

	if moodArg := cmd.String("mood"); moodArg != "" {
		mood, ok := synth.ParseMood(moodArg)
		if !ok {
			close(progress)
			<-drained
			return fmt.Errorf("%w: unknown mood %q", shared.ErrInvalidArgument, moodArg)
		}
		result, err = r.engine.Override(ctx, mood, genre, progress)
	} else {
		result, err = r.engine.Run(ctx, genre, progress)
	}

	close(progress)
	<-drained

	if err != nil {
		return fmt.Errorf("vibe failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlainln("✓ %s", result.Query.Trace)
	r.writePlain("Mood: %s (%.2f)\n", result.Observation.Mood, result.Observation.Confidence)
	r.writePlain("Query: %s\n", result.Query.Primary)

	if result.Playlist == nil {
		r.writePlain("\nNo playlist matched this vibe. Try another genre.\n")
		return nil
	}

	r.writePlain("\nPlaylist: %s\n", result.Playlist.Name)
	if result.Playlist.Owner != "" {
		r.writePlain("Owner: %s\n", result.Playlist.Owner)
	}
	r.writePlain("Tracks: %d\n", result.Playlist.TrackCount)
	r.writePlain("URL: %s\n", result.Playlist.URL)

	return nil
}
