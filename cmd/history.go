package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/vibescan/internal/formatter"
	"github.com/desertthunder/vibescan/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints recent scans, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	if r.scans == nil {
		return fmt.Errorf("%w: scan history not initialized, run 'vibescan setup database'", shared.ErrServiceUnavailable)
	}

	limit := cmd.Int("limit")
	scans, err := r.scans.List(limit)
	if err != nil {
		return fmt.Errorf("failed to list scans: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(scans, cmd.Bool("pretty"))
	}

	if len(scans) == 0 {
		return r.writePlain("No scans recorded yet. Run 'vibescan vibe' first.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Scan History (%d)", len(scans)))
	for _, scan := range scans {
		playlist := scan.PlaylistName
		if playlist == "" {
			playlist = "-"
		}
		r.writePlain("%s  %s  %-9s  %.2f  %s\n",
			scan.CreatedAt.Format("2006-01-02 15:04"), scan.ID, scan.Mood, scan.Confidence, playlist)
	}

	return nil
}

// HistoryShow prints a single scan by ID.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	if r.scans == nil {
		return fmt.Errorf("%w: scan history not initialized, run 'vibescan setup database'", shared.ErrServiceUnavailable)
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: scan ID is required", shared.ErrMissingArgument)
	}

	scan, err := r.scans.Get(id)
	if err != nil {
		return fmt.Errorf("failed to load scan: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(scan, cmd.Bool("pretty"))
	}

	card, err := formatter.ExportToText(scan)
	if err != nil {
		return fmt.Errorf("failed to format scan: %w", err)
	}

	return r.writePlain("%s", string(card))
}

// HistoryExport writes scan history to a CSV file.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	if r.scans == nil {
		return fmt.Errorf("%w: scan history not initialized, run 'vibescan setup database'", shared.ErrServiceUnavailable)
	}

	scans, err := r.scans.List(cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list scans: %w", err)
	}

	data, err := formatter.ExportHistoryCSV(scans)
	if err != nil {
		return fmt.Errorf("failed to build CSV: %w", err)
	}

	outputPath := cmd.String("output")
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	return r.writePlain("✓ Exported %d scans to %s\n", len(scans), outputPath)
}
