package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vibescan/internal/formatter"
	"github.com/desertthunder/vibescan/internal/shared"
	"github.com/desertthunder/vibescan/internal/store"
	"github.com/urfave/cli/v3"
)

// Share writes a share card for a recorded scan.
func (r *Runner) Share(ctx context.Context, cmd *cli.Command) error {
	if r.scans == nil {
		return fmt.Errorf("%w: scan history not initialized, run 'vibescan setup database'", shared.ErrServiceUnavailable)
	}

	var scan *store.Scan
	var err error

	if id := cmd.String("id"); id != "" {
		scan, err = r.scans.Get(id)
	} else {
		scan, err = r.scans.Latest()
	}
	if err != nil {
		return fmt.Errorf("failed to load scan: %w", err)
	}

	path, err := formatter.WriteShareCard(scan, cmd.String("output"))
	if err != nil {
		return fmt.Errorf("failed to write share card: %w", err)
	}

	return r.writePlain("✓ Share card written to %s\n", path)
}
