package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/vibescan/internal/auth"
	"github.com/desertthunder/vibescan/internal/catalog"
	"github.com/desertthunder/vibescan/internal/detect"
	"github.com/desertthunder/vibescan/internal/shared"
	"github.com/desertthunder/vibescan/internal/store"
	"github.com/desertthunder/vibescan/internal/synth"
	"github.com/desertthunder/vibescan/internal/tasks"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	var stateStore store.Store
	var scans *store.ScanRepository

	if config.Store.Backend == "keyring" {
		stateStore = store.NewKeyringStore()
	}

	if db, err := store.NewDatabase(config.Database.Path); err == nil {
		store.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		scans = store.NewScanRepository(db)
		if stateStore == nil {
			stateStore = store.NewStateStore(db)
		}
	} else {
		logger.Warn("database unavailable, run 'vibescan setup database'", "error", err)
	}

	if stateStore == nil {
		stateStore = store.NewMemoryStore()
	}

	flow := auth.NewFlow(config.Credentials.Spotify, stateStore, nil, logger)
	detector := detect.NewHTTPDetector(config.Detector.ProxyURL, nil)
	camera := detect.NewDirCamera(config.Detector.FramesDir)
	loop := detect.NewLoop(camera, detector, config.Detector, logger)
	resolver := catalog.NewResolver(flow.AppTokenSource(context.Background()), nil, nil, logger)

	var recorder tasks.ScanRecorder
	if scans != nil {
		recorder = scans
	}
	engine := tasks.NewVibeEngine(loop, synth.NewEngine(nil), resolver, recorder, logger)

	var history scanHistory
	if scans != nil {
		history = scans
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Flow:       flow,
		Engine:     engine,
		Loop:       loop,
		Scans:      history,
		State:      stateStore,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "vibescan",
		Usage:    "Scan your mood and find a playlist that matches",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
