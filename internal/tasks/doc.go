// Package tasks orchestrates the scan-to-playlist pipeline with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines two operations:
//
//  1. [Engine.Run] : Full camera scan
//     - Acquires the camera and polls until a mood locks
//     - Synthesizes search queries from the locked observation
//     - Resolves a playlist from the catalog
//     - Records the scan in history
//
//  2. [Engine.Override] : Manual mood selection
//     - Locks the chosen mood immediately, no camera involved
//     - Runs the same synthesis, resolution and recording tail
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and
// optional data for advanced UI rendering. Updates use select with default to
// prevent blocking.
//
// # History
//
// The optional [ScanRecorder] interface persists each completed vibe. Scans
// are recorded best effort (errors logged) so a storage hiccup never loses a
// result the user is already looking at.
//
// # Implementation
//
// [VibeEngine] implements [Engine] with dependencies on:
//   - [detect.Loop] : the camera session and lock state machine
//   - [synth.Engine] : pure query synthesis
//   - [PlaylistResolver] : catalog search (catalog.Resolver)
//   - [ScanRecorder] : optional persistence layer (store.ScanRepository)
package tasks
