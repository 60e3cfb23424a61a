// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for mood-driven music discovery:
//  1. [SplashView] : First-run welcome screen
//  2. [GenreView] : Pick the genre lens for the scan
//  3. [ManualView] : Pick a mood directly when the camera is unwanted
//  4. [ScanView] : Monitor real-time scan and search progress
//  5. [ResultView] : Display the locked mood, decision trace and playlist
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the VibeEngine, providing non-blocking status reporting during scans.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, m, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
