package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vibescan/internal/formatter"
	"github.com/desertthunder/vibescan/internal/store"
	"github.com/desertthunder/vibescan/internal/synth"
	"github.com/desertthunder/vibescan/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SplashView ViewState = iota
	GenreView
	ManualView
	ScanView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx           context.Context
	view          ViewState
	engine        tasks.Engine
	state         store.Store
	width         int
	height        int
	genreList     list.Model
	moodList      list.Model
	selectedGenre synth.Genre
	progressChan  chan tasks.ProgressUpdate
	progress      tasks.ProgressUpdate
	result        *tasks.VibeResult
	err           error
	help          help.Model
	keys          keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine tasks.Engine, state store.Store) *Model {
	m := &Model{
		ctx:           ctx,
		view:          GenreView,
		engine:        engine,
		state:         state,
		selectedGenre: synth.GenreBollywood,
		help:          help.New(),
		keys:          newKeyMap(),
	}

	if _, err := state.Get(store.KeySplashSeen); err != nil {
		m.view = SplashView
	}

	m.genreList = list.New(genreItems(), list.NewDefaultDelegate(), 0, 0)
	m.genreList.Title = "Pick a genre lens"
	m.moodList = list.New(moodItems(), list.NewDefaultDelegate(), 0, 0)
	m.moodList.Title = "Pick a mood"
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.genreList.SetSize(msg.Width-4, msg.Height-8)
		m.moodList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SplashView:
			return m.handleSplashKeys(msg)
		case GenreView:
			return m.handleGenreKeys(msg)
		case ManualView:
			return m.handleManualKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case ScanView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case vibeCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case SplashView:
		return m.renderSplash()
	case GenreView:
		return m.renderGenreList()
	case ManualView:
		return m.renderMoodList()
	case ScanView:
		return m.renderScan()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleSplashKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	default:
		// best effort, the splash just shows again next run
		m.state.Set(store.KeySplashSeen, "1")
		m.view = GenreView
		return m, nil
	}
}

func (m *Model) handleGenreKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "m":
		m.syncGenre()
		m.view = ManualView
		return m, nil
	case "enter":
		m.syncGenre()
		m.view = ScanView
		return m, m.startScan()
	}

	var cmd tea.Cmd
	m.genreList, cmd = m.genreList.Update(msg)
	return m, cmd
}

func (m *Model) handleManualKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = GenreView
		return m, nil
	case "enter":
		selected := m.moodList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(moodItem); ok {
				m.view = ScanView
				return m, m.startOverride(item.mood)
			}
		}
	}

	var cmd tea.Cmd
	m.moodList, cmd = m.moodList.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = GenreView
		m.result = nil
		m.err = nil
		m.progress = tasks.ProgressUpdate{}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case GenreView:
		m.genreList, cmd = m.genreList.Update(msg)
	case ManualView:
		m.moodList, cmd = m.moodList.Update(msg)
	}
	return m, cmd
}

func (m *Model) syncGenre() {
	if selected := m.genreList.SelectedItem(); selected != nil {
		if item, ok := selected.(genreItem); ok {
			m.selectedGenre = item.genre
		}
	}
}

func (m *Model) startScan() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	m.progressChan = progress

	go func() {
		result, err := m.engine.Run(m.ctx, m.selectedGenre, progress)
		m.result = result
		m.err = err
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) startOverride(mood synth.Mood) tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	m.progressChan = progress

	go func() {
		result, err := m.engine.Override(m.ctx, mood, m.selectedGenre, progress)
		m.result = result
		m.err = err
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress := m.progressChan
	return func() tea.Msg {
		if progress == nil {
			return vibeCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-progress
		if !ok {
			return vibeCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderSplash() string {
	title := styles.title.Render("vibescan")
	body := "Point the camera at your face, lock a mood,\nand get a playlist to match.\n\nPress any key to start."
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", title, body, helpView)
}

func (m *Model) renderGenreList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.manual, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.genreList.View(), helpView)
}

func (m *Model) renderMoodList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.moodList.View(), helpView)
}

func (m *Model) renderScan() string {
	title := styles.title.Render("Scanning")

	var phase string
	switch m.progress.Phase {
	case tasks.AcquireCamera:
		phase = "Acquiring camera..."
	case tasks.Scanning:
		phase = "Hold still, reading your face..."
	case tasks.Locked:
		phase = "Mood locked!"
	case tasks.Synthesize:
		phase = "Building your query..."
	case tasks.Search:
		phase = "Searching the catalog..."
	default:
		phase = "Working..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Scan failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	obs := m.result.Observation
	title := styles.ok.Render(fmt.Sprintf("✓ %s", obs.Mood))
	info := fmt.Sprintf("\nConfidence: %.0f%%\nLogic: %s\n", obs.Confidence*100, m.result.Query.Trace)

	var playlist string
	if m.result.Playlist != nil {
		playlist = fmt.Sprintf("\n%s\n%s\n",
			styles.title.Render(m.result.Playlist.Name),
			formatter.PlaylistURL(m.result.Playlist.ID),
		)
	} else {
		playlist = fmt.Sprintf("\n%s\n", styles.warn.Render("Nothing usable in the catalog for this vibe."))
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s%s\n%s", title, info, playlist, helpView)
}
