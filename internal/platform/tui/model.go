package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MilleBA/Pac-Man/internal/core"
	"github.com/MilleBA/Pac-Man/internal/games/maze/engine"
	"github.com/MilleBA/Pac-Man/internal/scheduler"
)

var screenshotKey = key.NewBinding(key.WithKeys("ctrl+s"))

// Model is the Bubble Tea model for one maze game. It never touches the
// engine: key presses become scheduler commands and every redraw reads the
// latest published frame.
type Model struct {
	runner   *scheduler.Runner
	keys     KeyMap
	help     help.Model
	screen   *core.Screen
	config   core.RuntimeConfig
	frame    engine.FrameState
	quitting bool
}

// NewModel creates a model that displays and controls the given runner.
func NewModel(r *scheduler.Runner, cfg core.RuntimeConfig) Model {
	h := help.New()
	h.ShowAll = false

	return Model{
		runner: r,
		keys:   DefaultKeyMap(),
		help:   h,
		screen: core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 0)),
		config: cfg,
		frame:  r.Frame(),
	}
}

// Init starts the redraw loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.FPS)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 0))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		m.frame = m.runner.Frame()
		return m, tickCmd(m.config.FPS)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, screenshotKey):
		m.saveScreenshot()
		return m, nil
	}

	action := m.keys.Action(msg)
	switch action {
	case core.ActionNone:
		return m, nil
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionRestart:
		// Restart only from the end screens; mid-game presses are ignored
		m.frame = m.runner.Frame()
		if !m.frame.Status.Finished() {
			return m, nil
		}
	}

	m.runner.Apply(action)
	return m, nil
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	DrawFrame(m.screen, m.frame)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.frame.Pack, timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if w, h := minScreen(m.frame); m.screen.Width() < w || m.screen.Height() < h {
		return fmt.Sprintf("terminal too small: need %dx%d, have %dx%d",
			w, h+1, m.config.ScreenW, m.config.ScreenH)
	}

	DrawFrame(m.screen, m.frame)
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// Run starts the Bubble Tea program for a runner and blocks until the player
// quits. The caller owns the runner's lifetime.
func Run(r *scheduler.Runner, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewModel(r, cfg),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
