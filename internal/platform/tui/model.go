package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mintpuff/cinna-arcade/internal/core"
	"github.com/mintpuff/cinna-arcade/internal/engine/loop"
	"github.com/mintpuff/cinna-arcade/internal/registry"
	"github.com/mintpuff/cinna-arcade/internal/storage"
)

// Model is the Bubble Tea model for running arcade games. It owns the
// render buffer and translates terminal events into engine input; the
// game itself advances through the runtime's scheduler.
type Model struct {
	game       registry.Game
	rt         *registry.Runtime
	screen     *core.Screen
	store      *storage.Store
	nameIn     textinput.Model
	quitting   bool
	backToMenu bool
}

// NewModel creates a new Bubble Tea model for the given initialized game.
func NewModel(game registry.Game, rt *registry.Runtime, store *storage.Store) *Model {
	ti := textinput.New()
	ti.Placeholder = "your name"
	ti.CharLimit = 24
	ti.Width = 26
	ti.Focus()

	m := &Model{
		game:   game,
		rt:     rt,
		screen: core.NewScreen(rt.Cfg.ScreenW, rt.Cfg.ScreenH),
		store:  store,
		nameIn: ti,
	}

	// The game draws during the scheduler's render phase; View only
	// converts the buffer to a string.
	rt.Sched.OnRender(func(loop.Frame) {
		m.game.Render(m.screen)
	})
	return m
}

// Init starts the scheduler and the tick loop.
func (m *Model) Init() tea.Cmd {
	m.rt.Sched.Start()
	return tickCmd(m.rt.Cfg.TickRate)
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.rt.Cfg.ScreenW = msg.Width
		m.rt.Cfg.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		if r, ok := m.game.(registry.Resizer); ok {
			r.Resize(msg.Width, msg.Height)
		}
		return m, nil

	case TickMsg:
		m.rt.Sched.Tick(time.Time(msg))
		return m, tickCmd(m.rt.Cfg.TickRate)
	}

	return m, nil
}

// nameEntryActive reports whether the name-entry overlay captures input.
func (m *Model) nameEntryActive() bool {
	_, takesName := m.game.(registry.NameTaker)
	return takesName && m.game.State().Phase == core.PhaseNameEntry
}

// handleKey processes keyboard input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m.quit()
	}

	if m.nameEntryActive() {
		return m.handleNameKey(msg)
	}

	switch key {
	case "q":
		return m.quit()
	case "b":
		// Leave the game from a resting phase only; mid-round "b" is
		// left for the game to interpret.
		switch m.game.State().Phase {
		case core.PhaseIdle, core.PhaseGameOver:
			m.backToMenu = true
			m.rt.Sched.Stop()
			return m, tea.Quit
		}
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}

	// Terminals deliver key presses without release events, so every
	// press is a tap: down then immediately up.
	m.rt.Input.HandleKeyDown(key)
	m.rt.Input.HandleKeyUp(key)
	return m, nil
}

// handleNameKey routes keys to the name-entry field.
func (m *Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		name := strings.TrimSpace(m.nameIn.Value())
		if name == "" {
			return m, nil
		}
		m.submitName(name)
		return m, nil
	}

	var cmd tea.Cmd
	m.nameIn, cmd = m.nameIn.Update(msg)
	return m, cmd
}

// submitName persists the player profile and hands the name to the game.
func (m *Model) submitName(name string) {
	if m.store != nil {
		if player, err := m.store.CreatePlayer(name); err == nil {
			m.rt.Cfg.PlayerID = player.ID
		}
	}
	m.rt.Cfg.PlayerName = name

	if taker, ok := m.game.(registry.NameTaker); ok {
		taker.SubmitName(name)
	}
}

// handleMouse forwards pointer presses as the primary action.
func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.nameEntryActive() {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		m.rt.Input.HandlePointerDown()
	case tea.MouseActionRelease:
		m.rt.Input.HandlePointerUp()
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.rt.Sched.Stop()
	return m, tea.Quit
}

// BackToMenu reports whether the player left the game to return to the
// menu rather than quitting the program.
func (m *Model) BackToMenu() bool { return m.backToMenu }

// Quitting reports whether the player asked to leave the program.
func (m *Model) Quitting() bool { return m.quitting }

// saveScreenshot writes the current frame to the XDG data directory.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path, err := xdg.DataFile(filepath.Join("cinna-arcade", "screenshots", name))
	if err != nil {
		return
	}

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	frame := RenderScreen(m.screen)

	if m.nameEntryActive() {
		return overlayNameEntry(frame, m.nameIn.View(), m.rt.Cfg.ScreenW, m.rt.Cfg.ScreenH)
	}
	return frame
}

// overlayNameEntry draws the name prompt box over the rendered frame.
func overlayNameEntry(frame, field string, width, height int) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("213")).
		Padding(1, 2)

	box := boxStyle.Render("Who's playing today?\n\n" + field + "\n\nEnter to continue")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "))
}

// Run starts the Bubble Tea program for an initialized game.
func Run(game registry.Game, rt *registry.Runtime, store *storage.Store) error {
	p := tea.NewProgram(
		NewModel(game, rt, store),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
