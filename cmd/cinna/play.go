package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mintpuff/cinna-arcade/internal/core"
	"github.com/mintpuff/cinna-arcade/internal/platform/tui"
	"github.com/mintpuff/cinna-arcade/internal/registry"
	"github.com/mintpuff/cinna-arcade/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagNoSound    bool
	flagDebugLog   bool
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls:
  Space/Up   - Flap/Jump
  P/Esc      - Pause
  R          - Restart (after game over)
  Q/Ctrl+C   - Quit
  Ctrl+S     - Save a screenshot

Difficulty options:
  easy   - Wider gaps, slower speed-up
  normal - The tuning from the config file
  hard   - Faster clouds, tighter gaps
  fixed  - No speed progression, stays at base speed

Examples:
  cinna play cinnaflight
  cinna play skyrun --difficulty easy
  cinna play cinnaflight --config ./my-tuning.yaml
  cinna play cinnaflight --seed 42`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagNoSound, "no-sound", false, "Disable audio chimes")
	playCmd.Flags().BoolVar(&flagDebugLog, "debug", false, "Write a debug log to the XDG state dir")
}

// newLogger returns a logger for interactive sessions. The terminal is
// owned by the TUI, so debug output goes to a file or nowhere.
func newLogger() *log.Logger {
	if !flagDebugLog {
		return log.New(io.Discard)
	}

	path, err := xdg.StateFile(filepath.Join("cinna-arcade", "debug.log"))
	if err != nil {
		return log.New(io.Discard)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return log.New(io.Discard)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           log.DebugLevel,
	})
	return logger
}

// terminalSize returns the current terminal dimensions with fallbacks.
func terminalSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}

// resolvePlayer fills the player identity from the saved profile, if
// one exists. Games ask for a name when none is set.
func resolvePlayer(cfg *core.RuntimeConfig, store *storage.Store) {
	if store == nil {
		return
	}
	if player, err := store.FirstPlayer(); err == nil && player != nil {
		cfg.PlayerID = player.ID
		cfg.PlayerName = player.Name
	}
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'cinna list' to see available games.")
		os.Exit(1)
	}

	width, height := terminalSize()

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	resolvePlayer(&cfg, store)

	runErr := tui.LaunchGame(gameID, cfg, store, newLogger(), flagConfig, flagDifficulty, !flagNoSound)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
