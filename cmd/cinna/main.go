// cinna is a terminal arcade around Cinnamoroll-flavored sky games.
//
// Usage:
//
//	cinna list              - List available games
//	cinna play <game>       - Play a game
//	cinna menu              - Start menu to pick games interactively
//	cinna serve             - Start SSH server for remote play
//	cinna scores <game>     - Show high scores for a game
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: XDG data dir)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/mintpuff/cinna-arcade/internal/games/cinnaflight"
	_ "github.com/mintpuff/cinna-arcade/internal/games/skyrun"
	"github.com/mintpuff/cinna-arcade/internal/storage"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cinna",
	Short: "Cinna Arcade - Fluffy sky games in your terminal",
	Long: `Cinna Arcade is a terminal gaming platform where a small white
puppy flaps between clouds and sprints across the sky.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  serve    - Start SSH server for remote play
  scores   - View high scores

Examples:
  cinna list
  cinna play cinnaflight
  cinna menu
  cinna serve --ssh :2222
  cinna scores cinnaflight`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (default: XDG data dir)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// openStore resolves the database path and opens score storage.
func openStore() (*storage.Store, error) {
	path := flagDBPath
	if path == "" {
		var err error
		path, err = storage.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return storage.Open(path)
}
