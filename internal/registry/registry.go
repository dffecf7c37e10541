// Package registry provides a global registry for game factories.
// Games register themselves in init() functions, allowing the platform
// to discover and instantiate games without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/mintpuff/cinna-arcade/internal/core"
	"github.com/mintpuff/cinna-arcade/internal/engine/events"
	"github.com/mintpuff/cinna-arcade/internal/engine/input"
	"github.com/mintpuff/cinna-arcade/internal/engine/loop"
)

// Runtime bundles the shared engine services a game wires itself into.
// The platform owns the runtime; games register update callbacks on the
// scheduler and subscribe to input actions on the bus during Init.
type Runtime struct {
	Cfg    core.RuntimeConfig
	Bus    *events.Bus
	Sched  *loop.Scheduler
	Input  *input.Mapper
	Logger *log.Logger

	// ConfigPath points at a user-supplied YAML config; empty means the
	// game's normal search order applies. Difficulty names a preset
	// ("easy", "normal", "hard", "fixed"); games ignore names they do
	// not recognize.
	ConfigPath string
	Difficulty string

	// RecordScore persists a finished run. Nil when score storage is
	// unavailable; games must tolerate both nil and errors.
	RecordScore func(playerID int64, gameID string, score int) error

	// FetchHighScore returns the stored best score for a game, 0 when
	// none exists. Nil when score storage is unavailable.
	FetchHighScore func(playerID int64, gameID string) (int, error)
}

// Game is the core interface that all arcade games must implement.
// Games contain pure logic with no external dependencies (especially no
// Bubble Tea). The platform handles input mapping, timing, and rendering.
type Game interface {
	// ID returns a unique identifier for this game (e.g., "cinnaflight").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for display (e.g., "Cinna Flight").
	Title() string

	// Init wires the game into the runtime: scheduler update callbacks,
	// input subscriptions, and the event bus. Called once before the
	// loop starts.
	Init(rt *Runtime) error

	// Render draws the current game state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current phase, score, and high score.
	State() core.GameState
}

// NameTaker is implemented by games that run a name-entry screen before
// the first round. The platform forwards the submitted name here.
type NameTaker interface {
	SubmitName(name string)
}

// Resizer is implemented by games that adapt their playfield when the
// terminal changes size. The platform has already updated Runtime.Cfg
// when it calls Resize.
type Resizer interface {
	Resize(width, height int)
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Typically called from a game's init() function.
// Panics if a game with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	g := f()
	titles[id] = g.Title()
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new game by its ID.
// Returns an error if the game ID is not registered.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
