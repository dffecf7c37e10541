package core

// Phase is the lifecycle state of a game session. Every game on the
// platform shares the same lifecycle; each session enforces the
// transition table via CanTransition and silently ignores anything else.
type Phase int

const (
	PhaseNameEntry Phase = iota
	PhaseIdle
	PhasePlaying
	PhasePaused
	PhaseGameOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseNameEntry:
		return "name-entry"
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// CanTransition reports whether moving from one phase to another is
// legal. The table is exhaustive; sessions treat illegal transitions as
// no-ops rather than errors.
func CanTransition(from, to Phase) bool {
	switch from {
	case PhaseNameEntry:
		return to == PhaseIdle
	case PhaseIdle:
		return to == PhasePlaying
	case PhasePlaying:
		return to == PhasePaused || to == PhaseGameOver
	case PhasePaused:
		return to == PhasePlaying
	case PhaseGameOver:
		return to == PhaseIdle
	default:
		return false
	}
}

// RuntimeConfig is handed to games at initialization. Games use it to
// adapt to screen size and to run deterministic simulations.
type RuntimeConfig struct {
	ScreenW    int
	ScreenH    int
	TickRate   int   // simulation ticks per second
	Seed       int64 // RNG seed; 0 means the platform picks one
	PlayerID   int64 // persisted player, 0 when unknown
	PlayerName string
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// GameState is the snapshot a game exposes to the platform each frame.
type GameState struct {
	Phase     Phase
	Score     int
	HighScore int
}

// Over reports whether the session ended.
func (s GameState) Over() bool { return s.Phase == PhaseGameOver }

// Paused reports whether the session is paused.
func (s GameState) Paused() bool { return s.Phase == PhasePaused }
