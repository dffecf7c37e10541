// Package skyrun implements Sky Run, an endless runner where
// Cinnamoroll's friend Milk dashes along the cloud tops and hops over
// crates. It shares the lifecycle, physics, and event wiring of the
// other platform games.
package skyrun

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mintpuff/cinna-arcade/internal/config"
	"github.com/mintpuff/cinna-arcade/internal/core"
	"github.com/mintpuff/cinna-arcade/internal/engine/events"
	"github.com/mintpuff/cinna-arcade/internal/engine/input"
	"github.com/mintpuff/cinna-arcade/internal/engine/loop"
	"github.com/mintpuff/cinna-arcade/internal/engine/physics"
	"github.com/mintpuff/cinna-arcade/internal/registry"
)

// GameID is the registry and storage identifier for Sky Run.
const GameID = "skyrun"

// Visual characters for rendering
const (
	runnerBody = '█'
	runnerHead = '◆'
	runnerLeg1 = '╱'
	runnerLeg2 = '╲'
	crateChar  = '▓'
	kiteChar   = '◇'
	groundChar = '═'
)

// Game implements Sky Run. All state is mutated from scheduler callbacks
// and bus handlers on the platform's single goroutine.
type Game struct {
	cfg config.SkyRunConfig
	rt  *registry.Runtime

	world    physics.World
	player   physics.Body
	grounded bool
	crates   *CrateManager
	groundY  float64

	phase      core.Phase
	playerName string
	score      int
	highScore  int

	speedMult     float64
	appliedSteps  int
	lastMilestone int

	pendingJump bool
	duckFrames  float64 // remaining crouch time, in reference frames
	legPhase    float64 // run-cycle animation, advances with distance
	rng         *rand.Rand
	unsubs      []func()
}

// duckDurationFrames is how long a crouch lasts. Terminals deliver taps
// rather than held keys, so ducking is a timed action.
const duckDurationFrames = 20.0

// New creates an uninitialized game. Init must run before the first
// frame.
func New() *Game {
	return &Game{phase: core.PhaseNameEntry, speedMult: 1.0}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Sky Run"
}

// Init loads configuration, builds the physics world, and wires the game
// into the runtime's scheduler and event bus.
func (g *Game) Init(rt *registry.Runtime) error {
	cfg, err := config.LoadSkyRun(rt.ConfigPath)
	if err != nil {
		return fmt.Errorf("skyrun: %w", err)
	}
	if preset, ok := config.ParsePreset(rt.Difficulty); ok {
		config.ApplySkyRunPreset(&cfg, preset)
	}
	return g.initWith(rt, cfg)
}

func (g *Game) initWith(rt *registry.Runtime, cfg config.SkyRunConfig) error {
	world, err := physics.NewWorld(physics.Params{
		Gravity:      cfg.Physics.Gravity,
		MaxFallSpeed: cfg.Physics.MaxFallSpeed,
	})
	if err != nil {
		return fmt.Errorf("skyrun: %w", err)
	}

	if rt.Logger == nil {
		rt.Logger = log.New(io.Discard)
	}

	seed := rt.Cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g.cfg = cfg
	g.rt = rt
	g.world = world
	g.rng = rand.New(rand.NewSource(seed))
	g.groundY = float64(rt.Cfg.ScreenH - cfg.Player.GroundOffset)
	g.crates = NewCrateManager(cfg.Obstacles, g.rng.Int63(), float64(rt.Cfg.ScreenW))
	g.playerName = rt.Cfg.PlayerName

	g.phase = core.PhaseNameEntry
	if g.playerName != "" {
		g.phase = core.PhaseIdle
	}

	if rt.FetchHighScore != nil {
		if hs, err := rt.FetchHighScore(rt.Cfg.PlayerID, GameID); err == nil {
			g.highScore = hs
		}
	}

	g.unsubs = append(g.unsubs,
		rt.Bus.Subscribe(input.EventAction, func(payload any) {
			if p, ok := payload.(input.ActionPayload); ok {
				g.handleAction(p.Action)
			}
		}),
		rt.Sched.OnUpdate(g.update),
	)
	return nil
}

// Resize adapts the playfield to a new terminal size, keeping the
// runner on the ground line.
func (g *Game) Resize(width, height int) {
	g.groundY = float64(height - g.cfg.Player.GroundOffset)
	g.crates.Resize(float64(width))
	if g.grounded {
		g.player.Y = g.groundY - g.player.H
	}
}

// Close detaches the game from the scheduler and bus.
func (g *Game) Close() {
	for _, u := range g.unsubs {
		u()
	}
	g.unsubs = nil
}

// SubmitName completes the name-entry screen. Empty names keep the
// screen up.
func (g *Game) SubmitName(name string) {
	if g.phase != core.PhaseNameEntry || name == "" {
		return
	}
	g.playerName = name
	g.transition(core.PhaseIdle)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Phase:     g.phase,
		Score:     g.score,
		HighScore: g.highScore,
	}
}

func (g *Game) transition(to core.Phase) bool {
	if !core.CanTransition(g.phase, to) {
		return false
	}
	g.phase = to
	return true
}

func (g *Game) handleAction(a input.Action) {
	switch a {
	case input.ActionFlap:
		switch g.phase {
		case core.PhaseIdle:
			g.startRound()
		case core.PhasePlaying:
			if g.grounded {
				g.pendingJump = true
				g.rt.Bus.Publish(events.Flap, nil)
			}
		}
	case input.ActionDuck:
		if g.phase != core.PhasePlaying {
			return
		}
		if g.grounded {
			g.duckFrames = duckDurationFrames
		} else {
			// Airborne duck is a fast-fall back to the ground.
			g.player.VelY = g.cfg.Physics.MaxFallSpeed
		}
	case input.ActionPause:
		// The scheduler pauses with the game so update callbacks stop
		// dispatching; rendering continues for the pause overlay.
		if g.phase == core.PhasePlaying {
			if g.transition(core.PhasePaused) {
				g.rt.Sched.Pause()
			}
		} else if g.phase == core.PhasePaused {
			if g.transition(core.PhasePlaying) {
				g.rt.Sched.Resume()
			}
		}
	case input.ActionRestart:
		if g.phase == core.PhaseGameOver {
			g.transition(core.PhaseIdle)
			g.startRound()
		}
	case input.ActionConfirm:
		if g.phase == core.PhaseGameOver {
			g.transition(core.PhaseIdle)
		}
	}
}

// startRound resets the round state and begins play.
func (g *Game) startRound() {
	if g.phase != core.PhaseIdle {
		return
	}

	g.player = physics.Body{
		X: g.cfg.Player.X,
		Y: g.groundY - g.cfg.Player.Height,
		W: g.cfg.Player.Width,
		H: g.cfg.Player.Height,
	}
	g.grounded = true
	g.score = 0
	g.speedMult = 1.0
	g.appliedSteps = 0
	g.lastMilestone = 0
	g.pendingJump = false
	g.duckFrames = 0
	g.legPhase = 0
	g.crates.Reset(g.rng.Int63())

	g.transition(core.PhasePlaying)
	g.rt.Bus.Publish(events.GameStart, events.ScorePayload{GameID: GameID})
}

// update advances one simulation frame: queued jump, vertical physics,
// landing, crate movement, scoring, collision.
func (g *Game) update(frame loop.Frame) {
	if g.phase != core.PhasePlaying {
		return
	}

	if g.pendingJump && g.grounded {
		g.world.ApplyImpulse(&g.player, 0, g.cfg.Physics.JumpImpulse)
		g.grounded = false
		g.duckFrames = 0
	}
	g.pendingJump = false

	if g.duckFrames > 0 {
		g.duckFrames -= frame.DeltaNormalized
	}

	if !g.grounded {
		g.world.ApplyGravity(&g.player, frame.DeltaMs)
		g.world.ClampVelocity(&g.player)
		g.world.ApplyVelocity(&g.player, frame.DeltaMs)

		if floor := g.groundY - g.player.H; g.player.Y >= floor {
			g.player.Y = floor
			g.player.VelY = 0
			g.grounded = true
		}
	}

	dist := g.cfg.Physics.BaseSpeed * g.speedMult * frame.DeltaNormalized
	g.crates.Advance(dist, g.score)
	g.legPhase += dist

	if cleared := g.crates.CheckScoring(g.player.X + g.player.W); cleared > 0 {
		g.addScore(cleared * g.cfg.Scoring.PointsPerObstacle)
	}

	if g.crates.CheckCollision(g.hitRect(), g.groundY) {
		g.rt.Bus.Publish(events.Collision, events.ScorePayload{GameID: GameID, Score: g.score})
		g.endRound()
	}
}

// ducking reports whether the runner is currently crouched.
func (g *Game) ducking() bool {
	return g.grounded && g.duckFrames > 0
}

// hitRect is the runner's collision rectangle. Crouching drops the head
// row, letting the runner slide under kites.
func (g *Game) hitRect() physics.Rect {
	h := g.player.H
	y := g.player.Y
	if g.ducking() && h > 1 {
		h--
		y++
	}
	return physics.Rect{X: g.player.X, Y: y, W: g.player.W, H: h}
}

// addScore applies newly earned points plus speed steps and milestones.
func (g *Game) addScore(points int) {
	g.score += points
	g.rt.Bus.Publish(events.Score, events.ScorePayload{GameID: GameID, Score: g.score})

	if g.cfg.Scoring.SpeedUpStep > 0 {
		steps := g.score / g.cfg.Scoring.SpeedUpEvery
		if steps > g.appliedSteps {
			for g.appliedSteps < steps {
				g.appliedSteps++
				g.speedMult += g.cfg.Scoring.SpeedUpStep
			}
			if g.speedMult > g.cfg.Scoring.SpeedUpCap {
				g.speedMult = g.cfg.Scoring.SpeedUpCap
			}
			g.rt.Bus.Publish(events.SpeedUp, events.SpeedUpPayload{GameID: GameID, Multiplier: g.speedMult})
		}
	}

	if m := g.cfg.Scoring.MilestoneEvery; g.score/m > g.lastMilestone {
		g.lastMilestone = g.score / m
		g.rt.Bus.Publish(events.Milestone, events.ScorePayload{GameID: GameID, Score: g.score})
	}
}

// endRound finishes the round: high-score bookkeeping, persistence, and
// the game-over event.
func (g *Game) endRound() {
	newHigh := g.score > g.highScore
	if newHigh {
		g.highScore = g.score
		g.rt.Bus.Publish(events.HighScore, events.ScorePayload{GameID: GameID, Score: g.score})
	}

	g.transition(core.PhaseGameOver)
	g.rt.Bus.Publish(events.GameOver, events.GameOverPayload{
		GameID:       GameID,
		Score:        g.score,
		HighScore:    g.highScore,
		NewHighScore: newHigh,
	})

	if g.rt.RecordScore != nil {
		if err := g.rt.RecordScore(g.rt.Cfg.PlayerID, GameID, g.score); err != nil {
			g.rt.Logger.Warn("failed to record score", "game", GameID, "err", err)
		}
	}
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	groundY := int(g.groundY)
	dst.DrawHLine(0, groundY, dst.Width(), groundChar)

	for _, c := range g.crates.Crates() {
		g.drawCrate(dst, c, groundY)
	}

	if g.phase != core.PhaseNameEntry && g.phase != core.PhaseIdle {
		g.drawRunner(dst)
	}

	hud := fmt.Sprintf(" Score: %d  Best: %d  Speed: x%.1f ", g.score, g.highScore, g.speedMult)
	dst.DrawText(2, 0, hud)

	switch g.phase {
	case core.PhaseNameEntry, core.PhaseIdle:
		g.drawCenteredMessage(dst, "SKY RUN", "Press SPACE to run")
	case core.PhasePaused:
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	case core.PhaseGameOver:
		g.drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d  |  Press R to restart", g.score))
	}
}

// drawRunner renders the 3x3 runner sprite with a two-frame leg cycle.
// A crouched runner loses the head row.
func (g *Game) drawRunner(dst *core.Screen) {
	x := int(g.player.X)
	y := int(g.player.Y)

	if !g.ducking() {
		dst.SetColored(x+1, y, runnerHead, core.ColorWhite)
		dst.SetColored(x+2, y, runnerBody, core.ColorWhite)
	}
	dst.SetColored(x, y+1, runnerBody, core.ColorWhite)
	dst.SetColored(x+1, y+1, runnerBody, core.ColorWhite)
	dst.SetColored(x+2, y+1, runnerBody, core.ColorPink)

	if g.grounded {
		if int(g.legPhase/3)%2 == 0 {
			dst.Set(x, y+2, runnerLeg1)
			dst.Set(x+2, y+2, runnerLeg2)
		} else {
			dst.Set(x+1, y+2, runnerLeg1)
			dst.Set(x+2, y+2, runnerLeg2)
		}
	} else {
		dst.Set(x, y+2, runnerLeg1)
		dst.Set(x+1, y+2, runnerLeg2)
	}
}

func (g *Game) drawCrate(dst *core.Screen, c Crate, groundY int) {
	w := int(c.Width)
	if w < 1 {
		w = 1
	}
	h := int(c.Height)
	if h < 1 {
		h = 1
	}

	top := groundY - h
	ch := crateChar
	color := core.ColorYellow
	if c.Flying {
		top = groundY - int(kiteClearance) - h
		ch = kiteChar
		color = core.ColorMagenta
	}

	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			dst.SetColored(int(c.X)+dx, top+dy, ch, color)
		}
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	dst.DrawText(boxX+(boxW-len(title))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}

// Register the game with the registry
func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}
