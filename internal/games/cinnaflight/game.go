// Package cinnaflight implements Cinna Flight, a Flappy Bird-style game
// where Cinnamoroll glides through gaps in cloud pairs. The simulation is
// driven by the shared scheduler; inputs arrive as semantic actions on
// the event bus.
package cinnaflight

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mintpuff/cinna-arcade/internal/config"
	"github.com/mintpuff/cinna-arcade/internal/core"
	"github.com/mintpuff/cinna-arcade/internal/engine/input"
	"github.com/mintpuff/cinna-arcade/internal/engine/physics"
	"github.com/mintpuff/cinna-arcade/internal/registry"
)

// GameID is the registry and storage identifier for Cinna Flight.
const GameID = "cinnaflight"

// Visual characters for rendering
const (
	cloudChar     = '▒'
	cloudCapUpper = '▄'
	cloudCapLower = '▀'
	groundChar    = '═'
	enemyChar     = '✦'
)

// Game implements Cinna Flight. All state is mutated from scheduler
// callbacks and bus handlers on the platform's single goroutine.
type Game struct {
	cfg config.CinnaConfig
	rt  *registry.Runtime

	world  physics.World
	player physics.Body
	clouds *CloudManager
	enemy  enemy
	bounds physics.Bounds

	phase      core.Phase
	playerName string
	score      int
	highScore  int

	speedMult     float64
	appliedSteps  int
	lastMilestone int
	enemyLive     bool

	pendingFlap bool
	elapsedMs   float64
	rng         *rand.Rand
	unsubs      []func()
}

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
	return "Cinna Flight"
}

// Init loads configuration, builds the physics world, and wires the game
// into the runtime's scheduler and event bus.
func (g *Game) Init(rt *registry.Runtime) error {
	cfg, err := config.LoadCinna(rt.ConfigPath)
	if err != nil {
		return fmt.Errorf("cinnaflight: %w", err)
	}
	if preset, ok := config.ParsePreset(rt.Difficulty); ok {
		config.ApplyCinnaPreset(&cfg, preset)
	}
	return g.initWith(rt, cfg)
}

// initWith finishes initialization with an explicit, already valid
// configuration.
func (g *Game) initWith(rt *registry.Runtime, cfg config.CinnaConfig) error {
	world, err := physics.NewWorld(physics.Params{
		Gravity:      cfg.Physics.Gravity,
		MaxFallSpeed: cfg.Physics.MaxFallSpeed,
	})
	if err != nil {
		return fmt.Errorf("cinnaflight: %w", err)
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
	g.bounds = physics.Bounds{MinY: 1, MaxY: g.playfieldH()}
	g.clouds = NewCloudManager(cfg.Clouds, g.rng.Int63(), g.playfieldW(), g.playfieldH())
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

// Resize adapts the playfield to a new terminal size. A player pushed
// out of bounds by a shrink is clamped back in on the next frame.
func (g *Game) Resize(width, height int) {
	playH := float64(height - 1)
	g.bounds = physics.Bounds{MinY: 1, MaxY: playH}
	g.clouds.Resize(float64(width), playH)
}

// Close detaches the game from the scheduler and bus.
func (g *Game) Close() {
	for _, u := range g.unsubs {
		u()
	}
	g.unsubs = nil
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Phase:     g.phase,
		Score:     g.score,
		HighScore: g.highScore,
	}
}

func (g *Game) playfieldW() float64 {
	return float64(g.rt.Cfg.ScreenW)
}

// playfieldH is the bottom of the playable area; the last screen row is
// the ground line.
func (g *Game) playfieldH() float64 {
	return float64(g.rt.Cfg.ScreenH - 1)
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	groundY := dst.Height() - 1
	dst.DrawHLine(0, groundY, dst.Width(), groundChar)

	for _, c := range g.clouds.Clouds() {
		g.drawCloud(dst, c, groundY)
	}

	if g.enemyLive {
		dst.SetColored(int(g.enemy.body.X), int(g.enemy.body.Y), enemyChar, core.ColorMagenta)
		dst.SetColored(int(g.enemy.body.X)+1, int(g.enemy.body.Y), enemyChar, core.ColorMagenta)
	}

	if g.phase != core.PhaseNameEntry && g.phase != core.PhaseIdle {
		g.drawPlayer(dst)
	}

	hud := fmt.Sprintf(" Score: %d  Best: %d  Speed: x%.1f ", g.score, g.highScore, g.speedMult)
	dst.DrawText(2, 0, hud)

	switch g.phase {
	case core.PhaseNameEntry, core.PhaseIdle:
		g.drawCenteredMessage(dst, "CINNA FLIGHT", "Press SPACE to take off")
	case core.PhasePaused:
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	case core.PhaseGameOver:
		g.drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d  |  Press R to restart", g.score))
	}
}

// drawPlayer renders Cinnamoroll: a white body with pink cheeks.
func (g *Game) drawPlayer(dst *core.Screen) {
	px, py := int(g.player.X), int(g.player.Y)
	w, h := int(g.cfg.Player.Width), int(g.cfg.Player.Height)
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			color := core.ColorWhite
			if dx == w-1 && dy == h-1 {
				color = core.ColorPink
			}
			dst.SetColored(px+dx, py+dy, '●', color)
		}
	}
}

// drawCloud renders the solid columns above and below the gap, with cap
// rows facing the opening.
func (g *Game) drawCloud(dst *core.Screen, c Cloud, groundY int) {
	x := int(c.X)
	w := int(g.cfg.Clouds.Width)
	gapTop := int(c.GapCenterY - g.cfg.Clouds.GapHeight/2)
	gapBottom := int(c.GapCenterY + g.cfg.Clouds.GapHeight/2)

	for y := 1; y < gapTop; y++ {
		for dx := 0; dx < w; dx++ {
			dst.SetColored(x+dx, y, cloudChar, core.ColorCyan)
		}
	}
	if gapTop > 1 {
		for dx := 0; dx < w; dx++ {
			dst.SetColored(x+dx, gapTop-1, cloudCapUpper, core.ColorCyan)
		}
	}

	for y := gapBottom; y < groundY; y++ {
		for dx := 0; dx < w; dx++ {
			dst.SetColored(x+dx, y, cloudChar, core.ColorCyan)
		}
	}
	if gapBottom < groundY {
		for dx := 0; dx < w; dx++ {
			dst.SetColored(x+dx, gapBottom, cloudCapLower, core.ColorCyan)
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

	titleX := boxX + (boxW-len(title))/2
	dst.DrawText(titleX, boxY+1, title)

	subtitleX := boxX + (boxW-len(subtitle))/2
	dst.DrawText(subtitleX, boxY+3, subtitle)
}

// Register the game with the registry
func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}
