package skyrun

import (
	"testing"
	"time"

	"github.com/mintpuff/cinna-arcade/internal/config"
	"github.com/mintpuff/cinna-arcade/internal/core"
	"github.com/mintpuff/cinna-arcade/internal/engine/events"
	"github.com/mintpuff/cinna-arcade/internal/engine/input"
	"github.com/mintpuff/cinna-arcade/internal/engine/loop"
	"github.com/mintpuff/cinna-arcade/internal/engine/physics"
	"github.com/mintpuff/cinna-arcade/internal/registry"
)

func newGame(t *testing.T, seed int64, mutate func(*config.SkyRunConfig)) (*Game, *registry.Runtime, func(int)) {
	t.Helper()

	bus := events.NewBus(nil)
	sched, err := loop.NewScheduler(loop.Options{
		FixedDeltaMs: physics.ReferenceFrameMs,
		Bus:          bus,
	})
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}

	rt := &registry.Runtime{
		Cfg: core.RuntimeConfig{
			ScreenW:    80,
			ScreenH:    24,
			TickRate:   60,
			Seed:       seed,
			PlayerName: "Tester",
		},
		Bus:   bus,
		Sched: sched,
	}

	cfg := config.DefaultSkyRun()
	if mutate != nil {
		mutate(&cfg)
	}

	g := New()
	if err := g.initWith(rt, cfg); err != nil {
		t.Fatalf("initWith failed: %v", err)
	}

	sched.Start()
	now := time.Unix(0, 0)
	tick := func(n int) {
		for i := 0; i < n; i++ {
			now = now.Add(16 * time.Millisecond)
			sched.Tick(now)
		}
	}
	tick(1)
	return g, rt, tick
}

func press(rt *registry.Runtime, a input.Action) {
	rt.Bus.Publish(input.EventAction, input.ActionPayload{Action: a})
}

func TestJumpOnlyWhenGrounded(t *testing.T) {
	g, rt, tick := newGame(t, 1, nil)

	press(rt, input.ActionFlap) // start round
	if g.phase != core.PhasePlaying {
		t.Fatalf("expected playing, got %v", g.phase)
	}

	floorY := g.groundY - g.player.H
	if g.player.Y != floorY {
		t.Fatalf("runner should start on the ground, Y=%f", g.player.Y)
	}

	press(rt, input.ActionFlap)
	tick(1)
	if g.grounded {
		t.Fatal("jump should lift the runner off the ground")
	}
	if g.player.Y >= floorY {
		t.Errorf("runner should rise after a jump, Y=%f", g.player.Y)
	}

	// A second jump mid-air is ignored.
	yBefore := g.player.Y
	velBefore := g.player.VelY
	press(rt, input.ActionFlap)
	if g.pendingJump {
		t.Error("mid-air jump should not queue")
	}
	tick(1)
	if g.player.VelY == g.cfg.Physics.JumpImpulse && velBefore != g.cfg.Physics.JumpImpulse {
		t.Errorf("mid-air jump re-applied the impulse, Y %f -> %f", yBefore, g.player.Y)
	}
}

func TestRunnerLands(t *testing.T) {
	g, rt, tick := newGame(t, 1, nil)
	press(rt, input.ActionFlap)
	press(rt, input.ActionFlap)

	for i := 0; i < 300 && !g.grounded; i++ {
		tick(1)
	}
	if !g.grounded {
		t.Fatal("runner never landed")
	}
	if g.player.Y != g.groundY-g.player.H {
		t.Errorf("landed runner should rest on the ground, Y=%f", g.player.Y)
	}
	if g.player.VelY != 0 {
		t.Errorf("landing should zero vertical velocity, got %f", g.player.VelY)
	}
}

func TestCrateScoredOnce(t *testing.T) {
	g, rt, tick := newGame(t, 1, func(c *config.SkyRunConfig) {
		c.Obstacles.MinSpacing = 10000
		c.Obstacles.MaxSpacing = 10000
		c.Scoring.SpeedUpStep = 0
	})
	press(rt, input.ActionFlap)

	g.crates.crates = append(g.crates.crates, Crate{
		X:      g.player.X - 3,
		Width:  2,
		Height: 2,
	})

	tick(1)
	if g.score != g.cfg.Scoring.PointsPerObstacle {
		t.Fatalf("clearing one crate should score %d, got %d", g.cfg.Scoring.PointsPerObstacle, g.score)
	}

	tick(5)
	if g.score != g.cfg.Scoring.PointsPerObstacle {
		t.Errorf("crate scored twice: got %d", g.score)
	}
}

func TestCrateCollisionEndsRound(t *testing.T) {
	g, rt, tick := newGame(t, 1, func(c *config.SkyRunConfig) {
		c.Obstacles.MinSpacing = 10000
		c.Obstacles.MaxSpacing = 10000
	})

	overs := 0
	rt.Bus.Subscribe(events.GameOver, func(any) { overs++ })

	press(rt, input.ActionFlap)

	// Crate overlapping the runner's position.
	g.crates.crates = append(g.crates.crates, Crate{
		X:      g.player.X + 1,
		Width:  2,
		Height: 3,
	})
	tick(1)

	if !g.State().Over() {
		t.Fatal("running into a crate should end the round")
	}
	if overs != 1 {
		t.Errorf("expected 1 game-over event, got %d", overs)
	}

	// Restart begins a fresh round on the ground.
	press(rt, input.ActionRestart)
	if g.phase != core.PhasePlaying {
		t.Fatalf("restart should begin a new round, got %v", g.phase)
	}
	if g.score != 0 || !g.grounded {
		t.Errorf("restart should reset state: score=%d grounded=%v", g.score, g.grounded)
	}
}

func TestCrateSpawnRanges(t *testing.T) {
	cfg := config.DefaultSkyRun().Obstacles
	cm := NewCrateManager(cfg, 7, 80)

	for i := 0; i < 500; i++ {
		cm.spawn(0)
	}
	for _, c := range cm.crates {
		if c.Flying {
			t.Fatal("kites must not spawn before the score threshold")
		}
		if c.Width < cfg.MinWidth || c.Width > cfg.MaxWidth {
			t.Fatalf("crate width %f outside [%f, %f]", c.Width, cfg.MinWidth, cfg.MaxWidth)
		}
		if c.Height < cfg.MinHeight || c.Height > cfg.MaxHeight {
			t.Fatalf("crate height %f outside [%f, %f]", c.Height, cfg.MinHeight, cfg.MaxHeight)
		}
	}

	cm.Reset(7)
	kites := 0
	for i := 0; i < 500; i++ {
		cm.spawn(kiteScoreThreshold)
	}
	for _, c := range cm.crates {
		if !c.Flying {
			continue
		}
		kites++
		if c.Width != kiteWidth || c.Height != kiteHeight {
			t.Fatalf("kite dimensions %fx%f, want %fx%f", c.Width, c.Height, kiteWidth, kiteHeight)
		}
	}
	if kites == 0 {
		t.Error("no kites spawned past the score threshold")
	}
}

func TestDuckUnderKite(t *testing.T) {
	setup := func() (*Game, *registry.Runtime, func(int)) {
		g, rt, tick := newGame(t, 1, func(c *config.SkyRunConfig) {
			c.Obstacles.MinSpacing = 10000
			c.Obstacles.MaxSpacing = 10000
		})
		press(rt, input.ActionFlap)
		g.crates.crates = append(g.crates.crates, Crate{
			X:      g.player.X,
			Width:  kiteWidth,
			Height: kiteHeight,
			Flying: true,
		})
		return g, rt, tick
	}

	// Standing under a kite is a collision.
	g, _, tick := setup()
	tick(1)
	if !g.State().Over() {
		t.Fatal("standing runner should hit the kite")
	}

	// A crouched runner slides under it.
	g, rt, tick := setup()
	press(rt, input.ActionDuck)
	if !g.ducking() {
		t.Fatal("duck on the ground should crouch")
	}
	tick(12)
	if g.State().Over() {
		t.Fatal("crouched runner should pass under the kite")
	}

	// The crouch expires on its own.
	tick(20)
	if g.ducking() {
		t.Error("crouch should expire after its window")
	}
}

func TestJumpCancelsDuck(t *testing.T) {
	g, rt, tick := newGame(t, 1, nil)
	press(rt, input.ActionFlap)

	press(rt, input.ActionDuck)
	press(rt, input.ActionFlap)
	tick(1)
	if g.ducking() {
		t.Error("jumping should cancel the crouch")
	}
	if g.grounded {
		t.Error("jump should lift the runner")
	}
}

func TestDeterminism(t *testing.T) {
	run := func() (int, float64) {
		g, rt, tick := newGame(t, 777, nil)
		press(rt, input.ActionFlap)
		for i := 0; i < 800; i++ {
			if i%40 == 0 {
				press(rt, input.ActionFlap)
			}
			tick(1)
			if g.State().Over() {
				break
			}
		}
		return g.score, g.player.Y
	}

	s1, y1 := run()
	s2, y2 := run()
	if s1 != s2 || y1 != y2 {
		t.Errorf("same seed and inputs diverged: score %d/%d, Y %f/%f", s1, s2, y1, y2)
	}
}

func TestPause(t *testing.T) {
	g, rt, tick := newGame(t, 1, nil)
	press(rt, input.ActionFlap)
	press(rt, input.ActionFlap) // jump so physics is active
	tick(2)

	press(rt, input.ActionPause)
	if g.phase != core.PhasePaused {
		t.Fatalf("expected paused, got %v", g.phase)
	}
	if !rt.Sched.Paused() {
		t.Fatal("pausing the game should pause the scheduler")
	}

	yBefore := g.player.Y
	tick(10)
	if g.player.Y != yBefore {
		t.Errorf("physics advanced while paused: %f -> %f", yBefore, g.player.Y)
	}

	press(rt, input.ActionPause)
	if g.phase != core.PhasePlaying {
		t.Errorf("expected resumed, got %v", g.phase)
	}
	if rt.Sched.Paused() {
		t.Error("resuming the game should resume the scheduler")
	}
}

func TestRender(t *testing.T) {
	g, rt, tick := newGame(t, 1, nil)
	press(rt, input.ActionFlap)
	tick(5)

	screen := core.NewScreen(80, 24)
	g.Render(screen)

	groundY := int(g.groundY)
	if screen.Get(0, groundY) != groundChar {
		t.Errorf("ground not drawn, got %q", screen.Get(0, groundY))
	}
}

func TestScoringUsesLeadingEdge(t *testing.T) {
	g, rt, tick := newGame(t, 1, func(c *config.SkyRunConfig) {
		c.Obstacles.MinSpacing = 10000
		c.Obstacles.MaxSpacing = 10000
		c.Scoring.SpeedUpStep = 0
	})
	press(rt, input.ActionFlap)
	press(rt, input.ActionFlap) // airborne, clear of low crates
	tick(2)

	lead := g.player.X + g.player.W
	dist := g.cfg.Physics.BaseSpeed // one frame of scroll at x1.0

	// After one frame this crate's trailing edge sits between the
	// runner's left edge and leading edge: cleared by the nose, not yet
	// by the tail.
	g.crates.crates = append(g.crates.crates,
		Crate{X: (lead - 0.5) - 2 + dist, Width: 2, Height: 2},
		// Trailing edge still ahead of the leading edge: no score yet.
		Crate{X: (lead + 0.5) - 2 + dist, Width: 2, Height: 2},
	)

	tick(1)
	if g.score != g.cfg.Scoring.PointsPerObstacle {
		t.Fatalf("score = %d, want %d: scoring must key on the runner's leading edge",
			g.score, g.cfg.Scoring.PointsPerObstacle)
	}
	if g.crates.crates[1].Scored {
		t.Error("crate ahead of the leading edge must not score")
	}
}
