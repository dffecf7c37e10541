package cinnaflight

import (
	"github.com/mintpuff/cinna-arcade/internal/core"
	"github.com/mintpuff/cinna-arcade/internal/engine/events"
	"github.com/mintpuff/cinna-arcade/internal/engine/input"
	"github.com/mintpuff/cinna-arcade/internal/engine/loop"
	"github.com/mintpuff/cinna-arcade/internal/engine/physics"
)

// transition moves to the target phase if the lifecycle table allows it.
// Illegal transitions are ignored so stray inputs cannot corrupt a round.
func (g *Game) transition(to core.Phase) bool {
	if !core.CanTransition(g.phase, to) {
		return false
	}
	g.phase = to
	return true
}

// handleAction reacts to a semantic input action. What an action means
// depends on the current phase: flap starts a round from idle, restarts
// route through idle, pause only toggles mid-round.
func (g *Game) handleAction(a input.Action) {
	switch a {
	case input.ActionFlap:
		switch g.phase {
		case core.PhaseIdle:
			g.startRound()
			g.pendingFlap = true
		case core.PhasePlaying:
			g.pendingFlap = true
			g.rt.Bus.Publish(events.Flap, nil)
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

// SubmitName completes the name-entry screen. Empty names keep the
// screen up.
func (g *Game) SubmitName(name string) {
	if g.phase != core.PhaseNameEntry || name == "" {
		return
	}
	g.playerName = name
	g.transition(core.PhaseIdle)
}

// startRound resets the round state and begins play.
func (g *Game) startRound() {
	if g.phase != core.PhaseIdle {
		return
	}

	h := float64(g.rt.Cfg.ScreenH)
	g.player = physics.Body{
		X:               g.cfg.Player.X,
		Y:               h / 2,
		W:               g.cfg.Player.Width,
		H:               g.cfg.Player.Height,
		CollisionRadius: g.cfg.Player.CollisionRadius,
	}

	g.score = 0
	g.speedMult = 1.0
	g.appliedSteps = 0
	g.lastMilestone = 0
	g.enemyLive = false
	g.pendingFlap = false
	g.clouds.Reset(g.rng.Int63())

	g.transition(core.PhasePlaying)
	g.rt.Bus.Publish(events.GameStart, events.ScorePayload{GameID: GameID})
}

// update advances one simulation frame. The order is fixed: queued input,
// physics, bounds, obstacles, scoring, enemy, collision. Bounds and
// collision checks short-circuit the rest of the frame.
func (g *Game) update(frame loop.Frame) {
	if g.phase != core.PhasePlaying {
		return
	}
	g.elapsedMs = frame.ElapsedMs

	if g.pendingFlap {
		g.world.ApplyImpulse(&g.player, 0, g.cfg.Physics.FlapImpulse)
		g.pendingFlap = false
	}

	g.world.ApplyGravity(&g.player, frame.DeltaMs)
	g.world.ClampVelocity(&g.player)
	g.world.ApplyVelocity(&g.player, frame.DeltaMs)

	if hit := physics.ClampToBounds(&g.player, g.bounds); hit.Top || hit.Bottom {
		g.rt.Bus.Publish(events.Collision, events.ScorePayload{GameID: GameID, Score: g.score})
		g.endRound()
		return
	}

	dist := g.cfg.Clouds.Speed * g.speedMult * frame.DeltaNormalized
	g.clouds.Advance(dist, frame.DeltaNormalized)

	if cleared := g.clouds.CheckScoring(g.player.X + g.player.W); cleared > 0 {
		g.addScore(cleared * g.cfg.Scoring.PointsPerCloud)
	}

	if g.enemyLive {
		g.enemy.advance(g.rng, dist*enemySpeedFactor, frame.ElapsedMs, g.playfieldW(), g.playfieldH())
		if g.enemy.collides(g.player) {
			g.rt.Bus.Publish(events.Collision, events.ScorePayload{GameID: GameID, Score: g.score})
			g.endRound()
			return
		}
	}

	if g.clouds.CheckCollision(g.player, g.cfg.Player.Forgiveness) {
		g.rt.Bus.Publish(events.Collision, events.ScorePayload{GameID: GameID, Score: g.score})
		g.endRound()
	}
}

// addScore applies newly earned points and the side effects that hang off
// the score: speed steps, the enemy spawn, and milestones. Each threshold
// fires exactly once per round even if a frame jumps past it.
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

	if thr := g.cfg.Scoring.EnemyScoreThreshold; thr > 0 && !g.enemyLive && g.score >= thr {
		g.enemyLive = true
		g.enemy.spawn(g.rng, g.playfieldW(), g.playfieldH(), g.elapsedMs)
		g.rt.Bus.Publish(events.EnemySpawn, events.ScorePayload{GameID: GameID, Score: g.score})
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
