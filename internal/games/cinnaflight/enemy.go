package cinnaflight

import (
	"math"
	"math/rand"

	"github.com/mintpuff/cinna-arcade/internal/engine/physics"
)

// Enemy tuning. The crow flies faster than the clouds scroll and bobs on
// a sine wave so it cannot be dodged by hovering at one height.
const (
	enemyWidth       = 2.0
	enemyHeight      = 1.0
	enemyRadius      = 1.0
	enemySpeedFactor = 1.35
	enemyBobAmp      = 2.5    // cells
	enemyBobFreq     = 0.0045 // radians per millisecond
)

// enemy is the crow hazard that appears once the score crosses the
// configured threshold and keeps returning from the right edge.
type enemy struct {
	body    physics.Body
	baseY   float64
	spawnMs float64 // elapsed time at spawn, anchors the bob phase
}

func (e *enemy) spawn(rng *rand.Rand, playfieldW, playfieldH, elapsedMs float64) {
	margin := enemyBobAmp + enemyHeight + 1
	baseY := margin
	if playfieldH > 2*margin {
		baseY = margin + rng.Float64()*(playfieldH-2*margin)
	}

	e.baseY = baseY
	e.spawnMs = elapsedMs
	e.body = physics.Body{
		X:               playfieldW + enemyWidth,
		Y:               baseY,
		W:               enemyWidth,
		H:               enemyHeight,
		CollisionRadius: enemyRadius,
	}
}

// advance moves the crow left and bobs it vertically. When it leaves the
// playfield it comes back from the right at a fresh height.
func (e *enemy) advance(rng *rand.Rand, dist, elapsedMs, playfieldW, playfieldH float64) {
	e.body.X -= dist
	e.body.Y = e.baseY + enemyBobAmp*math.Sin((elapsedMs-e.spawnMs)*enemyBobFreq)

	if e.body.X+e.body.W < 0 {
		e.spawn(rng, playfieldW, playfieldH, elapsedMs)
	}
}

func (e *enemy) collides(player physics.Body) bool {
	return physics.CircleCollision(player, e.body)
}
