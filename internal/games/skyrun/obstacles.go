package skyrun

import (
	"math/rand"

	"github.com/mintpuff/cinna-arcade/internal/config"
	"github.com/mintpuff/cinna-arcade/internal/engine/physics"
)

// Crate is an obstacle in the runner's path. Ground crates are jumped
// over; flying kites drift at head height and must be ducked under.
type Crate struct {
	X      float64
	Width  float64
	Height float64
	Flying bool
	Scored bool
}

// Kites appear once the run is under way. kiteClearance is the space
// left under a kite; a crouched runner fits, a standing one does not.
const (
	kiteChance         = 0.25
	kiteScoreThreshold = 15
	kiteHeight         = 2.0
	kiteWidth          = 2.0
	kiteClearance      = 2.0
)

// Rect returns the collision rectangle for this obstacle. Ground crates
// anchor to the ground line, kites float above their clearance.
func (c Crate) Rect(groundY float64) physics.Rect {
	y := groundY - c.Height
	if c.Flying {
		y = groundY - kiteClearance - c.Height
	}
	return physics.Rect{X: c.X, Y: y, W: c.Width, H: c.Height}
}

// CrateManager handles spawning, movement, scoring, and removal of crates.
type CrateManager struct {
	crates     []Crate
	rng        *rand.Rand
	cfg        config.SkyRunObstacles
	playfieldW float64
	nextSpawnX float64
}

// NewCrateManager creates a crate manager for the given playfield width.
func NewCrateManager(cfg config.SkyRunObstacles, seed int64, playfieldW float64) *CrateManager {
	cm := &CrateManager{
		crates:     make([]Crate, 0, 8),
		cfg:        cfg,
		playfieldW: playfieldW,
	}
	cm.Reset(seed)
	return cm
}

// Reset clears all crates and restarts the RNG from the given seed.
func (cm *CrateManager) Reset(seed int64) {
	cm.crates = cm.crates[:0]
	cm.rng = rand.New(rand.NewSource(seed))
	cm.nextSpawnX = cm.playfieldW + cm.cfg.MinSpacing
}

// Resize updates the playfield width.
func (cm *CrateManager) Resize(playfieldW float64) {
	cm.playfieldW = playfieldW
}

// Advance moves crates left by dist cells, spawns new obstacles when
// the spawn marker scrolls on screen, and drops crates past the left
// edge. The current score gates kite spawning.
func (cm *CrateManager) Advance(dist float64, score int) {
	for i := range cm.crates {
		cm.crates[i].X -= dist
	}

	valid := cm.crates[:0]
	for _, c := range cm.crates {
		if c.X+c.Width > 0 {
			valid = append(valid, c)
		}
	}
	cm.crates = valid

	cm.nextSpawnX -= dist
	for cm.nextSpawnX <= cm.playfieldW {
		cm.spawn(score)
	}
}

// spawn creates an obstacle at the spawn marker and pushes the marker
// right by the obstacle width plus a random gap.
func (cm *CrateManager) spawn(score int) {
	spacing := cm.cfg.MinSpacing
	if cm.cfg.MaxSpacing > cm.cfg.MinSpacing {
		spacing += cm.rng.Float64() * (cm.cfg.MaxSpacing - cm.cfg.MinSpacing)
	}

	if score >= kiteScoreThreshold && cm.rng.Float64() < kiteChance {
		cm.crates = append(cm.crates, Crate{
			X:      cm.nextSpawnX,
			Width:  kiteWidth,
			Height: kiteHeight,
			Flying: true,
		})
		cm.nextSpawnX += kiteWidth + spacing
		return
	}

	width := cm.cfg.MinWidth
	if cm.cfg.MaxWidth > cm.cfg.MinWidth {
		width += cm.rng.Float64() * (cm.cfg.MaxWidth - cm.cfg.MinWidth)
	}
	height := cm.cfg.MinHeight
	if cm.cfg.MaxHeight > cm.cfg.MinHeight {
		height += cm.rng.Float64() * (cm.cfg.MaxHeight - cm.cfg.MinHeight)
	}

	cm.crates = append(cm.crates, Crate{
		X:      cm.nextSpawnX,
		Width:  width,
		Height: height,
	})
	cm.nextSpawnX += width + spacing
}

// CheckScoring marks crates whose trailing edge has passed the player's
// leading edge and returns how many were newly cleared. Each crate
// scores exactly once.
func (cm *CrateManager) CheckScoring(playerLeadX float64) int {
	cleared := 0
	for i := range cm.crates {
		if !cm.crates[i].Scored && cm.crates[i].X+cm.crates[i].Width < playerLeadX {
			cm.crates[i].Scored = true
			cleared++
		}
	}
	return cleared
}

// CheckCollision tests the player rectangle against every crate.
func (cm *CrateManager) CheckCollision(player physics.Rect, groundY float64) bool {
	for _, c := range cm.crates {
		if physics.AABB(player, c.Rect(groundY)) {
			return true
		}
	}
	return false
}

// Crates returns the live crates for rendering.
func (cm *CrateManager) Crates() []Crate {
	return cm.crates
}
