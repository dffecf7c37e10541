package cinnaflight

import (
	"math/rand"

	"github.com/mintpuff/cinna-arcade/internal/config"
	"github.com/mintpuff/cinna-arcade/internal/engine/physics"
)

// Cloud is a pair of fluffy columns with a gap for Cinnamoroll to glide
// through. X is the left edge; GapCenterY is the vertical center of the
// opening.
type Cloud struct {
	X          float64
	GapCenterY float64
	Scored     bool // set once the player has cleared it
}

// reset re-rolls this cloud as a fresh obstacle at the right edge, with
// the gap center drawn uniformly from the configured safe range. No
// field survives: a recycled cloud can never keep a stale Scored flag.
func (c *Cloud) reset(rng *rand.Rand, cfg config.CloudConfig, playfieldW, playfieldH float64) {
	half := cfg.GapHeight / 2
	lo := cfg.TopMargin + half
	hi := playfieldH - cfg.BottomMargin - half

	center := (lo + hi) / 2
	if hi > lo {
		center = lo + rng.Float64()*(hi-lo)
	}

	c.X = playfieldW
	c.GapCenterY = center
	c.Scored = false
}

// CloudManager handles spawning, movement, scoring, and removal of clouds.
type CloudManager struct {
	clouds     []Cloud
	rng        *rand.Rand
	cfg        config.CloudConfig
	playfieldW float64
	playfieldH float64
	spawnAcc   float64 // reference frames accumulated toward the next spawn
}

// NewCloudManager creates a cloud manager for the given playfield.
// The first cloud spawns after a full spawn interval so the player gets a
// moment to orient.
func NewCloudManager(cfg config.CloudConfig, seed int64, playfieldW, playfieldH float64) *CloudManager {
	cm := &CloudManager{
		clouds:     make([]Cloud, 0, 8),
		cfg:        cfg,
		playfieldW: playfieldW,
		playfieldH: playfieldH,
	}
	cm.Reset(seed)
	return cm
}

// Reset clears all clouds and restarts the RNG from the given seed.
func (cm *CloudManager) Reset(seed int64) {
	cm.clouds = cm.clouds[:0]
	cm.rng = rand.New(rand.NewSource(seed))
	cm.spawnAcc = 0
}

// Resize updates the playfield dimensions. Existing clouds keep their
// positions; gap placement for new clouds uses the new height.
func (cm *CloudManager) Resize(playfieldW, playfieldH float64) {
	cm.playfieldW = playfieldW
	cm.playfieldH = playfieldH
}

// Advance moves clouds left by dist cells, spawns new clouds on the
// configured interval, and drops clouds that scrolled past the left edge.
// deltaFrames is the elapsed time in reference frames; the spawn interval
// counts reference frames so cloud density stays stable when the speed
// multiplier grows.
func (cm *CloudManager) Advance(dist, deltaFrames float64) {
	for i := range cm.clouds {
		cm.clouds[i].X -= dist
	}

	valid := cm.clouds[:0]
	for _, c := range cm.clouds {
		if c.X+cm.cfg.Width > -cm.cfg.OffscreenMargin {
			valid = append(valid, c)
		}
	}
	cm.clouds = valid

	cm.spawnAcc += deltaFrames
	for cm.spawnAcc >= float64(cm.cfg.SpawnIntervalFrames) {
		cm.spawnAcc -= float64(cm.cfg.SpawnIntervalFrames)
		cm.spawn()
	}
}

// spawn places a new cloud at the right edge.
func (cm *CloudManager) spawn() {
	var c Cloud
	c.reset(cm.rng, cm.cfg, cm.playfieldW, cm.playfieldH)
	cm.clouds = append(cm.clouds, c)
}

// CheckScoring marks clouds whose trailing edge has passed the player's
// leading edge and returns how many were newly cleared this frame. Each
// cloud scores exactly once.
func (cm *CloudManager) CheckScoring(playerLeadX float64) int {
	cleared := 0
	for i := range cm.clouds {
		if !cm.clouds[i].Scored && cm.clouds[i].X+cm.cfg.Width < playerLeadX {
			cm.clouds[i].Scored = true
			cleared++
		}
	}
	return cleared
}

// CheckCollision tests the body against every cloud pair.
func (cm *CloudManager) CheckCollision(b physics.Body, forgiveness float64) bool {
	for _, c := range cm.clouds {
		if physics.CloudGapCollision(b, c.X, cm.cfg.Width, c.GapCenterY, cm.cfg.GapHeight, cm.playfieldH, forgiveness) {
			return true
		}
	}
	return false
}

// Clouds returns the live clouds for rendering.
func (cm *CloudManager) Clouds() []Cloud {
	return cm.clouds
}
