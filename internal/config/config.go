// Package config provides YAML-based game configuration loading,
// validation, and difficulty presets for the arcade platform.
//
// Invalid numeric options are rejected when a config is loaded, not
// silently clamped: a non-positive gap height or an out-of-range
// forgiveness factor indicates a caller bug.
package config

import (
	"errors"
	"fmt"

	"github.com/mintpuff/cinna-arcade/internal/engine/physics"
)

// ErrInvalid wraps all validation failures.
var ErrInvalid = errors.New("config: invalid value")

// CinnaConfig contains all configuration for Cinna Flight.
type CinnaConfig struct {
	Physics CinnaPhysics `yaml:"physics"`
	Clouds  CloudConfig  `yaml:"clouds"`
	Player  CinnaPlayer  `yaml:"player"`
	Scoring CinnaScoring `yaml:"scoring"`
}

// CinnaPhysics defines the simulation constants, in cells per reference
// frame (one frame at 60 FPS).
type CinnaPhysics struct {
	Gravity      float64 `yaml:"gravity"`
	FlapImpulse  float64 `yaml:"flap_impulse"` // negative = up
	MaxFallSpeed float64 `yaml:"max_fall_speed"`
}

// CloudConfig defines the cloud-pair obstacles.
type CloudConfig struct {
	Width               float64 `yaml:"width"`
	GapHeight           float64 `yaml:"gap_height"`
	Speed               float64 `yaml:"speed"`
	SpawnIntervalFrames int     `yaml:"spawn_interval_frames"`
	TopMargin           float64 `yaml:"top_margin"`    // gap never starts above this
	BottomMargin        float64 `yaml:"bottom_margin"` // gap never ends below playfield minus this
	OffscreenMargin     float64 `yaml:"offscreen_margin"`
}

// CinnaPlayer defines the player body and its forgiving hitbox.
type CinnaPlayer struct {
	X               float64 `yaml:"x"`
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	CollisionRadius float64 `yaml:"collision_radius"`
	Forgiveness     float64 `yaml:"forgiveness"`
}

// CinnaScoring defines score bookkeeping and difficulty scaling.
type CinnaScoring struct {
	PointsPerCloud      int     `yaml:"points_per_cloud"`
	SpeedUpEvery        int     `yaml:"speed_up_every"` // points between multiplier steps
	SpeedUpStep         float64 `yaml:"speed_up_step"`
	SpeedUpCap          float64 `yaml:"speed_up_cap"`
	EnemyScoreThreshold int     `yaml:"enemy_score_threshold"` // 0 disables the enemy
	MilestoneEvery      int     `yaml:"milestone_every"`
}

// Validate rejects configurations a session cannot run on.
func (c CinnaConfig) Validate() error {
	if _, err := physics.NewWorld(physics.Params{Gravity: c.Physics.Gravity, MaxFallSpeed: c.Physics.MaxFallSpeed}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Physics.FlapImpulse >= 0 {
		return fmt.Errorf("%w: flap_impulse must be negative (upward), got %v", ErrInvalid, c.Physics.FlapImpulse)
	}
	if c.Clouds.Width <= 0 {
		return fmt.Errorf("%w: cloud width must be positive, got %v", ErrInvalid, c.Clouds.Width)
	}
	if c.Clouds.GapHeight <= 0 {
		return fmt.Errorf("%w: gap_height must be positive, got %v", ErrInvalid, c.Clouds.GapHeight)
	}
	if c.Clouds.Speed <= 0 {
		return fmt.Errorf("%w: cloud speed must be positive, got %v", ErrInvalid, c.Clouds.Speed)
	}
	if c.Clouds.SpawnIntervalFrames < 1 {
		return fmt.Errorf("%w: spawn_interval_frames must be at least 1, got %d", ErrInvalid, c.Clouds.SpawnIntervalFrames)
	}
	if c.Clouds.TopMargin < 0 || c.Clouds.BottomMargin < 0 || c.Clouds.OffscreenMargin < 0 {
		return fmt.Errorf("%w: cloud margins must not be negative", ErrInvalid)
	}
	if c.Player.Width <= 0 || c.Player.Height <= 0 {
		return fmt.Errorf("%w: player size must be positive, got %vx%v", ErrInvalid, c.Player.Width, c.Player.Height)
	}
	if c.Player.CollisionRadius <= 0 {
		return fmt.Errorf("%w: collision_radius must be positive, got %v", ErrInvalid, c.Player.CollisionRadius)
	}
	if err := physics.ValidateForgiveness(c.Player.Forgiveness); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Scoring.PointsPerCloud < 1 {
		return fmt.Errorf("%w: points_per_cloud must be at least 1, got %d", ErrInvalid, c.Scoring.PointsPerCloud)
	}
	if c.Scoring.SpeedUpEvery < 1 {
		return fmt.Errorf("%w: speed_up_every must be at least 1, got %d", ErrInvalid, c.Scoring.SpeedUpEvery)
	}
	if c.Scoring.SpeedUpStep < 0 {
		return fmt.Errorf("%w: speed_up_step must not be negative, got %v", ErrInvalid, c.Scoring.SpeedUpStep)
	}
	if c.Scoring.SpeedUpCap < 1 {
		return fmt.Errorf("%w: speed_up_cap must be at least 1, got %v", ErrInvalid, c.Scoring.SpeedUpCap)
	}
	if c.Scoring.EnemyScoreThreshold < 0 {
		return fmt.Errorf("%w: enemy_score_threshold must not be negative, got %d", ErrInvalid, c.Scoring.EnemyScoreThreshold)
	}
	if c.Scoring.MilestoneEvery < 1 {
		return fmt.Errorf("%w: milestone_every must be at least 1, got %d", ErrInvalid, c.Scoring.MilestoneEvery)
	}
	return nil
}

// SkyRunConfig contains all configuration for the Sky Run runner.
type SkyRunConfig struct {
	Physics   SkyRunPhysics   `yaml:"physics"`
	Obstacles SkyRunObstacles `yaml:"obstacles"`
	Player    SkyRunPlayer    `yaml:"player"`
	Scoring   SkyRunScoring   `yaml:"scoring"`
}

// SkyRunPhysics defines physics parameters for Sky Run.
type SkyRunPhysics struct {
	Gravity      float64 `yaml:"gravity"`
	JumpImpulse  float64 `yaml:"jump_impulse"`
	MaxFallSpeed float64 `yaml:"max_fall_speed"`
	BaseSpeed    float64 `yaml:"base_speed"`
}

// SkyRunObstacles defines the random crate obstacles.
type SkyRunObstacles struct {
	MinWidth   float64 `yaml:"min_width"`
	MaxWidth   float64 `yaml:"max_width"`
	MinHeight  float64 `yaml:"min_height"`
	MaxHeight  float64 `yaml:"max_height"`
	MinSpacing float64 `yaml:"min_spacing"`
	MaxSpacing float64 `yaml:"max_spacing"`
}

// SkyRunPlayer defines the runner's body.
type SkyRunPlayer struct {
	X            float64 `yaml:"x"`
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	GroundOffset int     `yaml:"ground_offset"`
}

// SkyRunScoring defines distance scoring and speed scaling.
type SkyRunScoring struct {
	PointsPerObstacle int     `yaml:"points_per_obstacle"`
	SpeedUpEvery      int     `yaml:"speed_up_every"`
	SpeedUpStep       float64 `yaml:"speed_up_step"`
	SpeedUpCap        float64 `yaml:"speed_up_cap"`
	MilestoneEvery    int     `yaml:"milestone_every"`
}

// Validate rejects configurations the runner cannot play.
func (c SkyRunConfig) Validate() error {
	if _, err := physics.NewWorld(physics.Params{Gravity: c.Physics.Gravity, MaxFallSpeed: c.Physics.MaxFallSpeed}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Physics.JumpImpulse >= 0 {
		return fmt.Errorf("%w: jump_impulse must be negative (upward), got %v", ErrInvalid, c.Physics.JumpImpulse)
	}
	if c.Physics.BaseSpeed <= 0 {
		return fmt.Errorf("%w: base_speed must be positive, got %v", ErrInvalid, c.Physics.BaseSpeed)
	}
	if c.Obstacles.MinWidth <= 0 || c.Obstacles.MaxWidth < c.Obstacles.MinWidth {
		return fmt.Errorf("%w: obstacle width range [%v, %v]", ErrInvalid, c.Obstacles.MinWidth, c.Obstacles.MaxWidth)
	}
	if c.Obstacles.MinHeight <= 0 || c.Obstacles.MaxHeight < c.Obstacles.MinHeight {
		return fmt.Errorf("%w: obstacle height range [%v, %v]", ErrInvalid, c.Obstacles.MinHeight, c.Obstacles.MaxHeight)
	}
	if c.Obstacles.MinSpacing <= 0 || c.Obstacles.MaxSpacing < c.Obstacles.MinSpacing {
		return fmt.Errorf("%w: obstacle spacing range [%v, %v]", ErrInvalid, c.Obstacles.MinSpacing, c.Obstacles.MaxSpacing)
	}
	if c.Player.Width <= 0 || c.Player.Height <= 0 {
		return fmt.Errorf("%w: player size must be positive, got %vx%v", ErrInvalid, c.Player.Width, c.Player.Height)
	}
	if c.Player.GroundOffset < 0 {
		return fmt.Errorf("%w: ground_offset must not be negative, got %d", ErrInvalid, c.Player.GroundOffset)
	}
	if c.Scoring.PointsPerObstacle < 1 {
		return fmt.Errorf("%w: points_per_obstacle must be at least 1, got %d", ErrInvalid, c.Scoring.PointsPerObstacle)
	}
	if c.Scoring.SpeedUpEvery < 1 {
		return fmt.Errorf("%w: speed_up_every must be at least 1, got %d", ErrInvalid, c.Scoring.SpeedUpEvery)
	}
	if c.Scoring.SpeedUpStep < 0 {
		return fmt.Errorf("%w: speed_up_step must not be negative, got %v", ErrInvalid, c.Scoring.SpeedUpStep)
	}
	if c.Scoring.SpeedUpCap < 1 {
		return fmt.Errorf("%w: speed_up_cap must be at least 1, got %v", ErrInvalid, c.Scoring.SpeedUpCap)
	}
	if c.Scoring.MilestoneEvery < 1 {
		return fmt.Errorf("%w: milestone_every must be at least 1, got %d", ErrInvalid, c.Scoring.MilestoneEvery)
	}
	return nil
}
