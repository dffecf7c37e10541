package config

import (
	_ "embed"
)

//go:embed defaults/cinnaflight.yaml
var defaultCinnaYAML []byte

//go:embed defaults/skyrun.yaml
var defaultSkyRunYAML []byte

// DefaultCinna returns the default Cinna Flight configuration.
func DefaultCinna() CinnaConfig {
	return CinnaConfig{
		Physics: CinnaPhysics{
			Gravity:      0.25,
			FlapImpulse:  -1.8,
			MaxFallSpeed: 3.0,
		},
		Clouds: CloudConfig{
			Width:               6,
			GapHeight:           9,
			Speed:               0.8,
			SpawnIntervalFrames: 55,
			TopMargin:           2,
			BottomMargin:        2,
			OffscreenMargin:     4,
		},
		Player: CinnaPlayer{
			X:               10,
			Width:           3,
			Height:          2,
			CollisionRadius: 1.4,
			Forgiveness:     0.7,
		},
		Scoring: CinnaScoring{
			PointsPerCloud:      1,
			SpeedUpEvery:        5,
			SpeedUpStep:         0.1,
			SpeedUpCap:          2.0,
			EnemyScoreThreshold: 20,
			MilestoneEvery:      10,
		},
	}
}

// DefaultSkyRun returns the default Sky Run configuration.
func DefaultSkyRun() SkyRunConfig {
	return SkyRunConfig{
		Physics: SkyRunPhysics{
			Gravity:      0.3,
			JumpImpulse:  -2.5,
			MaxFallSpeed: 4.0,
			BaseSpeed:    0.5,
		},
		Obstacles: SkyRunObstacles{
			MinWidth:   1,
			MaxWidth:   3,
			MinHeight:  2,
			MaxHeight:  4,
			MinSpacing: 30,
			MaxSpacing: 50,
		},
		Player: SkyRunPlayer{
			X:            8,
			Width:        3,
			Height:       3,
			GroundOffset: 2,
		},
		Scoring: SkyRunScoring{
			PointsPerObstacle: 1,
			SpeedUpEvery:      10,
			SpeedUpStep:       0.15,
			SpeedUpCap:        2.5,
			MilestoneEvery:    25,
		},
	}
}
