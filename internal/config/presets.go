package config

// DifficultyPreset is a named difficulty level selectable from the CLI.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed" // no speed progression
)

// ParsePreset maps a CLI string to a preset. Unknown values (including
// the empty string) return false and leave the config untouched.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s), true
	}
	return "", false
}

// ApplyCinnaPreset adjusts the Cinna Flight config for a preset.
func ApplyCinnaPreset(cfg *CinnaConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Clouds.GapHeight += 2
		cfg.Scoring.SpeedUpEvery += 3
		cfg.Scoring.SpeedUpCap = 1.5
	case DifficultyHard:
		cfg.Clouds.GapHeight -= 2
		cfg.Clouds.Speed *= 1.25
		cfg.Scoring.SpeedUpStep *= 1.5
	case DifficultyFixed:
		cfg.Scoring.SpeedUpStep = 0
	}
}

// ApplySkyRunPreset adjusts the Sky Run config for a preset.
func ApplySkyRunPreset(cfg *SkyRunConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Obstacles.MinSpacing += 10
		cfg.Obstacles.MaxSpacing += 10
		cfg.Scoring.SpeedUpCap = 1.8
	case DifficultyHard:
		cfg.Physics.BaseSpeed *= 1.3
		cfg.Obstacles.MinSpacing -= 5
	case DifficultyFixed:
		cfg.Scoring.SpeedUpStep = 0
	}
}
