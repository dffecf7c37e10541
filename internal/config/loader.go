package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// appDir is the subdirectory used inside the XDG config home.
const appDir = "cinna-arcade"

// LoadCinna loads and validates the Cinna Flight configuration.
// Search order: customPath -> XDG config dir -> ./configs -> embedded default.
func LoadCinna(customPath string) (CinnaConfig, error) {
	var cfg CinnaConfig
	if err := load("cinnaflight.yaml", defaultCinnaYAML, customPath, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadSkyRun loads and validates the Sky Run configuration.
// Search order: customPath -> XDG config dir -> ./configs -> embedded default.
func LoadSkyRun(customPath string) (SkyRunConfig, error) {
	var cfg SkyRunConfig
	if err := load("skyrun.yaml", defaultSkyRunYAML, customPath, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// load fills out from the first readable source. A customPath failure is
// an error; the fallback sources are best-effort.
func load(name string, embedded []byte, customPath string, out any) error {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("config: cannot parse %s: %w", customPath, err)
		}
		return nil
	}

	if userPath, err := xdg.SearchConfigFile(filepath.Join(appDir, name)); err == nil {
		if data, readErr := os.ReadFile(userPath); readErr == nil {
			if yaml.Unmarshal(data, out) == nil {
				return nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", name)); err == nil {
		if yaml.Unmarshal(data, out) == nil {
			return nil
		}
	}

	if err := yaml.Unmarshal(embedded, out); err != nil {
		return fmt.Errorf("config: embedded default %s is broken: %w", name, err)
	}
	return nil
}
