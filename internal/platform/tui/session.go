package tui

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mintpuff/cinna-arcade/internal/audio"
	"github.com/mintpuff/cinna-arcade/internal/core"
	"github.com/mintpuff/cinna-arcade/internal/engine/events"
	"github.com/mintpuff/cinna-arcade/internal/engine/input"
	"github.com/mintpuff/cinna-arcade/internal/engine/loop"
	"github.com/mintpuff/cinna-arcade/internal/registry"
	"github.com/mintpuff/cinna-arcade/internal/storage"
)

// NewRuntime assembles the engine services for one game session: event
// bus, scheduler, input mapper, and score persistence hooks.
func NewRuntime(cfg core.RuntimeConfig, store *storage.Store, logger *log.Logger, configPath, difficulty string) (*registry.Runtime, error) {
	bus := events.NewBus(logger)

	sched, err := loop.NewScheduler(loop.Options{Bus: bus, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	rt := &registry.Runtime{
		Cfg:        cfg,
		Bus:        bus,
		Sched:      sched,
		Input:      input.NewMapper(bus, input.DefaultBindings()),
		Logger:     logger,
		ConfigPath: configPath,
		Difficulty: difficulty,
	}

	if store != nil {
		rt.RecordScore = func(playerID int64, gameID string, score int) error {
			_, err := store.RecordScore(playerID, gameID, score)
			return err
		}
		rt.FetchHighScore = store.HighScore
	}

	wireAchievements(rt, store)
	return rt, nil
}

// wireAchievements grants badges off the session's event stream. Grants
// are best-effort; a storage error never interrupts play.
func wireAchievements(rt *registry.Runtime, store *storage.Store) {
	if store == nil {
		return
	}

	grant := func(gameID, key string) {
		if rt.Cfg.PlayerID == 0 {
			return
		}
		//nolint:errcheck // Best-effort grant
		store.GrantAchievement(rt.Cfg.PlayerID, gameID, key)
	}

	rt.Bus.Subscribe(events.GameStart, func(payload any) {
		if p, ok := payload.(events.ScorePayload); ok {
			grant(p.GameID, "first-flight")
		}
	})
	rt.Bus.Subscribe(events.GameOver, func(payload any) {
		p, ok := payload.(events.GameOverPayload)
		if !ok {
			return
		}
		if p.NewHighScore && p.Score > 0 {
			grant(p.GameID, "personal-best")
		}
		for _, threshold := range []int{10, 25, 50} {
			if p.Score >= threshold {
				grant(p.GameID, fmt.Sprintf("score-%d", threshold))
			}
		}
	})
}

// LaunchGame creates, initializes, and runs a game in the local terminal.
// When sound is on, event chimes play through the default audio device.
func LaunchGame(gameID string, cfg core.RuntimeConfig, store *storage.Store, logger *log.Logger, configPath, difficulty string, sound bool) error {
	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	rt, err := NewRuntime(cfg, store, logger, configPath, difficulty)
	if err != nil {
		return err
	}

	if sound {
		notifier := audio.NewNotifier(rt.Bus, logger)
		defer notifier.Close()
	}

	if err := game.Init(rt); err != nil {
		return err
	}

	return Run(game, rt, store)
}
