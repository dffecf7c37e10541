package events

// Well-known event names published by game sessions. Collaborators such as
// the audio notifier subscribe to these without importing any game package.
const (
	GameStart  = "game:start"
	GameOver   = "game:over"
	Flap       = "game:flap"
	Score      = "game:score"
	SpeedUp    = "game:speed-up"
	EnemySpawn = "game:enemy-spawn"
	Milestone  = "game:milestone"
	HighScore  = "game:high-score"
	Collision  = "game:collision"
)

// ScorePayload accompanies Score and Milestone events.
type ScorePayload struct {
	GameID string
	Score  int
}

// SpeedUpPayload accompanies SpeedUp events.
type SpeedUpPayload struct {
	GameID     string
	Multiplier float64
}

// GameOverPayload accompanies GameOver events.
type GameOverPayload struct {
	GameID       string
	Score        int
	HighScore    int
	NewHighScore bool
}
