// Package storage provides SQLite-based persistence for players, scores,
// and achievements. Uses the pure-Go modernc.org/sqlite driver to avoid
// CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Player is a persisted player profile.
type Player struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// ScoreEntry represents a single score record with the player resolved.
type ScoreEntry struct {
	ID         int64
	PlayerID   int64
	PlayerName string
	GameID     string
	Score      int
	CreatedAt  time.Time
}

// Achievement is an unlocked badge. Key identifies the badge within a
// game ("first-flight", "century", ...).
type Achievement struct {
	ID        int64
	PlayerID  int64
	GameID    string
	Key       string
	CreatedAt time.Time
}

// GameStats summarizes all recorded runs of one game.
type GameStats struct {
	Plays   int
	Best    int
	Average float64
}

// DefaultPath returns the XDG data location for the score database.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join("cinna-arcade", "scores.db"))
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS players (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id INTEGER NOT NULL DEFAULT 0,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);
		CREATE INDEX IF NOT EXISTS idx_scores_player ON scores(player_id, game_id);

		CREATE TABLE IF NOT EXISTS achievements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id INTEGER NOT NULL,
			game_id TEXT NOT NULL,
			key TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(player_id, game_id, key)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreatePlayer inserts a new player profile. If the name is already
// taken, the existing profile is returned instead.
func (s *Store) CreatePlayer(name string) (Player, error) {
	if existing, err := s.PlayerByName(name); err != nil {
		return Player{}, err
	} else if existing != nil {
		return *existing, nil
	}

	result, err := s.db.Exec("INSERT INTO players (name) VALUES (?)", name)
	if err != nil {
		return Player{}, fmt.Errorf("storage: cannot create player: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Player{}, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return Player{ID: id, Name: name}, nil
}

// PlayerByName looks up a player by name. Returns nil when not found.
func (s *Store) PlayerByName(name string) (*Player, error) {
	var p Player
	var createdAt any
	err := s.db.QueryRow(
		"SELECT id, name, created_at FROM players WHERE name = ?",
		name,
	).Scan(&p.ID, &p.Name, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player: %w", err)
	}

	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

// FirstPlayer returns the earliest created player, or nil when the
// players table is empty. Used to decide whether name entry is needed.
func (s *Store) FirstPlayer() (*Player, error) {
	var p Player
	var createdAt any
	err := s.db.QueryRow(
		"SELECT id, name, created_at FROM players ORDER BY id LIMIT 1",
	).Scan(&p.ID, &p.Name, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query first player: %w", err)
	}

	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

// RecordScore records a finished run for a player. playerID 0 records an
// anonymous run. Returns the ID of the inserted record.
func (s *Store) RecordScore(playerID int64, gameID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (player_id, game_id, score) VALUES (?, ?, ?)",
		playerID, gameID, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given game, with player
// names resolved. Anonymous runs show an empty name.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT s.id, s.player_id, COALESCE(p.name, ''), s.game_id, s.score, s.created_at
		 FROM scores s
		 LEFT JOIN players p ON p.id = s.player_id
		 WHERE s.game_id = ?
		 ORDER BY s.score DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.PlayerID, &e.PlayerName, &e.GameID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given game. playerID 0
// queries across all players. Returns 0 if no scores exist.
func (s *Store) HighScore(playerID int64, gameID string) (int, error) {
	query := "SELECT MAX(score) FROM scores WHERE game_id = ?"
	args := []any{gameID}
	if playerID != 0 {
		query += " AND player_id = ?"
		args = append(args, playerID)
	}

	var score sql.NullInt64
	if err := s.db.QueryRow(query, args...).Scan(&score); err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// GameStats returns play count, best score, and average score for a game.
func (s *Store) GameStats(gameID string) (GameStats, error) {
	var stats GameStats
	var best, avg sql.NullFloat64
	err := s.db.QueryRow(
		"SELECT COUNT(*), MAX(score), AVG(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&stats.Plays, &best, &avg)
	if err != nil {
		return GameStats{}, fmt.Errorf("storage: cannot query stats: %w", err)
	}

	if best.Valid {
		stats.Best = int(best.Float64)
	}
	if avg.Valid {
		stats.Average = avg.Float64
	}
	return stats, nil
}

// ClearScores deletes all scores for the given game.
func (s *Store) ClearScores(gameID string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// GrantAchievement unlocks a badge for a player. Returns true when the
// badge was newly granted, false when the player already had it.
func (s *Store) GrantAchievement(playerID int64, gameID, key string) (bool, error) {
	result, err := s.db.Exec(
		"INSERT OR IGNORE INTO achievements (player_id, game_id, key) VALUES (?, ?, ?)",
		playerID, gameID, key,
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot grant achievement: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot check insert: %w", err)
	}
	return n > 0, nil
}

// Achievements returns all badges unlocked by a player, newest first.
func (s *Store) Achievements(playerID int64) ([]Achievement, error) {
	rows, err := s.db.Query(
		`SELECT id, player_id, game_id, key, created_at
		 FROM achievements
		 WHERE player_id = ?
		 ORDER BY created_at DESC, id DESC`,
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query achievements: %w", err)
	}
	defer rows.Close()

	var list []Achievement
	for rows.Next() {
		var a Achievement
		var createdAt any
		if err := rows.Scan(&a.ID, &a.PlayerID, &a.GameID, &a.Key, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		a.CreatedAt = parseTime(createdAt)
		list = append(list, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return list, nil
}

// parseTime handles the driver returning DATETIME as either time.Time or
// a string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
