package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestPlayers(t *testing.T) {
	store := openTestStore(t)

	// Empty database: no first player, so name entry is needed.
	first, err := store.FirstPlayer()
	if err != nil {
		t.Fatalf("FirstPlayer() failed: %v", err)
	}
	if first != nil {
		t.Fatalf("Expected no players, got %+v", first)
	}

	cinna, err := store.CreatePlayer("Cinnamoroll")
	if err != nil {
		t.Fatalf("CreatePlayer() failed: %v", err)
	}
	if cinna.ID == 0 {
		t.Error("Created player should have a nonzero ID")
	}

	// Creating the same name again returns the existing profile.
	again, err := store.CreatePlayer("Cinnamoroll")
	if err != nil {
		t.Fatalf("CreatePlayer() failed: %v", err)
	}
	if again.ID != cinna.ID {
		t.Errorf("Duplicate name should return existing player, got ID %d vs %d", again.ID, cinna.ID)
	}

	if _, err := store.CreatePlayer("Milk"); err != nil {
		t.Fatalf("CreatePlayer() failed: %v", err)
	}

	first, err = store.FirstPlayer()
	if err != nil {
		t.Fatalf("FirstPlayer() failed: %v", err)
	}
	if first == nil || first.Name != "Cinnamoroll" {
		t.Errorf("FirstPlayer should return the earliest player, got %+v", first)
	}

	missing, err := store.PlayerByName("Chiffon")
	if err != nil {
		t.Fatalf("PlayerByName() failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Unknown name should return nil, got %+v", missing)
	}
}

func TestRecordAndRetrieveScores(t *testing.T) {
	store := openTestStore(t)

	cinna, _ := store.CreatePlayer("Cinnamoroll")
	milk, _ := store.CreatePlayer("Milk")

	for _, rec := range []struct {
		playerID int64
		gameID   string
		score    int
	}{
		{cinna.ID, "cinnaflight", 100},
		{cinna.ID, "cinnaflight", 50},
		{milk.ID, "cinnaflight", 200},
		{cinna.ID, "skyrun", 500},
	} {
		if _, err := store.RecordScore(rec.playerID, rec.gameID, rec.score); err != nil {
			t.Fatalf("RecordScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores("cinnaflight", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Sorted descending with player names resolved.
	if scores[0].Score != 200 || scores[0].PlayerName != "Milk" {
		t.Errorf("Expected Milk/200 first, got %s/%d", scores[0].PlayerName, scores[0].Score)
	}
	if scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Wrong score order: %d, %d", scores[1].Score, scores[2].Score)
	}

	// Limit applies.
	top1, err := store.TopScores("cinnaflight", 1)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(top1) != 1 {
		t.Errorf("Expected 1 score with limit 1, got %d", len(top1))
	}
}

func TestHighScore(t *testing.T) {
	store := openTestStore(t)

	cinna, _ := store.CreatePlayer("Cinnamoroll")
	milk, _ := store.CreatePlayer("Milk")

	// No scores yet.
	hs, err := store.HighScore(0, "cinnaflight")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if hs != 0 {
		t.Errorf("Empty game should have high score 0, got %d", hs)
	}

	store.RecordScore(cinna.ID, "cinnaflight", 30)
	store.RecordScore(milk.ID, "cinnaflight", 70)

	// Per-player and global views differ.
	if hs, _ := store.HighScore(cinna.ID, "cinnaflight"); hs != 30 {
		t.Errorf("Cinnamoroll's high score should be 30, got %d", hs)
	}
	if hs, _ := store.HighScore(0, "cinnaflight"); hs != 70 {
		t.Errorf("Global high score should be 70, got %d", hs)
	}
}

func TestGameStats(t *testing.T) {
	store := openTestStore(t)

	cinna, _ := store.CreatePlayer("Cinnamoroll")
	store.RecordScore(cinna.ID, "cinnaflight", 10)
	store.RecordScore(cinna.ID, "cinnaflight", 20)
	store.RecordScore(cinna.ID, "cinnaflight", 30)

	stats, err := store.GameStats("cinnaflight")
	if err != nil {
		t.Fatalf("GameStats() failed: %v", err)
	}
	if stats.Plays != 3 || stats.Best != 30 || stats.Average != 20 {
		t.Errorf("Wrong stats: %+v", stats)
	}

	empty, err := store.GameStats("skyrun")
	if err != nil {
		t.Fatalf("GameStats() failed: %v", err)
	}
	if empty.Plays != 0 || empty.Best != 0 || empty.Average != 0 {
		t.Errorf("Empty game should have zero stats, got %+v", empty)
	}
}

func TestClearScores(t *testing.T) {
	store := openTestStore(t)

	cinna, _ := store.CreatePlayer("Cinnamoroll")
	store.RecordScore(cinna.ID, "cinnaflight", 10)
	store.RecordScore(cinna.ID, "skyrun", 20)

	if err := store.ClearScores("cinnaflight"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	scores, _ := store.TopScores("cinnaflight", 10)
	if len(scores) != 0 {
		t.Errorf("Expected no cinnaflight scores after clear, got %d", len(scores))
	}

	other, _ := store.TopScores("skyrun", 10)
	if len(other) != 1 {
		t.Errorf("Clear should not touch other games, got %d", len(other))
	}
}

func TestAchievements(t *testing.T) {
	store := openTestStore(t)

	cinna, _ := store.CreatePlayer("Cinnamoroll")

	granted, err := store.GrantAchievement(cinna.ID, "cinnaflight", "first-flight")
	if err != nil {
		t.Fatalf("GrantAchievement() failed: %v", err)
	}
	if !granted {
		t.Error("First grant should report newly granted")
	}

	// Granting again is a no-op.
	granted, err = store.GrantAchievement(cinna.ID, "cinnaflight", "first-flight")
	if err != nil {
		t.Fatalf("GrantAchievement() failed: %v", err)
	}
	if granted {
		t.Error("Second grant should report already held")
	}

	store.GrantAchievement(cinna.ID, "cinnaflight", "century")
	store.GrantAchievement(cinna.ID, "skyrun", "first-run")

	list, err := store.Achievements(cinna.ID)
	if err != nil {
		t.Fatalf("Achievements() failed: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("Expected 3 achievements, got %d", len(list))
	}
}
