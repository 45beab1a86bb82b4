package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-crossy/internal/achievements"
	"github.com/vovakirdan/tui-crossy/internal/core"
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

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	store.SaveScore("crossy", 12)
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	high, err := store.HighScore("crossy")
	if err != nil || high != 12 {
		t.Errorf("HighScore after reopen = %d, %v; expected 12", high, err)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []int{10, 5, 20} {
		if _, err := store.SaveScore("crossy", s); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("crossy_classic", 50); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("crossy", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	if scores[0].Score != 20 || scores[1].Score != 10 || scores[2].Score != 5 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	classic, err := store.TopScores("crossy_classic", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(classic) != 1 {
		t.Errorf("Expected 1 classic score, got %d", len(classic))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore("test", (i+1)*100)
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Errorf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreRecordRunReturnsBest(t *testing.T) {
	store := openTestStore(t)

	tests := []struct {
		score, best int
	}{
		{7, 7},
		{3, 7},
		{12, 12},
		{0, 12},
	}
	for i, tc := range tests {
		best, err := store.RecordRun("crossy", tc.score)
		if err != nil {
			t.Fatalf("RecordRun(%d) failed: %v", tc.score, err)
		}
		if best != tc.best {
			t.Errorf("run %d: best = %d, expected %d", i, best, tc.best)
		}
	}
}

func TestStoreHighScoreAndClear(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("crossy")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveScore("crossy", 100)
	store.SaveScore("crossy", 300)
	store.SaveScore("crossy_classic", 200)

	if high, _ = store.HighScore("crossy"); high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}

	if err := store.ClearScores("crossy"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if scores, _ := store.TopScores("crossy", 10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if scores, _ := store.TopScores("crossy_classic", 10); len(scores) != 1 {
		t.Error("classic scores should not be affected by clearing crossy")
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)
	store.SaveScore("crossy", 4)
	store.SaveScore("crossy", 8)

	stats, err := store.GetGameStats("crossy")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 8 || stats.AvgScore != 6 || stats.TotalScore != 12 {
		t.Errorf("stats = %+v", stats)
	}

	empty, err := store.GetGameStats("crossy_classic")
	if err != nil {
		t.Fatalf("GetGameStats() on empty game failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}
}

func TestStoreRemoteScoresOrdering(t *testing.T) {
	store := openTestStore(t)

	subs := []struct {
		name  string
		score int
	}{
		{"ana", 10},
		{"bo", 30},
		{"cy", 10},
		{"di", 20},
	}
	for _, s := range subs {
		e, err := store.InsertRemoteScore(s.name, s.score)
		if err != nil {
			t.Fatalf("InsertRemoteScore(%s) failed: %v", s.name, err)
		}
		if e.ID == 0 || e.Username != s.name {
			t.Errorf("inserted entry = %+v", e)
		}
	}

	top, err := store.TopRemoteScores(0)
	if err != nil {
		t.Fatalf("TopRemoteScores() failed: %v", err)
	}
	var names []string
	for _, e := range top {
		names = append(names, e.Username)
	}
	if got := strings.Join(names, ","); got != "bo,di,ana,cy" {
		t.Errorf("order = %s, expected bo,di,ana,cy", got)
	}

	top, _ = store.TopRemoteScores(2)
	if len(top) != 2 {
		t.Errorf("limit 2 returned %d rows", len(top))
	}

	if best, err := store.RemoteBest("di"); err != nil || best != 20 {
		t.Errorf("RemoteBest(di) = %d, %v; expected 20", best, err)
	}
	if best, _ := store.RemoteBest("nobody"); best != 0 {
		t.Errorf("RemoteBest(nobody) = %d, expected 0", best)
	}
}

func TestStoreRemoteDefaultLimit(t *testing.T) {
	store := openTestStore(t)
	for i := 0; i < DefaultRemoteLimit+5; i++ {
		store.InsertRemoteScore("p", i)
	}
	top, err := store.TopRemoteScores(-1)
	if err != nil {
		t.Fatalf("TopRemoteScores() failed: %v", err)
	}
	if len(top) != DefaultRemoteLimit {
		t.Errorf("default limit returned %d rows, expected %d", len(top), DefaultRemoteLimit)
	}
}

func TestStoreLifetimeRoundTrip(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.LoadLifetime()
	if err != nil {
		t.Fatalf("LoadLifetime() failed: %v", err)
	}
	if empty.GamesPlayed != 0 || empty.DodgedByKind != nil {
		t.Errorf("fresh lifetime = %+v", empty)
	}

	life := achievements.Lifetime{
		TotalDodges: 9, TotalJumps: 120, MaxScore: 31, MaxSurvivalTime: 42.5,
		GamesPlayed: 11, TotalDeaths: 11,
		DodgedByKind: map[string]int{"bus": 2, "police": 7},
	}
	if err := store.SaveLifetime(life); err != nil {
		t.Fatalf("SaveLifetime() failed: %v", err)
	}
	life.GamesPlayed = 12
	if err := store.SaveLifetime(life); err != nil {
		t.Fatalf("second SaveLifetime() failed: %v", err)
	}

	got, err := store.LoadLifetime()
	if err != nil {
		t.Fatalf("LoadLifetime() failed: %v", err)
	}
	if got.TotalJumps != 120 || got.GamesPlayed != 12 || got.MaxSurvivalTime != 42.5 {
		t.Errorf("lifetime = %+v", got)
	}
	if got.DodgedByKind["police"] != 7 || got.DodgedByKind["bus"] != 2 {
		t.Errorf("dodged by kind = %v", got.DodgedByKind)
	}
}

func TestStoreUnlockAchievement(t *testing.T) {
	store := openTestStore(t)

	isNew, err := store.UnlockAchievement("first_steps")
	if err != nil || !isNew {
		t.Fatalf("first unlock = %v, %v", isNew, err)
	}
	isNew, err = store.UnlockAchievement("first_steps")
	if err != nil || isNew {
		t.Errorf("repeat unlock = %v, %v; expected not new", isNew, err)
	}

	unlocked, err := store.UnlockedAchievements()
	if err != nil {
		t.Fatalf("UnlockedAchievements() failed: %v", err)
	}
	if len(unlocked) != 1 || unlocked["first_steps"].IsZero() {
		t.Errorf("unlocked = %v", unlocked)
	}
}

func TestStoreBacksTracker(t *testing.T) {
	store := openTestStore(t)
	tr := achievements.NewTracker(store)

	fresh, err := tr.Record(core.RunReport{GameID: "crossy", Score: 11, Jumps: 14, SurvivalTime: 10.5})
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if len(fresh) != 3 {
		t.Errorf("unlocked %d achievements, expected first_steps, survivor_10 and score_10", len(fresh))
	}
	life, _ := store.LoadLifetime()
	if life.GamesPlayed != 1 || life.MaxScore != 11 {
		t.Errorf("lifetime after record = %+v", life)
	}
}

func TestStoreSettings(t *testing.T) {
	store := openTestStore(t)

	name, err := store.Username()
	if err != nil || name != "" {
		t.Fatalf("unset username = %q, %v", name, err)
	}
	if err := store.SetUsername("hopper"); err != nil {
		t.Fatalf("SetUsername() failed: %v", err)
	}
	if err := store.SetUsername("frog"); err != nil {
		t.Fatalf("SetUsername() overwrite failed: %v", err)
	}
	if name, _ = store.Username(); name != "frog" {
		t.Errorf("username = %q, expected frog", name)
	}

	if _, ok, _ := store.Setting("missing"); ok {
		t.Error("missing setting reported as present")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
