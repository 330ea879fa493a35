package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/replay"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	if err := store.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
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

func TestStoreTopScores(t *testing.T) {
	store := openTest(t)

	for _, s := range []int64{100, 200, 50} {
		if _, err := store.SaveScore("story", "normal", s, ""); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	store.SaveScore("story", "lunatic", 999, "")
	store.SaveScore("practice", "normal", 75, "r1")

	scores, err := store.TopScores("story", "normal", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	for i, want := range []int64{200, 100, 50} {
		if scores[i].Score != want {
			t.Errorf("scores[%d] = %d, expected %d", i, scores[i].Score, want)
		}
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not parsed")
	}

	practice, _ := store.TopScores("practice", "normal", 10)
	if len(practice) != 1 || practice[0].ReplayID != "r1" {
		t.Errorf("practice scores = %+v", practice)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTest(t)

	for i := 0; i < 5; i++ {
		store.SaveScore("story", "hard", int64(i+1)*100, "")
	}

	scores, err := store.TopScores("story", "hard", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTest(t)

	high, err := store.HighScore("story", "normal")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for an empty table, got %d", high)
	}

	store.SaveScore("story", "normal", 100, "")
	store.SaveScore("story", "normal", 300, "")
	store.SaveScore("story", "easy", 900, "")

	high, err = store.HighScore("story", "normal")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTest(t)

	store.SaveScore("story", "normal", 100, "")
	store.SaveScore("practice", "normal", 300, "")

	if err := store.ClearScores("story"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if s, _ := store.TopScores("story", "normal", 10); len(s) != 0 {
		t.Errorf("Expected 0 story scores after clear, got %d", len(s))
	}
	if s, _ := store.TopScores("practice", "normal", 10); len(s) != 1 {
		t.Error("Practice scores should not be affected by clearing story")
	}
}

func TestStoreModeStats(t *testing.T) {
	store := openTest(t)

	store.SaveScore("story", "normal", 100, "")
	store.SaveScore("story", "hard", 300, "")
	store.SaveScore("practice", "easy", 40, "")

	stats, err := store.AllModeStats()
	if err != nil {
		t.Fatalf("AllModeStats() failed: %v", err)
	}
	story := stats["story"]
	if story == nil {
		t.Fatal("missing story stats")
	}
	if story.GamesCount != 2 || story.HighScore != 300 || story.AvgScore != 200 {
		t.Errorf("story stats = %+v", story)
	}
	if stats["practice"].GamesCount != 1 {
		t.Errorf("practice stats = %+v", stats["practice"])
	}
}

func testRecord(name string, created time.Time) *replay.Record {
	rec := replay.NewRecorder()
	for i := 0; i < 30; i++ {
		var m core.InputMask
		if i%3 == 0 {
			m = m.With(core.SignalShoot)
		}
		rec.Sample(m)
	}
	return rec.Finish(replay.Meta{
		Name: name, Mode: "story", Difficulty: "normal", Shot: "needle",
		Seed: 42, Score: 1234, CreatedAt: created,
	}, nil)
}

func TestStoreReplayRoundTrip(t *testing.T) {
	store := openTest(t)
	rec := testRecord("first", time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC))

	if err := store.SaveReplay(rec); err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}
	if err := store.SaveReplay(rec); err == nil {
		t.Error("saving the same replay twice should fail")
	}

	got, err := store.LoadReplay(rec.ID)
	if err != nil {
		t.Fatalf("LoadReplay() failed: %v", err)
	}
	if got.Name != "first" || got.Seed != 42 || got.FrameCount != 30 {
		t.Errorf("loaded replay = %+v", got)
	}
	if len(got.Events) != len(rec.Events) {
		t.Errorf("events = %d, expected %d", len(got.Events), len(rec.Events))
	}

	if _, err := store.LoadReplay("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadReplay(missing) error = %v", err)
	}
}

func TestStoreListAndDeleteReplays(t *testing.T) {
	store := openTest(t)
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	older := testRecord("older", base)
	newer := testRecord("newer", base.Add(time.Hour))
	for _, r := range []*replay.Record{older, newer} {
		if err := store.SaveReplay(r); err != nil {
			t.Fatalf("SaveReplay() failed: %v", err)
		}
	}

	list, err := store.ListReplays("", 10)
	if err != nil {
		t.Fatalf("ListReplays() failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "newer" || list[1].Name != "older" {
		t.Fatalf("ListReplays() = %+v", list)
	}
	if list[0].Frames != 30 || list[0].Score != 1234 || !list[0].CreatedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("listing row = %+v", list[0])
	}

	if other, _ := store.ListReplays("practice", 10); len(other) != 0 {
		t.Errorf("practice filter returned %d rows", len(other))
	}

	if err := store.DeleteReplay(older.ID); err != nil {
		t.Fatalf("DeleteReplay() failed: %v", err)
	}
	if err := store.DeleteReplay(older.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteReplay() error = %v", err)
	}
	list, _ = store.ListReplays("", 10)
	if len(list) != 1 || list[0].ID != newer.ID {
		t.Errorf("after delete = %+v", list)
	}
}
