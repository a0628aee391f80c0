package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/thromer/pc-boxscores/internal/game"
)

func TestArchiveGames(t *testing.T) {
	ctx := context.Background()
	games := []*game.Game{
		game.New("10", 2031, 4, "1", "2", 3, 4),
		game.New("11", 2031, 4, "5", "6", 0, 1),
		game.New("12", 2031, 4, "7", "8", 2, 2),
	}
	site := &fakeSite{boxScores: map[string]string{"10": "<html>10</html>", "11": "<html>11</html>", "12": "<html>12</html>"}}
	store := newMemArchive()
	if err := store.Put(ctx, "11", []byte("old"), games[1].Metadata()); err != nil {
		t.Fatal(err)
	}

	p, _ := newTestPipeline(site, store, newFakeRecorder(), nil)
	results, err := p.ArchiveGames(ctx, games)
	if err != nil {
		t.Fatalf("ArchiveGames() error = %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	wantStored := []bool{true, false, true}
	for i, r := range results {
		if r.Game.ID != games[i].ID {
			t.Errorf("results[%d].Game = %s, want %s", i, r.Game.ID, games[i].ID)
		}
		if r.BoxScoreStored != wantStored[i] {
			t.Errorf("results[%d].BoxScoreStored = %v, want %v", i, r.BoxScoreStored, wantStored[i])
		}
		if !r.ReplayStored {
			t.Errorf("results[%d].ReplayStored = false, want true", i)
		}
	}

	obj, err := store.Get(ctx, "11")
	if err != nil || string(obj.Body) != "old" {
		t.Errorf("existing box score overwritten: %v %q", err, obj.Body)
	}

	replay, err := store.Get(ctx, "12-replay")
	if err != nil {
		t.Fatalf("replay not archived: %v", err)
	}
	if !strings.Contains(string(replay.Body), "12 8 7") {
		t.Errorf("replay body = %q, want home then away", replay.Body)
	}
	if replay.Metadata["day"] != "4" {
		t.Errorf("replay metadata = %v", replay.Metadata)
	}
}

func TestArchiveGames_Idempotent(t *testing.T) {
	ctx := context.Background()
	games := []*game.Game{game.New("10", 2031, 4, "1", "2", 3, 4)}
	site := &fakeSite{boxScores: map[string]string{"10": "<html>10</html>"}}
	store := newMemArchive()
	p, _ := newTestPipeline(site, store, newFakeRecorder(), nil)

	for i := 0; i < 2; i++ {
		if _, err := p.ArchiveGames(ctx, games); err != nil {
			t.Fatalf("run %d: ArchiveGames() error = %v", i, err)
		}
	}
	if store.puts != 2 {
		t.Errorf("puts = %d, want 2", store.puts)
	}
}

func TestArchiveGames_FetchError(t *testing.T) {
	boom := errors.New("site down")
	site := &fakeSite{fetchErr: boom}
	p, _ := newTestPipeline(site, newMemArchive(), newFakeRecorder(), nil)

	_, err := p.ArchiveGames(context.Background(), []*game.Game{game.New("10", 2031, 4, "1", "2", 3, 4)})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}
