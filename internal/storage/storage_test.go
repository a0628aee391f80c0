package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/thromer/pc-boxscores/internal/archive"
	"github.com/thromer/pc-boxscores/internal/game"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	return s
}

func TestLoadSnapshot_Empty(t *testing.T) {
	s := newTestStorage(t)

	snapshot, err := s.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if len(snapshot.Games) != 0 {
		t.Errorf("expected empty snapshot, got %d games", len(snapshot.Games))
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	s := newTestStorage(t)
	g := game.New("sid-1", 2041, 12, "away", "home", 3, 4)

	if err := s.SaveSnapshot(game.CreateSnapshot([]*game.Game{g}, "")); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	got, err := s.GetGame("sid-1")
	if err != nil {
		t.Fatalf("GetGame() error = %v", err)
	}
	if !got.SameResult(g) {
		t.Errorf("GetGame() = %+v, want %+v", got, g)
	}

	if _, err := s.GetGame("missing"); err == nil || !strings.Contains(err.Error(), "game not found") {
		t.Errorf("GetGame(missing) error = %v", err)
	}
}

func TestLoadSnapshot_Corrupt(t *testing.T) {
	s := newTestStorage(t)
	if err := os.WriteFile(filepath.Join(s.Dir(), "games.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.LoadSnapshot(); err == nil {
		t.Error("LoadSnapshot() should fail on corrupt file")
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	g := game.New("sid-1", 2041, 12, "away", "home", 3, 4)

	tests := []struct {
		name        string
		game        *game.Game
		wantCreated bool
		wantErr     bool
	}{
		{"new game", g, true, false},
		{"same game again", game.New("sid-1", 2041, 12, "away", "home", 3, 4), false, false},
		{"conflicting game", game.New("sid-1", 2041, 12, "away", "home", 9, 4), false, true},
		{"second game", game.New("sid-2", 2041, 12, "x", "y", 0, 1), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := s.Create(ctx, tt.game)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
			if created != tt.wantCreated {
				t.Errorf("Create() created = %v, want %v", created, tt.wantCreated)
			}
		})
	}

	snapshot, err := s.LoadSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshot.Games) != 2 {
		t.Errorf("expected 2 games in snapshot, got %d", len(snapshot.Games))
	}
	if snapshot.UpdatedAt == "" {
		t.Error("expected UpdatedAt to be set")
	}
}

func TestCreateAll(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	if _, err := s.Create(ctx, game.New("sid-2", 2041, 12, "c", "d", 1, 0)); err != nil {
		t.Fatal(err)
	}

	day := []*game.Game{
		game.New("sid-3", 2041, 12, "e", "f", 2, 2),
		game.New("sid-2", 2041, 12, "c", "d", 1, 0),
		game.New("sid-1", 2041, 12, "a", "b", 5, 4),
		game.New("sid-1", 2041, 12, "a", "b", 5, 4),
	}

	created, err := s.CreateAll(ctx, day)
	if err != nil {
		t.Fatalf("CreateAll() error = %v", err)
	}
	var ids []string
	for _, g := range created {
		ids = append(ids, g.ID)
	}
	if !reflect.DeepEqual(ids, []string{"sid-1", "sid-3"}) {
		t.Errorf("CreateAll() created %v, want [sid-1 sid-3]", ids)
	}

	again, err := s.CreateAll(ctx, day)
	if err != nil || len(again) != 0 {
		t.Errorf("second CreateAll() = %v, %v; want nothing new", again, err)
	}

	conflict := []*game.Game{game.New("sid-4", 2041, 12, "g", "h", 0, 0), game.New("sid-3", 2041, 12, "e", "f", 9, 2)}
	if _, err := s.CreateAll(ctx, conflict); err == nil {
		t.Fatal("CreateAll() with a conflicting result succeeded, want error")
	}
	if _, err := s.GetGame("sid-4"); err == nil {
		t.Error("CreateAll() wrote part of a conflicting batch")
	}
}

func TestCreate_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "sid-" + string(rune('a'+i))
			if _, err := s.Create(ctx, game.New(id, 2041, 1, "a", "h", 0, 0)); err != nil {
				t.Errorf("Create(%s) error = %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	snapshot, err := s.LoadSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshot.Games) != 10 {
		t.Errorf("expected 10 games, got %d", len(snapshot.Games))
	}
}

func TestArchive_PutGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	meta := map[string]string{"year": "2041", "day": "12"}

	if err := s.Put(ctx, "sid-1", []byte("<html>box</html>"), meta); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	obj, err := s.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(obj.Body) != "<html>box</html>" {
		t.Errorf("Body = %q", obj.Body)
	}
	if !reflect.DeepEqual(obj.Metadata, meta) {
		t.Errorf("Metadata = %v, want %v", obj.Metadata, meta)
	}

	ok, err := s.Exists(ctx, "sid-1")
	if err != nil || !ok {
		t.Errorf("Exists() = %v, %v", ok, err)
	}
}

func TestArchive_CreateOnly(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	if err := s.Put(ctx, "sid-1", []byte("first"), nil); err != nil {
		t.Fatal(err)
	}
	err := s.Put(ctx, "sid-1", []byte("second"), nil)
	if !errors.Is(err, archive.ErrExists) {
		t.Fatalf("second Put() error = %v, want ErrExists", err)
	}

	obj, err := s.Get(ctx, "sid-1")
	if err != nil {
		t.Fatal(err)
	}
	if string(obj.Body) != "first" {
		t.Errorf("Body = %q, want first write preserved", obj.Body)
	}
}

func TestArchive_LeftoverMetadata(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	dir := filepath.Join(s.dataDir, archiveDir)

	// An interrupted Put can leave metadata behind but never a body
	if err := os.WriteFile(filepath.Join(dir, "sid-1.json"), []byte(`{"day": "3"}`), 0644); err != nil {
		t.Fatal(err)
	}
	ok, err := s.Exists(ctx, "sid-1")
	if err != nil || ok {
		t.Fatalf("Exists() = %v, %v, want false", ok, err)
	}

	meta := map[string]string{"year": "2041", "day": "12"}
	if err := s.Put(ctx, "sid-1", []byte("<html>box</html>"), meta); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	obj, err := s.Get(ctx, "sid-1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(obj.Metadata, meta) {
		t.Errorf("Metadata = %v, want %v", obj.Metadata, meta)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temporary file %s left in archive", e.Name())
		}
	}
}

func TestArchive_Missing(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	if _, err := s.Get(ctx, "nope"); !errors.Is(err, archive.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	ok, err := s.Exists(ctx, "nope")
	if err != nil || ok {
		t.Errorf("Exists() = %v, %v", ok, err)
	}
}

func TestArchive_InvalidKey(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
		t.Run(key, func(t *testing.T) {
			if err := s.Put(ctx, key, []byte("x"), nil); err == nil {
				t.Errorf("Put(%q) should fail", key)
			}
		})
	}
}

func TestNew_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := New("~/pc-data")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Dir() != filepath.Join(home, "pc-data") {
		t.Errorf("Dir() = %q", s.Dir())
	}
}
