package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/thromer/pc-boxscores/internal/archive"
	"github.com/thromer/pc-boxscores/internal/game"
	"github.com/thromer/pc-boxscores/internal/notifier"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("reading fixture %s: %v", name, err)
	}
	return string(b)
}

// fakeSite serves scoreboards and box scores from memory
type fakeSite struct {
	mu         sync.Mutex
	currentDay int
	year       int
	days       map[int][]*game.Game
	boxScores  map[string]string
	fetched    []string
	scoreboard []int
	fetchErr   error
}

func (s *fakeSite) CurrentDay(ctx context.Context) (int, error) {
	return s.currentDay, nil
}

func (s *fakeSite) CurrentYear(ctx context.Context) (int, error) {
	return s.year, nil
}

func (s *fakeSite) Scoreboard(ctx context.Context, day, year int) ([]*game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scoreboard = append(s.scoreboard, day)
	return s.days[day], nil
}

func (s *fakeSite) FetchBoxScore(ctx context.Context, gameID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetched = append(s.fetched, gameID)
	if s.fetchErr != nil {
		return "", s.fetchErr
	}
	html, ok := s.boxScores[gameID]
	if !ok {
		return "", fmt.Errorf("no box score for %s", gameID)
	}
	return html, nil
}

func (s *fakeSite) FetchReplay(ctx context.Context, gameID, home, away string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetched = append(s.fetched, game.ReplayKey(gameID))
	return []byte("replay " + gameID + " " + home + " " + away), nil
}

// fakeRecorder keeps created games in memory
type fakeRecorder struct {
	mu    sync.Mutex
	games map[string]*game.Game
}

func newFakeRecorder(existing ...*game.Game) *fakeRecorder {
	r := &fakeRecorder{games: make(map[string]*game.Game)}
	for _, g := range existing {
		r.games[g.ID] = g
	}
	return r
}

func (r *fakeRecorder) Create(ctx context.Context, g *game.Game) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[g.ID]; ok {
		return false, nil
	}
	r.games[g.ID] = g
	return true, nil
}

// memArchive is an in-memory archive.Store
type memArchive struct {
	mu      sync.Mutex
	objects map[string]*archive.Object
	puts    int
}

func newMemArchive() *memArchive {
	return &memArchive{objects: make(map[string]*archive.Object)}
}

func (a *memArchive) Put(ctx context.Context, key string, body []byte, meta map[string]string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.objects[key]; ok {
		return archive.ErrExists
	}
	a.puts++
	a.objects[key] = &archive.Object{Key: key, Body: body, Metadata: meta}
	return nil
}

func (a *memArchive) Get(ctx context.Context, key string) (*archive.Object, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.objects[key]
	if !ok {
		return nil, archive.ErrNotFound
	}
	return obj, nil
}

func (a *memArchive) Exists(ctx context.Context, key string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.objects[key]
	return ok, nil
}

// recordingNotifier collects messages and optionally fails
type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notifier.Message
	err  error
}

func (n *recordingNotifier) Notify(ctx context.Context, msg notifier.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.msgs = append(n.msgs, msg)
	return nil
}

func newTestPipeline(site Site, store archive.Store, games GameRecorder, n notifier.Notifier) (*Pipeline, *[]time.Duration) {
	p := New(site, store, games, n, Config{EmptyDayDelay: 5 * time.Second})
	var slept []time.Duration
	p.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return p, &slept
}
