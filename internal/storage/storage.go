package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/thromer/pc-boxscores/internal/archive"
	"github.com/thromer/pc-boxscores/internal/game"
)

const (
	snapshotFile = "games.json"
	archiveDir   = "boxscores"
)

// Storage handles persistence of the known-game snapshot and the local archive
type Storage struct {
	dataDir string
	mu      sync.Mutex
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(filepath.Join(dataDir, archiveDir), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the resolved data directory
func (s *Storage) Dir() string {
	return s.dataDir
}

func (s *Storage) snapshotPath() string {
	return filepath.Join(s.dataDir, snapshotFile)
}

// LoadSnapshot loads the known-game snapshot from disk
func (s *Storage) LoadSnapshot() (*game.Snapshot, error) {
	data, err := os.ReadFile(s.snapshotPath())
	if err != nil {
		if os.IsNotExist(err) {
			// No previous snapshot, return empty one
			return game.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot game.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Games == nil {
		snapshot.Games = make(map[string]*game.Game)
	}

	return &snapshot, nil
}

// SaveSnapshot saves the known-game snapshot to disk
func (s *Storage) SaveSnapshot(snapshot *game.Snapshot) error {
	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	// Write then rename so a crash never leaves a truncated snapshot
	tmp := s.snapshotPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.snapshotPath()); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// GetGame retrieves a known game by id
func (s *Storage) GetGame(id string) (*game.Game, error) {
	snapshot, err := s.LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	if g, exists := snapshot.Games[id]; exists {
		return g, nil
	}

	return nil, fmt.Errorf("game not found: %s", id)
}

// Create records g in the snapshot if its id is new. When the id is already
// known the stored record must describe the same result, otherwise an error
// is returned. The bool reports whether g was newly written.
func (s *Storage) Create(ctx context.Context, g *game.Game) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.LoadSnapshot()
	if err != nil {
		return false, err
	}

	if existing, ok := snapshot.Games[g.ID]; ok {
		if !existing.SameResult(g) {
			return false, fmt.Errorf("game %s: tried to write %+v but snapshot contains %+v", g.ID, *g, *existing)
		}
		return false, nil
	}

	snapshot.Add(g)
	if err := s.SaveSnapshot(snapshot); err != nil {
		return false, err
	}
	return true, nil
}

// CreateAll records every game not yet in the snapshot with a single
// snapshot write and returns the new ones in day order. Known games must
// describe the same result as the stored record.
func (s *Storage) CreateAll(ctx context.Context, games []*game.Game) ([]*game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.LoadSnapshot()
	if err != nil {
		return nil, err
	}

	for _, g := range games {
		if existing, ok := snapshot.Games[g.ID]; ok && !existing.SameResult(g) {
			return nil, fmt.Errorf("game %s: tried to write %+v but snapshot contains %+v", g.ID, *g, *existing)
		}
	}

	diff := game.Diff(snapshot, games)
	if len(diff.NewGames) == 0 {
		return diff.NewGames, nil
	}
	for _, g := range diff.NewGames {
		snapshot.Add(g)
	}
	if err := s.SaveSnapshot(snapshot); err != nil {
		return nil, err
	}
	return diff.NewGames, nil
}

func (s *Storage) objectPaths(key string) (body, meta string, err error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", "", fmt.Errorf("invalid archive key %q", key)
	}
	dir := filepath.Join(s.dataDir, archiveDir)
	return filepath.Join(dir, key+".html"), filepath.Join(dir, key+".json"), nil
}

// Put archives body under key. It fails with archive.ErrExists if the key
// was archived before.
//
// The metadata is in place before the body appears, and the body appears
// in one step, so Exists never reports a page whose metadata is missing.
func (s *Storage) Put(ctx context.Context, key string, body []byte, meta map[string]string) error {
	bodyPath, metaPath, err := s.objectPaths(key)
	if err != nil {
		return err
	}
	if _, err := os.Stat(bodyPath); err == nil {
		return fmt.Errorf("%s: %w", key, archive.ErrExists)
	}

	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata for %s: %w", key, err)
	}

	dir := filepath.Dir(bodyPath)
	tmpMeta, err := writeTemp(dir, key, metaData)
	if err != nil {
		return fmt.Errorf("writing metadata for %s: %w", key, err)
	}
	defer os.Remove(tmpMeta)
	tmpBody, err := writeTemp(dir, key, body)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	defer os.Remove(tmpBody)

	if err := os.Rename(tmpMeta, metaPath); err != nil {
		return fmt.Errorf("writing metadata for %s: %w", key, err)
	}
	// Link fails if the body exists, which keeps the first write
	if err := os.Link(tmpBody, bodyPath); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", key, archive.ErrExists)
		}
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// writeTemp writes data to a new hidden file in dir and returns its path.
func writeTemp(dir, key string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+key+"-*.tmp")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// Get reads an archived page and its metadata
func (s *Storage) Get(ctx context.Context, key string) (*archive.Object, error) {
	bodyPath, metaPath, err := s.objectPaths(key)
	if err != nil {
		return nil, err
	}

	body, err := os.ReadFile(bodyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", key, archive.ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	meta := map[string]string{}
	data, err := os.ReadFile(metaPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("parsing metadata for %s: %w", key, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("reading metadata for %s: %w", key, err)
	}

	return &archive.Object{Key: key, Body: body, Metadata: meta}, nil
}

// Exists reports whether key has been archived
func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	bodyPath, _, err := s.objectPaths(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(bodyPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

var _ archive.Store = (*Storage)(nil)
