package game

import (
	"sort"
	"time"
)

// Snapshot represents the set of games known at a point in time
type Snapshot struct {
	Games     map[string]*Game `json:"games"`      // keyed by Game.ID
	UpdatedAt string           `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Games: make(map[string]*Game),
	}
}

// DiffResult contains the games not present in the previous snapshot
type DiffResult struct {
	NewGames []*Game
	Days     map[int][]*Game // new games grouped by day
}

// Diff compares scraped games against a previous snapshot and returns the new ones
func Diff(previous *Snapshot, current []*Game) *DiffResult {
	result := &DiffResult{
		NewGames: make([]*Game, 0),
		Days:     make(map[int][]*Game),
	}

	if previous == nil {
		previous = NewSnapshot()
	}

	seen := make(map[string]bool, len(current))
	for _, g := range current {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true

		if _, exists := previous.Games[g.ID]; exists {
			continue
		}
		result.NewGames = append(result.NewGames, g)
		result.Days[g.Day] = append(result.Days[g.Day], g)
	}

	SortGames(result.NewGames)
	for _, games := range result.Days {
		SortGames(games)
	}

	return result
}

// SortGames orders games by year, day, then id.
func SortGames(games []*Game) {
	sort.SliceStable(games, func(i, j int) bool {
		a, b := games[i], games[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.ID < b.ID
	})
}

// Add records a game in the snapshot. It returns false if a game with the
// same id is already present.
func (s *Snapshot) Add(g *Game) bool {
	if s.Games == nil {
		s.Games = make(map[string]*Game)
	}
	if _, exists := s.Games[g.ID]; exists {
		return false
	}
	s.Games[g.ID] = g
	return true
}

// CreateSnapshot creates a new snapshot from a list of games
func CreateSnapshot(games []*Game, updatedAt string) *Snapshot {
	snapshot := NewSnapshot()
	for _, g := range games {
		snapshot.Games[g.ID] = g
	}
	if updatedAt == "" {
		updatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	snapshot.UpdatedAt = updatedAt
	return snapshot
}
