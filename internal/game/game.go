package game

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// replaySuffix marks archive keys that hold play-by-play replays rather than
// box scores.
const replaySuffix = "-replay"

// Game represents a completed game on a league scoreboard
type Game struct {
	ID           string    `json:"id"`
	Year         int       `json:"year"`
	Day          int       `json:"day"`
	Away         string    `json:"away"`
	Home         string    `json:"home"`
	AwayRuns     int       `json:"away_r"`
	HomeRuns     int       `json:"home_r"`
	DiscoveredAt time.Time `json:"discovered_at,omitempty"`
}

// New creates a Game with DiscoveredAt populated
func New(id string, year, day int, away, home string, awayRuns, homeRuns int) *Game {
	return &Game{
		ID:           id,
		Year:         year,
		Day:          day,
		Away:         away,
		Home:         home,
		AwayRuns:     awayRuns,
		HomeRuns:     homeRuns,
		DiscoveredAt: time.Now().UTC(),
	}
}

// SameResult reports whether two records describe the same game outcome.
// DiscoveredAt is ignored.
func (g *Game) SameResult(other *Game) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.ID == other.ID &&
		g.Year == other.Year &&
		g.Day == other.Day &&
		g.Away == other.Away &&
		g.Home == other.Home &&
		g.AwayRuns == other.AwayRuns &&
		g.HomeRuns == other.HomeRuns
}

// Metadata returns the archive metadata for the game's box score and replay.
func (g *Game) Metadata() map[string]string {
	return map[string]string{
		"year":   strconv.Itoa(g.Year),
		"day":    strconv.Itoa(g.Day),
		"away":   g.Away,
		"home":   g.Home,
		"away_r": strconv.Itoa(g.AwayRuns),
		"home_r": strconv.Itoa(g.HomeRuns),
	}
}

// FromMetadata rebuilds a Game from archive metadata. Keys are matched
// case-insensitively since some object stores lowercase metadata names.
func FromMetadata(id string, meta map[string]string) (*Game, error) {
	lower := make(map[string]string, len(meta))
	for k, v := range meta {
		lower[strings.ToLower(k)] = v
	}

	g := &Game{ID: id, Away: lower["away"], Home: lower["home"]}
	ints := []struct {
		key string
		dst *int
	}{
		{"year", &g.Year},
		{"day", &g.Day},
		{"away_r", &g.AwayRuns},
		{"home_r", &g.HomeRuns},
	}
	for _, f := range ints {
		raw, ok := lower[f.key]
		if !ok {
			return nil, fmt.Errorf("game %s: missing metadata %q", id, f.key)
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("game %s: metadata %q: %w", id, f.key, err)
		}
		*f.dst = n
	}
	return g, nil
}

// ReplayKey returns the archive key for a game's replay.
func ReplayKey(id string) string {
	return id + replaySuffix
}

// IsReplayKey reports whether an archive key names a replay rather than a box score.
func IsReplayKey(key string) bool {
	return strings.Index(key, replaySuffix) > 0
}

// FormatMessage appends the league day to an achievement message.
func FormatMessage(text string, day int) string {
	return fmt.Sprintf("%s [Day %d]", text, day)
}
