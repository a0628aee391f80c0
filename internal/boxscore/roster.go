package boxscore

import (
	"regexp"
	"strings"
)

// substitutionPrefix matches the role tag the site puts in front of bench
// players, e.g. "\u00a0\u00a0ph-" for a pinch hitter.
var substitutionPrefix = regexp.MustCompile(`^\x{00A0}+[a-z]+-`)

// RawPlayer is one player row with its stat cells still as text.
type RawPlayer struct {
	Team     string
	Name     string
	Position string            // empty when the name cell has no position suffix
	Stats    map[string]string // header text -> cell text
}

// rosterState is the parser state while walking a batting or pitching table:
// either outside any team block or inside the block of one team.
type rosterState struct {
	inTeam bool
	team   string
}

var outsideTeam = rosterState{}

func insideTeam(team string) rosterState {
	return rosterState{inTeam: true, team: team}
}

// step applies one row to the state and reports whether the row is a player row.
//
// A row whose stat cells repeat the header opens a team block. A row whose
// width differs from the header (the trailing totals row) closes it.
func (s rosterState) step(header, row []string) (rosterState, bool) {
	switch {
	case isDelimiter(header, row):
		return insideTeam(row[0]), false
	case len(row) != len(header):
		return outsideTeam, false
	case !s.inTeam:
		return s, false
	default:
		return s, true
	}
}

func isDelimiter(header, row []string) bool {
	if len(row) == 0 || len(row) != len(header) {
		return false
	}
	for i := 1; i < len(row); i++ {
		if row[i] != header[i] {
			return false
		}
	}
	return true
}

// BuildRoster converts a batting or pitching table into player rows, in table
// order. The header row itself is consumed as a delimiter-shaped row and
// never yields a player.
func BuildRoster(t RawTable) ([]RawPlayer, error) {
	if len(t) == 0 {
		return nil, structuralf("player table has no rows")
	}
	header := t[0]

	players := make([]RawPlayer, 0, len(t))
	state := outsideTeam
	for _, row := range t {
		var isPlayer bool
		state, isPlayer = state.step(header, row)
		if !isPlayer {
			continue
		}

		name, pos := splitName(row[0])
		stats := make(map[string]string, len(header)-1)
		for i := 1; i < len(header); i++ {
			stats[header[i]] = row[i]
		}
		players = append(players, RawPlayer{
			Team:     state.team,
			Name:     name,
			Position: pos,
			Stats:    stats,
		})
	}
	return players, nil
}

// splitName strips any substitution tag and separates a trailing position,
// so "\u00a0ph-J. Smith CF" becomes ("J. Smith", "CF"). The position is the
// last token; a multi-word name keeps every token before it.
func splitName(cell string) (name, position string) {
	name = substitutionPrefix.ReplaceAllString(cell, "")
	if strings.Index(name, " ") <= 0 {
		return name, ""
	}
	i := strings.LastIndex(name, " ")
	return name[:i], name[i+1:]
}
