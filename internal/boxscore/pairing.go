package boxscore

import (
	"strconv"
	"strings"
)

// Pairing is the two teams of a game as listed in the line score, away first,
// with the runners each left on base.
type Pairing struct {
	Away    string `json:"away"`
	Home    string `json:"home"`
	AwayLOB int    `json:"away_lob"`
	HomeLOB int    `json:"home_lob"`
}

// NewPairing reads the line-score table: team labels from the first cell of
// the first two data rows and LOB from the column headed "LOB".
func NewPairing(summary RawTable) (Pairing, error) {
	if len(summary) < 3 {
		return Pairing{}, structuralf("line score has %d rows, want at least 3", len(summary))
	}

	lobIndex := -1
	for i, h := range summary[0] {
		if h == "LOB" {
			lobIndex = i
			break
		}
	}
	if lobIndex < 0 {
		return Pairing{}, structuralf("line score has no LOB column")
	}

	var teams [2]string
	var lob [2]int
	for i, row := range summary[1:3] {
		if len(row) <= lobIndex {
			return Pairing{}, structuralf("line score row %d has %d cells, LOB is column %d", i+1, len(row), lobIndex)
		}
		teams[i] = row[0]
		v, err := strconv.Atoi(strings.TrimSpace(row[lobIndex]))
		if err != nil {
			return Pairing{}, &FormatError{Player: row[0], Code: "LOB", Value: row[lobIndex], Err: err}
		}
		lob[i] = v
	}

	return Pairing{Away: teams[0], Home: teams[1], AwayLOB: lob[0], HomeLOB: lob[1]}, nil
}

// Opponent returns the other team in the game.
func (p Pairing) Opponent(team string) (string, error) {
	switch team {
	case p.Away:
		return p.Home, nil
	case p.Home:
		return p.Away, nil
	}
	return "", &LookupError{Team: team}
}

// LOB returns the runners left on base by team, zero for an unknown team.
func (p Pairing) LOB(team string) int {
	switch team {
	case p.Away:
		return p.AwayLOB
	case p.Home:
		return p.HomeLOB
	}
	return 0
}
