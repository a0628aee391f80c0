package boxscore

import (
	"strconv"
	"strings"
)

var (
	summaryHeader  = []string{"Team", "R", "H", "E", "LOB"}
	battingHeader  = []string{"Batting", "AB", "R", "H", "RBI", "2B", "3B", "HR", "BB", "K", "SH", "SB", "CS", "E", "D"}
	pitchingHeader = []string{"Pitching", "IP", "H", "HR", "R", "ER", "BB", "K", "WP", "HB", "PC"}
)

type bat struct {
	name                        string
	ab, h, doubles, triples, hr int
	bb, k, e                    int
}

func (b bat) row() []string {
	return []string{b.name, itoa(b.ab), "0", itoa(b.h), "0", itoa(b.doubles), itoa(b.triples), itoa(b.hr),
		itoa(b.bb), itoa(b.k), "0", "0", "0", itoa(b.e), "0"}
}

type pitch struct {
	name         string
	ip           string
	h, bb, k, hb int
}

func (p pitch) row() []string {
	return []string{p.name, p.ip, itoa(p.h), "0", "0", "0", itoa(p.bb), itoa(p.k), "0", itoa(p.hb), "100"}
}

// gameFixture describes a TeamX (away) at TeamY (home) box score.
type gameFixture struct {
	awayLOB, homeLOB int
	awayBatters      []bat
	homeBatters      []bat
	awayPitchers     []pitch
	homePitchers     []pitch
}

// quietGame has hits and walks on both sides and no achievements.
func quietGame() gameFixture {
	return gameFixture{
		awayLOB: 5,
		homeLOB: 4,
		awayBatters: []bat{
			{name: "A. Lead CF", ab: 4, h: 2, doubles: 1},
			{name: "B. Bopper 1B", ab: 4, h: 1, hr: 1},
		},
		homeBatters: []bat{
			{name: "C. Contact SS", ab: 4, h: 1},
			{name: "D. Slugger RF", ab: 3, h: 1, triples: 1, bb: 1},
		},
		awayPitchers: []pitch{{name: "E. Starter SP", ip: "9.0", h: 2, bb: 1, k: 7}},
		homePitchers: []pitch{{name: "F. Arm SP", ip: "8.0", h: 3, bb: 2, k: 9}},
	}
}

func (f gameFixture) tables() []RawTable {
	summary := RawTable{
		summaryHeader,
		{"TeamX", "3", itoa(sumHits(f.awayBatters)), "0", itoa(f.awayLOB)},
		{"TeamY", "1", itoa(sumHits(f.homeBatters)), "0", itoa(f.homeLOB)},
	}

	var awayBat, homeBat, awayPitch, homePitch [][]string
	for _, b := range f.awayBatters {
		awayBat = append(awayBat, b.row())
	}
	for _, b := range f.homeBatters {
		homeBat = append(homeBat, b.row())
	}
	for _, p := range f.awayPitchers {
		awayPitch = append(awayPitch, p.row())
	}
	for _, p := range f.homePitchers {
		homePitch = append(homePitch, p.row())
	}

	return []RawTable{
		summary,
		playerTable(battingHeader, "TeamX", awayBat, "TeamY", homeBat),
		playerTable(pitchingHeader, "TeamX", awayPitch, "TeamY", homePitch),
	}
}

func (f gameFixture) html() string {
	return renderHTML(f.tables()...)
}

func sumHits(bs []bat) int {
	n := 0
	for _, b := range bs {
		n += b.h
	}
	return n
}

// playerTable lays out team blocks the way the site does: a delimiter row
// repeating the header, the player rows, then a short totals row.
func playerTable(header []string, awayTeam string, awayRows [][]string, homeTeam string, homeRows [][]string) RawTable {
	t := RawTable{header}
	for _, block := range []struct {
		team string
		rows [][]string
	}{{awayTeam, awayRows}, {homeTeam, homeRows}} {
		delim := append([]string{block.team}, header[1:]...)
		t = append(t, delim)
		t = append(t, block.rows...)
		t = append(t, []string{"Totals", "-"})
	}
	return t
}

func renderHTML(tables ...RawTable) string {
	var sb strings.Builder
	sb.WriteString("<html><body>\n")
	for _, t := range tables {
		sb.WriteString("<table>\n")
		for _, row := range t {
			sb.WriteString("<tr>")
			for _, cell := range row {
				sb.WriteString("<td>" + cell + "</td>")
			}
			sb.WriteString("</tr>\n")
		}
		sb.WriteString("</table>\n")
	}
	sb.WriteString("</body></html>\n")
	return sb.String()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
