package boxscore

// Parse decodes a box score page into a Game. It fails on the first
// structural, format or lookup problem.
func Parse(html string) (*Game, error) {
	tables, err := ExtractTables(html)
	if err != nil {
		return nil, err
	}
	if len(tables) != 3 {
		return nil, structuralf("found %d tables, want 3", len(tables))
	}
	summary, battingTable, pitchingTable := tables[0], tables[1], tables[2]

	pairing, err := NewPairing(summary)
	if err != nil {
		return nil, err
	}

	rawBatters, err := BuildRoster(battingTable)
	if err != nil {
		return nil, err
	}
	rawPitchers, err := BuildRoster(pitchingTable)
	if err != nil {
		return nil, err
	}

	batters := make([]Batter, 0, len(rawBatters))
	for _, rb := range rawBatters {
		b, err := DecodeBatter(rb, pairing)
		if err != nil {
			return nil, err
		}
		batters = append(batters, b)
	}

	pitchers := make([]Pitcher, 0, len(rawPitchers))
	for _, rp := range rawPitchers {
		p, err := DecodePitcher(rp, pairing)
		if err != nil {
			return nil, err
		}
		pitchers = append(pitchers, p)
	}

	return &Game{
		Pairing:  pairing,
		Batters:  batters,
		Pitchers: pitchers,
		Batting:  BattingTotals(batters),
		Pitching: PitchingTotals(pitchers),
	}, nil
}

// Analyze returns the achievement messages for a box score page. An empty
// result is normal; an error means nothing from this page should be posted.
func Analyze(html string) ([]string, error) {
	g, err := Parse(html)
	if err != nil {
		return nil, err
	}
	return Detect(g), nil
}
