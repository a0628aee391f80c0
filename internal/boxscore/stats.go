package boxscore

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// BattingLine holds the integer batting stats the site reports per player.
type BattingLine struct {
	AB      int `json:"AB"`
	R       int `json:"R"`
	H       int `json:"H"`
	RBI     int `json:"RBI"`
	Doubles int `json:"2B"`
	Triples int `json:"3B"`
	HR      int `json:"HR"`
	BB      int `json:"BB"`
	K       int `json:"K"`
	SH      int `json:"SH"`
	SB      int `json:"SB"`
	CS      int `json:"CS"`
	E       int `json:"E"`
	D       int `json:"D"`
}

// Add returns the field-wise sum of two lines.
func (l BattingLine) Add(o BattingLine) BattingLine {
	return BattingLine{
		AB: l.AB + o.AB, R: l.R + o.R, H: l.H + o.H, RBI: l.RBI + o.RBI,
		Doubles: l.Doubles + o.Doubles, Triples: l.Triples + o.Triples, HR: l.HR + o.HR,
		BB: l.BB + o.BB, K: l.K + o.K, SH: l.SH + o.SH, SB: l.SB + o.SB,
		CS: l.CS + o.CS, E: l.E + o.E, D: l.D + o.D,
	}
}

// PitchingLine holds the integer pitching stats per pitcher. Outs is derived
// from the innings-pitched display value rather than read from a column.
type PitchingLine struct {
	Outs int `json:"OUT"`
	H    int `json:"H"`
	HR   int `json:"HR"`
	R    int `json:"R"`
	ER   int `json:"ER"`
	BB   int `json:"BB"`
	K    int `json:"K"`
	WP   int `json:"WP"`
	HB   int `json:"HB"`
	PC   int `json:"PC"`
}

// Add returns the field-wise sum of two lines.
func (l PitchingLine) Add(o PitchingLine) PitchingLine {
	return PitchingLine{
		Outs: l.Outs + o.Outs, H: l.H + o.H, HR: l.HR + o.HR, R: l.R + o.R,
		ER: l.ER + o.ER, BB: l.BB + o.BB, K: l.K + o.K, WP: l.WP + o.WP,
		HB: l.HB + o.HB, PC: l.PC + o.PC,
	}
}

// Batter is one batting appearance.
type Batter struct {
	Team     string `json:"team"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	Opponent string `json:"opponent"`
	BattingLine
	Singles int `json:"1B"`
}

// Pitcher is one pitching appearance.
type Pitcher struct {
	Team     string `json:"team"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	Opponent string `json:"opponent"`
	IP       string `json:"IP"`
	PitchingLine
}

// Stat code -> field tables. Every code listed must be present in the row.
var batterCodes = []struct {
	code  string
	field func(*BattingLine) *int
}{
	{"AB", func(l *BattingLine) *int { return &l.AB }},
	{"R", func(l *BattingLine) *int { return &l.R }},
	{"H", func(l *BattingLine) *int { return &l.H }},
	{"RBI", func(l *BattingLine) *int { return &l.RBI }},
	{"2B", func(l *BattingLine) *int { return &l.Doubles }},
	{"3B", func(l *BattingLine) *int { return &l.Triples }},
	{"HR", func(l *BattingLine) *int { return &l.HR }},
	{"BB", func(l *BattingLine) *int { return &l.BB }},
	{"K", func(l *BattingLine) *int { return &l.K }},
	{"SH", func(l *BattingLine) *int { return &l.SH }},
	{"SB", func(l *BattingLine) *int { return &l.SB }},
	{"CS", func(l *BattingLine) *int { return &l.CS }},
	{"E", func(l *BattingLine) *int { return &l.E }},
	{"D", func(l *BattingLine) *int { return &l.D }},
}

var pitcherCodes = []struct {
	code  string
	field func(*PitchingLine) *int
}{
	{"H", func(l *PitchingLine) *int { return &l.H }},
	{"HR", func(l *PitchingLine) *int { return &l.HR }},
	{"R", func(l *PitchingLine) *int { return &l.R }},
	{"ER", func(l *PitchingLine) *int { return &l.ER }},
	{"BB", func(l *PitchingLine) *int { return &l.BB }},
	{"K", func(l *PitchingLine) *int { return &l.K }},
	{"WP", func(l *PitchingLine) *int { return &l.WP }},
	{"HB", func(l *PitchingLine) *int { return &l.HB }},
	{"PC", func(l *PitchingLine) *int { return &l.PC }},
}

// inningsPattern matches "6.2", "6.2." and "6.2" followed by nothing else;
// the digit after the dot counts thirds of an inning.
var inningsPattern = regexp.MustCompile(`^(\d*)\.([0-9])(?:\.|$)`)

// ParseInnings converts an innings-pitched display value into outs:
// "7.2" is 23, "9.0" is 27.
func ParseInnings(ip string) (int, error) {
	m := inningsPattern.FindStringSubmatch(ip)
	if m == nil {
		return 0, &FormatError{Code: "IP", Value: ip}
	}
	innings, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, &FormatError{Code: "IP", Value: ip, Err: err}
	}
	thirds, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, &FormatError{Code: "IP", Value: ip, Err: err}
	}
	return innings*3 + thirds, nil
}

func statValue(p RawPlayer, code string) (int, error) {
	raw, ok := p.Stats[code]
	if !ok {
		return 0, &FormatError{Player: p.Name, Code: code, Err: errMissingColumn}
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &FormatError{Player: p.Name, Code: code, Value: raw, Err: err}
	}
	return v, nil
}

// DecodeBatter decodes the fixed batting codes and fills in singles and the
// opponent.
func DecodeBatter(p RawPlayer, pairing Pairing) (Batter, error) {
	var line BattingLine
	for _, c := range batterCodes {
		v, err := statValue(p, c.code)
		if err != nil {
			return Batter{}, err
		}
		*c.field(&line) = v
	}

	opp, err := pairing.Opponent(p.Team)
	if err != nil {
		return Batter{}, err
	}

	return Batter{
		Team:        p.Team,
		Name:        p.Name,
		Position:    p.Position,
		Opponent:    opp,
		BattingLine: line,
		Singles:     line.H - line.Doubles - line.Triples - line.HR,
	}, nil
}

// DecodePitcher derives outs from the IP cell, then decodes the remaining
// pitching codes and fills in the opponent.
func DecodePitcher(p RawPlayer, pairing Pairing) (Pitcher, error) {
	ip, ok := p.Stats["IP"]
	if !ok {
		return Pitcher{}, &FormatError{Player: p.Name, Code: "IP", Err: errMissingColumn}
	}
	outs, err := ParseInnings(ip)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Player = p.Name
		}
		return Pitcher{}, err
	}

	opp, err := pairing.Opponent(p.Team)
	if err != nil {
		return Pitcher{}, err
	}

	line := PitchingLine{Outs: outs}
	for _, c := range pitcherCodes {
		v, err := statValue(p, c.code)
		if err != nil {
			return Pitcher{}, err
		}
		*c.field(&line) = v
	}

	return Pitcher{
		Team:         p.Team,
		Name:         p.Name,
		Position:     p.Position,
		Opponent:     opp,
		IP:           ip,
		PitchingLine: line,
	}, nil
}

// BattingTotals folds batters into per-team sums. Teams without batters are
// simply absent; indexing the map yields a zero line.
func BattingTotals(batters []Batter) map[string]BattingLine {
	totals := make(map[string]BattingLine)
	for _, b := range batters {
		totals[b.Team] = totals[b.Team].Add(b.BattingLine)
	}
	return totals
}

// PitchingTotals folds pitchers into per-team sums.
func PitchingTotals(pitchers []Pitcher) map[string]PitchingLine {
	totals := make(map[string]PitchingLine)
	for _, p := range pitchers {
		totals[p.Team] = totals[p.Team].Add(p.PitchingLine)
	}
	return totals
}
