package boxscore

import (
	"fmt"
	"strings"
)

const (
	homeRunThreshold   = 4
	strikeoutThreshold = 18
)

// Game is a fully decoded box score.
type Game struct {
	Pairing  Pairing                 `json:"pairing"`
	Batters  []Batter                `json:"batters"`
	Pitchers []Pitcher               `json:"pitchers"`
	Batting  map[string]BattingLine  `json:"batting_totals"`
	Pitching map[string]PitchingLine `json:"pitching_totals"`
}

// Detect returns the achievement messages for a game. Order is part of the
// contract: batters in table order, then pitchers in table order, then the
// no-hitter check with the away team pitching followed by the home team.
func Detect(g *Game) []string {
	messages := make([]string, 0)
	for _, b := range g.Batters {
		messages = append(messages, batterAchievements(b)...)
	}
	for _, p := range g.Pitchers {
		messages = append(messages, pitcherAchievements(p)...)
	}
	sides := [2][2]string{
		{g.Pairing.Away, g.Pairing.Home},
		{g.Pairing.Home, g.Pairing.Away},
	}
	for _, side := range sides {
		if msg, ok := noHitter(g, side[0], side[1]); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

func batterAchievements(b Batter) []string {
	var out []string
	if b.Singles > 0 && b.Doubles > 0 && b.Triples > 0 && b.HR > 0 {
		out = append(out, fmt.Sprintf("%s: %s hit for the cycle against the %s!", b.Team, b.Name, b.Opponent))
	}
	if b.HR >= homeRunThreshold {
		out = append(out, fmt.Sprintf("%s: %s hit %d home runs against the %s!", b.Team, b.Name, b.HR, b.Opponent))
	}
	return out
}

func pitcherAchievements(p Pitcher) []string {
	if p.K >= strikeoutThreshold {
		return []string{fmt.Sprintf("%s: %s struck out %d batters against the %s!", p.Team, p.Name, p.K, p.Opponent)}
	}
	return nil
}

// noHitter checks whether pitchingTeam held battingTeam hitless. Every
// pitcher the pitching team used is credited.
func noHitter(g *Game, pitchingTeam, battingTeam string) (string, bool) {
	hits := g.Batting[battingTeam].H
	if hits > 0 {
		return "", false
	}

	names := make([]string, 0)
	for _, p := range g.Pitchers {
		if p.Team == pitchingTeam {
			names = append(names, p.Name)
		}
	}

	label := hitterLabel(hits)
	if g.Batting[pitchingTeam].E == 0 &&
		g.Pairing.LOB(battingTeam) == 0 &&
		g.Pitching[pitchingTeam].BB == 0 &&
		g.Pitching[pitchingTeam].HB == 0 {
		label = "perfect game"
	}

	return fmt.Sprintf("%s: %s threw a %s against the %s!",
		pitchingTeam, strings.Join(names, " and "), label, battingTeam), true
}

// hitterLabel names a low-hit game. Only zero reaches it from noHitter with
// real data; a negative hit cell would produce "-1-hitter".
func hitterLabel(hits int) string {
	if hits == 0 {
		return "no-hitter"
	}
	return fmt.Sprintf("%d-hitter", hits)
}
