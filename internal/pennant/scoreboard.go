package pennant

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/thromer/pc-boxscores/internal/game"
)

var (
	scoreboardHeader = []string{"Final", "1", "2", "3", "4", "5", "6", "7", "8", "9", "x", "R", "H", "E"}
	teamIDPattern    = regexp.MustCompile(`tid=([^&]+)`)
	gameIDPattern    = regexp.MustCompile(`sid=([^&]+)`)
	lastYearPattern  = regexp.MustCompile(`Last Year's Standings: ([0-9]+)[^0-9]`)
)

// runsColumn is the R cell in an away or home line
const runsColumn = 11

// CurrentDay returns the day selected on the league's default scoreboard page.
func (c *Client) CurrentDay(ctx context.Context) (int, error) {
	body, err := c.get(ctx, c.scoreboardURL(0))
	if err != nil {
		return 0, fmt.Errorf("scoreboard: %w", err)
	}
	return parseCurrentDay(bytes.NewReader(body))
}

func parseCurrentDay(r io.Reader) (int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return 0, fmt.Errorf("parsing HTML: %w", err)
	}

	selected := doc.Find("#ContentPlaceHolder1_ddDays option[selected]").First()
	if selected.Length() == 0 {
		return 0, fmt.Errorf("no selected day on scoreboard")
	}

	day, err := strconv.Atoi(strings.TrimSpace(selected.Text()))
	if err != nil {
		return 0, fmt.Errorf("parsing selected day: %w", err)
	}
	return day, nil
}

// CurrentYear returns the season year: the year of last year's standings plus
// one, or that year itself while the schedule shows playoffs.
func (c *Client) CurrentYear(ctx context.Context) (int, error) {
	schedule, err := c.get(ctx, c.url("/lgSchedule.aspx", url.Values{"lgid": {c.leagueID}}))
	if err != nil {
		return 0, fmt.Errorf("schedule: %w", err)
	}
	standings, err := c.get(ctx, c.url("/lgPastStandings.aspx", url.Values{"lgId": {c.leagueID}}))
	if err != nil {
		return 0, fmt.Errorf("past standings: %w", err)
	}
	return seasonYear(string(schedule), string(standings))
}

func seasonYear(schedule, standings string) (int, error) {
	matches := lastYearPattern.FindAllStringSubmatch(standings, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("couldn't determine year")
	}
	lastYear, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil {
		return 0, fmt.Errorf("couldn't determine year: %w", err)
	}

	if strings.Contains(schedule, "Playoff") {
		return lastYear, nil
	}
	return lastYear + 1, nil
}

// Scoreboard returns the completed games listed for a day.
func (c *Client) Scoreboard(ctx context.Context, day, year int) ([]*game.Game, error) {
	body, err := c.get(ctx, c.scoreboardURL(day))
	if err != nil {
		return nil, fmt.Errorf("scoreboard day %d: %w", day, err)
	}
	return parseScoreboard(bytes.NewReader(body), day, year)
}

func parseScoreboard(r io.Reader, day, year int) ([]*game.Game, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	games := make([]*game.Game, 0)
	var parseErr error
	doc.Find(".scoreTable").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if !isScoreTable(sel) {
			return true
		}
		g, err := parseScoreTable(sel, day, year)
		if err != nil {
			parseErr = fmt.Errorf("score table %d: %w", i, err)
			return false
		}
		games = append(games, g)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return games, nil
}

// isScoreTable matches elements whose class is exactly "scoreTable table"
func isScoreTable(sel *goquery.Selection) bool {
	class, _ := sel.Attr("class")
	return reflect.DeepEqual(strings.Fields(class), []string{"scoreTable", "table"})
}

func cellTexts(row *goquery.Selection) []string {
	var texts []string
	row.Children().Each(func(_ int, cell *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(cell.Text()))
	})
	return texts
}

func parseScoreTable(sel *goquery.Selection, day, year int) (*game.Game, error) {
	rows := sel.Find("tr")
	if rows.Length() < 3 {
		return nil, fmt.Errorf("expected at least 3 rows, got %d", rows.Length())
	}

	header := cellTexts(rows.Eq(0))
	if !reflect.DeepEqual(header, scoreboardHeader) {
		return nil, fmt.Errorf("bad header %v", header)
	}

	var teams [2]string
	var runs [2]int
	for i := 0; i < 2; i++ {
		line := rows.Eq(i + 1).Children()
		href, ok := line.First().Find("a").First().Attr("href")
		if !ok {
			return nil, fmt.Errorf("line %d: no team link", i+1)
		}
		m := teamIDPattern.FindStringSubmatch(href)
		if m == nil {
			return nil, fmt.Errorf("line %d: no team id in %q", i+1, href)
		}
		teams[i] = m[1]

		if line.Length() <= runsColumn {
			return nil, fmt.Errorf("line %d: expected %d cells, got %d", i+1, runsColumn+1, line.Length())
		}
		r, err := strconv.Atoi(strings.TrimSpace(line.Eq(runsColumn).Text()))
		if err != nil {
			return nil, fmt.Errorf("line %d: runs: %w", i+1, err)
		}
		runs[i] = r
	}

	href, ok := rows.Last().Find("a").First().Attr("href")
	if !ok {
		return nil, fmt.Errorf("no box score link")
	}
	m := gameIDPattern.FindStringSubmatch(href)
	if m == nil {
		return nil, fmt.Errorf("no game id in %q", href)
	}

	return game.New(m[1], year, day, teams[0], teams[1], runs[0], runs[1]), nil
}
