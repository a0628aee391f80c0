package pipeline

import (
	"context"
	"fmt"

	"github.com/thromer/pc-boxscores/internal/game"
	"github.com/thromer/pc-boxscores/internal/logger"
)

// DiscoverOptions controls a discovery run
type DiscoverOptions struct {
	Day       int  // starting day; 0 means the league's current day
	Year      int  // season year; 0 means the league's current year
	Limit     int  // maximum days considered; 0 means no limit
	KeepGoing bool // walk back to day 1 even after already-processed days
	DryRun    bool // scrape only, record nothing
}

// DiscoverResult summarizes a discovery run
type DiscoverResult struct {
	StartDay       int          `json:"start_day"`
	Year           int          `json:"year"`
	DaysConsidered int          `json:"days_considered"`
	GamesSeen      int          `json:"games_seen"`
	NewGames       []*game.Game `json:"new_games"`
	Stopped        string       `json:"stopped"`
}

// Discover walks the scoreboard from the start day towards day 1 and records
// each game. It stops early once StopAfterProcessedDays days that had games
// produced no new records, unless KeepGoing is set.
func (p *Pipeline) Discover(ctx context.Context, opts DiscoverOptions) (*DiscoverResult, error) {
	day := opts.Day
	if day <= 0 {
		d, err := p.site.CurrentDay(ctx)
		if err != nil {
			return nil, fmt.Errorf("current day: %w", err)
		}
		day = d
		p.log.Info("starting from current day", logger.Fields{"day": day})
	}

	year := opts.Year
	if year <= 0 {
		y, err := p.site.CurrentYear(ctx)
		if err != nil {
			return nil, fmt.Errorf("current year: %w", err)
		}
		year = y
	}

	result := &DiscoverResult{
		StartDay: day,
		Year:     year,
		NewGames: make([]*game.Game, 0),
		Stopped:  "reached day 1",
	}

	logger.SetGauge(logger.MetricDiscoverStartDay, float64(day))

	fullyProcessed := 0
	for ; day >= 1; day-- {
		if opts.Limit > 0 && result.DaysConsidered >= opts.Limit {
			result.Stopped = "limit reached"
			break
		}
		result.DaysConsidered++

		created, seen, err := p.discoverDay(ctx, day, year, opts.DryRun)
		if err != nil {
			return result, err
		}
		result.GamesSeen += seen
		result.NewGames = append(result.NewGames, created...)

		if seen > 0 && len(created) == 0 {
			fullyProcessed++
			p.log.Info("already processed day", logger.Fields{"day": day})
			if fullyProcessed >= p.cfg.StopAfterProcessedDays && !opts.KeepGoing {
				result.Stopped = fmt.Sprintf("already processed %d days", fullyProcessed)
				break
			}
		}
	}

	game.SortGames(result.NewGames)
	p.log.Info("discovery finished", logger.Fields{
		"year":      year,
		"days":      result.DaysConsidered,
		"new_games": len(result.NewGames),
		"stopped":   result.Stopped,
	})
	return result, nil
}

// discoverDay records one day's games, returning the newly created ones and
// the number of games on the scoreboard.
func (p *Pipeline) discoverDay(ctx context.Context, day, year int, dryRun bool) ([]*game.Game, int, error) {
	defer logger.Time(logger.MetricDiscoverDay)()
	log := p.log.With(logger.Fields{"day": day, "year": year})
	log.Debug("considering day", nil)

	games, err := p.site.Scoreboard(ctx, day, year)
	if err != nil {
		return nil, 0, err
	}

	if len(games) == 0 {
		// The day's results may not be published yet
		if err := p.sleep(ctx, p.cfg.EmptyDayDelay); err != nil {
			return nil, 0, err
		}
		return nil, 0, nil
	}

	if dryRun {
		for _, g := range games {
			log.Info("dry run, would have tried writing game", logger.Fields{"game_id": g.ID, "game": g})
		}
		return nil, len(games), nil
	}

	if batch, ok := p.games.(BatchRecorder); ok {
		created, err := batch.CreateAll(ctx, games)
		if err != nil {
			return nil, len(games), fmt.Errorf("recording day %d: %w", day, err)
		}
		for _, g := range created {
			log.Info("wrote game", logger.Fields{"game_id": g.ID})
		}
		logger.AddCounter(logger.MetricGamesDiscovered, int64(len(created)))
		return created, len(games), nil
	}

	var created []*game.Game
	for _, g := range games {
		ok, err := p.games.Create(ctx, g)
		if err != nil {
			return created, len(games), fmt.Errorf("recording game %s: %w", g.ID, err)
		}
		if ok {
			log.Info("wrote game", logger.Fields{"game_id": g.ID})
			logger.IncrCounter(logger.MetricGamesDiscovered)
			created = append(created, g)
		} else {
			log.Debug("game already exists", logger.Fields{"game_id": g.ID})
		}
	}
	return created, len(games), nil
}
