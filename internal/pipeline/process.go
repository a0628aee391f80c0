package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/thromer/pc-boxscores/internal/boxscore"
	"github.com/thromer/pc-boxscores/internal/game"
	"github.com/thromer/pc-boxscores/internal/logger"
	"github.com/thromer/pc-boxscores/internal/notifier"
)

// ErrNoNotifier is returned when processing finds achievements but the
// pipeline was built without a notifier.
var ErrNoNotifier = errors.New("pipeline: no notifier configured")

// ProcessBoxScore analyzes the box score html of gameID and sends one
// notification per achievement. meta carries the archive metadata (see
// game.Metadata) that supplies the day and year. Replay keys are skipped.
//
// If the analysis fails nothing is sent. Notification failures do not stop
// the remaining messages; they are joined into the returned error.
func (p *Pipeline) ProcessBoxScore(ctx context.Context, gameID, html string, meta map[string]string) ([]string, error) {
	if game.IsReplayKey(gameID) {
		p.log.Debug("replay, skipping", logger.Fields{"key": gameID})
		return nil, nil
	}

	g, err := game.FromMetadata(gameID, meta)
	if err != nil {
		logger.IncrCounter(logger.MetricGamesFailed)
		p.log.Error("bad box score metadata", logger.Fields{"game_id": gameID}, err)
		return nil, err
	}
	log := p.log.With(logger.Fields{"game_id": g.ID, "day": g.Day, "year": g.Year})

	done := logger.Time(logger.MetricAnalyze)
	messages, err := boxscore.Analyze(html)
	done()
	if err != nil {
		logger.IncrCounter(logger.MetricGamesFailed)
		log.Error("analysis failed", nil, err)
		return nil, fmt.Errorf("analyzing game %s: %w", g.ID, err)
	}

	logger.IncrCounter(logger.MetricGamesAnalyzed)
	logger.AddCounter(logger.MetricAchievementsFound, int64(len(messages)))
	log.Info("analyzed box score", logger.Fields{"achievements": len(messages)})

	if len(messages) == 0 {
		return messages, nil
	}
	if p.notifier == nil {
		return messages, ErrNoNotifier
	}

	var errs []error
	for _, text := range messages {
		msg := notifier.Message{Text: text, GameID: g.ID, Day: g.Day, Year: g.Year}
		if err := p.notifier.Notify(ctx, msg); err != nil {
			log.Error("notify failed", logger.Fields{"message": text}, err)
			errs = append(errs, err)
		}
	}
	return messages, errors.Join(errs...)
}

// ProcessArchived processes the archived box score stored under key.
func (p *Pipeline) ProcessArchived(ctx context.Context, key string) ([]string, error) {
	if game.IsReplayKey(key) {
		p.log.Debug("replay, skipping", logger.Fields{"key": key})
		return nil, nil
	}

	obj, err := p.archive.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("loading box score %s: %w", key, err)
	}
	return p.ProcessBoxScore(ctx, key, string(obj.Body), obj.Metadata)
}

// ProcessGame fetches the live box score for g and processes it.
func (p *Pipeline) ProcessGame(ctx context.Context, g *game.Game) ([]string, error) {
	html, err := p.site.FetchBoxScore(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	return p.ProcessBoxScore(ctx, g.ID, html, g.Metadata())
}
