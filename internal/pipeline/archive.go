package pipeline

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/thromer/pc-boxscores/internal/archive"
	"github.com/thromer/pc-boxscores/internal/game"
	"github.com/thromer/pc-boxscores/internal/logger"
)

// ArchiveResult reports what ArchiveGame stored for one game
type ArchiveResult struct {
	Game           *game.Game `json:"game"`
	BoxScoreStored bool       `json:"box_score_stored"`
	ReplayStored   bool       `json:"replay_stored"`
}

// ArchiveGame stores the box score and replay of g. Objects that are already
// archived are left alone and are not an error.
func (p *Pipeline) ArchiveGame(ctx context.Context, g *game.Game) (ArchiveResult, error) {
	result := ArchiveResult{Game: g}
	meta := g.Metadata()

	stored, err := p.archiveOnce(ctx, g.ID, meta, func() ([]byte, error) {
		html, err := p.site.FetchBoxScore(ctx, g.ID)
		return []byte(html), err
	})
	if err != nil {
		return result, err
	}
	result.BoxScoreStored = stored
	if stored {
		logger.IncrCounter(logger.MetricBoxScoresArchived)
	}

	stored, err = p.archiveOnce(ctx, game.ReplayKey(g.ID), meta, func() ([]byte, error) {
		return p.site.FetchReplay(ctx, g.ID, g.Home, g.Away)
	})
	if err != nil {
		return result, err
	}
	result.ReplayStored = stored

	return result, nil
}

func (p *Pipeline) archiveOnce(ctx context.Context, key string, meta map[string]string, fetch func() ([]byte, error)) (bool, error) {
	log := p.log.With(logger.Fields{"key": key})

	exists, err := p.archive.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", key, err)
	}
	if exists {
		log.Debug("already uploaded", nil)
		return false, nil
	}

	body, err := fetch()
	if err != nil {
		return false, err
	}

	if err := p.archive.Put(ctx, key, body, meta); err != nil {
		if errors.Is(err, archive.ErrExists) {
			log.Debug("already uploaded", nil)
			return false, nil
		}
		return false, err
	}
	log.Info("uploaded", logger.Fields{"bytes": len(body)})
	return true, nil
}

// ArchiveGames archives each game with at most ArchiveWorkers downloads in
// flight. Results are returned in the order of games. The first error
// cancels the remaining work.
func (p *Pipeline) ArchiveGames(ctx context.Context, games []*game.Game) ([]ArchiveResult, error) {
	results := make([]ArchiveResult, len(games))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.cfg.ArchiveWorkers)
	for i, g := range games {
		eg.Go(func() error {
			r, err := p.ArchiveGame(ctx, g)
			if err != nil {
				return fmt.Errorf("archiving game %s: %w", g.ID, err)
			}
			results[i] = r
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
