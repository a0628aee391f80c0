package pipeline

import (
	"context"
	"time"

	"github.com/thromer/pc-boxscores/internal/archive"
	"github.com/thromer/pc-boxscores/internal/game"
	"github.com/thromer/pc-boxscores/internal/logger"
	"github.com/thromer/pc-boxscores/internal/notifier"
)

// Site is the subset of the league web client the pipeline reads from
type Site interface {
	CurrentDay(ctx context.Context) (int, error)
	CurrentYear(ctx context.Context) (int, error)
	Scoreboard(ctx context.Context, day, year int) ([]*game.Game, error)
	FetchBoxScore(ctx context.Context, gameID string) (string, error)
	FetchReplay(ctx context.Context, gameID, home, away string) ([]byte, error)
}

// GameRecorder stores discovered games. Create reports whether g was new.
type GameRecorder interface {
	Create(ctx context.Context, g *game.Game) (bool, error)
}

// BatchRecorder is implemented by recorders that can store a whole
// scoreboard day at once. CreateAll returns the games that were new.
type BatchRecorder interface {
	CreateAll(ctx context.Context, games []*game.Game) ([]*game.Game, error)
}

// Config tunes discovery and archiving
type Config struct {
	// StopAfterProcessedDays ends discovery once this many days with games
	// yielded nothing new.
	StopAfterProcessedDays int
	// EmptyDayDelay is slept after a scoreboard day with no games.
	EmptyDayDelay time.Duration
	// ArchiveWorkers bounds concurrent box score downloads.
	ArchiveWorkers int
}

// DefaultConfig returns the settings used by the scheduled jobs
func DefaultConfig() Config {
	return Config{
		StopAfterProcessedDays: 2,
		EmptyDayDelay:          5 * time.Second,
		ArchiveWorkers:         4,
	}
}

// Pipeline runs discovery, archiving and box score processing
type Pipeline struct {
	site     Site
	archive  archive.Store
	games    GameRecorder
	notifier notifier.Notifier
	cfg      Config
	log      *logger.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

// New creates a pipeline. Any dependency a job does not use may be nil.
func New(site Site, store archive.Store, games GameRecorder, n notifier.Notifier, cfg Config) *Pipeline {
	def := DefaultConfig()
	if cfg.StopAfterProcessedDays < 1 {
		cfg.StopAfterProcessedDays = def.StopAfterProcessedDays
	}
	if cfg.ArchiveWorkers < 1 {
		cfg.ArchiveWorkers = def.ArchiveWorkers
	}
	if cfg.EmptyDayDelay < 0 {
		cfg.EmptyDayDelay = 0
	}

	return &Pipeline{
		site:     site,
		archive:  store,
		games:    games,
		notifier: n,
		cfg:      cfg,
		log:      logger.With(logger.Fields{"component": "pipeline"}),
		sleep:    sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
