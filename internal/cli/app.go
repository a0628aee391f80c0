package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/thromer/pc-boxscores/internal/archive"
	"github.com/thromer/pc-boxscores/internal/config"
	"github.com/thromer/pc-boxscores/internal/crypto"
	"github.com/thromer/pc-boxscores/internal/game"
	"github.com/thromer/pc-boxscores/internal/gamedb"
	"github.com/thromer/pc-boxscores/internal/logger"
	"github.com/thromer/pc-boxscores/internal/notifier"
	"github.com/thromer/pc-boxscores/internal/pennant"
	"github.com/thromer/pc-boxscores/internal/pipeline"
	"github.com/thromer/pc-boxscores/internal/storage"
	"github.com/thromer/pc-boxscores/internal/telegram"
)

// GameLookup finds a previously discovered game by id
type GameLookup interface {
	Get(ctx context.Context, id string) (*game.Game, error)
}

// localGames adapts storage.Storage to GameLookup
type localGames struct {
	*storage.Storage
}

func (l localGames) Get(ctx context.Context, id string) (*game.Game, error) {
	return l.GetGame(id)
}

// App holds the clients built from the configuration
type App struct {
	Config *config.Config
	Site   *pennant.Client
	Store  archive.Store
	Games  pipeline.GameRecorder
	Lookup GameLookup

	aws     *aws.Config
	s3      *s3.Client
	closers []func() error
}

// NewApp builds the site client and selects the archive and game stores:
// S3 and DynamoDB when their names are configured, local files otherwise.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	site, err := pennant.New(pennant.Options{
		BaseURL:    cfg.League.BaseURL,
		LeagueID:   cfg.League.ID,
		LeagueName: cfg.League.Name,
		UserAgent:  cfg.League.UserAgent,
		Timeout:    cfg.League.HTTPTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating site client: %w", err)
	}

	a := &App{Config: cfg, Site: site}

	if cfg.UsesAWS() {
		opts := []func(*awsconfig.LoadOptions) error{}
		if cfg.AWS.Region != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.AWS.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("loading aws config: %w", err)
		}
		a.aws = &awsCfg
		a.s3 = s3.NewFromConfig(awsCfg)
	}

	var local *storage.Storage
	localStore := func() (*storage.Storage, error) {
		if local != nil {
			return local, nil
		}
		s, err := storage.New(cfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing storage: %w", err)
		}
		local = s
		return s, nil
	}

	if cfg.AWS.ArchiveBucket != "" {
		a.Store = archive.NewS3Store(a.s3, cfg.AWS.ArchiveBucket)
	} else {
		s, err := localStore()
		if err != nil {
			return nil, err
		}
		a.Store = s
	}

	if cfg.AWS.GamesTable != "" {
		db := gamedb.New(dynamodb.NewFromConfig(*a.aws), cfg.AWS.GamesTable)
		a.Games = db
		a.Lookup = db
	} else {
		s, err := localStore()
		if err != nil {
			return nil, err
		}
		a.Games = s
		a.Lookup = localGames{s}
	}

	logger.Debug("app configured", logger.Fields{
		"league":         cfg.League.ID,
		"archive_bucket": cfg.AWS.ArchiveBucket,
		"games_table":    cfg.AWS.GamesTable,
		"data_dir":       dataDir(local),
	})
	return a, nil
}

func dataDir(s *storage.Storage) string {
	if s == nil {
		return ""
	}
	return s.Dir()
}

// S3 returns the S3 client, or nil when no AWS resource is configured
func (a *App) S3() *s3.Client {
	return a.s3
}

// Pipeline builds a pipeline over the app's clients
func (a *App) Pipeline(n notifier.Notifier) *pipeline.Pipeline {
	return a.PipelineWithStore(a.Store, n)
}

// PipelineWithStore builds a pipeline reading archived box scores from store
func (a *App) PipelineWithStore(store archive.Store, n notifier.Notifier) *pipeline.Pipeline {
	return pipeline.New(a.Site, store, a.Games, n, pipeline.Config{
		StopAfterProcessedDays: a.Config.Discover.StopAfterProcessedDays,
		EmptyDayDelay:          a.Config.Discover.EmptyDayDelay,
		ArchiveWorkers:         a.Config.Discover.ArchiveWorkers,
	})
}

// Notifier builds the configured notifier. Dry runs print to w. When a Redis
// URL is set the notifier is wrapped in a per-message lock.
func (a *App) Notifier(ctx context.Context, w io.Writer, dryRun bool) (notifier.Notifier, error) {
	cfg := a.Config
	if dryRun || cfg.Notify.DryRun || cfg.Notify.Target == config.TargetDryRun {
		return notifier.NewDryRunNotifier(w), nil
	}
	if err := cfg.ValidateNotify(); err != nil {
		return nil, err
	}

	var n notifier.Notifier
	switch cfg.Notify.Target {
	case config.TargetChat:
		creds, err := a.Credentials(ctx)
		if err != nil {
			return nil, err
		}
		if err := a.Site.Login(ctx, creds.Username, creds.Password); err != nil {
			return nil, err
		}
		n = notifier.NewLeagueChat(a.Site)
	case config.TargetTwitter:
		tw, err := notifier.NewTwitterNotifier(cfg.Notify.TwitterAPIKey, cfg.Notify.TwitterAPISecret,
			cfg.Notify.TwitterAccessToken, cfg.Notify.TwitterAccessSecret)
		if err != nil {
			return nil, err
		}
		n = tw
	case config.TargetTelegram:
		client, err := telegram.NewClient(cfg.Notify.TelegramBotToken, cfg.Notify.TelegramChatID)
		if err != nil {
			return nil, err
		}
		n = notifier.NewTelegramNotifier(client)
	default:
		return nil, fmt.Errorf("unknown notify target %q", cfg.Notify.Target)
	}

	if cfg.Redis.URL != "" {
		rdb, err := notifier.DialRedis(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		n = notifier.NewLockingNotifier(n, rdb, cfg.Redis.LockTTL)
	}
	return n, nil
}

// Credentials returns the site login, either from the configuration or
// from the encrypted blob in the login bucket.
func (a *App) Credentials(ctx context.Context) (crypto.Credentials, error) {
	login := a.Config.Login
	if login.HasDirectCredentials() {
		return crypto.Credentials{Username: login.Username, Password: login.Password}, nil
	}
	if a.s3 == nil {
		return crypto.Credentials{}, fmt.Errorf("no credentials configured")
	}

	out, err := a.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(login.Bucket),
		Key:    aws.String(login.Object),
	})
	if err != nil {
		return crypto.Credentials{}, fmt.Errorf("fetching s3://%s/%s: %w", login.Bucket, login.Object, err)
	}
	defer out.Body.Close()

	blob, err := io.ReadAll(out.Body)
	if err != nil {
		return crypto.Credentials{}, fmt.Errorf("reading credentials: %w", err)
	}
	return crypto.NewSealer(login.CredentialsKey).OpenCredentials(blob)
}

// Close releases connections opened by Notifier
func (a *App) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
