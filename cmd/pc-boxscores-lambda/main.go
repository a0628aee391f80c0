package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/thromer/pc-boxscores/internal/archive"
	"github.com/thromer/pc-boxscores/internal/cli"
	"github.com/thromer/pc-boxscores/internal/config"
	"github.com/thromer/pc-boxscores/internal/logger"
	"github.com/thromer/pc-boxscores/internal/pipeline"
)

const (
	modeProcess  = "process"
	modeDiscover = "discover"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	level, _ := logger.ParseLevel(cfg.Log.Level)
	logger.SetDefault(logger.New(level, os.Stderr))

	mode := strings.ToLower(os.Getenv("MODE"))
	switch mode {
	case modeProcess:
		lambda.Start(processHandler(cfg))
	case modeDiscover:
		lambda.Start(discoverHandler(cfg))
	default:
		fmt.Fprintf(os.Stderr, "Error: MODE must be %q or %q, got %q\n", modeProcess, modeDiscover, mode)
		os.Exit(1)
	}
}

// processHandler analyzes each box score written to the archive bucket
func processHandler(cfg *config.Config) func(context.Context, events.S3Event) error {
	return func(ctx context.Context, evt events.S3Event) error {
		app, err := cli.NewApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer app.Close()
		if app.S3() == nil {
			return errors.New("process mode needs an S3 archive bucket")
		}

		n, err := app.Notifier(ctx, os.Stdout, false)
		if err != nil {
			return err
		}

		var errs []error
		for _, record := range evt.Records {
			key := record.S3.Object.URLDecodedKey
			if key == "" {
				key = record.S3.Object.Key
			}
			log := logger.With(logger.Fields{"bucket": record.S3.Bucket.Name, "key": key})

			store := archive.NewS3Store(app.S3(), record.S3.Bucket.Name)
			messages, err := app.PipelineWithStore(store, n).ProcessArchived(ctx, key)
			if err != nil {
				log.Error("processing failed", nil, err)
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				continue
			}
			log.Info("processed", logger.Fields{"achievements": len(messages)})
		}
		return errors.Join(errs...)
	}
}

// discoverHandler runs discovery on a schedule and archives new games
func discoverHandler(cfg *config.Config) func(context.Context, events.CloudWatchEvent) (*pipeline.DiscoverResult, error) {
	return func(ctx context.Context, evt events.CloudWatchEvent) (*pipeline.DiscoverResult, error) {
		app, err := cli.NewApp(ctx, cfg)
		if err != nil {
			return nil, err
		}
		defer app.Close()

		logger.Info("scheduled discovery", logger.Fields{"event_id": evt.ID, "time": evt.Time})

		p := app.Pipeline(nil)
		result, err := p.Discover(ctx, pipeline.DiscoverOptions{DryRun: cfg.Notify.DryRun})
		if err != nil {
			return nil, err
		}

		if !cfg.Notify.DryRun && len(result.NewGames) > 0 {
			if _, err := p.ArchiveGames(ctx, result.NewGames); err != nil {
				return result, err
			}
		}
		return result, nil
	}
}
