package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thromer/pc-boxscores/internal/game"
	"github.com/thromer/pc-boxscores/internal/pipeline"
)

var (
	flagProcessGameID string
	flagProcessDay    int
	flagProcessYear   int
	flagProcessDryRun bool
	flagProcessFormat string
)

func newProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Analyze one game and post its achievements",
		Long: `Analyze one game's box score and post each achievement.
The archived copy is used when present; otherwise the box score is fetched
from the site, which needs --day (and --year outside the current season).`,
		RunE: runProcess,
	}

	cmd.Flags().StringVar(&flagProcessGameID, "game-id", "", "Game id (required)")
	cmd.Flags().IntVar(&flagProcessDay, "day", 0, "League day of the game, for games that are not archived")
	cmd.Flags().IntVar(&flagProcessYear, "year", 0, "Season year (default: current season)")
	cmd.Flags().BoolVar(&flagProcessDryRun, "dry-run", false, "Print messages instead of posting them")
	cmd.Flags().StringVar(&flagProcessFormat, "format", "text", "Output format: text or json")

	cmd.MarkFlagRequired("game-id")

	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagProcessFormat)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	n, err := app.Notifier(ctx, cmd.ErrOrStderr(), flagProcessDryRun)
	if err != nil {
		return fmt.Errorf("building notifier: %w", err)
	}
	p := app.Pipeline(n)

	messages, err := processGame(ctx, app, p, flagProcessGameID, flagProcessDay, flagProcessYear)
	if err != nil {
		return err
	}

	return WriteAnalysis(cmd.OutOrStdout(), &AnalyzeResult{
		Source:     flagProcessGameID,
		AnalyzedAt: time.Now().UTC(),
		Messages:   messages,
		Count:      len(messages),
	}, format, flagVerbose)
}

func processGame(ctx context.Context, app *App, p *pipeline.Pipeline, id string, day, year int) ([]string, error) {
	archived, err := app.Store.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("checking archive: %w", err)
	}
	if archived {
		return p.ProcessArchived(ctx, id)
	}

	if day <= 0 {
		g, err := app.Lookup.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("game %s is not archived or known; pass --day", id)
		}
		return p.ProcessGame(ctx, g)
	}

	if year <= 0 {
		year, err = app.Site.CurrentYear(ctx)
		if err != nil {
			return nil, err
		}
	}
	return p.ProcessGame(ctx, game.New(id, year, day, "", "", 0, 0))
}
