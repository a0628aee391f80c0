package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thromer/pc-boxscores/internal/logger"
	"github.com/thromer/pc-boxscores/internal/notifier"
	"github.com/thromer/pc-boxscores/internal/pipeline"
)

var (
	flagDiscoverDay       int
	flagDiscoverYear      int
	flagDiscoverLimit     int
	flagDiscoverKeepGoing bool
	flagDiscoverDryRun    bool
	flagDiscoverArchive   bool
	flagDiscoverProcess   bool
	flagDiscoverFormat    string
)

func newDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find newly completed games on the league scoreboard",
		Long: `Walk the scoreboard backwards from the current day, recording every game
not seen before. Stops after two days that yield nothing new unless
--keep-going is set. New games are archived, and with --process their box
scores are analyzed and announced right away.`,
		RunE: runDiscover,
	}

	cmd.Flags().IntVar(&flagDiscoverDay, "day", 0, "Day to start from (default: current day)")
	cmd.Flags().IntVar(&flagDiscoverYear, "year", 0, "Season year (default: current season)")
	cmd.Flags().IntVar(&flagDiscoverLimit, "limit", 0, "Maximum number of days to consider (0 = no limit)")
	cmd.Flags().BoolVar(&flagDiscoverKeepGoing, "keep-going", false, "Keep going after already-processed days")
	cmd.Flags().BoolVar(&flagDiscoverDryRun, "dry-run", false, "Scrape only; record, archive and post nothing")
	cmd.Flags().BoolVar(&flagDiscoverArchive, "archive", true, "Archive box scores and replays of new games")
	cmd.Flags().BoolVar(&flagDiscoverProcess, "process", false, "Analyze and announce newly archived box scores")
	cmd.Flags().StringVar(&flagDiscoverFormat, "format", "text", "Output format: text or json")

	return cmd
}

func runDiscover(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagDiscoverFormat)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	var n notifier.Notifier
	if flagDiscoverProcess && !flagDiscoverDryRun {
		n, err = app.Notifier(ctx, cmd.ErrOrStderr(), false)
		if err != nil {
			return fmt.Errorf("building notifier: %w", err)
		}
	}
	p := app.Pipeline(n)

	result, err := p.Discover(ctx, pipeline.DiscoverOptions{
		Day:       flagDiscoverDay,
		Year:      flagDiscoverYear,
		Limit:     flagDiscoverLimit,
		KeepGoing: flagDiscoverKeepGoing,
		DryRun:    flagDiscoverDryRun,
	})
	if err != nil {
		return fmt.Errorf("discovering games: %w", err)
	}
	out := &DiscoverOutput{DiscoverResult: result}

	if flagDiscoverArchive && !flagDiscoverDryRun && len(result.NewGames) > 0 {
		out.Archived, err = p.ArchiveGames(ctx, result.NewGames)
		if err != nil {
			return fmt.Errorf("archiving games: %w", err)
		}

		if flagDiscoverProcess {
			out.Processed = make(map[string][]string)
			for _, a := range out.Archived {
				if !a.BoxScoreStored {
					continue
				}
				msgs, err := p.ProcessArchived(ctx, a.Game.ID)
				if err != nil {
					// One bad box score must not hold up the rest
					logger.Error("processing failed", logger.Fields{"game_id": a.Game.ID}, err)
					continue
				}
				if len(msgs) > 0 {
					out.Processed[a.Game.ID] = msgs
				}
			}
		}
	}

	return WriteDiscover(cmd.OutOrStdout(), out, format, flagVerbose)
}
