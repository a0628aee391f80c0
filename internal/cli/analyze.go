package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/thromer/pc-boxscores/internal/boxscore"
	"github.com/thromer/pc-boxscores/internal/logger"
)

var (
	flagAnalyzeFormat string
	flagAnalyzeGame   bool
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Analyze a saved box score page",
		Long: `Analyze a box score HTML page and print its achievements.
Reads standard input when the file is '-' or omitted. Nothing is posted.

Exits 2 when at least one achievement is found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVar(&flagAnalyzeFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagAnalyzeGame, "show-game", false, "Include the decoded game in JSON output")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagAnalyzeFormat)
	if err != nil {
		return err
	}

	source := "-"
	if len(args) == 1 {
		source = args[0]
	}

	var r io.Reader = cmd.InOrStdin()
	if source != "-" {
		f, err := os.Open(source)
		if err != nil {
			return fmt.Errorf("opening box score: %w", err)
		}
		defer f.Close()
		r = f
	}

	html, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading box score: %w", err)
	}

	g, err := boxscore.Parse(string(html))
	if err != nil {
		logger.IncrCounter(logger.MetricGamesFailed)
		return fmt.Errorf("analyzing %s: %w", source, err)
	}
	messages := boxscore.Detect(g)
	logger.IncrCounter(logger.MetricGamesAnalyzed)

	result := &AnalyzeResult{
		Source:     source,
		AnalyzedAt: time.Now().UTC(),
		Messages:   messages,
		Count:      len(messages),
	}
	if flagAnalyzeGame || flagVerbose {
		result.Game = g
	}

	if err := WriteAnalysis(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(messages) > 0 {
		return exitCode(ExitAchievements)
	}
	return nil
}
