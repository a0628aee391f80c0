package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/thromer/pc-boxscores/internal/boxscore"
	"github.com/thromer/pc-boxscores/internal/pipeline"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(s)
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// AnalyzeResult is the output of the analyze and process commands
type AnalyzeResult struct {
	Source     string         `json:"source"`
	AnalyzedAt time.Time      `json:"analyzed_at"`
	Messages   []string       `json:"messages"`
	Count      int            `json:"count"`
	Game       *boxscore.Game `json:"game,omitempty"`
}

// DiscoverOutput is the output of the discover command
type DiscoverOutput struct {
	*pipeline.DiscoverResult
	Archived  []pipeline.ArchiveResult `json:"archived,omitempty"`
	Processed map[string][]string      `json:"processed,omitempty"`
}

// WriteAnalysis writes the result in the specified format
func WriteAnalysis(w io.Writer, result *AnalyzeResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeAnalysisText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteDiscover writes a discovery summary in the specified format
func WriteDiscover(w io.Writer, out *DiscoverOutput, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, out)
	case FormatText:
		return writeDiscoverText(w, out, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeAnalysisText(w io.Writer, result *AnalyzeResult, verbose bool) error {
	if verbose {
		fmt.Fprintf(w, "Source: %s\n", result.Source)
		if g := result.Game; g != nil {
			fmt.Fprintf(w, "Teams: %s at %s\n", g.Pairing.Away, g.Pairing.Home)
			fmt.Fprintf(w, "Batters: %d  Pitchers: %d\n", len(g.Batters), len(g.Pitchers))
		}
	}

	if result.Count == 0 {
		fmt.Fprintln(w, "No achievements found.")
		return nil
	}

	for _, msg := range result.Messages {
		fmt.Fprintln(w, msg)
	}
	fmt.Fprintf(w, "\nTotal: %d achievements\n", result.Count)
	return nil
}

func writeDiscoverText(w io.Writer, out *DiscoverOutput, verbose bool) error {
	r := out.DiscoverResult
	fmt.Fprintf(w, "Year %d, started at day %d, considered %d days (%s)\n",
		r.Year, r.StartDay, r.DaysConsidered, r.Stopped)

	if len(r.NewGames) == 0 {
		fmt.Fprintln(w, "No new games found.")
		return nil
	}

	for _, g := range r.NewGames {
		fmt.Fprintf(w, "  NEW: day %d game %s: %s %d at %s %d\n", g.Day, g.ID, g.Away, g.AwayRuns, g.Home, g.HomeRuns)
	}

	if verbose {
		for _, a := range out.Archived {
			fmt.Fprintf(w, "  archived %s: box score %t, replay %t\n", a.Game.ID, a.BoxScoreStored, a.ReplayStored)
		}
	}
	for id, msgs := range out.Processed {
		for _, msg := range msgs {
			fmt.Fprintf(w, "  %s: %s\n", id, msg)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d new games\n", len(r.NewGames))
	return nil
}
