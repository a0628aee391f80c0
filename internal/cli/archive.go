package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagArchiveGameID string

func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive the box score and replay of a known game",
		RunE:  runArchive,
	}

	cmd.Flags().StringVar(&flagArchiveGameID, "game-id", "", "Game id (required)")
	cmd.MarkFlagRequired("game-id")

	return cmd
}

func runArchive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	g, err := app.Lookup.Get(ctx, flagArchiveGameID)
	if err != nil {
		return fmt.Errorf("looking up game: %w", err)
	}

	result, err := app.Pipeline(nil).ArchiveGame(ctx, g)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "game %s: box score stored %t, replay stored %t\n",
		g.ID, result.BoxScoreStored, result.ReplayStored)
	return nil
}
