package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thromer/pc-boxscores/internal/config"
	"github.com/thromer/pc-boxscores/internal/logger"
)

const (
	ExitSuccess      = 0
	ExitError        = 1
	ExitAchievements = 2
)

// exitCode carries a non-error exit status out of a command
type exitCode int

func (e exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

var (
	flagConfigPath string
	flagDataDir    string
	flagLeagueID   string
	flagLogLevel   string
	flagVerbose    bool
)

// cfg is loaded once by the root command before any subcommand runs
var cfg *config.Config

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pc-boxscores",
		Short: "Find notable achievements in Pennant Chase box scores",
		Long: `A CLI tool to analyze Pennant Chase box scores.
Discovers newly completed games, archives their box scores and announces
cycles, multi-homer games, big strikeout games and no-hitters.

Settings are read from the environment (and CONFIG_PATH, when set);
flags override them.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "YAML config file (or env: CONFIG_PATH)")
	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory for local storage (or env: PC_DATA_DIR)")
	cmd.PersistentFlags().StringVar(&flagLeagueID, "league-id", "", "League id (or env: PC_LEAGUE_ID)")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (or env: LOG_LEVEL)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newAnalyzeCmd(),
		newProcessCmd(),
		newDiscoverCmd(),
		newArchiveCmd(),
		newServeCmd(),
		newCredentialsCmd(),
		newEnvCmd(),
	)

	return cmd
}

// loadConfig reads the configuration and applies flag overrides
func loadConfig(cmd *cobra.Command, args []string) error {
	if flagConfigPath != "" {
		os.Setenv("CONFIG_PATH", flagConfigPath)
	}

	loaded, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		loaded.Storage.DataDir = flagDataDir
	}
	if flags.Changed("league-id") {
		loaded.League.ID = flagLeagueID
	}
	if flags.Changed("log-level") {
		loaded.Log.Level = flagLogLevel
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	level, _ := logger.ParseLevel(loaded.Log.Level)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	cfg = loaded
	return nil
}

// Execute runs the CLI
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:]))
}

func run(cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var code exitCode
	if errors.As(err, &code) {
		return int(code)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	return ExitError
}
