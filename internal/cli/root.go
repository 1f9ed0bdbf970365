package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/dshills/gitlog/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Process exit codes outside the result-code range. The log command exits
// with its gitlog result code (0-8) otherwise.
const (
	ExitSuccess    = 0
	ExitUsageError = 64
	ExitIOError    = 74
)

// Global flags
var (
	flagReposDir string
	flagLogLevel string
)

// cfg is the effective configuration, loaded before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "gitlog",
	Short: "Commit history for hosted repositories",
	Long:  "Gitlog lists the commits of a revision range in a hosted repository as git-log style text or JSON, with stable result codes.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		cfg = loaded
		return setupLogging(cfg.LogLevel, cmd.ErrOrStderr())
	},
	SilenceUsage: true,
}

// Run executes the root command and returns an exit code.
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	exitCode = ExitSuccess
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagReposDir != "" {
		m["reposDir"] = flagReposDir
	}
	if flagLogLevel != "" {
		m["logLevel"] = flagLogLevel
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	// Any explicit -n is validated, so 0 and negative caps are rejected
	// rather than falling back to the configured value.
	if logCmd.Flags().Changed("max-commits") {
		m["maxCommits"] = strconv.Itoa(flagMaxCommits)
	}
	return m
}

func setupLogging(level string, w io.Writer) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print gitlog version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gitlog version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagReposDir, "repos-dir", "", "Directory holding the hosted repositories")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
