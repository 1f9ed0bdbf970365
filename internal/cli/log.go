package cli

import (
	"errors"
	"fmt"

	"github.com/dshills/gitlog/internal/gitctx"
	"github.com/dshills/gitlog/internal/gitlog"
	"github.com/dshills/gitlog/internal/output"
	"github.com/dshills/gitlog/internal/redact"
	"github.com/dshills/gitlog/internal/revrange"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Log flags
var (
	flagProject    string
	flagFormat     string
	flagFrom       string
	flagTo         string
	flagMaxCommits int
	flagOut        string
)

var logCmd = &cobra.Command{
	Use:   "log [range]",
	Short: "List the commits of a revision range",
	Long: `List the commits of a revision range, newest first.

The range is either one positional argument ("REF" or "FROM..TO") or the
--from/--to pair; the two forms cannot be combined. FROM is excluded and TO
is included. The process exits with the result code of the request.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dst, err := output.Open(flagOut, cmd.OutOrStdout())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitCode = ExitIOError
			return nil
		}
		defer dst.Close()

		w, err := output.NewWriter(cfg.Format, dst, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		em := gitlog.NewEmitter(gitctx.NewHost(cfg.ReposDir), cfg.MaxCommits)
		policy := redact.Policy{
			Secrets: cfg.Privacy.RedactSecrets,
			Emails:  cfg.Privacy.RedactEmails,
		}
		sink := policy.Sink(func(c gitlog.CommitRecord) error {
			if err := w.Commit(c); err != nil {
				return &writeError{err}
			}
			return nil
		})

		rng := rangeInput(args, flagFrom, flagTo)
		sum, runErr := em.Emit(cmd.Context(), flagProject, rng, sink)

		var we *writeError
		if errors.As(runErr, &we) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error writing output: %v\n", we.err)
			exitCode = ExitIOError
			return nil
		}
		if runErr != nil {
			log.Debug().Err(runErr).Str("project", flagProject).Msg("log request failed")
		}

		if err := w.Finish(sum, runErr); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error writing output: %v\n", err)
			exitCode = ExitIOError
			return nil
		}
		if err := dst.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error writing output: %v\n", err)
			exitCode = ExitIOError
			return nil
		}
		exitCode = int(gitlog.CodeOf(runErr))
		return nil
	},
}

// rangeInput picks the range from either the positional argument or the
// --from/--to pair. Supplying both forms, or neither, yields an empty Range,
// which the emitter reports as a missing or malformed range.
func rangeInput(args []string, from, to string) revrange.Range {
	viaFlags := from != "" || to != ""
	switch {
	case len(args) == 1 && !viaFlags:
		return revrange.Parse(args[0])
	case len(args) == 0 && viaFlags:
		return revrange.FromRefs(from, to)
	default:
		return revrange.Range{}
	}
}

// writeError marks a sink failure caused by the output destination rather
// than the repository.
type writeError struct {
	err error
}

func (e *writeError) Error() string { return e.err.Error() }
func (e *writeError) Unwrap() error { return e.err }

func init() {
	logCmd.Flags().StringVarP(&flagProject, "project", "p", "", "Repository name (a trailing .git is ignored)")
	logCmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json)")
	logCmd.Flags().StringVar(&flagFrom, "from", "", "Lower boundary, excluded")
	logCmd.Flags().StringVar(&flagTo, "to", "", "Upper boundary, included")
	logCmd.Flags().IntVarP(&flagMaxCommits, "max-commits", "n", 0, "Maximum number of commits, at least 1 (default 250)")
	logCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
}
