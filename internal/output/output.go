package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dshills/gitlog/internal/gitlog"
)

// Writer renders one run.
type Writer interface {
	// Commit renders or buffers one record.
	Commit(c gitlog.CommitRecord) error
	// Finish completes the output. err is the run's failure, if any.
	Finish(sum gitlog.Summary, err error) error
}

// Formats lists the accepted format names.
var Formats = []string{"text", "json"}

// NewWriter returns a writer for the specified format. Records go to out;
// text-mode diagnostics go to diag.
func NewWriter(format string, out, diag io.Writer) (Writer, error) {
	switch format {
	case "", "text":
		return &TextWriter{out: out, diag: diag}, nil
	case "json":
		return &JSONWriter{out: out}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Open returns the destination for outPath, or stdout when it is empty.
// The caller must Close the result; closing stdout is a no-op.
func Open(outPath string, stdout io.Writer) (io.WriteCloser, error) {
	if outPath == "" {
		return nopCloser{stdout}, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Diagnostic formats err as the single line shown to users.
func Diagnostic(err error) string {
	msg := strings.Join(strings.Fields(err.Error()), " ")
	return fmt.Sprintf("gitlog: %s (code %d)", msg, gitlog.CodeOf(err))
}
