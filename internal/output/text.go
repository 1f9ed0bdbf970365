package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/gitlog/internal/gitlog"
)

// DateFormat is the layout of the Date line, matching git's default.
const DateFormat = "Mon Jan 2 15:04:05 2006 -0700"

// TextWriter streams git-log style records.
type TextWriter struct {
	out  io.Writer
	diag io.Writer
}

func (t *TextWriter) Commit(c gitlog.CommitRecord) error {
	ew := &errWriter{w: t.out}
	ew.printf("commit %s\n", c.ID)
	ew.printf("Author: %s <%s>\n", c.AuthorName, c.AuthorEmail)
	ew.printf("Date:   %s\n", c.AuthorTime.Format(DateFormat))
	ew.println("")
	ew.println(strings.TrimRight(c.Message, "\n"))
	ew.println("")
	return ew.err
}

func (t *TextWriter) Finish(sum gitlog.Summary, err error) error {
	if t.diag == nil {
		return nil
	}
	switch {
	case err != nil:
		_, werr := fmt.Fprintln(t.diag, Diagnostic(err))
		return werr
	case sum.Truncated:
		_, werr := fmt.Fprintf(t.diag, "gitlog: output truncated after %d commits\n", sum.Emitted)
		return werr
	}
	return nil
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
