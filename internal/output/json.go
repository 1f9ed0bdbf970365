package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dshills/gitlog/internal/gitlog"
)

// Entry is one commit in the JSON document.
type Entry struct {
	Commit  string   `json:"commit"`
	Author  string   `json:"author"`
	Email   string   `json:"email"`
	Date    string   `json:"date"`
	Message string   `json:"message"`
	Parent  []string `json:"parent"`
}

// Result is the JSON document written for every run.
type Result struct {
	ReturnCode            int      `json:"returnCode"`
	ReturnCodeDescription string   `json:"returnCodeDescription"`
	Error                 string   `json:"error,omitempty"`
	Candidates            []string `json:"candidates,omitempty"`
	Project               string   `json:"project,omitempty"`
	Truncated             bool     `json:"truncated"`
	Commits               []Entry  `json:"commits"`
}

// JSONWriter buffers every commit and writes a single document on Finish.
type JSONWriter struct {
	out     io.Writer
	entries []Entry
}

func (j *JSONWriter) Commit(c gitlog.CommitRecord) error {
	parents := make([]string, len(c.Parents))
	copy(parents, c.Parents)
	j.entries = append(j.entries, Entry{
		Commit:  c.ID,
		Author:  c.AuthorName,
		Email:   c.AuthorEmail,
		Date:    c.AuthorTime.Format(time.RFC3339),
		Message: c.Message,
		Parent:  parents,
	})
	return nil
}

func (j *JSONWriter) Finish(sum gitlog.Summary, err error) error {
	code := gitlog.CodeOf(err)
	res := Result{
		ReturnCode:            int(code),
		ReturnCodeDescription: code.Description(),
		Project:               sum.Project,
		Truncated:             sum.Truncated,
		Commits:               j.entries,
	}
	if err != nil {
		// Structured output is never partial.
		res.Error = err.Error()
		res.Candidates = gitlog.CandidatesOf(err)
		res.Truncated = false
		res.Commits = nil
	}
	if res.Commits == nil {
		res.Commits = []Entry{}
	}

	data, merr := json.MarshalIndent(res, "", "  ")
	if merr != nil {
		return fmt.Errorf("marshaling JSON: %w", merr)
	}
	if _, werr := j.out.Write(data); werr != nil {
		return fmt.Errorf("writing JSON: %w", werr)
	}
	_, werr := fmt.Fprintln(j.out)
	return werr
}
