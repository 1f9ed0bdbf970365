package gitlog

import (
	"context"
	"time"
)

// CommitRecord is an immutable snapshot of one visited commit.
type CommitRecord struct {
	ID          string
	AuthorName  string
	AuthorEmail string
	AuthorTime  time.Time
	Message     string
	Parents     []string
}

// IsMerge reports whether the commit has more than one parent.
func (c CommitRecord) IsMerge() bool {
	return len(c.Parents) > 1
}

// ResolutionKind tags the outcome of resolving a reference.
type ResolutionKind int

const (
	NotFound ResolutionKind = iota
	Unique
	Ambiguous
)

func (k ResolutionKind) String() string {
	switch k {
	case Unique:
		return "unique"
	case Ambiguous:
		return "ambiguous"
	default:
		return "not-found"
	}
}

// Resolution is the result of resolving reference text. ID is set for
// Unique, Candidates for Ambiguous.
type Resolution struct {
	Kind       ResolutionKind
	ID         string
	Candidates []string
}

// UniqueID returns a Resolution for a single matching object.
func UniqueID(id string) Resolution {
	return Resolution{Kind: Unique, ID: id}
}

// AmbiguousIDs returns a Resolution listing every matching object.
func AmbiguousIDs(candidates []string) Resolution {
	return Resolution{Kind: Ambiguous, Candidates: candidates}
}

// Unresolved is the Resolution for a reference that matches nothing.
var Unresolved = Resolution{Kind: NotFound}

// ResolvedRange holds full commit ids for both boundaries. From is empty in
// single-commit mode.
type ResolvedRange struct {
	From string
	To   string
}

// Mode is the traversal mode chosen for a resolved range.
type Mode string

const (
	ModeSingle  Mode = "single"
	ModeBounded Mode = "bounded"
)

// Summary describes a completed emission.
type Summary struct {
	Project   string
	Mode      Mode
	Resolved  ResolvedRange
	Emitted   int
	Truncated bool
}

// Sink receives records in output order. Returning an error stops the
// emission and the error is reported as-is.
type Sink func(CommitRecord) error

// Collect is a Sink target that buffers every record.
type Collect struct {
	Records []CommitRecord
}

// Add appends c. It has the Sink signature.
func (c *Collect) Add(rec CommitRecord) error {
	c.Records = append(c.Records, rec)
	return nil
}

// Host is the repository set of the serving process.
type Host interface {
	ListRepositories(ctx context.Context) ([]string, error)
	Open(ctx context.Context, name string) (Repository, error)
}

// Repository is an open repository handle. Close must be called exactly
// once when the caller is done with it.
type Repository interface {
	ResolveRef(ctx context.Context, text string) (Resolution, error)
	Commit(ctx context.Context, id string) (CommitRecord, error)
	// WalkAncestors yields start and its ancestors newest-first, skipping
	// every commit reachable from stopBefore. An empty stopBefore walks to
	// the root.
	WalkAncestors(ctx context.Context, start, stopBefore string) (CommitIter, error)
	Close() error
}

// CommitIter is a forward-only, finite sequence of commits. Next returns
// io.EOF once the sequence is exhausted.
type CommitIter interface {
	Next() (CommitRecord, error)
	Close()
}
