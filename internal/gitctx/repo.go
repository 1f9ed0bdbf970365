package gitctx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dshills/gitlog/internal/gitlog"
	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/rs/zerolog/log"
)

// minAbbrev is the shortest hex string treated as an abbreviated id.
var minAbbrev = 4

// Repo is an open repository.
type Repo struct {
	name string
	path string
	repo *git.Repository
}

// Name returns the repository name relative to the host root.
func (r *Repo) Name() string {
	return r.name
}

// ResolveRef resolves text to a commit id. Abbreviated ids that match more
// than one commit resolve as ambiguous with every match listed.
func (r *Repo) ResolveRef(ctx context.Context, text string) (gitlog.Resolution, error) {
	base, markers := splitMarkers(text)

	if isAbbrev(base) && !r.isRefName(base) {
		candidates, err := r.commitsWithPrefix(ctx, strings.ToLower(base))
		if err != nil {
			return gitlog.Resolution{}, err
		}
		switch len(candidates) {
		case 0:
			return gitlog.Unresolved, nil
		case 1:
			text = candidates[0] + markers
		default:
			log.Debug().Str("repo", r.name).Str("ref", base).Int("matches", len(candidates)).Msg("abbreviated id is ambiguous")
			return gitlog.AmbiguousIDs(candidates), nil
		}
	}

	h, err := r.repo.ResolveRevision(plumbing.Revision(text))
	if err != nil {
		if !isNotFound(err) {
			return gitlog.Resolution{}, fmt.Errorf("resolving %s: %w", text, err)
		}
		log.Debug().Err(err).Str("repo", r.name).Str("ref", text).Msg("reference not resolved")
		return gitlog.Unresolved, nil
	}
	return gitlog.UniqueID(h.String()), nil
}

// Commit reads the commit with the given full id.
func (r *Repo) Commit(ctx context.Context, id string) (gitlog.CommitRecord, error) {
	c, err := r.repo.CommitObject(plumbing.NewHash(id))
	if err != nil {
		return gitlog.CommitRecord{}, fmt.Errorf("commit %s: %w", id, err)
	}
	return toRecord(c), nil
}

// WalkAncestors returns start and its ancestors, leaving out everything
// reachable from stopBefore. A commit is yielded only after all of its
// in-range children; among the commits that are ready, the newest committer
// time goes first.
func (r *Repo) WalkAncestors(ctx context.Context, start, stopBefore string) (gitlog.CommitIter, error) {
	head, err := r.repo.CommitObject(plumbing.NewHash(start))
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", start, err)
	}

	excluded := make(map[plumbing.Hash]bool)
	if stopBefore != "" {
		stop, err := r.repo.CommitObject(plumbing.NewHash(stopBefore))
		if err != nil {
			return nil, fmt.Errorf("commit %s: %w", stopBefore, err)
		}
		err = object.NewCommitPreorderIter(stop, nil, nil).ForEach(func(c *object.Commit) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			excluded[c.Hash] = true
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("marking ancestors of %s: %w", stopBefore, err)
		}
	}

	pending, err := countChildren(ctx, head, excluded)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", start, err)
	}

	log.Debug().Str("repo", r.name).Str("start", start).Int("excluded", len(excluded)).Int("commits", len(pending)).Msg("walking ancestors")
	ready := binaryheap.NewWith(newestFirst)
	if _, ok := pending[head.Hash]; ok {
		ready.Push(head)
	}
	return &topoIter{repo: r.repo, pending: pending, ready: ready}, nil
}

// countChildren maps every commit reachable from head, outside excluded, to
// the number of its children in that same set.
func countChildren(ctx context.Context, head *object.Commit, excluded map[plumbing.Hash]bool) (map[plumbing.Hash]int, error) {
	pending := make(map[plumbing.Hash]int)
	err := object.NewCommitPreorderIter(head, excluded, nil).ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := pending[c.Hash]; !ok {
			pending[c.Hash] = 0
		}
		for _, p := range c.ParentHashes {
			if !excluded[p] {
				pending[p]++
			}
		}
		return nil
	})
	return pending, err
}

// newestFirst orders the ready heap by committer time, then by id so the
// order is stable for equal timestamps.
func newestFirst(a, b interface{}) int {
	ca, cb := a.(*object.Commit), b.(*object.Commit)
	switch {
	case ca.Committer.When.After(cb.Committer.When):
		return -1
	case ca.Committer.When.Before(cb.Committer.When):
		return 1
	}
	return strings.Compare(ca.Hash.String(), cb.Hash.String())
}

// Close releases open pack files held by the object storage.
func (r *Repo) Close() error {
	if c, ok := r.repo.Storer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (r *Repo) isRefName(name string) bool {
	for _, rule := range plumbing.RefRevParseRules {
		ref := plumbing.ReferenceName(fmt.Sprintf(rule, name))
		if _, err := r.repo.Reference(ref, true); err == nil {
			return true
		}
	}
	return false
}

func (r *Repo) commitsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	iter, err := r.repo.CommitObjects()
	if err != nil {
		return nil, fmt.Errorf("listing commits: %w", err)
	}

	var matches []string
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if id := c.Hash.String(); strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, fmt.Errorf("scanning commits for %s: %w", prefix, err)
	}
	slices.Sort(matches)
	return slices.Compact(matches), nil
}

// topoIter yields commits in reverse topological order. pending holds the
// number of children not yet yielded for every in-range commit.
type topoIter struct {
	repo    *git.Repository
	pending map[plumbing.Hash]int
	ready   *binaryheap.Heap
}

func (it *topoIter) Next() (gitlog.CommitRecord, error) {
	v, ok := it.ready.Pop()
	if !ok {
		return gitlog.CommitRecord{}, io.EOF
	}
	c := v.(*object.Commit)
	for _, p := range c.ParentHashes {
		n, ok := it.pending[p]
		if !ok {
			continue
		}
		it.pending[p] = n - 1
		if n-1 > 0 {
			continue
		}
		parent, err := it.repo.CommitObject(p)
		if err != nil {
			return gitlog.CommitRecord{}, fmt.Errorf("commit %s: %w", p, err)
		}
		it.ready.Push(parent)
	}
	return toRecord(c), nil
}

func (it *topoIter) Close() {
	it.ready.Clear()
}

func toRecord(c *object.Commit) gitlog.CommitRecord {
	parents := make([]string, len(c.ParentHashes))
	for i, p := range c.ParentHashes {
		parents[i] = p.String()
	}
	return gitlog.CommitRecord{
		ID:          c.Hash.String(),
		AuthorName:  c.Author.Name,
		AuthorEmail: c.Author.Email,
		AuthorTime:  c.Author.When,
		Message:     c.Message,
		Parents:     parents,
	}
}

// splitMarkers separates the leading name from trailing '~' / '^' markers.
func splitMarkers(text string) (base, markers string) {
	if i := strings.IndexAny(text, "~^"); i >= 0 {
		return text[:i], text[i:]
	}
	return text, ""
}

func isAbbrev(s string) bool {
	if len(s) < minAbbrev || len(s) >= 40 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// isNotFound reports whether err from ResolveRevision means the reference
// does not name a commit. Anything else is a storage failure.
func isNotFound(err error) bool {
	if errors.Is(err, plumbing.ErrReferenceNotFound) ||
		errors.Is(err, plumbing.ErrObjectNotFound) ||
		errors.Is(err, object.ErrParentNotFound) ||
		errors.Is(err, io.EOF) {
		return true
	}
	// go-git keeps its revision parser internal, so syntax errors and
	// unmatched ^{/regexp} searches are only recognisable by message.
	msg := err.Error()
	return strings.HasPrefix(msg, "Revision invalid") ||
		strings.HasPrefix(msg, "no commit message match regexp")
}
