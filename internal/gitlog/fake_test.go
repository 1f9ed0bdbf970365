package gitlog

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"
)

// fakeHost is an in-memory Host for emitter tests.
type fakeHost struct {
	repos   map[string]*fakeRepo
	listErr error
	openErr error
	opened  int
}

func (h *fakeHost) ListRepositories(ctx context.Context) ([]string, error) {
	if h.listErr != nil {
		return nil, h.listErr
	}
	var names []string
	for n := range h.repos {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (h *fakeHost) Open(ctx context.Context, name string) (Repository, error) {
	if h.openErr != nil {
		return nil, h.openErr
	}
	r, ok := h.repos[name]
	if !ok {
		return nil, errors.New("no such repository")
	}
	h.opened++
	return r, nil
}

// fakeRepo models a commit graph. Walks yield reverse topological order,
// breaking ties by newest AuthorTime.
type fakeRepo struct {
	commits map[string]CommitRecord
	refs    map[string]Resolution

	resolveErr error
	walkErr    error
	// failAfter makes the walk fail after yielding this many commits.
	failAfter int

	closed    int
	walks     int
	nextCalls int
}

func (r *fakeRepo) ResolveRef(ctx context.Context, text string) (Resolution, error) {
	if r.resolveErr != nil {
		return Resolution{}, r.resolveErr
	}
	if res, ok := r.refs[text]; ok {
		return res, nil
	}
	if _, ok := r.commits[text]; ok {
		return UniqueID(text), nil
	}
	return Unresolved, nil
}

func (r *fakeRepo) Commit(ctx context.Context, id string) (CommitRecord, error) {
	c, ok := r.commits[id]
	if !ok {
		return CommitRecord{}, errors.New("object not found")
	}
	return c, nil
}

func (r *fakeRepo) WalkAncestors(ctx context.Context, start, stopBefore string) (CommitIter, error) {
	r.walks++
	if r.walkErr != nil {
		return nil, r.walkErr
	}
	excluded := map[string]bool{}
	if stopBefore != "" {
		r.reach(stopBefore, excluded)
	}
	reached := map[string]bool{}
	r.reach(start, reached)

	inRange := map[string]bool{}
	for id := range reached {
		if !excluded[id] {
			inRange[id] = true
		}
	}
	return &fakeIter{repo: r, recs: r.topoOrder(inRange)}, nil
}

// topoOrder lists ids so that every commit follows all of its children,
// newest AuthorTime first among the commits that are ready.
func (r *fakeRepo) topoOrder(ids map[string]bool) []CommitRecord {
	pending := map[string]int{}
	for id := range ids {
		for _, p := range r.commits[id].Parents {
			if ids[p] {
				pending[p]++
			}
		}
	}
	var ready, out []CommitRecord
	for id := range ids {
		if pending[id] == 0 {
			ready = append(ready, r.commits[id])
		}
	}
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool {
			if !ready[i].AuthorTime.Equal(ready[j].AuthorTime) {
				return ready[i].AuthorTime.After(ready[j].AuthorTime)
			}
			return ready[i].ID < ready[j].ID
		})
		c := ready[0]
		ready = ready[1:]
		out = append(out, c)
		for _, p := range c.Parents {
			if !ids[p] {
				continue
			}
			pending[p]--
			if pending[p] == 0 {
				ready = append(ready, r.commits[p])
			}
		}
	}
	return out
}

func (r *fakeRepo) reach(id string, seen map[string]bool) {
	if seen[id] {
		return
	}
	seen[id] = true
	for _, p := range r.commits[id].Parents {
		r.reach(p, seen)
	}
}

func (r *fakeRepo) Close() error {
	r.closed++
	return nil
}

type fakeIter struct {
	repo *fakeRepo
	recs []CommitRecord
	pos  int
}

func (it *fakeIter) Next() (CommitRecord, error) {
	it.repo.nextCalls++
	if it.repo.failAfter > 0 && it.pos >= it.repo.failAfter {
		return CommitRecord{}, errors.New("pack file truncated")
	}
	if it.pos >= len(it.recs) {
		return CommitRecord{}, io.EOF
	}
	rec := it.recs[it.pos]
	it.pos++
	return rec, nil
}

func (it *fakeIter) Close() {}

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func commit(id string, minute int, parents ...string) CommitRecord {
	return CommitRecord{
		ID:          id,
		AuthorName:  "Author " + id,
		AuthorEmail: id + "@example.com",
		AuthorTime:  epoch.Add(time.Duration(minute) * time.Minute),
		Message:     "commit " + id + "\n",
		Parents:     parents,
	}
}

// linearRepo is c1 (root) -> c2 -> c3 (HEAD).
func linearRepo() *fakeRepo {
	return &fakeRepo{
		commits: map[string]CommitRecord{
			"c1": commit("c1", 1),
			"c2": commit("c2", 2, "c1"),
			"c3": commit("c3", 3, "c2"),
		},
		refs: map[string]Resolution{
			"HEAD": UniqueID("c3"),
		},
	}
}

// mergeRepo is c1 -> {c2, c3} -> c4 (merge) -> c5.
func mergeRepo() *fakeRepo {
	return &fakeRepo{
		commits: map[string]CommitRecord{
			"c1": commit("c1", 1),
			"c2": commit("c2", 2, "c1"),
			"c3": commit("c3", 3, "c1"),
			"c4": commit("c4", 4, "c2", "c3"),
			"c5": commit("c5", 5, "c4"),
		},
	}
}

// skewedRepo is r -> p -> {a, b} -> m, where b carries an older timestamp
// than its parent p.
func skewedRepo() *fakeRepo {
	return &fakeRepo{
		commits: map[string]CommitRecord{
			"r": commit("r", 1),
			"p": commit("p", 8, "r"),
			"a": commit("a", 10, "p"),
			"b": commit("b", 5, "p"),
			"m": commit("m", 11, "a", "b"),
		},
	}
}
