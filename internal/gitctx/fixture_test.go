package gitctx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	dir  string
	repo *git.Repository
	seq  int
}

func newFixture(t *testing.T, dir string) *fixture {
	t.Helper()
	r, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return &fixture{dir: dir, repo: r}
}

// commit writes a unique file change and commits it. Without parents the
// new commit extends HEAD.
func (f *fixture) commit(t *testing.T, msg string, parents ...plumbing.Hash) plumbing.Hash {
	t.Helper()
	return f.commitAt(t, msg, baseTime.Add(time.Duration(f.seq+1)*time.Hour), parents...)
}

// commitAt is commit with an explicit author and committer time.
func (f *fixture) commitAt(t *testing.T, msg string, when time.Time, parents ...plumbing.Hash) plumbing.Hash {
	t.Helper()
	f.seq++
	w, err := f.repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "log.txt"), []byte(msg+"\n"), 0o644))
	_, err = w.Add("log.txt")
	require.NoError(t, err)

	sig := &object.Signature{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
		When:  when,
	}
	h, err := w.Commit(msg, &git.CommitOptions{Author: sig, Committer: sig, Parents: parents})
	require.NoError(t, err)
	return h
}

// linear builds c1 (root) -> c2 -> c3 (HEAD).
func linear(t *testing.T, dir string) (*fixture, []plumbing.Hash) {
	t.Helper()
	f := newFixture(t, dir)
	c1 := f.commit(t, "first")
	c2 := f.commit(t, "second")
	c3 := f.commit(t, "third\n\nWith a body.")
	return f, []plumbing.Hash{c1, c2, c3}
}

// merged builds c1 -> {c2, c3} -> c4 (merge) -> c5 (HEAD).
func merged(t *testing.T, dir string) (*fixture, []plumbing.Hash) {
	t.Helper()
	f := newFixture(t, dir)
	c1 := f.commit(t, "root")
	c2 := f.commit(t, "left")
	c3 := f.commit(t, "right", c1)
	c4 := f.commit(t, "merge left and right", c2, c3)
	c5 := f.commit(t, "after merge")
	return f, []plumbing.Hash{c1, c2, c3, c4, c5}
}

// skewed builds p -> {a, b} -> m where b was committed with a clock that
// runs behind its parent p.
func skewed(t *testing.T, dir string) (*fixture, []plumbing.Hash) {
	t.Helper()
	f := newFixture(t, dir)
	p := f.commitAt(t, "parent", baseTime.Add(8*time.Hour))
	a := f.commitAt(t, "branch a", baseTime.Add(10*time.Hour), p)
	b := f.commitAt(t, "branch b", baseTime.Add(5*time.Hour), p)
	m := f.commitAt(t, "merge a and b", baseTime.Add(11*time.Hour), a, b)
	return f, []plumbing.Hash{p, a, b, m}
}

func hexes(hs ...plumbing.Hash) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.String()
	}
	return out
}
