package gitctx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/dshills/gitlog/internal/gitlog"
	"github.com/go-git/go-git/v5"
	"github.com/rs/zerolog/log"
)

// ErrNoRepository is returned by Open for names that do not map to a
// repository below the host root.
var ErrNoRepository = errors.New("repository not found")

// Host exposes the repositories stored below Root.
type Host struct {
	Root string
}

// NewHost returns a Host rooted at dir.
func NewHost(dir string) *Host {
	return &Host{Root: dir}
}

// ListRepositories returns the sorted names of all repositories below the
// root. Repository directories are not descended into.
func (h *Host) ListRepositories(ctx context.Context) ([]string, error) {
	root := filepath.Clean(h.Root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("repository root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("repository root %s is not a directory", root)
	}

	var names []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if d.Name() == ".git" {
			return fs.SkipDir
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		switch {
		case isBareRepo(path):
			names = append(names, gitlog.NormalizeProject(rel))
			return fs.SkipDir
		case hasDotGit(path):
			names = append(names, rel)
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}

	slices.Sort(names)
	names = slices.Compact(names)
	log.Debug().Str("root", root).Int("count", len(names)).Msg("listed repositories")
	return names, nil
}

// Open opens the repository called name. A trailing ".git" on name is
// ignored.
func (h *Host) Open(ctx context.Context, name string) (gitlog.Repository, error) {
	return h.OpenRepo(ctx, name)
}

// OpenRepo is Open with the concrete return type.
func (h *Host) OpenRepo(ctx context.Context, name string) (*Repo, error) {
	name = gitlog.NormalizeProject(name)
	if name == "" || !filepath.IsLocal(filepath.FromSlash(name)) {
		return nil, fmt.Errorf("%w: %q", ErrNoRepository, name)
	}

	base := filepath.Join(h.Root, filepath.FromSlash(name))
	for _, path := range []string{base + ".git", base} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		r, err := git.PlainOpen(path)
		if errors.Is(err, git.ErrRepositoryNotExists) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		log.Debug().Str("repo", name).Str("path", path).Msg("opened repository")
		return &Repo{name: name, path: path, repo: r}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNoRepository, name)
}

func isBareRepo(dir string) bool {
	return isFile(filepath.Join(dir, "HEAD")) &&
		isDir(filepath.Join(dir, "objects")) &&
		isDir(filepath.Join(dir, "refs"))
}

func hasDotGit(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
