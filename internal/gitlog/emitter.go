package gitlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dshills/gitlog/internal/revrange"
	"github.com/rs/zerolog/log"
)

// DefaultMaxCommits bounds the number of records a single run emits.
const DefaultMaxCommits = 250

// Emitter drives one log request against a Host.
type Emitter struct {
	Host Host
	// MaxCommits caps the records emitted per run; zero or negative means
	// no cap. The upper boundary commit counts toward the cap. The command
	// line always supplies a positive value.
	MaxCommits int
}

// NewEmitter returns an Emitter over host with the given cap.
func NewEmitter(host Host, maxCommits int) *Emitter {
	return &Emitter{Host: host, MaxCommits: maxCommits}
}

// NormalizeProject strips a trailing ".git" from a repository name.
func NormalizeProject(name string) string {
	return strings.TrimSuffix(name, ".git")
}

// Emit resolves rng inside project and sends the covered commits to sink,
// upper boundary first. Resolution failures are detected before the first
// record is sent.
func (e *Emitter) Emit(ctx context.Context, project string, rng revrange.Range, sink Sink) (Summary, error) {
	name := NormalizeProject(project)
	sum := Summary{Project: name}

	if name == "" {
		return sum, errMissingProject()
	}
	names, err := e.Host.ListRepositories(ctx)
	if err != nil {
		return sum, errAccess(fmt.Errorf("listing repositories: %w", err))
	}
	if !slices.Contains(names, name) {
		return sum, errUnknownProject(name)
	}
	if rng.IsEmpty() {
		return sum, errMalformedRange("")
	}
	if rng.To == "" {
		return sum, errInternal(fmt.Sprintf("range %q has a lower bound but no upper bound", rng.String()))
	}

	repo, err := e.Host.Open(ctx, name)
	if err != nil {
		return sum, errAccess(fmt.Errorf("opening %s: %w", name, err))
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil {
			log.Warn().Err(cerr).Str("project", name).Msg("closing repository")
		}
	}()

	resolved, err := resolveRange(ctx, repo, rng)
	if err != nil {
		return sum, err
	}
	sum.Resolved = resolved

	if resolved.From == "" || resolved.From == resolved.To {
		sum.Mode = ModeSingle
	} else {
		sum.Mode = ModeBounded
	}
	log.Debug().
		Str("project", name).
		Str("range", rng.String()).
		Str("from", resolved.From).
		Str("to", resolved.To).
		Str("mode", string(sum.Mode)).
		Msg("range resolved")

	// The upper boundary is materialised before any walk excludes history.
	top, err := repo.Commit(ctx, resolved.To)
	if err != nil {
		return sum, errAccess(fmt.Errorf("reading commit %s: %w", resolved.To, err))
	}

	if sum.Mode == ModeSingle {
		return sum, e.send(&sum, sink, top)
	}
	return sum, e.emitBounded(ctx, repo, resolved, top, sink, &sum)
}

func (e *Emitter) emitBounded(ctx context.Context, repo Repository, r ResolvedRange, top CommitRecord, sink Sink, sum *Summary) error {
	iter, err := repo.WalkAncestors(ctx, r.To, r.From)
	if err != nil {
		return errAccess(fmt.Errorf("walking %s: %w", r.To, err))
	}
	defer iter.Close()

	if err := e.send(sum, sink, top); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return errAccess(err)
		}
		rec, err := iter.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errAccess(fmt.Errorf("walking %s: %w", r.To, err))
		}
		if rec.ID == r.To {
			continue
		}
		if e.full(sum) {
			sum.Truncated = true
			log.Info().Int("max", e.MaxCommits).Str("project", sum.Project).Msg("commit cap reached, output truncated")
			return nil
		}
		if err := e.send(sum, sink, rec); err != nil {
			return err
		}
	}
}

func (e *Emitter) full(sum *Summary) bool {
	return e.MaxCommits > 0 && sum.Emitted >= e.MaxCommits
}

func (e *Emitter) send(sum *Summary, sink Sink, rec CommitRecord) error {
	if err := sink(rec); err != nil {
		return err
	}
	sum.Emitted++
	return nil
}

func resolveRange(ctx context.Context, repo Repository, rng revrange.Range) (ResolvedRange, error) {
	to, err := resolveSide(ctx, repo, BoundaryTo, rng.To)
	if err != nil {
		return ResolvedRange{}, err
	}
	out := ResolvedRange{To: to}
	if rng.From == "" {
		return out, nil
	}
	from, err := resolveSide(ctx, repo, BoundaryFrom, rng.From)
	if err != nil {
		return ResolvedRange{}, err
	}
	out.From = from
	return out, nil
}

func resolveSide(ctx context.Context, repo Repository, which Boundary, ref string) (string, error) {
	res, err := repo.ResolveRef(ctx, ref)
	if err != nil {
		return "", errAccess(fmt.Errorf("resolving %s: %w", ref, err))
	}
	switch res.Kind {
	case Unique:
		if res.ID == "" {
			return "", errInternal(fmt.Sprintf("reference %q resolved to an empty id", ref))
		}
		return res.ID, nil
	case Ambiguous:
		log.Debug().Str("ref", ref).Strs("candidates", res.Candidates).Msg("ambiguous reference")
		return "", errAmbiguous(which, ref, res.Candidates)
	default:
		return "", errNotFound(which, ref)
	}
}
