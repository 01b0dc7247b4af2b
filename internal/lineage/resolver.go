// Package lineage resolves the canonical storage identity of an episode.
// A viewed episode may be a derived clip of another dataset's episode; its
// annotations are stored under the source identity so they survive
// re-clipping.
package lineage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/framemark/framemark/internal/hub"
	"github.com/framemark/framemark/internal/models"
)

// Sentinel errors for lineage resolution. All three degrade to the viewed
// identity; they are surfaced so callers can log or display the reason.
var (
	// ErrIncompatibleDataset indicates the dataset's schema version is
	// outside the supported set.
	ErrIncompatibleDataset = errors.New("incompatible dataset version")

	// ErrLineageUnavailable indicates the dataset publishes no lineage
	// document. This is the common case for original datasets.
	ErrLineageUnavailable = errors.New("lineage document unavailable")

	// ErrMalformedLineage indicates a lineage entry that parsed but does
	// not denote a valid source identity.
	ErrMalformedLineage = errors.New("malformed lineage entry")
)

// SupportedVersions is the codebase_version allowlist for lineage-aware
// datasets.
var SupportedVersions = map[string]bool{
	"v2.0": true,
	"v2.1": true,
	"v3.0": true,
}

// Source fetches dataset metadata. *hub.Client implements it.
type Source interface {
	Info(ctx context.Context, repoID string) (hub.Info, error)
	LineageDocument(ctx context.Context, repoID string) ([]byte, error)
}

// Resolver maps (viewed dataset, episode) onto the canonical storage
// identity. Lineage tables are cached per dataset-version for the life of
// the resolver, so scrub-speed edits never refetch; a new viewed identity
// is simply a new cache key.
type Resolver struct {
	source Source
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]map[int]models.LineageRecord
}

// NewResolver creates a resolver over the given metadata source.
func NewResolver(source Source, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		source: source,
		logger: logger,
		cache:  make(map[string]map[int]models.LineageRecord),
	}
}

// Resolve returns the canonical (org, dataset, episode) target for the
// viewed episode. Resolution failures that mean "we don't know the
// lineage" (unsupported version, missing document, malformed entry)
// degrade to the viewed identity so annotation keeps working; only a
// malformed viewed repo ID or context cancellation return an error.
func (r *Resolver) Resolve(ctx context.Context, repoID string, episode int) (models.CanonicalTarget, error) {
	org, dataset, err := models.SplitRepoID(repoID)
	if err != nil {
		return models.CanonicalTarget{}, fmt.Errorf("viewed dataset: %w", err)
	}
	passThrough := models.CanonicalTarget{Org: org, Dataset: dataset, Episode: episode}

	table, err := r.Table(ctx, repoID)
	if err != nil {
		if ctx.Err() != nil {
			return models.CanonicalTarget{}, ctx.Err()
		}
		switch {
		case errors.Is(err, ErrLineageUnavailable):
			r.logger.Debug("no lineage document, using viewed identity", "dataset", repoID)
		case errors.Is(err, ErrIncompatibleDataset):
			r.logger.Warn("unsupported dataset version, using viewed identity", "dataset", repoID, "error", err)
		default:
			r.logger.Warn("lineage fetch failed, using viewed identity", "dataset", repoID, "error", err)
		}
		return passThrough, nil
	}

	rec, ok := table[episode]
	if !ok || (rec.SourceRepoID == nil && rec.SourceEpisodeIndex == nil) {
		return passThrough, nil
	}

	target, err := targetFor(rec)
	if err != nil {
		r.logger.Warn("malformed lineage entry, using viewed identity",
			"dataset", repoID, "episode", episode, "error", err)
		return passThrough, nil
	}
	return target, nil
}

// Table returns the parsed lineage table for a dataset, fetching and
// caching it on first use. Unlike Resolve it reports degradation causes
// as typed errors.
func (r *Resolver) Table(ctx context.Context, repoID string) (map[int]models.LineageRecord, error) {
	info, err := r.source.Info(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset info: %w", err)
	}
	if !SupportedVersions[info.CodebaseVersion] {
		return nil, fmt.Errorf("%w: %q", ErrIncompatibleDataset, info.CodebaseVersion)
	}

	key := repoID + "@" + info.CodebaseVersion

	r.mu.Lock()
	table, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return table, nil
	}

	doc, err := r.source.LineageDocument(ctx, repoID)
	if err != nil {
		if errors.Is(err, hub.ErrNotFound) {
			return nil, ErrLineageUnavailable
		}
		return nil, fmt.Errorf("fetch lineage document: %w", err)
	}

	table, skipped := ParseDocument(doc)
	if skipped > 0 {
		r.logger.Warn("skipped malformed lineage lines", "dataset", repoID, "skipped", skipped)
	}

	r.mu.Lock()
	r.cache[key] = table
	r.mu.Unlock()

	return table, nil
}

// targetFor derives the canonical target from a lineage entry carrying
// source fields.
func targetFor(rec models.LineageRecord) (models.CanonicalTarget, error) {
	if rec.SourceRepoID == nil || rec.SourceEpisodeIndex == nil {
		return models.CanonicalTarget{}, fmt.Errorf("%w: partial source fields", ErrMalformedLineage)
	}
	org, dataset, err := models.SplitRepoID(*rec.SourceRepoID)
	if err != nil {
		return models.CanonicalTarget{}, fmt.Errorf("%w: %v", ErrMalformedLineage, err)
	}
	return models.CanonicalTarget{Org: org, Dataset: dataset, Episode: *rec.SourceEpisodeIndex}, nil
}
