package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/framemark/framemark/internal/models"
)

// Store is the annotation store as the commit protocol sees it: idempotent
// upserts and deletes over explicit composite keys. *db.Client implements
// it.
type Store interface {
	// EnsureLabeller registers the labeller identity if absent.
	EnsureLabeller(ctx context.Context, name string) error

	// DeleteFrames removes the given frame records in one bulk call.
	DeleteFrames(ctx context.Context, target models.CanonicalTarget, frames []int) error

	// UpsertEpisode replaces or inserts the episode record keyed by
	// (org, dataset, episode).
	UpsertEpisode(ctx context.Context, rec models.EpisodeRecord) error

	// UpsertFrames replaces or inserts all frame records in one bulk call,
	// keyed by (org, dataset, episode, frame).
	UpsertFrames(ctx context.Context, recs []models.FrameRecord) error
}

// CommitStep identifies which step of the batch commit failed.
type CommitStep int

const (
	StepLabeller CommitStep = iota
	StepDeleteFrames
	StepEpisode
	StepFrames
)

func (s CommitStep) String() string {
	switch s {
	case StepLabeller:
		return "labeller registry"
	case StepDeleteFrames:
		return "frame deletion"
	case StepEpisode:
		return "episode upsert"
	case StepFrames:
		return "frame upsert"
	default:
		return fmt.Sprintf("step %d", int(s))
	}
}

// CommitError reports a failed commit step. The cache is left untouched so
// a retry of the whole sequence can resume; every step is an idempotent
// upsert or delete over explicit keys.
type CommitError struct {
	Step CommitStep
	Err  error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit failed at %s: %v", e.Step, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// Committer flushes an edit cache to the annotation store.
type Committer struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewCommitter creates a committer over the given store.
func NewCommitter(store Store, logger *slog.Logger) *Committer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Committer{store: store, logger: logger, now: time.Now}
}

// Commit submits the cache's pending deletions and drafts under the
// canonical target, in fixed order: labeller registration, bulk frame
// deletion, episode upsert, bulk frame upsert. The drafts are snapshotted
// up front, so edits made while the commit is in flight stay dirty. On
// success the cache is reconciled from the submitted snapshot and the
// submitted frame set is returned as the new committed baseline; on
// failure the cache is untouched and a CommitError identifies the step.
func (c *Committer) Commit(ctx context.Context, cache *EditCache, target models.CanonicalTarget, labeller string) ([]models.FrameRecord, error) {
	snap := cache.snapshot()
	now := c.now().UTC()

	if err := c.store.EnsureLabeller(ctx, labeller); err != nil {
		return nil, &CommitError{Step: StepLabeller, Err: err}
	}

	if len(snap.deletes) > 0 {
		if err := c.store.DeleteFrames(ctx, target, snap.deletes); err != nil {
			return nil, &CommitError{Step: StepDeleteFrames, Err: err}
		}
	}

	if snap.episode != nil {
		rec := *snap.episode
		rec.Org, rec.Dataset, rec.Episode = target.Org, target.Dataset, target.Episode
		rec.Labeller = labeller
		rec.Updated = now
		rec.Items = models.NormalizeItems(rec.Items)
		if err := c.store.UpsertEpisode(ctx, rec); err != nil {
			return nil, &CommitError{Step: StepEpisode, Err: err}
		}
		snap.episode = &rec
	}

	if len(snap.frames) > 0 {
		recs := make([]models.FrameRecord, len(snap.frames))
		for i, f := range snap.frames {
			f.Org, f.Dataset, f.Episode = target.Org, target.Dataset, target.Episode
			f.Labeller = labeller
			f.Updated = now
			recs[i] = f
		}
		if err := c.store.UpsertFrames(ctx, recs); err != nil {
			return nil, &CommitError{Step: StepFrames, Err: err}
		}
		snap.frames = recs
	}

	cache.commitApplied(snap)
	c.logger.Info("committed annotations",
		"target", target.String(),
		"frames", len(snap.frames),
		"deletes", len(snap.deletes),
	)
	return snap.frames, nil
}
