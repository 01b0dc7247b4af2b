package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/framemark/framemark/internal/models"
	"github.com/framemark/framemark/internal/pairing"
)

// State is the session's position in the annotation lifecycle.
type State int

const (
	StateLoading State = iota
	StateClean
	StateDirty
	StateSaving
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	case StateSaving:
		return "saving"
	default:
		return fmt.Sprintf("state %d", int(s))
	}
}

// ErrUnsavedChanges is returned by Open when the cache is dirty and the
// discard prompt declined.
var ErrUnsavedChanges = errors.New("unsaved changes")

// ErrSaveCancelled is returned by Save when the pairing-warning
// confirmation declined.
var ErrSaveCancelled = errors.New("save cancelled")

// Resolver maps a viewed episode onto its canonical storage identity.
// *lineage.Resolver implements it.
type Resolver interface {
	Resolve(ctx context.Context, repoID string, episode int) (models.CanonicalTarget, error)
}

// Reader loads committed annotations to seed the cache. *db.Client
// implements it.
type Reader interface {
	// EpisodeNote returns the committed episode record, or nil when the
	// episode was never annotated.
	EpisodeNote(ctx context.Context, target models.CanonicalTarget) (*models.EpisodeRecord, error)

	// FrameNotes returns the committed frame records in frame order.
	FrameNotes(ctx context.Context, target models.CanonicalTarget) ([]models.FrameRecord, error)
}

// Controller wires the edit cache and commit protocol to episode
// navigation. One controller manages one open episode at a time.
//
// All annotation state lives on a single logical thread; the mutex only
// covers the UI runtime driving Save from a background command.
type Controller struct {
	resolver  Resolver
	reader    Reader
	committer *Committer
	table     pairing.Table
	labeller  string
	logger    *slog.Logger

	mu            sync.Mutex
	state         State
	viewedRepo    string
	viewedEpisode int
	target        models.CanonicalTarget
	cache         *EditCache
	committed     []models.FrameRecord
	warnings      []string
}

// NewController creates a controller for the given labeller identity.
func NewController(resolver Resolver, reader Reader, committer *Committer, table pairing.Table, labeller string, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		resolver:  resolver,
		reader:    reader,
		committer: committer,
		table:     table,
		labeller:  labeller,
		logger:    logger,
		state:     StateLoading,
		cache:     NewEditCache(),
	}
}

// Open switches the session to the given viewed episode: resolve the
// canonical identity, load its committed records and seed the cache. When
// the cache is dirty, discard is consulted first; declining (or a nil
// hook) keeps the current episode and returns ErrUnsavedChanges. No read
// or write is issued before resolution has completed or explicitly passed
// through.
func (c *Controller) Open(ctx context.Context, repoID string, episode int, discard func() bool) error {
	c.mu.Lock()
	if c.cache.IsDirty() {
		if discard == nil || !discard() {
			c.mu.Unlock()
			return ErrUnsavedChanges
		}
		c.logger.Info("discarding unsaved edits", "dataset", c.viewedRepo, "episode", c.viewedEpisode)
	}
	c.state = StateLoading
	c.mu.Unlock()

	target, err := c.resolver.Resolve(ctx, repoID, episode)
	if err != nil {
		return fmt.Errorf("resolve lineage: %w", err)
	}

	ep, err := c.reader.EpisodeNote(ctx, target)
	if err != nil {
		return fmt.Errorf("load episode annotation: %w", err)
	}
	frames, err := c.reader.FrameNotes(ctx, target)
	if err != nil {
		return fmt.Errorf("load frame annotations: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewedRepo = repoID
	c.viewedEpisode = episode
	c.target = target
	c.cache.Reset(Snapshot{Episode: ep, Frames: frames})
	c.committed = frames
	c.warnings = pairing.Check(c.table, frames)
	c.state = StateClean

	c.logger.Info("episode opened",
		"dataset", repoID, "episode", episode, "target", target.String(),
		"frames", len(frames),
	)
	return nil
}

// SetEpisodeFields applies an episode edit.
func (c *Controller) SetEpisodeFields(patch EpisodePatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.SetEpisodeFields(patch)
	c.markEdited()
}

// SetFrameFields applies a frame edit.
func (c *Controller) SetFrameFields(frame int, patch FramePatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.SetFrameFields(frame, patch)
	c.markEdited()
}

// DeleteFrame removes a frame annotation.
func (c *Controller) DeleteFrame(frame int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.DeleteFrame(frame)
	c.markEdited()
}

// markEdited advances Clean to Dirty; edits during Saving leave the state
// alone, the save outcome resolves it.
func (c *Controller) markEdited() {
	if c.state == StateClean {
		c.state = StateDirty
	}
}

// Save runs the batch commit protocol. The pairing checker first runs over
// the about-to-be-committed frame set; when it warns, confirm is consulted
// as a non-blocking gate (a nil hook proceeds). Commit failure keeps every
// edit in memory and returns the CommitError.
func (c *Controller) Save(ctx context.Context, confirm func(warnings []string) bool) error {
	c.mu.Lock()
	if !c.cache.IsDirty() {
		c.mu.Unlock()
		return nil
	}

	pending := pairing.Check(c.table, c.cache.Frames())
	if len(pending) > 0 && confirm != nil && !confirm(pending) {
		c.mu.Unlock()
		return ErrSaveCancelled
	}

	c.state = StateSaving
	target, labeller := c.target, c.labeller
	c.mu.Unlock()

	submitted, err := c.committer.Commit(ctx, c.cache, target, labeller)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateDirty
		return err
	}

	c.committed = submitted
	c.warnings = pairing.Check(c.table, submitted)
	if c.cache.IsDirty() {
		// Edits landed while the commit was in flight.
		c.state = StateDirty
	} else {
		c.state = StateClean
	}
	return nil
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsDirty reports whether unsaved edits exist.
func (c *Controller) IsDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.IsDirty()
}

// Target returns the canonical storage identity of the open episode.
func (c *Controller) Target() models.CanonicalTarget {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Viewed returns the viewed dataset and episode, which may differ from the
// canonical target for derived clips.
func (c *Controller) Viewed() (string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewedRepo, c.viewedEpisode
}

// Episode returns the episode draft.
func (c *Controller) Episode() *models.EpisodeRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Episode()
}

// Frame returns the draft at the given frame index.
func (c *Controller) Frame(frame int) (models.FrameRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Frame(frame)
}

// Frames returns all frame drafts in frame order.
func (c *Controller) Frames() []models.FrameRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Frames()
}

// Warnings returns the pairing mismatches of the last committed frame set.
// They only change after a successful commit or reload.
func (c *Controller) Warnings() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.warnings...)
}
