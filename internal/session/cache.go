// Package session holds the working copy of one open episode's
// annotations: the edit cache with dirty tracking, the batch commit
// protocol that flushes it to the annotation store, and the controller
// that drives both through the annotation session's state machine.
package session

import (
	"sort"
	"sync"

	"github.com/framemark/framemark/internal/models"
)

// Snapshot is a committed view of one episode used to seed or reseed the
// edit cache.
type Snapshot struct {
	Episode *models.EpisodeRecord
	Frames  []models.FrameRecord
}

// EpisodePatch is a partial update to the episode draft. Nil fields are
// untouched. Items are merged per key; a zero or negative quantity removes
// the key.
type EpisodePatch struct {
	Quality  *models.QualityTag
	KeyNotes *[]models.KeyNoteTag
	Items    map[string]int
	Arms     *models.ArmKind
	Remarks  *string
}

// FramePatch is a partial update to one frame draft. Nil fields are
// untouched.
type FramePatch struct {
	Phases *[]models.PhaseTag
	Issues *[]models.IssueTag
	Notes  *string
}

// EditCache is the single source of truth for what is on screen: one
// optional episode draft, frame drafts keyed by frame index, the set of
// frames explicitly deleted since the last successful commit, and a dirty
// flag. Committed storage content only seeds it on (re)load.
type EditCache struct {
	mu        sync.Mutex
	episode   *models.EpisodeRecord
	frames    map[int]models.FrameRecord
	deleted   map[int]struct{}
	committed map[int]struct{}
	dirty     bool

	// rev increments on every mutation; commit snapshots carry it so a
	// late-arriving commit response never clobbers newer edits.
	rev uint64
}

// NewEditCache returns an empty, clean cache.
func NewEditCache() *EditCache {
	return &EditCache{
		frames:    make(map[int]models.FrameRecord),
		deleted:   make(map[int]struct{}),
		committed: make(map[int]struct{}),
	}
}

// SetEpisodeFields merges a partial update into the episode draft,
// creating one from defaults first if none exists, and marks the cache
// dirty.
func (c *EditCache) SetEpisodeFields(patch EpisodePatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.episode == nil {
		c.episode = &models.EpisodeRecord{
			KeyNotes: []models.KeyNoteTag{},
			Items:    map[string]int{},
		}
	}
	ep := c.episode

	if patch.Quality != nil {
		ep.Quality = *patch.Quality
	}
	if patch.KeyNotes != nil {
		ep.KeyNotes = append([]models.KeyNoteTag(nil), *patch.KeyNotes...)
	}
	if patch.Arms != nil {
		ep.Arms = *patch.Arms
	}
	if patch.Remarks != nil {
		ep.Remarks = *patch.Remarks
	}
	if patch.Items != nil {
		if ep.Items == nil {
			ep.Items = map[string]int{}
		}
		for name, qty := range patch.Items {
			if qty > 0 {
				ep.Items[name] = qty
			} else {
				// Zero quantities are removed, never stored.
				delete(ep.Items, name)
			}
		}
	}

	c.dirty = true
	c.rev++
}

// SetFrameFields merges a partial update into the frame draft at the given
// index, creating a draft if absent, and marks the cache dirty. Editing a
// frame pending deletion un-deletes it.
func (c *EditCache) SetFrameFields(frame int, patch FramePatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.frames[frame]
	if !ok {
		rec = models.FrameRecord{
			Frame:  frame,
			Phases: []models.PhaseTag{},
			Issues: []models.IssueTag{},
		}
	}

	if patch.Phases != nil {
		rec.Phases = append([]models.PhaseTag(nil), *patch.Phases...)
	}
	if patch.Issues != nil {
		rec.Issues = append([]models.IssueTag(nil), *patch.Issues...)
	}
	if patch.Notes != nil {
		rec.Notes = *patch.Notes
	}

	c.frames[frame] = rec
	delete(c.deleted, frame)
	c.dirty = true
	c.rev++
}

// DeleteFrame removes the frame draft and queues the remote deletion. A
// frame that was never committed and never edited has nothing to delete
// remotely and stays out of the pending-deletion set; the local removal is
// idempotent either way.
func (c *EditCache) DeleteFrame(frame int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, hadDraft := c.frames[frame]
	_, wasCommitted := c.committed[frame]

	delete(c.frames, frame)
	if hadDraft || wasCommitted {
		c.deleted[frame] = struct{}{}
	}
	c.dirty = true
	c.rev++
}

// Reset replaces the drafts with the given committed snapshot, clears the
// pending-deletion set and the dirty flag. Called on initial load and, via
// the commit protocol, after a successful commit with the just-submitted
// values (never a re-fetch, which could race a concurrent remote writer).
func (c *EditCache) Reset(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset(snap)
}

func (c *EditCache) reset(snap Snapshot) {
	c.episode = copyEpisode(snap.Episode)
	c.frames = make(map[int]models.FrameRecord, len(snap.Frames))
	c.committed = make(map[int]struct{}, len(snap.Frames))
	for _, f := range snap.Frames {
		c.frames[f.Frame] = copyFrame(f)
		c.committed[f.Frame] = struct{}{}
	}
	c.deleted = make(map[int]struct{})
	c.dirty = false
	c.rev++
}

// IsDirty reports whether any edit, deletion or field change happened
// since the last reset. It alone gates saving, the navigation guard, and
// silent reloads.
func (c *EditCache) IsDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Episode returns a copy of the episode draft, or nil when the episode was
// never edited or loaded.
func (c *EditCache) Episode() *models.EpisodeRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyEpisode(c.episode)
}

// Frame returns a copy of the draft at the given index.
func (c *EditCache) Frame(frame int) (models.FrameRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.frames[frame]
	if !ok {
		return models.FrameRecord{}, false
	}
	return copyFrame(rec), true
}

// Frames returns copies of all frame drafts in frame order.
func (c *EditCache) Frames() []models.FrameRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.framesLocked()
}

func (c *EditCache) framesLocked() []models.FrameRecord {
	out := make([]models.FrameRecord, 0, len(c.frames))
	for _, rec := range c.frames {
		out = append(out, copyFrame(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Frame < out[j].Frame })
	return out
}

// PendingDeletes returns the frames queued for remote deletion, ascending.
func (c *EditCache) PendingDeletes() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingDeletesLocked()
}

func (c *EditCache) pendingDeletesLocked() []int {
	out := make([]int, 0, len(c.deleted))
	for frame := range c.deleted {
		out = append(out, frame)
	}
	sort.Ints(out)
	return out
}

// commitSnapshot captures the cache contents at commit invocation, so the
// commit response can be reconciled against edits made while it was in
// flight.
type commitSnapshot struct {
	episode *models.EpisodeRecord
	frames  []models.FrameRecord
	deletes []int
	rev     uint64
}

// snapshot deep-copies the drafts and deletions for submission.
func (c *EditCache) snapshot() commitSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return commitSnapshot{
		episode: copyEpisode(c.episode),
		frames:  c.framesLocked(),
		deletes: c.pendingDeletesLocked(),
		rev:     c.rev,
	}
}

// commitApplied reconciles a successful commit. If nothing changed since
// the snapshot was taken the cache resets clean from the submitted values;
// otherwise only the submitted deletions are retired and the newer edits
// stay dirty.
func (c *EditCache) commitApplied(snap commitSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rev == snap.rev {
		c.reset(Snapshot{Episode: snap.episode, Frames: snap.frames})
		return
	}

	c.committed = make(map[int]struct{}, len(snap.frames))
	for _, f := range snap.frames {
		c.committed[f.Frame] = struct{}{}
	}
	for _, frame := range snap.deletes {
		delete(c.deleted, frame)
	}
}

func copyEpisode(ep *models.EpisodeRecord) *models.EpisodeRecord {
	if ep == nil {
		return nil
	}
	out := *ep
	out.KeyNotes = append([]models.KeyNoteTag(nil), ep.KeyNotes...)
	out.Items = make(map[string]int, len(ep.Items))
	for name, qty := range ep.Items {
		out.Items[name] = qty
	}
	return &out
}

func copyFrame(f models.FrameRecord) models.FrameRecord {
	out := f
	out.Phases = append([]models.PhaseTag(nil), f.Phases...)
	out.Issues = append([]models.IssueTag(nil), f.Issues...)
	return out
}
