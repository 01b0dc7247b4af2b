package session

import (
	"context"
	"errors"
	"testing"

	"github.com/framemark/framemark/internal/models"
	"github.com/framemark/framemark/internal/pairing"
)

// fakeResolver resolves every episode to a fixed org/dataset.
type fakeResolver struct {
	org     string
	dataset string
}

func (f fakeResolver) Resolve(ctx context.Context, repoID string, episode int) (models.CanonicalTarget, error) {
	return models.CanonicalTarget{Org: f.org, Dataset: f.dataset, Episode: episode}, nil
}

// fakeReader serves committed records out of a fakeStore.
type fakeReader struct {
	store *fakeStore
}

func (r fakeReader) EpisodeNote(ctx context.Context, target models.CanonicalTarget) (*models.EpisodeRecord, error) {
	rec, ok := r.store.episodes[target.String()]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r fakeReader) FrameNotes(ctx context.Context, target models.CanonicalTarget) ([]models.FrameRecord, error) {
	var out []models.FrameRecord
	for _, rec := range r.store.frames[target.String()] {
		out = append(out, rec)
	}
	return out, nil
}

func newTestController(store *fakeStore, table pairing.Table) *Controller {
	return NewController(
		fakeResolver{org: "orgA", dataset: "dataset"},
		fakeReader{store: store},
		fixedCommitter(store),
		table,
		"sam",
		nil,
	)
}

func TestControllerLifecycle(t *testing.T) {
	store := newFakeStore()
	c := newTestController(store, pairing.DefaultTable)

	if c.State() != StateLoading {
		t.Fatalf("initial state = %v, want loading", c.State())
	}

	if err := c.Open(context.Background(), "viewer/clips", 3, nil); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if c.State() != StateClean {
		t.Fatalf("state after Open = %v, want clean", c.State())
	}

	c.SetFrameFields(0, FramePatch{Phases: &[]models.PhaseTag{models.PhaseGrasp}})
	if c.State() != StateDirty {
		t.Fatalf("state after edit = %v, want dirty", c.State())
	}

	if err := c.Save(context.Background(), nil); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if c.State() != StateClean {
		t.Fatalf("state after save = %v, want clean", c.State())
	}
	if _, ok := store.frames[c.Target().String()][0]; !ok {
		t.Error("frame 0 not stored")
	}
}

func TestControllerSaveFailureKeepsEdits(t *testing.T) {
	store := newFakeStore()
	store.failAt(StepFrames)
	c := newTestController(store, pairing.DefaultTable)

	if err := c.Open(context.Background(), "viewer/clips", 3, nil); err != nil {
		t.Fatal(err)
	}
	c.SetFrameFields(5, FramePatch{Issues: &[]models.IssueTag{models.IssueGraspSlip}})

	err := c.Save(context.Background(), nil)
	var commitErr *CommitError
	if !errors.As(err, &commitErr) {
		t.Fatalf("Save() error = %v, want *CommitError", err)
	}
	if c.State() != StateDirty {
		t.Errorf("state after failed save = %v, want dirty", c.State())
	}
	if _, ok := c.Frame(5); !ok {
		t.Error("edit lost after failed save")
	}
}

func TestControllerNavigationGuard(t *testing.T) {
	store := newFakeStore()
	c := newTestController(store, pairing.DefaultTable)

	if err := c.Open(context.Background(), "viewer/clips", 0, nil); err != nil {
		t.Fatal(err)
	}
	c.DeleteFrame(0)

	// Declined prompt keeps the current episode.
	err := c.Open(context.Background(), "viewer/clips", 1, func() bool { return false })
	if !errors.Is(err, ErrUnsavedChanges) {
		t.Fatalf("Open() error = %v, want ErrUnsavedChanges", err)
	}
	if _, episode := c.Viewed(); episode != 0 {
		t.Errorf("viewed episode = %d, want 0", episode)
	}

	// A nil hook never silently discards.
	if err := c.Open(context.Background(), "viewer/clips", 1, nil); !errors.Is(err, ErrUnsavedChanges) {
		t.Fatalf("Open() with nil discard = %v, want ErrUnsavedChanges", err)
	}

	// Confirmed prompt discards and reloads.
	if err := c.Open(context.Background(), "viewer/clips", 1, func() bool { return true }); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if c.State() != StateClean || c.IsDirty() {
		t.Errorf("state = %v dirty = %v after confirmed navigation", c.State(), c.IsDirty())
	}
}

func TestControllerSaveConfirmation(t *testing.T) {
	table := pairing.Table{{Issue: models.IssueGraspSlip, Recovery: models.IssueGraspRecovery}}
	store := newFakeStore()
	c := newTestController(store, table)

	if err := c.Open(context.Background(), "viewer/clips", 2, nil); err != nil {
		t.Fatal(err)
	}
	c.SetFrameFields(4, FramePatch{Issues: &[]models.IssueTag{models.IssueGraspSlip}})

	// The confirmation sees the about-to-be-committed mismatch and may
	// cancel without touching the store.
	var seen []string
	err := c.Save(context.Background(), func(warnings []string) bool {
		seen = warnings
		return false
	})
	if !errors.Is(err, ErrSaveCancelled) {
		t.Fatalf("Save() error = %v, want ErrSaveCancelled", err)
	}
	if len(seen) != 1 {
		t.Fatalf("confirmation warnings = %v, want one mismatch", seen)
	}
	if len(store.frames) != 0 {
		t.Error("store written despite cancelled save")
	}
	if c.State() != StateDirty {
		t.Errorf("state = %v after cancelled save, want dirty", c.State())
	}

	// Proceeding commits and the committed-state warnings update.
	if err := c.Save(context.Background(), func([]string) bool { return true }); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := c.Warnings(); len(got) != 1 {
		t.Errorf("Warnings() = %v, want the committed mismatch", got)
	}
}

func TestControllerWarningsReflectCommittedStateOnly(t *testing.T) {
	table := pairing.Table{{Issue: models.IssueCollision, Recovery: models.IssueCollisionFixed}}
	store := newFakeStore()
	c := newTestController(store, table)

	if err := c.Open(context.Background(), "viewer/clips", 2, nil); err != nil {
		t.Fatal(err)
	}

	c.SetFrameFields(1, FramePatch{Issues: &[]models.IssueTag{models.IssueCollision}})
	if got := c.Warnings(); len(got) != 0 {
		t.Errorf("Warnings() = %v before commit, want none (uncommitted edits are invisible)", got)
	}
}

func TestControllerSaveCleanIsNoop(t *testing.T) {
	store := newFakeStore()
	c := newTestController(store, pairing.DefaultTable)

	if err := c.Open(context.Background(), "viewer/clips", 2, nil); err != nil {
		t.Fatal(err)
	}
	if err := c.Save(context.Background(), nil); err != nil {
		t.Fatalf("Save() on clean cache error = %v", err)
	}
	if len(store.labellers) != 0 {
		t.Error("clean save touched the store")
	}
}

func TestControllerOpenSeedsCommitted(t *testing.T) {
	store := newFakeStore()
	target := models.CanonicalTarget{Org: "orgA", Dataset: "dataset", Episode: 6}
	store.episodes[target.String()] = models.EpisodeRecord{
		Org: "orgA", Dataset: "dataset", Episode: 6,
		Quality: models.QualityGood,
		Items:   map[string]int{"cube": 1},
	}
	store.frames[target.String()] = map[int]models.FrameRecord{
		3: {Org: "orgA", Dataset: "dataset", Episode: 6, Frame: 3, Issues: []models.IssueTag{models.IssueCollision}},
	}

	table := pairing.Table{{Issue: models.IssueCollision, Recovery: models.IssueCollisionFixed}}
	c := newTestController(store, table)

	if err := c.Open(context.Background(), "viewer/clips", 6, nil); err != nil {
		t.Fatal(err)
	}

	ep := c.Episode()
	if ep == nil || ep.Quality != models.QualityGood {
		t.Errorf("episode draft = %+v, want committed quality", ep)
	}
	if _, ok := c.Frame(3); !ok {
		t.Error("committed frame 3 missing from drafts")
	}
	if got := c.Warnings(); len(got) != 1 {
		t.Errorf("Warnings() = %v, want the committed mismatch", got)
	}
}
