package lineage

import (
	"context"
	"errors"
	"testing"

	"github.com/framemark/framemark/internal/hub"
	"github.com/framemark/framemark/internal/models"
)

// fakeSource serves canned metadata and counts fetches for cache checks.
type fakeSource struct {
	version   string
	infoErr   error
	doc       []byte
	docErr    error
	infoCalls int
	docCalls  int
}

func (f *fakeSource) Info(ctx context.Context, repoID string) (hub.Info, error) {
	f.infoCalls++
	if f.infoErr != nil {
		return hub.Info{}, f.infoErr
	}
	return hub.Info{CodebaseVersion: f.version}, nil
}

func (f *fakeSource) LineageDocument(ctx context.Context, repoID string) ([]byte, error) {
	f.docCalls++
	if f.docErr != nil {
		return nil, f.docErr
	}
	return f.doc, nil
}

func TestResolveDerivedEpisode(t *testing.T) {
	src := &fakeSource{
		version: "v3.0",
		doc:     []byte(`{"episode_index": 3, "source_repo_id": "orgA/sub/dataset", "source_episode_index": 9}`),
	}
	r := NewResolver(src, nil)

	target, err := r.Resolve(context.Background(), "viewer/clips", 3)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := models.CanonicalTarget{Org: "orgA", Dataset: "sub/dataset", Episode: 9}
	if target != want {
		t.Errorf("Resolve() = %+v, want %+v", target, want)
	}
}

func TestResolvePassThrough(t *testing.T) {
	src := &fakeSource{
		version: "v3.0",
		doc:     []byte(`{"episode_index": 3}`),
	}
	r := NewResolver(src, nil)

	tests := []struct {
		name    string
		episode int
	}{
		{"entry without lineage fields", 3},
		{"episode not in table", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := r.Resolve(context.Background(), "viewer/clips", tt.episode)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			want := models.CanonicalTarget{Org: "viewer", Dataset: "clips", Episode: tt.episode}
			if target != want {
				t.Errorf("Resolve() = %+v, want %+v", target, want)
			}
		})
	}
}

func TestResolveUnsupportedVersion(t *testing.T) {
	src := &fakeSource{version: "v1.6"}
	r := NewResolver(src, nil)

	target, err := r.Resolve(context.Background(), "viewer/clips", 2)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := models.CanonicalTarget{Org: "viewer", Dataset: "clips", Episode: 2}
	if target != want {
		t.Errorf("Resolve() = %+v, want pass-through %+v", target, want)
	}
	if src.docCalls != 0 {
		t.Errorf("lineage document fetched despite unsupported version")
	}

	if _, err := r.Table(context.Background(), "viewer/clips"); !errors.Is(err, ErrIncompatibleDataset) {
		t.Errorf("Table() error = %v, want ErrIncompatibleDataset", err)
	}
}

func TestResolveLineageUnavailable(t *testing.T) {
	src := &fakeSource{version: "v3.0", docErr: hub.ErrNotFound}
	r := NewResolver(src, nil)

	target, err := r.Resolve(context.Background(), "viewer/clips", 0)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := models.CanonicalTarget{Org: "viewer", Dataset: "clips", Episode: 0}
	if target != want {
		t.Errorf("Resolve() = %+v, want pass-through %+v", target, want)
	}

	if _, err := r.Table(context.Background(), "viewer/clips"); !errors.Is(err, ErrLineageUnavailable) {
		t.Errorf("Table() error = %v, want ErrLineageUnavailable", err)
	}
}

func TestResolveMalformedSourceRepo(t *testing.T) {
	src := &fakeSource{
		version: "v3.0",
		doc:     []byte(`{"episode_index": 1, "source_repo_id": "nodataset", "source_episode_index": 4}`),
	}
	r := NewResolver(src, nil)

	target, err := r.Resolve(context.Background(), "viewer/clips", 1)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := models.CanonicalTarget{Org: "viewer", Dataset: "clips", Episode: 1}
	if target != want {
		t.Errorf("Resolve() = %+v, want pass-through %+v", target, want)
	}
}

func TestResolveBadViewedRepo(t *testing.T) {
	r := NewResolver(&fakeSource{version: "v3.0"}, nil)
	if _, err := r.Resolve(context.Background(), "noslash", 0); err == nil {
		t.Error("Resolve() accepted a viewed repo ID without org/dataset")
	}
}

func TestTableCachedPerVersion(t *testing.T) {
	src := &fakeSource{version: "v3.0", doc: []byte(`{"episode_index": 0}`)}
	r := NewResolver(src, nil)

	for i := 0; i < 3; i++ {
		if _, err := r.Resolve(context.Background(), "viewer/clips", i); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
	}

	if src.docCalls != 1 {
		t.Errorf("lineage document fetched %d times, want 1", src.docCalls)
	}
}

func TestParseDocumentSkipsMalformedLines(t *testing.T) {
	doc := []byte(`{"episode_index": 0}
not json at all
{"episode_index": 1, "source_repo_id": "orgB/other", "source_episode_index": 2}

{"episode_index": "bogus"}
{"episode_index": 4, "tasks": ["fold towel"]}
`)

	table, skipped := ParseDocument(doc)

	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if len(table) != 3 {
		t.Fatalf("len(table) = %d, want 3", len(table))
	}

	rec, ok := table[1]
	if !ok || !rec.Derived() {
		t.Errorf("episode 1 missing or not derived: %+v", rec)
	}
	if got := table[4].Tasks; len(got) != 1 || got[0] != "fold towel" {
		t.Errorf("episode 4 tasks = %v, want [fold towel]", got)
	}
}

func TestParseDocumentEmpty(t *testing.T) {
	table, skipped := ParseDocument(nil)
	if len(table) != 0 || skipped != 0 {
		t.Errorf("ParseDocument(nil) = (%v, %d), want empty", table, skipped)
	}
}
