package hub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/datasets/orgA/dataset/meta/info.json" {
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"codebase_version": "v3.0", "robot_type": "so100", "total_episodes": 12}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	info, err := c.Info(context.Background(), "orgA/dataset")
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if info.CodebaseVersion != "v3.0" {
		t.Errorf("CodebaseVersion = %q, want %q", info.CodebaseVersion, "v3.0")
	}
	if info.TotalEpisodes != 12 {
		t.Errorf("TotalEpisodes = %d, want 12", info.TotalEpisodes)
	}
}

func TestLineageDocumentNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	_, err := c.LineageDocument(context.Background(), "orgA/dataset")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("LineageDocument() error = %v, want ErrNotFound", err)
	}
}

func TestLineageDocumentBody(t *testing.T) {
	doc := `{"episode_index": 0}
{"episode_index": 1, "source_repo_id": "orgB/other", "source_episode_index": 4}
`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/datasets/orgA/dataset/meta/episodes_lineage.jsonl" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(doc))
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	body, err := c.LineageDocument(context.Background(), "orgA/dataset")
	if err != nil {
		t.Fatalf("LineageDocument() error = %v", err)
	}
	if string(body) != doc {
		t.Errorf("LineageDocument() = %q, want %q", body, doc)
	}
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	if _, err := c.Info(context.Background(), "orgA/dataset"); err == nil {
		t.Error("Info() accepted a 500 response")
	}
}
