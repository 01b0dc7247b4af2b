// Package hub provides an HTTP client for the dataset host serving
// dataset metadata and lineage documents.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotFound indicates the requested dataset or document does not exist
// on the hub. Lineage resolution treats it as "no lineage".
var ErrNotFound = errors.New("not found on hub")

// Info is the dataset metadata document. The schema version gates lineage
// resolution.
type Info struct {
	CodebaseVersion string  `json:"codebase_version"`
	Robot           string  `json:"robot_type,omitempty"`
	TotalEpisodes   int     `json:"total_episodes,omitempty"`
	FPS             float64 `json:"fps,omitempty"`
}

// Client fetches dataset metadata over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a hub client. An empty endpoint falls back to the public
// default; timeout zero means 30 seconds.
func New(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = "https://hub.framemark.dev"
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Info fetches the dataset's meta/info.json.
func (c *Client) Info(ctx context.Context, repoID string) (Info, error) {
	body, err := c.get(ctx, c.metaURL(repoID, "info.json"))
	if err != nil {
		return Info{}, fmt.Errorf("dataset info %s: %w", repoID, err)
	}

	var info Info
	if err := json.Unmarshal(body, &info); err != nil {
		return Info{}, fmt.Errorf("dataset info %s: unmarshal: %w", repoID, err)
	}
	return info, nil
}

// LineageDocument fetches the raw line-delimited lineage document for a
// dataset. Datasets without derived episodes typically have none, which
// surfaces as ErrNotFound.
func (c *Client) LineageDocument(ctx context.Context, repoID string) ([]byte, error) {
	body, err := c.get(ctx, c.metaURL(repoID, "episodes_lineage.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("lineage document %s: %w", repoID, err)
	}
	return body, nil
}

// metaURL builds the path for a dataset meta file. Repo IDs keep their
// slashes: they are path segments on the hub.
func (c *Client) metaURL(repoID, file string) string {
	return fmt.Sprintf("%s/datasets/%s/meta/%s", c.baseURL, repoID, file)
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hub error: %s - %s", resp.Status, string(body))
	}
	return body, nil
}
