package models

import (
	"fmt"
	"strings"
)

// LineageRecord is one parsed entry of a dataset's lineage document. A
// derived (clipped) episode points back at its source episode in another
// dataset via SourceRepoID + SourceEpisodeIndex.
type LineageRecord struct {
	EpisodeIndex       int      `json:"episode_index"`
	Tasks              []string `json:"tasks,omitempty"`
	SourceRepoID       *string  `json:"source_repo_id,omitempty"`
	SourceEpisodeIndex *int     `json:"source_episode_index,omitempty"`
}

// Derived reports whether the record denotes a derived episode: both
// lineage fields present and the repo ID splits into a non-empty org and
// dataset. Anything else is an original episode stored under the viewed
// identity.
func (r LineageRecord) Derived() bool {
	if r.SourceRepoID == nil || r.SourceEpisodeIndex == nil {
		return false
	}
	_, _, err := SplitRepoID(*r.SourceRepoID)
	return err == nil
}

// SplitRepoID splits an "org/dataset" repository path. The first segment
// is the org; the remainder (which may itself contain slashes) is the
// dataset.
func SplitRepoID(repoID string) (org, dataset string, err error) {
	org, dataset, found := strings.Cut(repoID, "/")
	if !found || org == "" || dataset == "" {
		return "", "", fmt.Errorf("repo id %q: want at least org/dataset", repoID)
	}
	return org, dataset, nil
}
