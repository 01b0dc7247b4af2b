// Package models defines the annotation records, tag vocabularies and
// lineage types shared across framemark.
package models

import (
	"fmt"
	"time"
)

// NoItemsMarker is persisted in place of the item map when every quantity
// was zero. It keeps an explicitly emptied map distinguishable from a
// record whose items were never edited.
const NoItemsMarker = "none"

// CanonicalTarget is the (org, dataset, episode) triple annotations are
// actually stored under, after lineage resolution.
type CanonicalTarget struct {
	Org     string `json:"org"`
	Dataset string `json:"dataset"`
	Episode int    `json:"episode"`
}

func (t CanonicalTarget) String() string {
	return fmt.Sprintf("%s/%s#%d", t.Org, t.Dataset, t.Episode)
}

// EpisodeRecord holds the episode-level annotation, keyed by
// (org, dataset, episode).
type EpisodeRecord struct {
	Org      string         `json:"org"`
	Dataset  string         `json:"dataset"`
	Episode  int            `json:"episode"`
	Labeller string         `json:"labeller"`
	Quality  QualityTag     `json:"quality,omitempty"`
	KeyNotes []KeyNoteTag   `json:"key_notes"`
	Items    map[string]int `json:"items,omitempty"`
	Arms     ArmKind        `json:"arms,omitempty"`
	Remarks  string         `json:"remarks"`
	Updated  time.Time      `json:"updated,omitempty"`
}

// FrameRecord holds a single frame's annotation, keyed by
// (org, dataset, episode, frame). Frame is derived from playback time by
// the player and treated here as an opaque non-negative index.
type FrameRecord struct {
	Org      string     `json:"org"`
	Dataset  string     `json:"dataset"`
	Episode  int        `json:"episode"`
	Frame    int        `json:"frame"`
	Labeller string     `json:"labeller"`
	Phases   []PhaseTag `json:"phases"`
	Issues   []IssueTag `json:"issues"`
	Notes    string     `json:"notes"`
	Updated  time.Time  `json:"updated,omitempty"`
}

// HasIssue reports whether the frame carries the given issue tag.
func (f FrameRecord) HasIssue(tag IssueTag) bool {
	for _, t := range f.Issues {
		if t == tag {
			return true
		}
	}
	return false
}

// NormalizeItems returns a copy of items without zero or negative
// quantities. Absence of a key means quantity zero.
func NormalizeItems(items map[string]int) map[string]int {
	out := make(map[string]int, len(items))
	for name, qty := range items {
		if qty > 0 {
			out[name] = qty
		}
	}
	return out
}

// PrepareItems produces the value persisted for an item map: the
// normalized map, or NoItemsMarker when nothing positive remains.
func PrepareItems(items map[string]int) any {
	norm := NormalizeItems(items)
	if len(norm) == 0 {
		return NoItemsMarker
	}
	return norm
}

// ItemsFromStored converts a persisted items value (map or NoItemsMarker)
// back into a quantity map. Unknown shapes yield an empty map.
func ItemsFromStored(v any) map[string]int {
	switch items := v.(type) {
	case map[string]int:
		return NormalizeItems(items)
	case map[string]any:
		out := make(map[string]int, len(items))
		for name, qty := range items {
			switch q := qty.(type) {
			case int:
				if q > 0 {
					out[name] = q
				}
			case int64:
				if q > 0 {
					out[name] = int(q)
				}
			case uint64:
				if q > 0 {
					out[name] = int(q)
				}
			case float64:
				if q > 0 {
					out[name] = int(q)
				}
			}
		}
		return out
	default:
		return map[string]int{}
	}
}
