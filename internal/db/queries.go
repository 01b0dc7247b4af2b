package db

import (
	"context"
	"fmt"
	"time"

	"github.com/framemark/framemark/internal/models"
	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
)

// episodeRow is the stored shape of an episode note. Quality and arms are
// optional strings, items is either an object of positive counts or the
// "none" marker string.
type episodeRow struct {
	Org      string    `json:"org"`
	Dataset  string    `json:"dataset"`
	Episode  int       `json:"episode"`
	Labeller string    `json:"labeller"`
	Quality  *string   `json:"quality"`
	KeyNotes []string  `json:"key_notes"`
	Items    any       `json:"items"`
	Arms     *string   `json:"arms"`
	Remarks  string    `json:"remarks"`
	Updated  time.Time `json:"updated"`
}

// frameRow is the stored shape of a frame note.
type frameRow struct {
	Org      string    `json:"org"`
	Dataset  string    `json:"dataset"`
	Episode  int       `json:"episode"`
	Frame    int       `json:"frame"`
	Labeller string    `json:"labeller"`
	Phases   []string  `json:"phases"`
	Issues   []string  `json:"issues"`
	Notes    string    `json:"notes"`
	Updated  time.Time `json:"updated"`
}

func optTag(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func tagOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toStrings[T ~string](tags []T) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

func fromStrings[T ~string](names []string) []T {
	out := make([]T, len(names))
	for i, n := range names {
		out[i] = T(n)
	}
	return out
}

func episodeToRow(rec models.EpisodeRecord) episodeRow {
	return episodeRow{
		Org:      rec.Org,
		Dataset:  rec.Dataset,
		Episode:  rec.Episode,
		Labeller: rec.Labeller,
		Quality:  optTag(string(rec.Quality)),
		KeyNotes: toStrings(rec.KeyNotes),
		Items:    models.PrepareItems(rec.Items),
		Arms:     optTag(string(rec.Arms)),
		Remarks:  rec.Remarks,
		Updated:  rec.Updated,
	}
}

func episodeFromRow(row episodeRow) models.EpisodeRecord {
	return models.EpisodeRecord{
		Org:      row.Org,
		Dataset:  row.Dataset,
		Episode:  row.Episode,
		Labeller: row.Labeller,
		Quality:  models.QualityTag(tagOf(row.Quality)),
		KeyNotes: fromStrings[models.KeyNoteTag](row.KeyNotes),
		Items:    models.ItemsFromStored(row.Items),
		Arms:     models.ArmKind(tagOf(row.Arms)),
		Remarks:  row.Remarks,
		Updated:  row.Updated,
	}
}

func frameToRow(rec models.FrameRecord) frameRow {
	return frameRow{
		Org:      rec.Org,
		Dataset:  rec.Dataset,
		Episode:  rec.Episode,
		Frame:    rec.Frame,
		Labeller: rec.Labeller,
		Phases:   toStrings(rec.Phases),
		Issues:   toStrings(rec.Issues),
		Notes:    rec.Notes,
		Updated:  rec.Updated,
	}
}

func frameFromRow(row frameRow) models.FrameRecord {
	return models.FrameRecord{
		Org:      row.Org,
		Dataset:  row.Dataset,
		Episode:  row.Episode,
		Frame:    row.Frame,
		Labeller: row.Labeller,
		Phases:   fromStrings[models.PhaseTag](row.Phases),
		Issues:   fromStrings[models.IssueTag](row.Issues),
		Notes:    row.Notes,
		Updated:  row.Updated,
	}
}

// EnsureLabeller registers the labeller by name if absent. The record ID is
// the name itself, so repeated registration is a no-op that keeps the
// original session token.
func (c *Client) EnsureLabeller(ctx context.Context, name string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT type::record("labeller", $name) SET
			name = $name,
			session_token ??= $token
	`, map[string]any{
		"name":  name,
		"token": uuid.NewString(),
	})
	if err != nil {
		return fmt.Errorf("ensure labeller: %w", wrapQueryError(err))
	}
	return nil
}

// UpsertEpisode replaces or inserts the episode note keyed by the composite
// (org, dataset, episode) record ID.
func (c *Client) UpsertEpisode(ctx context.Context, rec models.EpisodeRecord) error {
	row := episodeToRow(rec)
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT type::record("episode_note", [$row.org, $row.dataset, $row.episode])
			CONTENT $row
	`, map[string]any{"row": row})
	if err != nil {
		return fmt.Errorf("upsert episode: %w", wrapQueryError(err))
	}
	return nil
}

// UpsertFrames replaces or inserts all frame notes in a single query, each
// keyed by the composite (org, dataset, episode, frame) record ID.
func (c *Client) UpsertFrames(ctx context.Context, recs []models.FrameRecord) error {
	if len(recs) == 0 {
		return nil
	}
	rows := make([]frameRow, len(recs))
	for i, rec := range recs {
		rows[i] = frameToRow(rec)
	}
	_, err := surrealdb.Query[any](ctx, c.db, `
		FOR $row IN $rows {
			UPSERT type::record("frame_note", [$row.org, $row.dataset, $row.episode, $row.frame])
				CONTENT $row;
		};
	`, map[string]any{"rows": rows})
	if err != nil {
		return fmt.Errorf("upsert frames: %w", wrapQueryError(err))
	}
	return nil
}

// DeleteFrames removes the given frame notes in one bulk call. Frames that
// were never stored are skipped, so retries converge.
func (c *Client) DeleteFrames(ctx context.Context, target models.CanonicalTarget, frames []int) error {
	if len(frames) == 0 {
		return nil
	}
	_, err := surrealdb.Query[any](ctx, c.db, `
		DELETE frame_note WHERE
			org = $org AND dataset = $dataset AND episode = $episode
			AND frame IN $frames
	`, map[string]any{
		"org":     target.Org,
		"dataset": target.Dataset,
		"episode": target.Episode,
		"frames":  frames,
	})
	if err != nil {
		return fmt.Errorf("delete frames: %w", wrapQueryError(err))
	}
	return nil
}

// EpisodeNote returns the committed episode note, or nil when the episode
// was never annotated.
func (c *Client) EpisodeNote(ctx context.Context, target models.CanonicalTarget) (*models.EpisodeRecord, error) {
	results, err := surrealdb.Query[[]episodeRow](ctx, c.db, `
		SELECT * FROM type::record("episode_note", [$org, $dataset, $episode])
	`, map[string]any{
		"org":     target.Org,
		"dataset": target.Dataset,
		"episode": target.Episode,
	})
	if err != nil {
		return nil, fmt.Errorf("get episode note: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	rec := episodeFromRow((*results)[0].Result[0])
	return &rec, nil
}

// FrameNotes returns the committed frame notes for an episode in frame
// order.
func (c *Client) FrameNotes(ctx context.Context, target models.CanonicalTarget) ([]models.FrameRecord, error) {
	results, err := surrealdb.Query[[]frameRow](ctx, c.db, `
		SELECT * FROM frame_note WHERE
			org = $org AND dataset = $dataset AND episode = $episode
		ORDER BY frame ASC
	`, map[string]any{
		"org":     target.Org,
		"dataset": target.Dataset,
		"episode": target.Episode,
	})
	if err != nil {
		return nil, fmt.Errorf("list frame notes: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.FrameRecord{}, nil
	}
	rows := (*results)[0].Result
	recs := make([]models.FrameRecord, len(rows))
	for i, row := range rows {
		recs[i] = frameFromRow(row)
	}
	return recs, nil
}
