package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/framemark/framemark/internal/models"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <repo_id> <episode>",
	Short: "Show committed annotations for an episode",
	Long: `Show the committed episode and frame annotations for an episode.

The episode is resolved through its lineage first, so viewing a derived
episode shows the annotations stored under its source identity.

Examples:
  framemark show acme/pick_place 3
  framemark show orgA/sub/dataset 12`,
	Args: cobra.ExactArgs(2),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	repoID, episode, err := episodeArgs(args)
	if err != nil {
		return err
	}
	ctx := context.Background()

	target, err := resolver.Resolve(ctx, repoID, episode)
	if err != nil {
		return fmt.Errorf("resolve episode: %w", err)
	}

	note, err := dbClient.EpisodeNote(ctx, target)
	if err != nil {
		return fmt.Errorf("load episode note: %w", err)
	}
	frames, err := dbClient.FrameNotes(ctx, target)
	if err != nil {
		return fmt.Errorf("load frame notes: %w", err)
	}

	fmt.Printf("Episode %s\n\n", target)

	if note == nil && len(frames) == 0 {
		fmt.Println("No annotations committed yet.")
		return nil
	}

	if note != nil {
		rows := [][]string{
			{"Quality", string(note.Quality)},
			{"Key notes", joinTags(note.KeyNotes)},
			{"Items", formatItems(note.Items)},
			{"Arms", string(note.Arms)},
			{"Remarks", note.Remarks},
			{"Labeller", note.Labeller},
			{"Updated", note.Updated.Local().Format("2006-01-02 15:04:05")},
		}
		fmt.Println(renderTable([]string{"Field", "Value"}, rows))
		fmt.Println()
	}

	if len(frames) > 0 {
		rows := make([][]string, len(frames))
		for i, f := range frames {
			rows[i] = []string{
				strconv.Itoa(f.Frame),
				joinTags(f.Phases),
				joinTags(f.Issues),
				f.Notes,
			}
		}
		fmt.Println(renderTable([]string{"Frame", "Phases", "Issues", "Notes"}, rows, "Frame"))
	}

	return nil
}

func joinTags[T ~string](tags []T) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// formatItems renders item quantities as "cube:2 plate:1" in name order.
func formatItems(items map[string]int) string {
	if len(items) == 0 {
		return models.NoItemsMarker
	}
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s:%d", name, items[name])
	}
	return strings.Join(parts, " ")
}
