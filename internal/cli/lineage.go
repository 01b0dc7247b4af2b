package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/framemark/framemark/internal/hub"
	"github.com/framemark/framemark/internal/lineage"
	"github.com/spf13/cobra"
)

var lineageCmd = &cobra.Command{
	Use:   "lineage <repo_id> [episode]",
	Short: "Inspect a dataset's episode lineage",
	Long: `Print the lineage table of a dataset, or resolve a single episode to
its canonical annotation identity.

Examples:
  framemark lineage acme/pick_place
  framemark lineage acme/pick_place 3`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLineage,
}

func runLineage(cmd *cobra.Command, args []string) error {
	repoID := args[0]
	ctx := context.Background()

	if len(args) == 2 {
		episode, err := strconv.Atoi(args[1])
		if err != nil || episode < 0 {
			return fmt.Errorf("invalid episode index %q", args[1])
		}
		target, err := resolver.Resolve(ctx, repoID, episode)
		if err != nil {
			return fmt.Errorf("resolve episode: %w", err)
		}
		fmt.Printf("%s %d -> %s\n", repoID, episode, target)
		return nil
	}

	if info, err := hubClient.Info(ctx, repoID); err == nil {
		fmt.Println(formatDatasetInfo(repoID, info))
	}

	records, err := resolver.Table(ctx, repoID)
	switch {
	case errors.Is(err, lineage.ErrLineageUnavailable):
		fmt.Printf("%s publishes no lineage; episodes annotate under their own identity.\n", repoID)
		return nil
	case errors.Is(err, lineage.ErrIncompatibleDataset):
		return fmt.Errorf("dataset %s uses an unsupported codebase version: %w", repoID, err)
	case err != nil:
		return fmt.Errorf("load lineage: %w", err)
	}

	if len(records) == 0 {
		fmt.Printf("%s has an empty lineage table.\n", repoID)
		return nil
	}

	episodes := make([]int, 0, len(records))
	for ep := range records {
		episodes = append(episodes, ep)
	}
	sort.Ints(episodes)

	rows := make([][]string, 0, len(records))
	for _, ep := range episodes {
		rec := records[ep]
		source := "-"
		if rec.Derived() {
			source = fmt.Sprintf("%s #%d", *rec.SourceRepoID, *rec.SourceEpisodeIndex)
		}
		rows = append(rows, []string{
			strconv.Itoa(rec.EpisodeIndex),
			source,
			strings.Join(rec.Tasks, ", "),
		})
	}
	fmt.Println(renderTable([]string{"Episode", "Source", "Tasks"}, rows, "Episode"))
	return nil
}

// formatDatasetInfo summarizes dataset metadata in one line, skipping
// fields the hub left unset.
func formatDatasetInfo(repoID string, info hub.Info) string {
	parts := []string{fmt.Sprintf("%s (codebase %s", repoID, info.CodebaseVersion)}
	if info.Robot != "" {
		parts = append(parts, fmt.Sprintf("robot %s", info.Robot))
	}
	if info.TotalEpisodes > 0 {
		parts = append(parts, fmt.Sprintf("%d episodes", info.TotalEpisodes))
	}
	if info.FPS > 0 {
		parts = append(parts, fmt.Sprintf("%g fps", info.FPS))
	}
	return strings.Join(parts, ", ") + ")"
}
