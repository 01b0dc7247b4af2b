package cli

import (
	"context"
	"fmt"

	"github.com/framemark/framemark/internal/pairing"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <repo_id> <episode>",
	Short: "Check issue/recovery pairing of committed frame annotations",
	Long: `Check that issue tags on the committed frames of an episode are matched
by their recovery tags. Prints one warning per unbalanced pairing group,
for example:

  left_arm_missed (2×) should match left_arm_recovery (1×)

Warnings are advisory; they never block a commit.`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	repoID, episode, err := episodeArgs(args)
	if err != nil {
		return err
	}
	ctx := context.Background()

	target, err := resolver.Resolve(ctx, repoID, episode)
	if err != nil {
		return fmt.Errorf("resolve episode: %w", err)
	}

	frames, err := dbClient.FrameNotes(ctx, target)
	if err != nil {
		return fmt.Errorf("load frame notes: %w", err)
	}

	warnings := pairing.Check(pairingTable, frames)
	if len(warnings) == 0 {
		fmt.Printf("Episode %s: all issue tags are paired (%d frames).\n", target, len(frames))
		return nil
	}

	fmt.Printf("Episode %s:\n", target)
	for _, w := range warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	return nil
}
