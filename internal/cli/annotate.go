package cli

import (
	"fmt"
	"os"

	"github.com/framemark/framemark/internal/session"
	"github.com/framemark/framemark/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <repo_id> <episode>",
	Short: "Open the interactive annotation screen",
	Long: `Open the interactive annotation screen on an episode.

Edits are held in memory until saved; saving commits the labeller
registration, frame deletions, episode note and frame notes in one batch.

Examples:
  framemark annotate acme/pick_place 3
  FRAMEMARK_LABELLER=alice framemark annotate acme/pick_place 3`,
	Args: cobra.ExactArgs(2),
	RunE: runAnnotate,
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	repoID, episode, err := episodeArgs(args)
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("annotate needs an interactive terminal; use 'framemark show' for scripted access")
	}

	committer := session.NewCommitter(dbClient, logger)
	ctrl := session.NewController(resolver, dbClient, committer, pairingTable, cfg.Labeller, logger)

	return tui.Run(ctrl, pairingTable, repoID, episode)
}
