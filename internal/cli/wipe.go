package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var wipeConfirmed bool

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all annotation data (test support)",
	Long: `Delete all labellers, episode notes and frame notes while keeping the
schema. Intended for test databases; requires --yes.`,
	RunE: runWipe,
}

func init() {
	wipeCmd.Flags().BoolVar(&wipeConfirmed, "yes", false, "confirm deletion of all annotation data")
}

func runWipe(cmd *cobra.Command, args []string) error {
	if !wipeConfirmed {
		return fmt.Errorf("refusing to wipe without --yes")
	}

	if err := dbClient.WipeData(context.Background()); err != nil {
		return fmt.Errorf("wipe annotation data: %w", err)
	}

	fmt.Println("All annotation data deleted.")
	return nil
}
