// Package cli provides the command-line interface for framemark.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/framemark/framemark/internal/config"
	"github.com/framemark/framemark/internal/db"
	"github.com/framemark/framemark/internal/hub"
	"github.com/framemark/framemark/internal/lineage"
	"github.com/framemark/framemark/internal/pairing"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and clients
	cfg          config.Config
	dbClient     *db.Client
	hubClient    *hub.Client
	resolver     *lineage.Resolver
	pairingTable pairing.Table
	logger       *slog.Logger
	logCleanup   func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "framemark",
	Short: "Annotation tool for robot demonstration episodes",
	Long: `Framemark annotates robot demonstration episodes: episode-level quality
verdicts and per-frame phase/issue tags, stored under the episode's
canonical identity so annotations follow datasets across re-uploads.

Episodes are addressed as <org>/<dataset> <episode>; when the viewed
episode was derived from another dataset, edits resolve to the source
episode automatically.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip DB connection for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()

		level := effectiveLogLevel(cfg.LogLevel, verbose)
		if cmd.Name() == "annotate" {
			// The TUI owns the terminal; stderr logging would corrupt it.
			logger, logCleanup = config.SetupFileLogger(cfg.LogFile, level)
		} else {
			logger, logCleanup = config.SetupLogger(cfg.LogFile, level)
		}

		ctx := context.Background()
		dbCfg := db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}

		var err error
		dbClient, err = db.NewClient(ctx, dbCfg, logger)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}

		if err := dbClient.InitSchema(ctx); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}

		hubClient = hub.New(cfg.HubURL, cfg.HubTimeout)
		resolver = lineage.NewResolver(hubClient, logger)

		pairingTable = pairing.DefaultTable
		if cfg.PairingTable != "" {
			pairingTable, err = pairing.LoadTable(cfg.PairingTable)
			if err != nil {
				return fmt.Errorf("load pairing table: %w", err)
			}
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbClient != nil {
			if err := dbClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
			}
		}
		if logCleanup != nil {
			_ = logCleanup()
		}
	},
}

// effectiveLogLevel lifts the configured level to debug under --verbose;
// an explicitly lower configured level wins.
func effectiveLogLevel(configured slog.Level, verbose bool) slog.Level {
	if verbose && configured > slog.LevelDebug {
		return slog.LevelDebug
	}
	return configured
}

// episodeArgs parses the common `<repo_id> <episode>` argument pair.
func episodeArgs(args []string) (string, int, error) {
	episode, err := strconv.Atoi(args[1])
	if err != nil || episode < 0 {
		return "", 0, fmt.Errorf("invalid episode index %q", args[1])
	}
	return args[0], episode, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug-level logs)")

	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(lineageCmd)
	rootCmd.AddCommand(wipeCmd)
}
