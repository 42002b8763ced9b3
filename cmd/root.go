package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Another0Noob/tachibk/internal/logging"
)

var logLevel string

// log is configured by the root command before any subcommand runs.
var log zerolog.Logger

var rootCmd = &cobra.Command{
	Use:   "tachibk",
	Short: "Work with Mihon/Tachiyomi backup files",
	Long: `tachibk inspects and manipulates Mihon/Tachiyomi library backups.

It decodes backups to editable JSON and back, merges several backups into
one, removes duplicate entries, reports likely duplicates, and builds a
backup from an AniList manga list.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(logLevel)
		if err != nil {
			return err
		}
		log = l
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		"info",
		"log level (trace, debug, info, warn, error)",
	)
}
