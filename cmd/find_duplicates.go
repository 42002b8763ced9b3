/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Another0Noob/tachibk/internal/backup"
	"github.com/Another0Noob/tachibk/internal/catalog"
	"github.com/Another0Noob/tachibk/internal/match"
	"github.com/Another0Noob/tachibk/internal/report"
	"github.com/Another0Noob/tachibk/internal/similarity"
)

var (
	dupeBackup     string
	dupeReferences string
	dupeOutput     string
	dupeSimilarity string
)

// findDuplicatesCmd represents the find-duplicates command
var findDuplicatesCmd = &cobra.Command{
	Use:   "find-duplicates",
	Short: "Report likely duplicate entries in a backup",
	Long: `Scan a backup for entries that likely refer to the same manga and write
a Markdown report of the groups found. Entries match on cross-reference
IDs parsed from their URLs, on exact normalized titles, and finally on
fuzzy title similarity.

An AniList JSON export (see "anilist --export-json") widens title matching
with alternate titles; every reported duplicate still exists in the
backup itself.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFindDuplicates(dupeBackup, dupeReferences, dupeOutput, dupeSimilarity)
	},
}

func init() {
	rootCmd.AddCommand(findDuplicatesCmd)

	findDuplicatesCmd.Flags().StringVarP(
		&dupeBackup,
		"backup",
		"b",
		"",
		"backup file to scan (.tachibk, .proto.gz, or .json)",
	)
	findDuplicatesCmd.MarkFlagRequired("backup")

	findDuplicatesCmd.Flags().StringVarP(
		&dupeReferences,
		"anilist-json",
		"a",
		"",
		"AniList JSON export used to widen title matching",
	)

	findDuplicatesCmd.Flags().StringVarP(
		&dupeOutput,
		"output",
		"o",
		"duplicate_report.md",
		"report output path",
	)

	findDuplicatesCmd.Flags().StringVar(
		&dupeSimilarity,
		"similarity",
		similarity.NameEdit,
		"fuzzy similarity strategy: ratio or token",
	)
}

func runFindDuplicates(backupPath, referencePath, outputPath, similarityName string) error {
	fuzzy, err := similarity.ForName(similarityName)
	if err != nil {
		log.Warn().Err(err).Msg("falling back to token similarity")
		fuzzy = similarity.Token{}
	}

	fmt.Println("--- Reading Backup ---")

	b, err := backup.ReadFile(backupPath)
	if err != nil {
		return err
	}
	col := b.Collection(backupPath, 0)

	fmt.Printf("Got %d manga.\n", len(col.Records))

	var refs []catalog.ReferenceEntry
	if referencePath != "" {
		refs, err = catalog.LoadReferences(referencePath)
		if err != nil {
			// Enrichment only widens matching; a bad file never fails the scan.
			log.Warn().Err(err).Msg("ignoring unreadable reference data")
			refs = nil
		} else {
			fmt.Printf("Got %d reference entries.\n", len(refs))
		}
	}

	fmt.Println("--- Scanning for Duplicates ---")

	grouper := match.NewGrouper(match.NewExtractor(refs), match.NewMatcher(fuzzy))
	groups := grouper.Group(col.Records)

	fmt.Printf("Found %d potential duplicate groups.\n", len(groups))

	meta := report.Metadata{
		RunID:     uuid.NewString(),
		Generated: time.Now(),
		Backup:    backupPath,
		Reference: referencePath,
	}
	if err := os.WriteFile(outputPath, []byte(report.RenderDuplicates(meta, groups, len(col.Records))), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	fmt.Printf("Duplicate analysis report created at %s\n", outputPath)
	return nil
}
