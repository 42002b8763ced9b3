/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Another0Noob/tachibk/internal/backup"
	"github.com/Another0Noob/tachibk/internal/merge"
	"github.com/Another0Noob/tachibk/internal/report"
)

var (
	cleanupInput  string
	cleanupOutput string
	cleanupMode   string
	cleanupReport string
)

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Clean up a backup file by removing duplicates",
	Long: `Remove duplicate manga entries from a Mihon/Tachiyomi backup file.

Duplicates are entries with the exact same title; --mode picks whether the
first or the last occurrence survives. A Markdown report of every removal
is written next to the output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCleanup(cleanupInput, cleanupOutput, cleanupMode, cleanupReport)
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().StringVarP(
		&cleanupInput,
		"input",
		"i",
		"",
		"input backup file (.tachibk, .proto.gz, or .json)",
	)
	cleanupCmd.MarkFlagRequired("input")

	cleanupCmd.Flags().StringVarP(
		&cleanupOutput,
		"output",
		"o",
		"cleaned.tachibk",
		"output cleaned backup file",
	)

	cleanupCmd.Flags().StringVar(
		&cleanupMode,
		"mode",
		"keep_first",
		"which duplicate survives: keep_first or keep_last",
	)

	cleanupCmd.Flags().StringVarP(
		&cleanupReport,
		"report",
		"r",
		"",
		"cleanup report path (default: <output>_cleanup_report.md)",
	)
}

func runCleanup(inputPath, outputPath, modeName, reportPath string) error {
	mode, err := merge.ParseCleanupMode(modeName)
	if err != nil {
		return err
	}
	if reportPath == "" {
		reportPath = derivedReportPath(outputPath, "_cleanup_report.md")
	}

	fmt.Println("--- Reading Backup ---")

	b, err := backup.ReadFile(inputPath)
	if err != nil {
		return err
	}

	fmt.Printf("Got %d manga.\n", len(b.Manga))

	res := merge.Cleanup(b.Collection(inputPath, 0), mode)

	out, err := backup.FromRecords(res.Records, res.Aux)
	if err != nil {
		return fmt.Errorf("rebuild backup: %w", err)
	}
	if err := backup.WriteFile(outputPath, out); err != nil {
		return err
	}

	fmt.Println(renderTable(
		[]string{"Cleanup", "Count"},
		[][]string{
			{"Records read", strconv.Itoa(res.TotalIn)},
			{"Entries kept", strconv.Itoa(len(res.Records))},
			{"Duplicates removed", strconv.Itoa(res.Count(merge.KindSkippedDuplicate))},
		},
	))

	meta := report.Metadata{
		Mode:      string(mode),
		RunID:     uuid.NewString(),
		Generated: time.Now(),
		Output:    outputPath,
		Backup:    inputPath,
	}
	if err := os.WriteFile(reportPath, []byte(report.RenderCleanup(meta, &res)), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	fmt.Printf("Backup file successfully cleaned up and saved to %s\n", outputPath)
	fmt.Printf("Cleanup report generated at %s\n", reportPath)
	return nil
}
