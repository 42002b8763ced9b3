/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Another0Noob/tachibk/internal/backup"
	"github.com/Another0Noob/tachibk/internal/catalog"
	"github.com/Another0Noob/tachibk/internal/merge"
	"github.com/Another0Noob/tachibk/internal/report"
)

var (
	mergeInputs []string
	mergeOutput string
	mergeMode   string
	mergeReport string
)

// mergeCmd represents the merge command
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge multiple backup files into one",
	Long: `Combine multiple Mihon/Tachiyomi backup files into a single file.

Settings (preferences, extensions) are taken from the last input that
carries them. How duplicate titles are handled depends on --mode, so the
order of input files matters:

  replace     replace entries with the same title (last file wins)
  keep_first  keep the first entry when a duplicate title is found
  keep_both   keep both entries even if they share a title

Inputs that cannot be read are skipped with a warning; the merge fails
only when no input could be read. A Markdown report of every decision is
written next to the output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMerge(mergeInputs, mergeOutput, mergeMode, mergeReport)
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringArrayVarP(
		&mergeInputs,
		"input",
		"i",
		nil,
		"input backup files (.tachibk, .proto.gz, or .json); repeat per file",
	)
	mergeCmd.MarkFlagRequired("input")

	mergeCmd.Flags().StringVarP(
		&mergeOutput,
		"output",
		"o",
		"merged.tachibk",
		"output merged backup file",
	)

	mergeCmd.Flags().StringVar(
		&mergeMode,
		"mode",
		"replace",
		"duplicate handling: replace, keep_first, or keep_both",
	)

	mergeCmd.Flags().StringVarP(
		&mergeReport,
		"report",
		"r",
		"",
		"merge report path (default: <output>_merge_report.md)",
	)
}

func runMerge(inputs []string, outputPath, modeName, reportPath string) error {
	mode, err := merge.ParseMode(modeName)
	if err != nil {
		return err
	}
	if reportPath == "" {
		reportPath = derivedReportPath(outputPath, "_merge_report.md")
	}

	fmt.Println("--- Merging Backups ---")

	sources := make([]merge.Source, len(inputs))
	for i, path := range inputs {
		index := i
		p := path
		sources[i] = merge.Source{
			Name: p,
			Open: func() (*catalog.Collection, error) {
				b, err := backup.ReadFile(p)
				if err != nil {
					return nil, err
				}
				col := b.Collection(p, index)
				return &col, nil
			},
		}
	}

	engine := merge.NewEngine(log)
	engine.MergeAux = backup.MergeAux

	res, err := engine.Merge(sources, mode)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}

	fmt.Printf("Read %d manga from %d backups.\n", res.TotalIn, len(res.Processed))

	out, err := backup.FromRecords(res.Records, res.Aux)
	if err != nil {
		return fmt.Errorf("rebuild backup: %w", err)
	}
	if err := backup.WriteFile(outputPath, out); err != nil {
		return err
	}

	fmt.Println(renderTable(
		[]string{"Decision", "Count"},
		[][]string{
			{"Added", strconv.Itoa(res.Count(merge.KindAdded))},
			{"Replaced", strconv.Itoa(res.Count(merge.KindReplaced))},
			{"Skipped duplicates", strconv.Itoa(res.Count(merge.KindSkippedDuplicate))},
			{"Kept both", strconv.Itoa(res.Count(merge.KindKeptBoth))},
			{"Entries in output", strconv.Itoa(len(res.Records))},
		},
	))

	meta := report.Metadata{
		Mode:      string(mode),
		RunID:     uuid.NewString(),
		Generated: time.Now(),
		Output:    outputPath,
	}
	if err := os.WriteFile(reportPath, []byte(report.RenderMerge(meta, res)), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	fmt.Printf("Backup files successfully merged to %s\n", outputPath)
	fmt.Printf("Merge report generated at %s\n", reportPath)
	return nil
}

// derivedReportPath swaps the output extension for a report suffix, e.g.
// merged.tachibk -> merged_merge_report.md.
func derivedReportPath(outputPath, suffix string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + suffix
}
