/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Another0Noob/tachibk/internal/backup"
)

var (
	decodeInput  string
	decodeOutput string
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode a backup file to JSON for viewing or editing",
	Long: `Convert a Mihon/Tachiyomi backup file (.tachibk or .proto.gz) to JSON
for viewing and editing. Settings and other binary blobs ride along as
base64 so the file can be encoded back without loss.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecode(decodeInput, decodeOutput)
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVarP(
		&decodeInput,
		"input",
		"i",
		"",
		"input backup file (.tachibk, .proto.gz, or raw protobuf)",
	)
	decodeCmd.MarkFlagRequired("input")

	decodeCmd.Flags().StringVarP(
		&decodeOutput,
		"output",
		"o",
		"output.json",
		"output JSON file",
	)
}

func runDecode(inputPath, outputPath string) error {
	fmt.Println("--- Reading Backup ---")

	b, err := backup.ReadFile(inputPath)
	if err != nil {
		return err
	}

	fmt.Printf("Got %d manga.\n", len(b.Manga))

	data, err := backup.EncodeJSON(b)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}

	fmt.Printf("Backup successfully decoded to %s\n", outputPath)
	return nil
}
