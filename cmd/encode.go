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
	encodeInput  string
	encodeOutput string
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a JSON file to backup format",
	Long: `Convert a JSON file (usually produced by "decode") back into a
Mihon/Tachiyomi backup. Output named .tachibk or .proto.gz is gzipped,
anything else is written as raw protobuf.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEncode(encodeInput, encodeOutput)
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().StringVarP(
		&encodeInput,
		"input",
		"i",
		"",
		"input JSON file",
	)
	encodeCmd.MarkFlagRequired("input")

	encodeCmd.Flags().StringVarP(
		&encodeOutput,
		"output",
		"o",
		"output.tachibk",
		"output backup file",
	)
}

func runEncode(inputPath, outputPath string) error {
	fmt.Println("--- Reading JSON ---")

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read json: %w", err)
	}
	b, err := backup.DecodeJSON(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", inputPath, err)
	}

	fmt.Printf("Got %d manga.\n", len(b.Manga))

	if err := backup.WriteFile(outputPath, b); err != nil {
		return err
	}

	fmt.Printf("JSON successfully encoded to %s\n", outputPath)
	return nil
}
