package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-studio/internal/document"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/parse"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the structure of a résumé JSON file",
	Long:  "Decodes a résumé JSON file into a document tree and prints a formatted outline of its sections, entry counts, and rewrite-queue state.",
	RunE:  runInspect,
}

var (
	inspectInput    string
	inspectMaxDepth int
)

func init() {
	inspectCmd.Flags().StringVarP(&inspectInput, "in", "i", "", "Path to résumé JSON file (required)")
	inspectCmd.Flags().IntVar(&inspectMaxDepth, "max-depth", parse.DefaultMaxDepth, "Maximum JSON nesting depth")

	if err := inspectCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, _ []string) error {
	content, err := os.ReadFile(inspectInput)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	v, err := parse.DecodeWithOptions(content, parse.Options{MaxDepth: inspectMaxDepth})
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", inspectInput, err)
	}

	doc, err := document.BuildDocument(v)
	if err != nil {
		return fmt.Errorf("failed to build document: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintOutline(doc)
	printer.PrintQueuedSummary(doc)
	return nil
}
