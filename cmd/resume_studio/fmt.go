package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-studio/internal/document"
	"github.com/jonathan/resume-studio/internal/parse"
	"github.com/spf13/cobra"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Normalize a résumé JSON file",
	Long: `Decodes a résumé JSON file, builds the document tree, and serializes it
back out. The output is the canonical form: ordered keys preserved,
paired-key sections re-emitted with their section vocabulary, numeric
tables round-tripped without trailing zeros.`,
	RunE: runFmt,
}

var (
	fmtInput    string
	fmtOutput   string
	fmtMaxDepth int
)

func init() {
	fmtCmd.Flags().StringVarP(&fmtInput, "in", "i", "", "Path to résumé JSON file (required)")
	fmtCmd.Flags().StringVarP(&fmtOutput, "out", "o", "", "Path to output file (defaults to stdout)")
	fmtCmd.Flags().IntVar(&fmtMaxDepth, "max-depth", parse.DefaultMaxDepth, "Maximum JSON nesting depth")

	if err := fmtCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(fmtCmd)
}

func runFmt(_ *cobra.Command, _ []string) error {
	content, err := os.ReadFile(fmtInput)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	v, err := parse.DecodeWithOptions(content, parse.Options{MaxDepth: fmtMaxDepth})
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", fmtInput, err)
	}

	doc, err := document.BuildDocument(v)
	if err != nil {
		return fmt.Errorf("failed to build document: %w", err)
	}

	out, err := document.Serialize(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	if fmtOutput == "" {
		fmt.Fprintln(os.Stdout, out)
		return nil
	}

	outputDir := filepath.Dir(fmtOutput)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(fmtOutput, []byte(out+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Wrote %s\n", fmtOutput)
	return nil
}
