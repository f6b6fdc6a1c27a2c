package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/resume-studio/internal/document"
	"github.com/jonathan/resume-studio/internal/parse"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate résumé JSON files",
	Long: `Validates one or more résumé JSON files: each file is checked against the
wire-format schema, decoded with the strict decoder, and built into a
document tree. All failures are reported; the command exits non-zero if
any file is invalid.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

var (
	validateSchemaPath string
	validateMaxDepth   int
	validateSkipSchema bool
)

func init() {
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "", "Path to the résumé wire-format JSON Schema (defaults to the bundled schema)")
	validateCmd.Flags().IntVar(&validateMaxDepth, "max-depth", parse.DefaultMaxDepth, "Maximum JSON nesting depth")
	validateCmd.Flags().BoolVar(&validateSkipSchema, "skip-schema", false, "Skip JSON Schema validation, run only decode and build checks")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	schemaPath := validateSchemaPath
	if schemaPath == "" && !validateSkipSchema {
		schemaPath = schemas.ResolveSchemaPath(schemas.DefaultResumeSchema)
		if schemaPath == "" {
			return fmt.Errorf("schema file not found; pass --schema or --skip-schema")
		}
	}

	results := make([]error, len(args))

	var g errgroup.Group
	for i, path := range args {
		g.Go(func() error {
			results[i] = validateFile(schemaPath, path)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, path := range args {
		if results[i] != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", path, results[i])
		} else {
			fmt.Fprintf(os.Stdout, "OK   %s\n", path)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed validation", failed, len(args))
	}
	return nil
}

func validateFile(schemaPath, jsonPath string) error {
	content, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if !validateSkipSchema {
		if err := schemas.ValidateResumeFile(schemaPath, jsonPath); err != nil {
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				return err
			}
			return fmt.Errorf("schema validation failed: %w", err)
		}
	}

	v, err := parse.DecodeWithOptions(content, parse.Options{MaxDepth: validateMaxDepth})
	if err != nil {
		return err
	}
	if _, err := document.BuildDocument(v); err != nil {
		return err
	}
	return nil
}
