package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-generator/internal/observability"
	"github.com/jonathan/cv-generator/internal/reconcile"
	"github.com/jonathan/cv-generator/internal/schemas"
	"github.com/jonathan/cv-generator/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a raw CV record file",
	Long: `Validates a raw CV record JSON file against the record schema, then
reconciles it into the canonical model and reports model-level issues.`,
	RunE: runValidate,
}

var (
	validateInputFile string
	validateSchema    string
)

func init() {
	validateCmd.Flags().StringVarP(&validateInputFile, "in", "i", "", "Path to raw CV record JSON file (required)")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Path to schema file (defaults to the bundled record schema)")

	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	schemaPath := validateSchema
	if schemaPath == "" {
		schemaPath = schemas.ResolveSchemaPath(schemas.CVRecordSchemaPath)
	}

	if err := schemas.ValidateFile(schemaPath, validateInputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ %s matches the record schema\n", validateInputFile)

	data, err := os.ReadFile(validateInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse input JSON: %w", err)
	}

	model := reconcile.Reconcile(raw, "en", reconcile.DefaultOptions())
	report := validation.ValidateModel(model)

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintModel(model)
	printer.PrintValidationReport(report)

	if !report.IsValid {
		return fmt.Errorf("model validation failed with %d hard issues", len(report.HardIssues()))
	}
	return nil
}
