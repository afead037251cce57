package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"arbiter-hq/arbiter/pkg/catalog"
	"arbiter-hq/arbiter/pkg/cli"
)

var lintFlags struct {
	file   string
	dir    string
	strict bool
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate catalog files",
	Long: `Validate decision catalog files for syntax and semantic errors.

The lint command parses catalog files and reports every problem found:
  - YAML syntax validation
  - Rate limit validation (positive limits and windows, no duplicates)
  - Experiment validation (variant shares, audiences, date windows)
  - Feature flag validation (rollout percentage bounds)

Examples:
  # Lint single file
  arbiter lint --file arbiter.catalog.yaml

  # Lint directory
  arbiter lint --dir catalogs/

  # Strict mode (warnings as errors)
  arbiter lint --file arbiter.catalog.yaml --strict

  # JSON output for CI/CD
  arbiter lint --file arbiter.catalog.yaml --format json`,
	RunE: lintCatalogs,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "catalog file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of catalog files")
	lintCmd.Flags().BoolVar(&lintFlags.strict, "strict", false, "treat warnings as errors")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

func lintCatalogs(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string

	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}

	if lintFlags.dir != "" {
		matches, err := filepath.Glob(filepath.Join(lintFlags.dir, "*.yaml"))
		if err != nil {
			return fmt.Errorf("failed to list catalog files: %w", err)
		}
		ymlMatches, err := filepath.Glob(filepath.Join(lintFlags.dir, "*.yml"))
		if err != nil {
			return fmt.Errorf("failed to list catalog files: %w", err)
		}
		files = append(files, matches...)
		files = append(files, ymlMatches...)
	}

	if len(files) == 0 {
		return fmt.Errorf("no catalog files found")
	}

	results := make([]LintResult, 0, len(files))
	for _, file := range files {
		results = append(results, lintCatalogFile(file))
	}

	if lintFlags.format == "json" {
		return outputJSON(results)
	}
	return outputText(results, lintFlags.strict)
}

// LintResult represents the validation result for a single catalog file.
type LintResult struct {
	File     string            `json:"file"`
	Valid    bool              `json:"valid"`
	Errors   []catalog.Finding `json:"errors,omitempty"`
	Warnings []catalog.Finding `json:"warnings,omitempty"`
}

func lintCatalogFile(path string) LintResult {
	result := LintResult{File: path, Valid: true}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, catalog.Finding{
			Section:  "file",
			Message:  err.Error(),
			Severity: catalog.SeverityError,
		})
		return result
	}

	for _, finding := range catalog.Lint(data) {
		if finding.Severity == catalog.SeverityError {
			result.Valid = false
			result.Errors = append(result.Errors, finding)
		} else {
			result.Warnings = append(result.Warnings, finding)
		}
	}

	return result
}

func outputText(results []LintResult, strict bool) error {
	totalErrors := 0
	totalWarnings := 0

	for _, result := range results {
		fmt.Printf("Validating %s...\n", result.File)

		if len(result.Errors) == 0 && len(result.Warnings) == 0 {
			fmt.Println("✓ Syntax valid")
			fmt.Println("✓ All entries valid")
		}

		for _, finding := range result.Errors {
			fmt.Printf("✗ Error: %s\n", finding)
			totalErrors++
		}

		for _, finding := range result.Warnings {
			fmt.Printf("⚠  Warning: %s\n", finding)
			totalWarnings++
		}

		fmt.Println()
	}

	fmt.Println("Summary:")
	fmt.Printf("  %d error(s), %d warning(s)\n", totalErrors, totalWarnings)

	if strict && totalWarnings > 0 {
		fmt.Println("  Strict mode enabled: treating warnings as errors")
		return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
	}

	if totalErrors > 0 {
		return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
	}

	return nil
}

func outputJSON(results []LintResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}
