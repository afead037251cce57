package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"arbiter-hq/arbiter/pkg/cli"
	"arbiter-hq/arbiter/pkg/stats"
)

var analyzeFlags struct {
	control   string
	treatment string
	file      string
	alpha     float64
	format    string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Test experiment results for statistical significance",
	Long: `Run a two-proportion z-test over experiment results.

Counts are given as visitors:conversions pairs, either on the command line
or in a YAML file:

  control:
    visitors: 1000
    conversions: 100
  treatment:
    visitors: 1000
    conversions: 126

The test compares the treatment conversion rate against control and reports
the z-score, two-tailed p-value, relative lift, and whether the difference
is significant at the chosen alpha.

Examples:
  # Inline counts
  arbiter analyze --control 1000:100 --treatment 1000:126

  # From a results file
  arbiter analyze --file results.yaml

  # Stricter threshold
  arbiter analyze --control 1000:100 --treatment 1000:126 --alpha 0.01

  # JSON output
  arbiter analyze --control 1000:100 --treatment 1000:126 --format json`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeFlags.control, "control", "", "control counts as visitors:conversions")
	analyzeCmd.Flags().StringVar(&analyzeFlags.treatment, "treatment", "", "treatment counts as visitors:conversions")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.file, "file", "f", "", "YAML file with control/treatment counts")
	analyzeCmd.Flags().Float64Var(&analyzeFlags.alpha, "alpha", stats.DefaultAlpha, "significance threshold")
	analyzeCmd.Flags().StringVar(&analyzeFlags.format, "format", "text", "output format: text, json")
}

// AnalysisReport is the JSON projection of a significance test.
type AnalysisReport struct {
	Control       ArmCounts `json:"control"`
	Treatment     ArmCounts `json:"treatment"`
	Alpha         float64   `json:"alpha"`
	ControlRate   float64   `json:"control_rate"`
	TreatmentRate float64   `json:"treatment_rate"`
	ZScore        float64   `json:"z_score"`
	PValue        float64   `json:"p_value"`
	RelativeLift  float64   `json:"relative_lift"`
	Confidence    float64   `json:"confidence"`
	IsSignificant bool      `json:"is_significant"`
}

// ArmCounts carries the observed counts for one arm of the test.
type ArmCounts struct {
	Visitors    int `json:"visitors" yaml:"visitors"`
	Conversions int `json:"conversions" yaml:"conversions"`
}

// resultsFile is the YAML form accepted by --file.
type resultsFile struct {
	Control   ArmCounts `yaml:"control"`
	Treatment ArmCounts `yaml:"treatment"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	control, treatment, err := readCounts()
	if err != nil {
		return err
	}

	if analyzeFlags.alpha <= 0 || analyzeFlags.alpha >= 1 {
		return cli.NewFlagError("alpha", fmt.Sprint(analyzeFlags.alpha), "must be in (0, 1)")
	}

	analyzer := stats.Analyzer{Alpha: analyzeFlags.alpha}
	result := analyzer.CalculateSignificance(
		stats.VariantMetrics{Visitors: control.Visitors, Conversions: control.Conversions},
		stats.VariantMetrics{Visitors: treatment.Visitors, Conversions: treatment.Conversions},
	)

	report := &AnalysisReport{
		Control:       control,
		Treatment:     treatment,
		Alpha:         analyzeFlags.alpha,
		ControlRate:   result.ControlRate,
		TreatmentRate: result.TreatmentRate,
		ZScore:        result.ZScore,
		PValue:        result.PValue,
		RelativeLift:  result.RelativeLift,
		Confidence:    result.Confidence,
		IsSignificant: result.IsSignificant,
	}

	if analyzeFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, report)
	}

	printAnalysisReport(report)
	return nil
}

// readCounts resolves the two arm counts from --file or the inline flags.
// The file and inline forms are mutually exclusive.
func readCounts() (ArmCounts, ArmCounts, error) {
	var zero ArmCounts

	if analyzeFlags.file != "" {
		if analyzeFlags.control != "" || analyzeFlags.treatment != "" {
			return zero, zero, fmt.Errorf("--file cannot be combined with --control/--treatment")
		}

		data, err := os.ReadFile(analyzeFlags.file)
		if err != nil {
			return zero, zero, cli.NewCommandError("analyze", err)
		}
		var file resultsFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return zero, zero, cli.NewCommandError("analyze", fmt.Errorf("failed to parse results file: %w", err))
		}
		return file.Control, file.Treatment, nil
	}

	if analyzeFlags.control == "" || analyzeFlags.treatment == "" {
		return zero, zero, fmt.Errorf("either --file or both --control and --treatment must be specified")
	}

	control, err := parseCounts("control", analyzeFlags.control)
	if err != nil {
		return zero, zero, err
	}
	treatment, err := parseCounts("treatment", analyzeFlags.treatment)
	if err != nil {
		return zero, zero, err
	}
	return control, treatment, nil
}

// parseCounts parses a "visitors:conversions" pair.
func parseCounts(flag, value string) (ArmCounts, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return ArmCounts{}, cli.NewFlagError(flag, value, "expected visitors:conversions")
	}

	visitors, err := strconv.Atoi(parts[0])
	if err != nil {
		return ArmCounts{}, cli.NewFlagError(flag, value, "visitors must be an integer")
	}
	conversions, err := strconv.Atoi(parts[1])
	if err != nil {
		return ArmCounts{}, cli.NewFlagError(flag, value, "conversions must be an integer")
	}

	if visitors < 0 || conversions < 0 {
		return ArmCounts{}, cli.NewFlagError(flag, value, "counts must not be negative")
	}
	if conversions > visitors {
		return ArmCounts{}, cli.NewFlagError(flag, value, "conversions cannot exceed visitors")
	}

	return ArmCounts{Visitors: visitors, Conversions: conversions}, nil
}

func printAnalysisReport(report *AnalysisReport) {
	fmt.Println("Significance Analysis")
	fmt.Println("=====================")
	fmt.Printf("Control:    %d visitors, %d conversions (%.2f%%)\n",
		report.Control.Visitors, report.Control.Conversions, report.ControlRate*100)
	fmt.Printf("Treatment:  %d visitors, %d conversions (%.2f%%)\n",
		report.Treatment.Visitors, report.Treatment.Conversions, report.TreatmentRate*100)
	fmt.Println()

	fmt.Printf("Z-Score:       %.4f\n", report.ZScore)
	fmt.Printf("P-Value:       %.4f\n", report.PValue)
	fmt.Printf("Lift:          %+.1f%%\n", report.RelativeLift)
	fmt.Printf("Confidence:    %.1f%%\n", report.Confidence)
	fmt.Println()

	if report.IsSignificant {
		fmt.Printf("Result: SIGNIFICANT at alpha %.2g\n", report.Alpha)
	} else {
		fmt.Printf("Result: not significant at alpha %.2g\n", report.Alpha)
	}
}
