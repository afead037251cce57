package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"arbiter-hq/arbiter/pkg/assign"
	"arbiter-hq/arbiter/pkg/catalog"
	"arbiter-hq/arbiter/pkg/cli"
)

var assignFlags struct {
	catalogPath string
	user        string
	experiment  string
	format      string
}

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Resolve variant and flag assignments for a user",
	Long: `Resolve experiment variants and feature flags for a user against a catalog.

Assignment is deterministic: the same user and catalog always resolve to the
same variants. The command answers "what would this user see" offline,
without touching any running system.

Examples:
  # All assignments for one user
  arbiter assign --catalog arbiter.catalog.yaml --user user-42

  # One experiment only
  arbiter assign --catalog arbiter.catalog.yaml --user user-42 --experiment checkout-flow

  # JSON output
  arbiter assign --catalog arbiter.catalog.yaml --user user-42 --format json`,
	RunE: runAssign,
}

func init() {
	rootCmd.AddCommand(assignCmd)

	assignCmd.Flags().StringVar(&assignFlags.catalogPath, "catalog", "arbiter.catalog.yaml", "catalog file")
	assignCmd.Flags().StringVarP(&assignFlags.user, "user", "u", "", "user id to resolve (required)")
	assignCmd.Flags().StringVarP(&assignFlags.experiment, "experiment", "e", "", "resolve a single experiment")
	assignCmd.Flags().StringVar(&assignFlags.format, "format", "text", "output format: text, json")
	_ = assignCmd.MarkFlagRequired("user")
}

// Assignment is one resolved experiment variant.
type Assignment struct {
	ExperimentID string         `json:"experiment_id"`
	VariantID    string         `json:"variant_id"`
	IsControl    bool           `json:"is_control"`
	Payload      map[string]any `json:"payload,omitempty"`
}

// FlagDecision is one resolved feature flag.
type FlagDecision struct {
	FlagID  string `json:"flag_id"`
	Enabled bool   `json:"enabled"`
}

// AssignReport is the full what-if resolution for one user.
type AssignReport struct {
	UserID      string         `json:"user_id"`
	Assignments []Assignment   `json:"assignments,omitempty"`
	Flags       []FlagDecision `json:"flags,omitempty"`
}

func runAssign(cmd *cobra.Command, args []string) error {
	c, err := catalog.Load(assignFlags.catalogPath)
	if err != nil {
		return cli.NewCommandError("assign", err)
	}

	report, err := buildAssignReport(c, assignFlags.user, assignFlags.experiment)
	if err != nil {
		return cli.NewCommandError("assign", err)
	}

	if assignFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, report)
	}

	printAssignReport(report)
	return nil
}

// buildAssignReport resolves every experiment and flag in id order, or a
// single named experiment when experimentID is non-empty.
func buildAssignReport(c *catalog.Catalog, userID, experimentID string) (*AssignReport, error) {
	assigner := assign.NewAssigner()
	report := &AssignReport{UserID: userID}

	if experimentID != "" {
		exp, ok := c.Experiments[experimentID]
		if !ok {
			return nil, fmt.Errorf("experiment %q not in catalog", experimentID)
		}
		report.Assignments = append(report.Assignments, resolveAssignment(assigner, userID, exp))
		return report, nil
	}

	expIDs := make([]string, 0, len(c.Experiments))
	for id := range c.Experiments {
		expIDs = append(expIDs, id)
	}
	sort.Strings(expIDs)
	for _, id := range expIDs {
		report.Assignments = append(report.Assignments, resolveAssignment(assigner, userID, c.Experiments[id]))
	}

	flagIDs := make([]string, 0, len(c.Flags))
	for id := range c.Flags {
		flagIDs = append(flagIDs, id)
	}
	sort.Strings(flagIDs)
	for _, id := range flagIDs {
		report.Flags = append(report.Flags, FlagDecision{
			FlagID:  id,
			Enabled: assigner.FlagEnabled(userID, c.Flags[id]),
		})
	}

	return report, nil
}

func resolveAssignment(a *assign.Assigner, userID string, exp catalog.Experiment) Assignment {
	v := a.GetVariant(userID, exp)
	return Assignment{
		ExperimentID: exp.ID,
		VariantID:    v.ID,
		IsControl:    v.ID == exp.ControlVariant().ID,
		Payload:      v.Payload,
	}
}

func printAssignReport(report *AssignReport) {
	fmt.Printf("Assignments for %s\n", report.UserID)
	fmt.Println("==================")

	if len(report.Assignments) > 0 {
		fmt.Println()
		fmt.Println("Experiments:")
		for _, a := range report.Assignments {
			marker := ""
			if a.IsControl {
				marker = " (control)"
			}
			fmt.Printf("  %-28s %s%s\n", a.ExperimentID, a.VariantID, marker)
		}
	}

	if len(report.Flags) > 0 {
		fmt.Println()
		fmt.Println("Feature Flags:")
		for _, f := range report.Flags {
			state := "off"
			if f.Enabled {
				state = "on"
			}
			fmt.Printf("  %-28s %s\n", f.FlagID, state)
		}
	}

	if len(report.Assignments) == 0 && len(report.Flags) == 0 {
		fmt.Println()
		fmt.Println("Catalog has no experiments or feature flags.")
	}
}
