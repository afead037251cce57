package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"arbiter-hq/arbiter/pkg/bandit"
	"arbiter-hq/arbiter/pkg/cli"
)

var simulateFlags struct {
	arms   []string
	trials int64
	seed   int64
	format string
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate Thompson Sampling over experiment arms",
	Long: `Run repeated Thompson Sampling draws and report how traffic distributes.

Each arm is given as id:successes:failures. Every trial samples each arm's
Beta posterior and selects the largest draw; the selection share shows how
strongly the sampler favors the better-performing arms while still
exploring the rest.

Examples:
  # Two arms with observed outcomes
  arbiter simulate --arm checkout-a:120:880 --arm checkout-b:150:850

  # More trials, reproducible seed
  arbiter simulate --arm a:10:90 --arm b:20:80 --trials 100000 --seed 42

  # JSON output
  arbiter simulate --arm a:10:90 --arm b:20:80 --format json`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringArrayVar(&simulateFlags.arms, "arm", nil, "arm as id:successes:failures (repeatable)")
	simulateCmd.Flags().Int64Var(&simulateFlags.trials, "trials", 10000, "number of selection trials")
	simulateCmd.Flags().Int64Var(&simulateFlags.seed, "seed", 0, "random seed (0 seeds from the clock)")
	simulateCmd.Flags().StringVar(&simulateFlags.format, "format", "text", "output format: text, json")
}

// ArmShare is one arm's selection outcome.
type ArmShare struct {
	ID        string  `json:"id"`
	Successes int     `json:"successes"`
	Failures  int     `json:"failures"`
	Selected  int64   `json:"selected"`
	Share     float64 `json:"share"`
}

// SimulationReport summarizes a Thompson Sampling run.
type SimulationReport struct {
	Trials int64      `json:"trials"`
	Seed   int64      `json:"seed"`
	Arms   []ArmShare `json:"arms"`
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if len(simulateFlags.arms) == 0 {
		return fmt.Errorf("at least one --arm is required")
	}
	if simulateFlags.trials <= 0 {
		return cli.NewFlagError("trials", fmt.Sprint(simulateFlags.trials), "must be positive")
	}

	arms := make([]bandit.Arm, 0, len(simulateFlags.arms))
	for _, spec := range simulateFlags.arms {
		arm, err := parseArm(spec)
		if err != nil {
			return err
		}
		arms = append(arms, arm)
	}

	seed := simulateFlags.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var progress cli.ProgressReporter
	if simulateFlags.format != "json" {
		progress = cli.NewProgressReporter(nil, "Simulating")
	}

	report := runTrials(arms, simulateFlags.trials, seed, progress)

	if simulateFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, report)
	}

	printSimulationReport(report)
	return nil
}

// parseArm parses an "id:successes:failures" arm spec.
func parseArm(spec string) (bandit.Arm, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return bandit.Arm{}, cli.NewFlagError("arm", spec, "expected id:successes:failures")
	}
	if parts[0] == "" {
		return bandit.Arm{}, cli.NewFlagError("arm", spec, "arm id must not be empty")
	}

	successes, err := strconv.Atoi(parts[1])
	if err != nil || successes < 0 {
		return bandit.Arm{}, cli.NewFlagError("arm", spec, "successes must be a non-negative integer")
	}
	failures, err := strconv.Atoi(parts[2])
	if err != nil || failures < 0 {
		return bandit.Arm{}, cli.NewFlagError("arm", spec, "failures must be a non-negative integer")
	}

	return bandit.Arm{ID: parts[0], Successes: successes, Failures: failures}, nil
}

// runTrials draws trials selections and tallies them per arm. Progress may
// be nil.
func runTrials(arms []bandit.Arm, trials, seed int64, progress cli.ProgressReporter) *SimulationReport {
	selector := bandit.NewSelector(bandit.NewSampler(rand.New(rand.NewSource(seed))))

	counts := make(map[string]int64, len(arms))

	if progress != nil {
		progress.Start(trials)
	}
	step := trials / 100
	if step < 1 {
		step = 1
	}

	for i := int64(0); i < trials; i++ {
		counts[selector.Select(arms).ID]++
		if progress != nil && (i+1)%step == 0 {
			progress.Update(i + 1)
		}
	}
	if progress != nil {
		progress.Finish()
	}

	report := &SimulationReport{Trials: trials, Seed: seed}
	for _, arm := range arms {
		report.Arms = append(report.Arms, ArmShare{
			ID:        arm.ID,
			Successes: arm.Successes,
			Failures:  arm.Failures,
			Selected:  counts[arm.ID],
			Share:     float64(counts[arm.ID]) / float64(trials) * 100,
		})
	}
	return report
}

func printSimulationReport(report *SimulationReport) {
	fmt.Println()
	fmt.Println("Thompson Sampling Simulation")
	fmt.Println("============================")
	fmt.Printf("Trials: %d\n", report.Trials)
	fmt.Printf("Seed:   %d\n", report.Seed)
	fmt.Println()

	fmt.Printf("%-20s %10s %10s %10s %10s %8s\n",
		"Arm", "Successes", "Failures", "Observed", "Selected", "Share")
	for _, arm := range report.Arms {
		observed := "-"
		if n := arm.Successes + arm.Failures; n > 0 {
			observed = fmt.Sprintf("%.1f%%", float64(arm.Successes)/float64(n)*100)
		}
		fmt.Printf("%-20s %10d %10d %10s %10d %7.1f%%\n",
			arm.ID, arm.Successes, arm.Failures, observed, arm.Selected, arm.Share)
	}
}
