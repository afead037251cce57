package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"arbiter-hq/arbiter/pkg/catalog"
	"arbiter-hq/arbiter/pkg/cli"
	"arbiter-hq/arbiter/pkg/ratelimit"
	"arbiter-hq/arbiter/pkg/ratelimit/ledger"
)

var checkFlags struct {
	catalogPath string
	operation   string
	user        string
	count       int
	interval    time.Duration
	predict     int
	format      string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Simulate rate-limit traffic for an operation",
	Long: `Simulate a stream of requests against a catalog's rate limits.

The check command replays N requests for one operation, spaced by a fixed
interval on a simulated clock, and reports what a caller would have seen:
how many requests were allowed, when the first denial happened, the final
quota projection, burst analysis, and an availability forecast.

The simulation runs entirely in memory against a fresh ledger. No real time
passes and no state is persisted.

Examples:
  # 20 requests, 50ms apart
  arbiter check --catalog arbiter.catalog.yaml --operation api_call

  # Hammer an operation to see the window fill
  arbiter check --catalog arbiter.catalog.yaml --operation reviews.create --count 50 --interval 10ms

  # JSON output
  arbiter check --catalog arbiter.catalog.yaml --operation api_call --format json`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkFlags.catalogPath, "catalog", "arbiter.catalog.yaml", "catalog file")
	checkCmd.Flags().StringVarP(&checkFlags.operation, "operation", "o", "", "operation to simulate (required)")
	checkCmd.Flags().StringVarP(&checkFlags.user, "user", "u", "cli-user", "user id to simulate as")
	checkCmd.Flags().IntVar(&checkFlags.count, "count", 20, "number of requests to simulate")
	checkCmd.Flags().DurationVar(&checkFlags.interval, "interval", 50*time.Millisecond, "simulated gap between requests")
	checkCmd.Flags().IntVar(&checkFlags.predict, "predict", 1, "forecast availability for this many slots")
	checkCmd.Flags().StringVar(&checkFlags.format, "format", "text", "output format: text, json")
	_ = checkCmd.MarkFlagRequired("operation")
}

// CheckReport is the outcome of a simulated traffic run.
type CheckReport struct {
	Operation   string                          `json:"operation"`
	UserID      string                          `json:"user_id"`
	Requested   int                             `json:"requested"`
	Allowed     int                             `json:"allowed"`
	Denied      int                             `json:"denied"`
	FirstDenial int                             `json:"first_denial,omitempty"`
	Unlimited   bool                            `json:"unlimited,omitempty"`
	Quota       *ratelimit.QuotaStatus          `json:"quota,omitempty"`
	Burst       *ratelimit.BurstAnalysis        `json:"burst,omitempty"`
	Forecast    *ratelimit.AvailabilityForecast `json:"forecast,omitempty"`
}

// simClock is a manually advanced clock. The simulation drives the ledger
// and limiter off it so a long request stream replays instantly.
type simClock struct {
	now time.Time
}

func (c *simClock) Now() time.Time {
	return c.now
}

func (c *simClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkFlags.count <= 0 {
		return cli.NewFlagError("count", fmt.Sprint(checkFlags.count), "must be positive")
	}
	if checkFlags.interval <= 0 {
		return cli.NewFlagError("interval", checkFlags.interval.String(), "must be positive")
	}

	c, err := catalog.Load(checkFlags.catalogPath)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	report, err := simulateTraffic(context.Background(), c)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	if checkFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, report)
	}

	printCheckReport(report)
	return nil
}

func simulateTraffic(ctx context.Context, c *catalog.Catalog) (*CheckReport, error) {
	clock := &simClock{now: time.Now().UTC()}

	lg := ledger.NewMemoryLedgerWithConfig(ledger.MemoryLedgerConfig{Now: clock.Now})
	defer lg.Close()

	limiter := ratelimit.NewLimiter(lg, ratelimit.Config{Now: clock.Now})

	report := &CheckReport{
		Operation: checkFlags.operation,
		UserID:    checkFlags.user,
		Requested: checkFlags.count,
	}

	for i := 1; i <= checkFlags.count; i++ {
		perm, err := limiter.CanPerform(ctx, checkFlags.operation, checkFlags.user, c.RateLimits)
		if err != nil {
			return nil, err
		}
		report.Unlimited = perm.Unlimited

		if perm.Allowed {
			if _, err := lg.Record(ctx, checkFlags.operation, checkFlags.user); err != nil {
				return nil, err
			}
			report.Allowed++
		} else {
			if report.FirstDenial == 0 {
				report.FirstDenial = i
			}
			report.Denied++
		}

		clock.advance(checkFlags.interval)
	}

	quota, err := limiter.QuotaStatus(ctx, checkFlags.user, c.RateLimits)
	if err != nil {
		return nil, err
	}
	report.Quota = quota

	burst, err := limiter.DetectBurst(ctx, checkFlags.operation, checkFlags.user, ratelimit.BurstOptions{})
	if err != nil {
		return nil, err
	}
	report.Burst = burst

	forecast, err := limiter.PredictAvailability(ctx, checkFlags.operation, checkFlags.user, checkFlags.predict, c.RateLimits)
	if err != nil {
		return nil, err
	}
	report.Forecast = forecast

	return report, nil
}

func printCheckReport(report *CheckReport) {
	fmt.Println("Rate Limit Simulation")
	fmt.Println("=====================")
	fmt.Printf("Operation: %s\n", report.Operation)
	fmt.Printf("User:      %s\n", report.UserID)
	fmt.Printf("Requests:  %d, %s apart\n", report.Requested, checkFlags.interval)
	fmt.Println()

	if report.Unlimited {
		fmt.Println("Operation has no configured limit; every request is allowed.")
		return
	}

	fmt.Println("Results:")
	fmt.Println("--------")
	fmt.Printf("Allowed:      %d\n", report.Allowed)
	fmt.Printf("Denied:       %d\n", report.Denied)
	if report.FirstDenial > 0 {
		fmt.Printf("First denial: request #%d\n", report.FirstDenial)
	}

	if report.Quota != nil {
		fmt.Println()
		fmt.Println("Quota:")
		for _, q := range report.Quota.Quotas {
			fmt.Printf("  %-24s %d/%d used, %d remaining (window %s)\n",
				q.Operation, q.Used, q.Limit, q.Remaining, q.Window)
		}
	}

	if report.Burst != nil {
		fmt.Println()
		fmt.Println("Burst Analysis:")
		fmt.Printf("  Sample:         %d request(s)\n", report.Burst.SampleSize)
		if report.Burst.AvgInterval > 0 {
			fmt.Printf("  Avg interval:   %s (threshold %s)\n", report.Burst.AvgInterval, report.Burst.MinInterval)
		}
		fmt.Printf("  Burst detected: %v\n", report.Burst.IsBurst)
		fmt.Printf("  Recommendation: %s\n", report.Burst.Recommendation)
	}

	if report.Forecast != nil {
		fmt.Println()
		fmt.Println("Availability:")
		if report.Forecast.Available {
			fmt.Printf("  %d slot(s) available now\n", report.Forecast.RequestedCount)
		} else {
			fmt.Printf("  %d slot(s) available at %s\n",
				report.Forecast.RequestedCount, report.Forecast.AvailableAt.Format(time.RFC3339))
		}
	}
}
