/*
Package cli provides command-line interface utilities for Arbiter.

The cli package includes output formatters, progress reporters, and common CLI
helpers used by the arbiter command.

Output Formatting:

The cli package supports multiple output formats (text, JSON, CSV) for
displaying command results:

	formatter := cli.NewFormatter(cli.FormatJSON)
	result := AnalysisResult{...}
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

CSV output is for tabular results and takes [][]string rows:

	formatter := &cli.CSVFormatter{Headers: []string{"operation", "used", "limit"}}
	err := formatter.FormatTo(os.Stdout, rows)

Progress Reporting:

For long-running operations such as simulations, use the progress reporter:

	progress := cli.NewProgressReporter(os.Stdout, "Simulating")
	progress.Start(trials)
	for i := int64(0); i < trials; i++ {
		// Do work
		progress.Update(i + 1)
	}
	progress.Finish()

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM (used by the watch command):

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
