package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"arbiter-hq/arbiter/pkg/catalog"
	"arbiter-hq/arbiter/pkg/cli"
	"arbiter-hq/arbiter/pkg/config"
	"arbiter-hq/arbiter/pkg/telemetry/logging"
)

var watchFlags struct {
	catalogPath string
	debounce    time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a catalog file and revalidate on change",
	Long: `Run the catalog watcher in the foreground.

The watch command loads a catalog, then reloads it every time the file
changes, logging each outcome. A change that fails validation keeps the
previous catalog active, exactly as an embedded engine would behave, which
makes this a quick feedback loop while authoring catalogs.

The catalog path is taken from --catalog when given, otherwise from the
config file. Press Ctrl-C to stop.

Examples:
  # Watch a catalog directly
  arbiter watch --catalog arbiter.catalog.yaml

  # Watch the catalog named by a config file
  arbiter watch --config arbiter.yaml

  # Slower debounce for deploy tooling that writes in several steps
  arbiter watch --catalog arbiter.catalog.yaml --debounce 500ms`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.catalogPath, "catalog", "", "catalog file to watch")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 0, "quiet period before a reload fires")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadWatchConfig(cmd)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	path := cfg.Catalog.Path
	if watchFlags.catalogPath != "" {
		path = watchFlags.catalogPath
	}
	debounce := cfg.Catalog.DebounceInterval
	if watchFlags.debounce > 0 {
		debounce = watchFlags.debounce
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{Level: level, Format: "console"})
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	// Start from whatever currently parses; an invalid file leaves the
	// store empty until the author fixes it.
	store := catalog.NewStore(nil)
	if c, err := catalog.Load(path); err != nil {
		logger.Error("initial catalog load failed", "path", path, "error", err)
	} else {
		store.Swap(c)
		logger.Info("catalog loaded",
			"path", path,
			"rate_limits", len(c.RateLimits),
			"experiments", len(c.Experiments),
			"feature_flags", len(c.Flags),
		)
	}

	watcher, err := catalog.NewWatcher(store, catalog.WatcherConfig{
		Path:             path,
		DebounceInterval: debounce,
	}, logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer watcher.Stop()

	fmt.Printf("Watching %s (Ctrl-C to stop)\n", path)

	ctx := cli.SetupSignalHandler()
	return watcher.Watch(ctx)
}

// loadWatchConfig reads the config file named by --config. A missing file is
// only an error when the flag was set explicitly; otherwise defaults apply.
func loadWatchConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err == nil {
		return cfg, nil
	}

	explicit := cmd != nil && cmd.Root().PersistentFlags().Changed("config")
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return config.DefaultConfig(), nil
	}
	return nil, err
}
