package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/screener/internal/app"
	"github.com/ternarybob/screener/internal/common"
)

var (
	// Command-line flags
	configFiles []string
	flags       common.FlagOverrides
	quiet       bool

	// Global state, resolved in PersistentPreRunE
	config *common.Config
	logger arbor.ILogger
)

func main() {
	defer common.RecoverWithCrashFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "screener",
		Short:   "Score equities from technical, fundamental and analyst signals",
		Version: common.GetFullVersion(),
		Long: `Screener scores equities from bundles of market data.

Each symbol receives a 0-100 composite built from capped technical,
fundamental and analyst signals, a momentum read and relative strength
against a benchmark. The market regime (GO / CAUTION / NO_TRADE) is
classified alongside every batch.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringSliceVarP(&configFiles, "config", "c", nil, "Configuration file path (repeatable, later files override earlier ones)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.DBPath, "db", "", "Badger database directory")
	pf.StringVar(&flags.Benchmark, "benchmark", "", "Benchmark symbol for relative strength")
	pf.IntVarP(&flags.Concurrency, "workers", "w", 0, "Number of symbols evaluated concurrently")
	pf.StringVar(&flags.ReportDir, "report-dir", "", "Directory for written reports")
	pf.BoolVar(&flags.NoPersist, "no-persist", false, "Do not store evaluations or regime snapshots")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Do not print the banner")

	rootCmd.AddCommand(
		newScoreCmd(),
		newRegimeCmd(),
		newHistoryCmd(),
		newPruneCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// setup runs the startup sequence: config files, env, flags, logger, banner.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	if len(configFiles) == 0 {
		for _, candidate := range []string{"screener.toml", "deployments/local/screener.toml"} {
			if _, err := os.Stat(candidate); err == nil {
				configFiles = append(configFiles, candidate)
				break
			}
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	common.ApplyFlagOverrides(config, flags)
	if err := config.Validate(); err != nil {
		return err
	}

	logger = common.InitLogger(config)
	if !quiet {
		common.PrintBanner(config)
	}

	logger.Debug().
		Strs("config_files", configFiles).
		Str("log_level", config.Logging.Level).
		Str("db", config.Storage.Badger.Path).
		Bool("persist", config.Screener.Persist).
		Msg("Resolved configuration")
	return nil
}

// openApp builds the application for a command.
func openApp(opts app.Options) (*app.App, error) {
	return app.New(config, logger, opts)
}
