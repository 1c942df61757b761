package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ternarybob/screener/internal/app"
	"github.com/ternarybob/screener/internal/common"
	"github.com/ternarybob/screener/internal/report"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit  int
		market bool
	)

	cmd := &cobra.Command{
		Use:   "history <symbol>",
		Short: "Show stored evaluations for a symbol, or regimes with --market",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := openApp(app.Options{})
			if err != nil {
				return err
			}
			defer application.Close()

			if market {
				recs, err := application.ScreenerService.RegimeHistory(cmd.Context(), args[0], limit)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), report.RegimeHistoryMarkdown(args[0], recs))
				return nil
			}

			symbol := common.ParseTicker(args[0], config.Screener.DefaultExchange).String()
			evs, err := application.ScreenerService.History(cmd.Context(), symbol, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.HistoryMarkdown(symbol, evs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum records to show (0 for all)")
	cmd.Flags().BoolVar(&market, "market", false, "Treat the argument as a benchmark and list regime snapshots")
	return cmd
}

func newPruneCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete stored evaluations older than a duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}

			application, err := openApp(app.Options{})
			if err != nil {
				return err
			}
			defer application.Close()

			cutoff := time.Now().Add(-olderThan)
			n, err := application.StorageManager.EvaluationStorage().DeleteBefore(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d evaluations older than %s\n", n, cutoff.Format(time.RFC3339))
			if n == 0 {
				return nil
			}
			if _, err := application.StorageManager.Compact(); err != nil {
				logger.Warn().Err(err).Msg("Compaction after prune failed")
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 90*24*time.Hour, "Age beyond which evaluations are deleted")
	return cmd
}
