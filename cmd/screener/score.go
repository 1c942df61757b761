package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ternarybob/screener/internal/app"
	"github.com/ternarybob/screener/internal/ingest"
	"github.com/ternarybob/screener/internal/report"
	"github.com/ternarybob/screener/internal/services/screener"
)

func newScoreCmd() *cobra.Command {
	var (
		asJSON      bool
		top         int
		writeReport bool
		dir         string
	)

	cmd := &cobra.Command{
		Use:   "score [bundle...]",
		Short: "Score every ticker in one or more bundles",
		Long: `Score loads each bundle (JSON or YAML), evaluates its tickers across the
worker pool, ranks them by composite score and classifies the market regime.
Results are stored unless --no-persist is given.`,
		Example: `  screener score bundles/asx.yaml
  screener score --dir bundles --report
  screener score --json --top 10 watchlist.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if dir != "" {
				found, err := ingest.ListBundles(dir)
				if err != nil {
					return err
				}
				paths = append(paths, found...)
			}
			if len(paths) == 0 {
				return errors.New("no bundle files given")
			}

			application, err := openApp(app.Options{WithoutStorage: !config.Screener.Persist})
			if err != nil {
				return err
			}
			defer application.Close()

			var batches []*screener.Batch
			for _, path := range paths {
				batch, err := application.ScreenerService.EvaluateFile(cmd.Context(), path)
				if err != nil {
					return err
				}
				if top > 0 && len(batch.Evaluations) > top {
					batch.Evaluations = batch.Evaluations[:top]
				}
				batches = append(batches, batch)

				if writeReport {
					files, err := application.ReportWriter.WriteBatch(cmd.Context(), batch)
					if err != nil {
						return err
					}
					for _, f := range files {
						fmt.Fprintf(os.Stderr, "wrote %s\n", f)
					}
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(batches)
			}
			for _, batch := range batches {
				fmt.Fprint(cmd.OutOrStdout(), report.BatchMarkdown(batch))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print batches as JSON instead of markdown")
	cmd.Flags().IntVar(&top, "top", 0, "Only show the N highest-ranked symbols")
	cmd.Flags().BoolVar(&writeReport, "report", false, "Also write reports in the configured formats")
	cmd.Flags().StringVar(&dir, "dir", "", "Score every bundle in this directory")
	return cmd
}
