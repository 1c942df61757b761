package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ternarybob/screener/internal/app"
	"github.com/ternarybob/screener/internal/report"
)

func newRegimeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "regime <bundle>",
		Short: "Classify the market regime from a bundle's market data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := openApp(app.Options{WithoutStorage: !config.Screener.Persist})
			if err != nil {
				return err
			}
			defer application.Close()

			b, err := application.ScreenerService.Loader().LoadFile(args[0])
			if err != nil {
				return err
			}

			market := b.BenchmarkSymbol(config.Screener.Benchmark)
			result, err := application.ScreenerService.ClassifyRegime(cmd.Context(), market, b.RegimeInputs())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprint(cmd.OutOrStdout(), report.RegimeMarkdown(result))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the classification as JSON")
	return cmd
}
