package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ternarybob/screener/internal/app"
	"github.com/ternarybob/screener/internal/common"
)

func newWatchCmd() *cobra.Command {
	var (
		dir      string
		schedule string
		once     bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-screen a directory of bundles on a cron schedule",
		Long: `Watch scores every new or changed bundle in the input directory on the
configured schedule and writes reports for each batch. It runs once at
startup and then waits for the schedule until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if schedule != "" {
				if err := common.ValidateSchedule(schedule); err != nil {
					return err
				}
				config.Scheduler.Schedule = schedule
			}

			application, err := openApp(app.Options{WithoutStorage: !config.Screener.Persist})
			if err != nil {
				return err
			}
			defer application.Close()

			if _, err := application.RegisterWatchJob(dir); err != nil {
				return err
			}

			if err := application.SchedulerService.RunJob(app.WatchJobName); err != nil {
				logger.Warn().Err(err).Msg("Initial screen reported errors")
			}
			if once {
				return nil
			}

			if err := application.SchedulerService.Start(); err != nil {
				return err
			}
			if status, err := application.SchedulerService.GetJobStatus(app.WatchJobName); err == nil && status.NextRun != nil {
				logger.Info().
					Str("schedule", status.Schedule).
					Str("next_run", status.NextRun.Format("2006-01-02 15:04")).
					Msg("Watching - press Ctrl+C to stop")
			}

			<-cmd.Context().Done()
			logger.Info().Msg("Interrupt signal received")
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Bundle directory (defaults to scheduler.input_dir)")
	cmd.Flags().StringVar(&schedule, "schedule", "", "Cron expression (defaults to scheduler.schedule)")
	cmd.Flags().BoolVar(&once, "once", false, "Screen the directory once and exit")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			common.LoadVersionFromFile()
			fmt.Fprintf(cmd.OutOrStdout(), "Screener version %s\n", common.GetFullVersion())
		},
	}
}
