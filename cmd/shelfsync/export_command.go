package main

import (
	"time"

	"github.com/spf13/cobra"

	"shelfsync/internal/creds"
	"shelfsync/internal/goodreads"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var output string
	var pollInterval time.Duration
	var maxPollAttempts int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the Goodreads library export CSV",
		Long: `Requests a fresh library export using the saved session cookies,
polls until Goodreads has generated the CSV, and downloads it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.Export.Output
			}
			if pollInterval <= 0 {
				pollInterval = time.Duration(cfg.Export.PollIntervalSec) * time.Second
			}
			if maxPollAttempts <= 0 {
				maxPollAttempts = cfg.Export.MaxPollAttempts
			}
			logger := ctx.logger()

			gcfg, err := creds.LoadGoodreads(cfg.GoodreadsConfig)
			if err != nil {
				return err
			}

			exporter := goodreads.NewExporter(gcfg)
			err = exporter.Export(cmd.Context(), output, pollInterval, maxPollAttempts, logger.Infof)
			if err != nil {
				return err
			}
			logger.Infof("Wrote %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination CSV path (default from settings)")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 0, "Delay between readiness checks (default from settings)")
	cmd.Flags().IntVar(&maxPollAttempts, "max-poll-attempts", 0, "Readiness checks before giving up (default from settings)")

	return cmd
}
