package main

import (
	"github.com/spf13/cobra"

	"shelfsync/internal/browse"
	"shelfsync/internal/creds"
	"shelfsync/internal/goodreads"
	"shelfsync/internal/libby"
)

func newBrowseCommand(ctx *commandContext) *cobra.Command {
	var csvPath string
	var shelf string
	var tags []string
	var minPages, maxPages int64
	var concurrency int
	var output string
	var cachePath string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Render an HTML page of a shelf's Libby availability",
		Long: `Searches Libby for every ebook on a shelf of the exported CSV and
writes a self-contained HTML page with availability, wait times, and
Kindle support, sorted so the quickest reads come first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if csvPath == "" {
				csvPath = cfg.Export.Output
			}
			if concurrency <= 0 {
				concurrency = cfg.Browse.Concurrency
			}
			if cachePath == "" {
				cachePath = cfg.Browse.CacheFile
			}
			logger := ctx.logger()

			books, err := goodreads.ReadShelf(csvPath, shelf)
			if err != nil {
				return err
			}

			lcfg, err := creds.LoadLibby(cfg.LibbyConfig)
			if err != nil {
				return err
			}
			client := libby.NewClient(lcfg)
			if err := client.ResolveCard(cmd.Context()); err != nil {
				return err
			}

			results, notFound, err := browse.Run(cmd.Context(), client, books, browse.Options{
				Tags:        tags,
				MinPages:    minPages,
				MaxPages:    maxPages,
				Concurrency: concurrency,
				CachePath:   cachePath,
				Report:      logger.Infof,
			})
			if err != nil {
				return err
			}

			if err := browse.WriteHTML(output, results, notFound); err != nil {
				return err
			}
			logger.Infof("Wrote %s (%d books, %d not on Libby)", output, len(results), notFound)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Goodreads export CSV (default from settings)")
	cmd.Flags().StringVar(&shelf, "shelf", "to-read", "Exclusive shelf to take books from")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Keep only books carrying every listed bookshelf")
	cmd.Flags().Int64Var(&minPages, "min-pages", 0, "Minimum page count")
	cmd.Flags().Int64Var(&maxPages, "max-pages", 0, "Maximum page count")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Parallel Libby searches (default from settings)")
	cmd.Flags().StringVarP(&output, "output", "o", "browse.html", "Destination HTML path")
	cmd.Flags().StringVar(&cachePath, "cache", "", "Format cache path (default from settings)")

	return cmd
}
