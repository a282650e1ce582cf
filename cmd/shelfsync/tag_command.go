package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"shelfsync/internal/creds"
	"shelfsync/internal/goodreads"
	"shelfsync/internal/libby"
)

func newTagCommand(ctx *commandContext) *cobra.Command {
	var tagName string
	var csvPath string
	var shelf string
	var bookType string
	var intersectCSV string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Tag a Goodreads shelf's books on Libby",
		Long: `Searches Libby for every book on a shelf of the exported CSV and adds
the matches to an existing Libby tag. Books already on the tag are
skipped, so the command is safe to rerun.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if csvPath == "" {
				csvPath = cfg.Export.Output
			}
			logger := ctx.logger()

			bt, err := libby.ParseBookType(bookType)
			if err != nil {
				return err
			}

			books, err := goodreads.ReadShelf(csvPath, shelf)
			if err != nil {
				return err
			}
			if intersectCSV != "" {
				other, err := goodreads.ReadShelf(intersectCSV, "")
				if err != nil {
					return err
				}
				books = intersectByTitle(books, other)
			}
			logger.Infof("Tagging %d books from shelf %q", len(books), shelf)

			lcfg, err := creds.LoadLibby(cfg.LibbyConfig)
			if err != nil {
				return err
			}
			client := libby.NewClient(lcfg)
			if err := client.ResolveCard(cmd.Context()); err != nil {
				return err
			}

			tag, err := client.TagByName(cmd.Context(), tagName)
			if err != nil {
				return err
			}
			existing, err := client.BooksForTag(cmd.Context(), tag)
			if err != nil {
				return err
			}
			taggedIDs := make(map[string]bool, len(existing))
			taggedTitles := make(map[string]bool, len(existing))
			for _, b := range existing {
				taggedIDs[b.TitleID] = true
				taggedTitles[strings.ToLower(b.SortTitle)] = true
			}

			var tagged, skipped, missing int
			for _, book := range books {
				if taggedTitles[strings.ToLower(book.Title)] {
					skipped++
					continue
				}
				item, err := client.Search(cmd.Context(), libby.SearchOptions{Type: bt}, book.Title, book.Authors())
				if errors.Is(err, libby.ErrBookNotFound) {
					logger.Warnf("Not on Libby: %s", book.Title)
					missing++
					continue
				}
				if err != nil {
					return err
				}
				if taggedIDs[item.ID] {
					skipped++
					continue
				}
				if dryRun {
					logger.Infof("Would tag: %s (%s)", item.SortTitle, item.ID)
					tagged++
					continue
				}
				if err := client.TagTitle(cmd.Context(), tag, item.ID); err != nil {
					return err
				}
				logger.Infof("Tagged: %s", item.SortTitle)
				tagged++
			}

			logger.Infof("Done: %d tagged, %d already tagged, %d not found", tagged, skipped, missing)
			return nil
		},
	}

	cmd.Flags().StringVar(&tagName, "tag", "to-read", "Existing Libby tag to add books to")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Goodreads export CSV (default from settings)")
	cmd.Flags().StringVar(&shelf, "shelf", "to-read", "Exclusive shelf to take books from")
	cmd.Flags().StringVar(&bookType, "book-type", "audiobook", "Format to search for (audiobook or ebook)")
	cmd.Flags().StringVar(&intersectCSV, "intersect-csv", "", "Keep only titles also present in this second export")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be tagged without tagging")

	return cmd
}

func intersectByTitle(books, other []goodreads.Book) []goodreads.Book {
	titles := make(map[string]bool, len(other))
	for _, b := range other {
		titles[strings.ToLower(b.Title)] = true
	}
	out := make([]goodreads.Book, 0, len(books))
	for _, b := range books {
		if titles[strings.ToLower(b.Title)] {
			out = append(out, b)
		}
	}
	return out
}
