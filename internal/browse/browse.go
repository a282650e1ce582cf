// Package browse searches a whole Goodreads shelf on Libby and renders a
// static HTML page for picking the next loan.
package browse

import (
	"context"
	"sort"
	"sync"

	"shelfsync/internal/goodreads"
	"shelfsync/internal/libby"
)

const kindleFormat = "ebook-kindle"

// searcher is the slice of the Libby client the browse flow uses.
type searcher interface {
	Search(ctx context.Context, opts libby.SearchOptions, title string, authors []string) (libby.SearchItem, error)
	Formats(ctx context.Context, titleID string) ([]string, error)
}

// Options tunes one browse run.
type Options struct {
	// Tags keeps only books carrying every listed bookshelf.
	Tags []string
	// MinPages/MaxPages bound the page count; zero means unbounded.
	MinPages int64
	MaxPages int64
	// Concurrency bounds the parallel Libby searches.
	Concurrency int
	// CachePath is the format cache location.
	CachePath string
	// Report receives progress lines. Nil discards them.
	Report func(format string, args ...any)
}

// Result is one row of the rendered page.
type Result struct {
	Title             string   `json:"title"`
	Author            string   `json:"author"`
	Pages             int64    `json:"pages"`
	GoodreadsShelves  []string `json:"goodreads_shelves"`
	LibbyID           string   `json:"libby_id"`
	GoodreadsID       int64    `json:"goodreads_id"`
	IsAvailable       bool     `json:"is_available"`
	EstimatedWaitDays *int64   `json:"estimated_wait_days"`
	HoldsCount        *int64   `json:"holds_count"`
	OwnedCopies       *int64   `json:"owned_copies"`
	AvailableCopies   *int64   `json:"available_copies"`
	HasKindle         bool     `json:"has_kindle"`
	Subjects          []string `json:"subjects"`
	AverageRating     float64  `json:"average_rating"`
	YearPublished     int64    `json:"year_published"`
	DateAdded         string   `json:"date_added"`
	PrivateNotes      string   `json:"private_notes"`
}

// Run searches every book on Libby, fills format info from the cache
// (fetching only uncached titles), and returns results sorted available
// first, then by page count ascending. Titles Libby does not carry are
// counted, not fatal.
func Run(ctx context.Context, api searcher, books []goodreads.Book, opts Options) ([]Result, int, error) {
	report := opts.Report
	if report == nil {
		report = func(string, ...any) {}
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 16
	}

	books = filterBooks(books, opts)
	report("Searching Libby for %d ebooks", len(books))

	type searchOutcome struct {
		book goodreads.Book
		item libby.SearchItem
		err  error
	}

	jobs := make(chan goodreads.Book, len(books))
	outcomes := make(chan searchOutcome, len(books))

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for book := range jobs {
				item, err := api.Search(ctx, libby.SearchOptions{Type: libby.Ebook}, book.Title, book.Authors())
				outcomes <- searchOutcome{book: book, item: item, err: err}
			}
		}()
	}
	for _, book := range books {
		jobs <- book
	}
	close(jobs)
	wg.Wait()
	close(outcomes)

	type found struct {
		book goodreads.Book
		item libby.SearchItem
	}
	var hits []found
	notFound := 0
	for outcome := range outcomes {
		if outcome.err != nil {
			notFound++
			continue
		}
		hits = append(hits, found{book: outcome.book, item: outcome.item})
	}
	report("Found %d of %d books in Libby (%d not found)", len(hits), len(books), notFound)

	cache := loadFormatCache(opts.CachePath)
	var uncached []string
	for _, h := range hits {
		if _, ok := cache.Entries[h.item.ID]; !ok {
			uncached = append(uncached, h.item.ID)
		}
	}
	if len(uncached) > 0 {
		report("Fetching format details for %d books", len(uncached))
		for _, id := range uncached {
			formats, err := api.Formats(ctx, id)
			if err != nil {
				continue
			}
			cache.Entries[id] = formats
		}
		if opts.CachePath != "" {
			if err := cache.save(opts.CachePath); err != nil {
				return nil, 0, err
			}
		}
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, Result{
			Title:             h.item.SortTitle,
			Author:            h.item.FirstCreatorName,
			Pages:             h.book.Pages,
			GoodreadsShelves:  h.book.Bookshelves,
			LibbyID:           h.item.ID,
			GoodreadsID:       h.book.ID,
			IsAvailable:       h.item.IsAvailable,
			EstimatedWaitDays: h.item.EstimatedWaitDays,
			HoldsCount:        h.item.HoldsCount,
			OwnedCopies:       h.item.OwnedCopies,
			AvailableCopies:   h.item.AvailableCopies,
			HasKindle:         hasFormat(cache.Entries[h.item.ID], kindleFormat),
			Subjects:          h.item.SubjectNames(),
			AverageRating:     h.book.AverageRating,
			YearPublished:     h.book.YearPublished,
			DateAdded:         h.book.DateAdded,
			PrivateNotes:      h.book.PrivateNotes,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].IsAvailable != results[j].IsAvailable {
			return results[i].IsAvailable
		}
		return pagesOrUnknown(results[i].Pages) < pagesOrUnknown(results[j].Pages)
	})

	return results, notFound, nil
}

func filterBooks(books []goodreads.Book, opts Options) []goodreads.Book {
	out := make([]goodreads.Book, 0, len(books))
	for _, b := range books {
		if !hasAllShelves(b.Bookshelves, opts.Tags) {
			continue
		}
		if opts.MinPages > 0 && b.Pages > 0 && b.Pages < opts.MinPages {
			continue
		}
		if opts.MaxPages > 0 && b.Pages > 0 && b.Pages > opts.MaxPages {
			continue
		}
		out = append(out, b)
	}
	return out
}

func hasAllShelves(shelves, wanted []string) bool {
	for _, w := range wanted {
		found := false
		for _, s := range shelves {
			if s == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func hasFormat(formats []string, want string) bool {
	for _, f := range formats {
		if f == want {
			return true
		}
	}
	return false
}

func pagesOrUnknown(pages int64) int64 {
	if pages <= 0 {
		return int64(1) << 62
	}
	return pages
}
