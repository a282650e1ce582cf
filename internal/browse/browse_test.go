package browse

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"shelfsync/internal/goodreads"
	"shelfsync/internal/libby"
)

// fakeAPI serves canned search results keyed by title and records which
// titles had their formats fetched.
type fakeAPI struct {
	mu            sync.Mutex
	items         map[string]libby.SearchItem
	formats       map[string][]string
	formatFetches []string
}

func (f *fakeAPI) Search(_ context.Context, _ libby.SearchOptions, title string, _ []string) (libby.SearchItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[title]
	if !ok {
		return libby.SearchItem{}, fmt.Errorf("%w: %q", libby.ErrBookNotFound, title)
	}
	return item, nil
}

func (f *fakeAPI) Formats(_ context.Context, titleID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.formatFetches = append(f.formatFetches, titleID)
	return f.formats[titleID], nil
}

func TestRun_SortsAvailableFirstThenByPages(t *testing.T) {
	api := &fakeAPI{
		items: map[string]libby.SearchItem{
			"Long":    {ID: "1", SortTitle: "Long", IsAvailable: true},
			"Short":   {ID: "2", SortTitle: "Short", IsAvailable: true},
			"Waiting": {ID: "3", SortTitle: "Waiting", IsAvailable: false},
		},
		formats: map[string][]string{"2": {"ebook-kindle"}},
	}
	books := []goodreads.Book{
		{Title: "Long", Pages: 900},
		{Title: "Short", Pages: 120},
		{Title: "Waiting", Pages: 50},
		{Title: "Missing", Pages: 10},
	}

	results, notFound, err := Run(context.Background(), api, books, Options{
		Concurrency: 2,
		CachePath:   filepath.Join(t.TempDir(), "format_cache.json"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if notFound != 1 {
		t.Fatalf("notFound = %d, want 1", notFound)
	}

	var order []string
	for _, r := range results {
		order = append(order, r.Title)
	}
	if want := "Short,Long,Waiting"; strings.Join(order, ",") != want {
		t.Fatalf("order = %v, want %s", order, want)
	}
	if !results[0].HasKindle || results[1].HasKindle {
		t.Fatalf("kindle flags = %v %v", results[0].HasKindle, results[1].HasKindle)
	}
}

func TestRun_FormatCacheSkipsKnownTitles(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "format_cache.json")
	api := &fakeAPI{
		items: map[string]libby.SearchItem{
			"A": {ID: "1", SortTitle: "A"},
			"B": {ID: "2", SortTitle: "B"},
		},
		formats: map[string][]string{"1": {"ebook-overdrive"}, "2": {"ebook-kindle"}},
	}
	books := []goodreads.Book{{Title: "A"}, {Title: "B"}}

	if _, _, err := Run(context.Background(), api, books, Options{CachePath: cachePath}); err != nil {
		t.Fatal(err)
	}
	if len(api.formatFetches) != 2 {
		t.Fatalf("first run fetched %d formats, want 2", len(api.formatFetches))
	}

	api.formatFetches = nil
	results, _, err := Run(context.Background(), api, books, Options{CachePath: cachePath})
	if err != nil {
		t.Fatal(err)
	}
	if len(api.formatFetches) != 0 {
		t.Fatalf("second run fetched %d formats, want 0", len(api.formatFetches))
	}
	// Cached formats still feed the kindle flag.
	for _, r := range results {
		if r.LibbyID == "2" && !r.HasKindle {
			t.Fatal("cached kindle format lost")
		}
	}
}

func TestRun_Filters(t *testing.T) {
	api := &fakeAPI{items: map[string]libby.SearchItem{
		"Tagged":  {ID: "1", SortTitle: "Tagged"},
		"Plain":   {ID: "2", SortTitle: "Plain"},
		"TooLong": {ID: "3", SortTitle: "TooLong"},
	}}
	books := []goodreads.Book{
		{Title: "Tagged", Pages: 200, Bookshelves: []string{"sci-fi", "favorites"}},
		{Title: "Plain", Pages: 200},
		{Title: "TooLong", Pages: 900, Bookshelves: []string{"sci-fi"}},
	}

	results, _, err := Run(context.Background(), api, books, Options{
		Tags:     []string{"sci-fi"},
		MaxPages: 500,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Title != "Tagged" {
		t.Fatalf("results = %+v", results)
	}
}

func TestRenderHTML(t *testing.T) {
	wait := int64(14)
	results := []Result{
		{Title: "Dune", Author: "Frank Herbert", GoodreadsID: 42, IsAvailable: true, HasKindle: true},
		{Title: "Piranesi", Author: "Susanna Clarke", EstimatedWaitDays: &wait},
	}

	html, err := RenderHTML(results, 3)
	if err != nil {
		t.Fatal(err)
	}
	page := string(html)
	for _, want := range []string{`"title":"Dune"`, `"estimated_wait_days":14`, "3 not on libby"} {
		if !strings.Contains(page, want) {
			t.Fatalf("rendered page missing %q", want)
		}
	}
}
