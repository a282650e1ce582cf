package goodreads

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const exportHeader = "Book Id,Title,Author,Additional Authors,ISBN,Average Rating,Number of Pages,Year Published,Date Added,Bookshelves,Exclusive Shelf,Private Notes\n"

func writeExport(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "goodreads_export.csv")
	if err := os.WriteFile(path, []byte(exportHeader+strings.Join(rows, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadShelf_FiltersByExclusiveShelf(t *testing.T) {
	path := writeExport(t,
		`1,Piranesi,Susanna Clarke,,9781635575637,4.26,245,2020,2024/01/02,"fantasy, to-read",to-read,`,
		`2,Dune,Frank Herbert,,9780441172719,4.27,412,1965,2024/01/03,sci-fi,read,`,
		`3,The Dispossessed,Ursula K. Le Guin,,9780060512750,4.25,387,1974,2024/01/04,sci-fi,to-read,`,
	)

	books, err := ReadShelf(path, "to-read")
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 2 {
		t.Fatalf("got %d books, want 2", len(books))
	}
	if books[0].Title != "Piranesi" || books[1].Title != "The Dispossessed" {
		t.Fatalf("books = %+v", books)
	}
	if books[0].Pages != 245 || books[0].YearPublished != 2020 {
		t.Fatalf("numeric fields = %+v", books[0])
	}
	if want := []string{"fantasy", "to-read"}; !reflect.DeepEqual(books[0].Bookshelves, want) {
		t.Fatalf("bookshelves = %v", books[0].Bookshelves)
	}
}

func TestReadShelf_SkipsMalformedRows(t *testing.T) {
	path := writeExport(t,
		`1,Piranesi,Susanna Clarke,,,"4.26",245,2020,2024/01/02,,to-read,`,
		`not-a-number,,,,,,,,,,to-read,`, // no title: skipped
		`2,Dune,Frank Herbert,,,4.27,notanumber,1965,2024/01/03,,to-read,`,
	)

	books, err := ReadShelf(path, "to-read")
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 2 {
		t.Fatalf("got %d books, want 2", len(books))
	}
	// Unparseable page count degrades to zero instead of dropping the row.
	if books[1].Title != "Dune" || books[1].Pages != 0 {
		t.Fatalf("books[1] = %+v", books[1])
	}
}

func TestReadShelf_RejectsNonExportFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.csv")
	if err := os.WriteFile(path, []byte("a,b,c\n1,2,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadShelf(path, "to-read"); err == nil {
		t.Fatal("expected error for a CSV without a Title column")
	}
}

func TestAuthors_MergesAdditionalAuthors(t *testing.T) {
	b := Book{Author: "Terry Pratchett", AdditionalAuthors: "Neil Gaiman, , Stephen Briggs"}
	want := []string{"Neil Gaiman", "Stephen Briggs", "Terry Pratchett"}
	if got := b.Authors(); !reflect.DeepEqual(got, want) {
		t.Fatalf("authors = %v, want %v", got, want)
	}
}
