// Package goodreads reads Goodreads library-export CSVs and drives the
// site's authenticated export flow.
package goodreads

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Book is one row of a Goodreads export, reduced to the fields the
// downstream commands use.
type Book struct {
	ID                int64
	Title             string
	Author            string
	AdditionalAuthors string
	ISBN              string
	AverageRating     float64
	Pages             int64
	YearPublished     int64
	DateAdded         string
	Bookshelves       []string
	ExclusiveShelf    string
	PrivateNotes      string
}

// Authors returns the set used for fuzzy matching: the primary author
// plus the comma-split additional authors, empty entries dropped.
func (b Book) Authors() []string {
	var out []string
	for _, a := range append(strings.Split(b.AdditionalAuthors, ","), b.Author) {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// ReadShelf parses an export CSV and keeps the rows whose exclusive
// shelf contains shelfName. Malformed rows are skipped, not fatal.
func ReadShelf(path, shelfName string) ([]Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	books, err := parseShelf(f, shelfName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return books, nil
}

func parseShelf(r io.Reader, shelfName string) ([]Book, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read export header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["Title"]; !ok {
		return nil, errors.New("not a Goodreads export: no Title column")
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var out []Book
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, err
		}

		b := Book{
			Title:             field(record, "Title"),
			Author:            field(record, "Author"),
			AdditionalAuthors: field(record, "Additional Authors"),
			ISBN:              field(record, "ISBN"),
			DateAdded:         field(record, "Date Added"),
			ExclusiveShelf:    field(record, "Exclusive Shelf"),
			PrivateNotes:      field(record, "Private Notes"),
		}
		if b.Title == "" {
			continue
		}
		b.ID, _ = strconv.ParseInt(field(record, "Book Id"), 10, 64)
		b.AverageRating, _ = strconv.ParseFloat(field(record, "Average Rating"), 64)
		b.Pages, _ = strconv.ParseInt(field(record, "Number of Pages"), 10, 64)
		b.YearPublished, _ = strconv.ParseInt(field(record, "Year Published"), 10, 64)
		for _, shelf := range strings.Split(field(record, "Bookshelves"), ",") {
			if shelf = strings.TrimSpace(shelf); shelf != "" {
				b.Bookshelves = append(b.Bookshelves, shelf)
			}
		}

		if !strings.Contains(b.ExclusiveShelf, shelfName) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}
