// Package libby talks to the Libby/OverDrive services: card sync, media
// search, and tag management.
package libby

import (
	"errors"
	"fmt"
	"strings"
)

// BookType selects the media format to search for.
type BookType string

const (
	// Audiobook is the default search format.
	Audiobook BookType = "audiobook"
	// Ebook searches ebook editions.
	Ebook BookType = "ebook"
)

// ParseBookType validates a --book-type flag value.
func ParseBookType(s string) (BookType, error) {
	switch BookType(strings.ToLower(strings.TrimSpace(s))) {
	case Audiobook:
		return Audiobook, nil
	case Ebook:
		return Ebook, nil
	default:
		return "", fmt.Errorf("unknown book type %q (want audiobook or ebook)", s)
	}
}

// Card is one library card on the account.
type Card struct {
	ID           string `json:"cardId"`
	AdvantageKey string `json:"advantageKey"`
	Name         string `json:"cardName"`
}

// TagInfo identifies a Libby tag.
type TagInfo struct {
	UUID string
	Name string
}

// TaggedBook is one existing tagging on a tag.
type TaggedBook struct {
	TitleID   string
	SortTitle string
}

// SearchItem is one media search result.
type SearchItem struct {
	ID                string     `json:"id"`
	IsAvailable       bool       `json:"isAvailable"`
	FirstCreatorName  string     `json:"firstCreatorName"`
	SortTitle         string     `json:"sortTitle"`
	EstimatedWaitDays *int64     `json:"estimatedWaitDays"`
	HoldsCount        *int64     `json:"holdsCount"`
	OwnedCopies       *int64     `json:"ownedCopies"`
	AvailableCopies   *int64     `json:"availableCopies"`
	Subjects          []subjectT `json:"subjects"`
}

type subjectT struct {
	Name string `json:"name"`
}

// SubjectNames flattens the subject list.
func (s SearchItem) SubjectNames() []string {
	out := make([]string, 0, len(s.Subjects))
	for _, sub := range s.Subjects {
		out = append(out, sub.Name)
	}
	return out
}

// ErrCardNotFound means chip/sync did not list the configured card.
var ErrCardNotFound = errors.New("card not found on this account")

// ErrTagNotFound means no tag carries the requested name.
var ErrTagNotFound = errors.New("tag not found")

// ErrBookNotFound means the media search produced no acceptable match.
var ErrBookNotFound = errors.New("book not found")
