package libby

import (
	"strings"

	"github.com/agext/levenshtein"
)

var levParams = levenshtein.NewParams()

// authorMatches accepts a search result whose creator is within edit
// distance 2 of any author on the book, ignoring case. An empty author
// set accepts anything.
func authorMatches(authors []string, creator string) bool {
	if len(authors) == 0 {
		return true
	}
	needle := strings.ToLower(strings.TrimSpace(creator))
	for _, a := range authors {
		if levenshtein.Distance(strings.ToLower(strings.TrimSpace(a)), needle, levParams) < 3 {
			return true
		}
	}
	return false
}

// trimSubtitle strips everything after the first ':' so a fruitless
// search can retry on the main title.
func trimSubtitle(title string) (string, bool) {
	head, _, found := strings.Cut(title, ":")
	head = strings.TrimSpace(head)
	return head, found && head != ""
}
