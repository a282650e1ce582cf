package cookiestore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// The extractor only trusts cookies scoped to the site itself. Help and
// other subdomains carry their own sessions and are excluded on purpose.
var goodreadsHosts = []string{".goodreads.com", "www.goodreads.com"}

// Cookie is one row read from the browser's cookie store.
type Cookie struct {
	Host  string
	Name  string
	Value string
}

func readSiteCookies(ctx context.Context, db *sql.DB, hosts []string) ([]Cookie, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(hosts)), ",")
	query := `SELECT host, name, value FROM moz_cookies WHERE host IN (` + placeholders + `) ORDER BY name ASC`

	args := make([]any, len(hosts))
	for i, h := range hosts {
		args[i] = h
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Cookie
	for rows.Next() {
		var c Cookie
		if err := rows.Scan(&c.Host, &c.Name, &c.Value); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Header joins cookies as "name=value" pairs separated by "; ",
// sorted by name ascending.
func Header(cookies []Cookie) string {
	sorted := make([]Cookie, len(cookies))
	copy(sorted, cookies)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	pairs := make([]string, 0, len(sorted))
	for _, c := range sorted {
		pairs = append(pairs, fmt.Sprintf("%s=%s", c.Name, c.Value))
	}
	return strings.Join(pairs, "; ")
}

// CountPairs reports how many cookies a Header-assembled string carries.
func CountPairs(header string) int {
	if header == "" {
		return 0
	}
	return len(strings.Split(header, "; "))
}

// lookupUserID recovers the Goodreads user id from the "u" cookie on any
// host ending in goodreads.com. The lookup is best effort: query errors
// and absent rows both yield ok=false, never an error.
func lookupUserID(ctx context.Context, db *sql.DB) (string, bool) {
	var value string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM moz_cookies WHERE name = 'u' AND host LIKE '%goodreads.com' LIMIT 1`,
	).Scan(&value)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}
