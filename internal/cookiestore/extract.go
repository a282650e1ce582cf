package cookiestore

import (
	"context"
	"fmt"
)

// Options configures Extract.
type Options struct {
	// ProfileRoot overrides the per-OS Firefox root discovery.
	ProfileRoot string

	// UserID skips user-id recovery entirely when non-empty.
	UserID string

	// Selector resolves multi-candidate discovery. Required when more
	// than one cookie database exists.
	Selector Selector

	// PromptUserID is consulted when no --user-id was given and the "u"
	// cookie lookup comes up empty. Nil means no interactive fallback.
	PromptUserID func() (string, error)

	// Hosts overrides the recognized cookie hosts. Tests point this at
	// fixture domains; the default is the Goodreads pair.
	Hosts []string

	// Report receives operator-facing progress lines. Nil discards them.
	Report func(format string, args ...any)
}

// Result is what Extract hands back for persisting.
type Result struct {
	UserID   string
	Header   string
	Database Candidate
}

// Extract runs the whole procedure: discover candidate databases, select
// one, snapshot it, read the site cookies and assemble the header, then
// settle on a user id. It fails before producing a Result whenever a
// fatal condition from the error taxonomy holds, so callers can write
// the config file only on success.
func Extract(ctx context.Context, opts Options) (Result, error) {
	report := opts.Report
	if report == nil {
		report = func(string, ...any) {}
	}
	hosts := opts.Hosts
	if len(hosts) == 0 {
		hosts = goodreadsHosts
	}

	candidates, err := Discover(opts.ProfileRoot)
	if err != nil {
		return Result{}, err
	}

	idx := 0
	if len(candidates) > 1 {
		if opts.Selector == nil {
			return Result{}, fmt.Errorf("%d cookie databases found and no selector configured", len(candidates))
		}
		idx, err = opts.Selector.Choose(candidates)
		if err != nil {
			return Result{}, err
		}
	}
	selected := candidates[idx]
	report("Using cookie database %s (%s)", selected.Path, selected.Profile)

	snap, cleanup, err := snapshot(selected.Path)
	if err != nil {
		return Result{}, fmt.Errorf("snapshot cookie database: %w", err)
	}
	defer cleanup()

	db, err := openSnapshotDB(ctx, snap)
	if err != nil {
		return Result{}, fmt.Errorf("open cookie snapshot: %w", err)
	}
	defer func() { _ = db.Close() }()

	cookies, err := readSiteCookies(ctx, db, hosts)
	if err != nil {
		return Result{}, fmt.Errorf("read cookies: %w", err)
	}
	if len(cookies) == 0 {
		return Result{}, fmt.Errorf("%w: no Goodreads cookies in %s; sign in to the site in Firefox first", ErrNotFound, selected.Path)
	}

	header := Header(cookies)
	report("Found %d cookies", CountPairs(header))

	userID := opts.UserID
	if userID == "" {
		if id, ok := lookupUserID(ctx, db); ok {
			userID = id
			report("Recovered user id %s from the browser session", userID)
		}
	}
	if userID == "" && opts.PromptUserID != nil {
		userID, err = opts.PromptUserID()
		if err != nil {
			return Result{}, err
		}
	}
	if userID == "" {
		return Result{}, fmt.Errorf("%w: no user id; pass --user-id or look it up on https://www.goodreads.com/review/import", ErrConfiguration)
	}

	return Result{UserID: userID, Header: header, Database: selected}, nil
}
