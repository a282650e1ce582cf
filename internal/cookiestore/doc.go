// Package cookiestore extracts Goodreads session cookies from a local
// Firefox profile.
//
// This is intended for local tooling: it reads browser state on the
// operator's own machine and should not be used in server contexts. The
// cookie database is never opened in place; a private snapshot is copied
// to a temp directory and removed when extraction finishes.
package cookiestore
