package cookiestore

import "errors"

// ErrConfiguration marks a missing environment or required input: the
// Firefox profile root does not exist, or no user id could be determined.
var ErrConfiguration = errors.New("configuration error")

// ErrNotFound marks expected data absent from an otherwise reachable
// source: no cookie databases under the profile root, or no Goodreads
// cookies in the selected database.
var ErrNotFound = errors.New("not found")
