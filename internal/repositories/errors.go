package repositories

import "errors"

// ErrNotFound is wrapped by every repository when a lookup resolves no row,
// so callers can test with errors.Is instead of matching message strings.
var ErrNotFound = errors.New("record not found")
