package candidatedb

import "errors"

// ErrNotFound indicates the requested candidate does not exist.
var ErrNotFound = errors.New("candidate not found")
