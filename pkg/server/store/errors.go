package store

import "errors"

// ErrNotFound is returned when the requested row doesn't exist
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a uniqueness rule
var ErrConflict = errors.New("conflict")

// ListOptions bounds list queries. A zero Limit means no limit.
type ListOptions struct {
	Limit  int
	Offset int
}
