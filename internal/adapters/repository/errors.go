package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrOutOfOrder    = errors.New("fact out of chronological order")
	ErrMissingFields = errors.New("fact missing competitor or tournament id")
)
