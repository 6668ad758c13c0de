package api

import "errors"

// Sentinel errors surfaced by the HTTP layer.
var (
	// ErrBadRequest indicates a malformed or incomplete request.
	ErrBadRequest = errors.New("bad request")

	// ErrBackpressure indicates the fact queue rejected new work.
	ErrBackpressure = errors.New("fact queue is full")
)
