package query

import "errors"

var (
	// ErrInvalidRequest marks a request the caller needs to fix: unknown
	// filter values, bad pagination, or no criteria at all.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnavailable means no dataset snapshot is loaded. The caller can
	// retry once a dataset has been published or reloaded.
	ErrUnavailable = errors.New("dataset unavailable")
)
