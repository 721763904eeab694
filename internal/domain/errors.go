package domain

import "errors"

var (
	// ErrNotConfigured is returned by a source that needs an API key it was not
	// given. No network request is made.
	ErrNotConfigured = errors.New("source not configured")

	// ErrNoData is returned when a provider answered but the response held no
	// usable values (empty table, all-null grid, missing series).
	ErrNoData = errors.New("no data in response")
)
