package config

import "errors"

var (
	// ErrNilConfig is returned when Load receives a nil pointer.
	ErrNilConfig = errors.New("config: nil destination")

	// ErrParsingConfig wraps env parsing failures such as a missing required
	// variable or a malformed value.
	ErrParsingConfig = errors.New("config: failed to parse environment")
)
