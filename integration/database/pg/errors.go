package pg

import "errors"

// Domain-specific PostgreSQL errors. Use errors.Is() to classify failures.
var (
	ErrEmptyConnectionString    = errors.New("empty postgres connection string")
	ErrFailedToParseDBConfig    = errors.New("failed to parse database connection config")
	ErrFailedToOpenDBConnection = errors.New("failed to open database connection")
	ErrHealthcheckFailed        = errors.New("postgres healthcheck failed")
)
