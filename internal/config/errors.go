package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() to tell which setting is wrong.
var (
	// ErrInvalidSampleSize is returned when the number of mock followers is not positive.
	ErrInvalidSampleSize = errors.New("invalid sample size: must be positive")

	// ErrInvalidConcurrency is returned when the scoring concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidLoginDelay is returned when the simulated login delay is negative.
	// Use 0 to log in immediately.
	ErrInvalidLoginDelay = errors.New("invalid login delay: must be non-negative")

	// ErrInvalidRedisURL is returned when the Redis URL is not a redis:// or rediss:// URL.
	ErrInvalidRedisURL = errors.New("invalid redis url: must start with redis:// or rediss://")

	// ErrEmptyServerAddr is returned when the HTTP API address is empty.
	ErrEmptyServerAddr = errors.New("invalid server address: must not be empty")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
