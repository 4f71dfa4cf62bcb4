// Package synthlog generates synthetic combat logs and drives them through
// a running analysis service end to end.
package synthlog

import "time"

// Config controls generation and submission.
type Config struct {
	// BaseURL of the analysis service, e.g. http://localhost:9090.
	BaseURL string

	// Profile submitted with the log.
	Profile string

	// DurationMS is the encounter length in milliseconds.
	DurationMS int64

	// Seed makes generation reproducible.
	Seed int64

	// MalformedEvery injects one malformed event per N valid ones; zero
	// disables injection.
	MalformedEvery int

	// OutputFile, when set, writes the payload to disk instead of
	// submitting it.
	OutputFile string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// PollInterval and PollTimeout bound the wait for the report.
	PollInterval time.Duration
	PollTimeout  time.Duration
}
