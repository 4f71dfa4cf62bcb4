package app

import "errors"

// Sentinel error kinds for this package; callers branch with errors.Is.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrBackpressure = errors.New("queue full")
)
