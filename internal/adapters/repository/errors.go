package repository

import "errors"

// Sentinel kinds for report store errors.
var (
	ErrNotFound     = errors.New("report not found")
	ErrInvalidLimit = errors.New("invalid recent limit")
	ErrEmptyRunID   = errors.New("empty run id")
)
