package repository

import "errors"

// Sentinel kinds for corpus access errors.
var (
	ErrMatchNotFound = errors.New("match not found")
	ErrNoCorpusDir   = errors.New("corpus directory not configured")
)
