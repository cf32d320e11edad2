package index

import "errors"

// Sentinel kinds for snapshot lookups.
var (
	ErrSequenceNotFound = errors.New("sequence not found")
	ErrEventNotFound    = errors.New("event not found")
)
