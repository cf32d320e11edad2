package seeder

import "errors"

// Sentinel kinds for verification failures.
var (
	ErrVerificationFailed = errors.New("corpus verification failed")
	ErrNoResults          = errors.New("search returned no results")
	ErrWrongTopHit        = errors.New("top hit is not the seeded chain")
	ErrLowSimilarity      = errors.New("reflexive similarity below threshold")
)
