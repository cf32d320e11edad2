package lexical

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNotFitted = errors.New("vectorizer not fitted")
)
