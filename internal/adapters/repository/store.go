// Package repository loads corpus match files and serves normalized
// sequences, goals, and match metadata.
package repository

import (
	"context"

	"github.com/okian/replay/internal/domain/model"
)

// Store provides read access to the normalized corpus.
type Store interface {
	// Matches returns header metadata for every readable match in the
	// corpus, sorted by date ascending.
	Matches(ctx context.Context) ([]model.MatchInfo, error)

	// Metadata returns header metadata for one match.
	// Returns ErrMatchNotFound if the match id is unknown.
	Metadata(ctx context.Context, matchID string) (model.MatchInfo, error)

	// Sequences returns the possession sequences of one match, ordered as
	// first encountered in the event feed.
	// Returns ErrMatchNotFound if the match id is unknown.
	Sequences(ctx context.Context, matchID string) ([]model.Sequence, error)

	// Goals returns the goals of one match with their build-up context.
	// Returns ErrMatchNotFound if the match id is unknown.
	Goals(ctx context.Context, matchID string) ([]model.Goal, error)
}
