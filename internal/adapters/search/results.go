package search

import "github.com/okian/replay/internal/domain/model"

// EventResult is one ranked candidate event. The event payload is trimmed
// to key players so result lists stay light.
type EventResult struct {
	model.EventKey
	Event      model.Event `json:"event"`
	Similarity float64     `json:"similarity"`
}

// SequenceResult is the common core of a ranked candidate sequence.
type SequenceResult struct {
	model.Key
	TeamID        string        `json:"teamId"`
	Time          string        `json:"time"`
	SetpieceLabel string        `json:"setpiece"`
	EventCount    int           `json:"eventCount"`
	Events        []model.Event `json:"events"`
	Similarity    float64       `json:"similarity"`
}

// AlignedResult is a candidate ranked by alignment distance.
type AlignedResult struct {
	SequenceResult
	Distance float64    `json:"distance"`
	Path     model.Path `json:"alignmentPath"`
}

// HybridResult is a candidate ranked by the blended score. Path is only
// present when the alignment branch saw the candidate.
type HybridResult struct {
	SequenceResult
	DTWSimilarity     float64    `json:"dtwSimilarity"`
	LexicalSimilarity float64    `json:"lexicalSimilarity"`
	Path              model.Path `json:"alignmentPath,omitempty"`
}
