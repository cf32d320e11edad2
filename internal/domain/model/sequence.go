package model

import "fmt"

// Sequence is one possession chain: the consecutive events sharing a
// sequence number within a match.
type Sequence struct {
	MatchID       string  `json:"matchId"`
	SequenceID    int     `json:"sequenceId"`
	TeamID        string  `json:"teamId"`
	Time          string  `json:"time"`
	SetpieceLabel string  `json:"setpiece"`
	Events        []Event `json:"events"`
}

// Key identifies a sequence within the corpus.
type Key struct {
	MatchID    string `json:"matchId"`
	SequenceID int    `json:"sequenceId"`
}

// String renders the key in a stable form usable as a map or dedupe key.
func (k Key) String() string {
	return fmt.Sprintf("%s/%d", k.MatchID, k.SequenceID)
}

// EventKey identifies a single event within a sequence.
type EventKey struct {
	Key
	EventIndex int `json:"eventIndex"`
}

// String renders the event key in a stable form.
func (k EventKey) String() string {
	return fmt.Sprintf("%s/%d/%d", k.MatchID, k.SequenceID, k.EventIndex)
}

// FeatureRecord is the fixed-size numeric view of one event used by the
// distance model and the aligner. Records are immutable once extracted.
type FeatureRecord struct {
	Ball         Position
	Type         string
	NearPlayers  []Position
	PassType     string
	ShotType     string
	PressureType string
}

// PathStep pairs one query event index with one candidate event index.
type PathStep struct {
	I int `json:"i"`
	J int `json:"j"`
}

// Path is a monotonic alignment between two sequences. It runs from (0,0)
// to (len(a)-1, len(b)-1), advancing each side by at most one per step.
type Path []PathStep
