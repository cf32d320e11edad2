// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// Possession event type codes that carry dedicated handling.
const (
	TypePass         = "PA"
	TypeShot         = "SH"
	TypeCross        = "CR"
	TypeClearance    = "CL"
	TypeChallenge    = "CH"
	TypeTouch        = "TC"
	TypeBallCarry    = "BC"
	TypeInitialTouch = "IT"
	TypeRebound      = "RE"
)

// Position is a point on the pitch. Coordinates are centered on the
// kickoff spot of a 105x68 pitch; x grows toward the opponent goal.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// DistanceTo returns the planar distance to q. Z is ignored because
// tracking data reports it sparsely and comparisons stay on the ground.
func (p Position) DistanceTo(q Position) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PlayerPosition is a tracked player location at the moment of an event.
type PlayerPosition struct {
	PlayerID      int     `json:"playerId"`
	PlayerName    string  `json:"playerName,omitempty"`
	JerseyNum     int     `json:"jerseyNum"`
	PositionGroup string  `json:"positionGroupType"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
}

// Event is a single normalized possession event. Upstream feeds carry
// events in several shapes; normalization happens once, at the ingestion
// boundary, so every downstream consumer sees this flat form with zero
// values instead of nulls.
type Event struct {
	Index               int              `json:"index"`
	EventID             int64            `json:"eventId"`
	SequenceID          int              `json:"sequence"`
	Time                string           `json:"time"`
	Period              int              `json:"period"`
	Type                string           `json:"eventType"`
	Label               string           `json:"eventLabel"`
	SetpieceType        string           `json:"setpieceType"`
	SetpieceLabel       string           `json:"setpieceLabel"`
	TeamID              string           `json:"teamId"`
	TeamName            string           `json:"teamName"`
	PlayerID            int              `json:"playerId"`
	PlayerName          string           `json:"playerName"`
	SecondaryPlayerID   int              `json:"secondaryPlayerId"`
	SecondaryPlayerName string           `json:"secondaryPlayer"`
	AssisterID          int              `json:"assisterId,omitempty"`
	AssisterName        string           `json:"assisterName,omitempty"`
	KeeperName          string           `json:"keeperName,omitempty"`
	KeyPlayerIDs        []int            `json:"keyPlayerIds"`
	Outcome             string           `json:"outcome"`
	IsGoal              bool             `json:"isGoal"`
	Ball                Position         `json:"ballPosition"`
	HomePlayers         []PlayerPosition `json:"homePlayers"`
	AwayPlayers         []PlayerPosition `json:"awayPlayers"`
	PassType            string           `json:"passType"`
	ShotType            string           `json:"shotType"`
	PressureType        string           `json:"pressureType"`
}

// UnmarshalJSON accepts both the flat normalized shape and remnants of the
// raw feed: a "ball" frame list instead of "ballPosition", and event types
// nested under "possessionEvents". Everything collapses into the flat form
// here so no other layer needs to know about the dual shape.
func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	aux := struct {
		*plain
		Ball       *Position  `json:"ballPosition"`
		BallFrames []Position `json:"ball"`
		Possession *struct {
			Type         string `json:"possessionEventType"`
			PassType     string `json:"passType"`
			ShotType     string `json:"shotType"`
			PressureType string `json:"pressureType"`
		} `json:"possessionEvents"`
	}{plain: (*plain)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	switch {
	case aux.Ball != nil:
		e.Ball = *aux.Ball
	case len(aux.BallFrames) > 0:
		e.Ball = aux.BallFrames[0]
	default:
		e.Ball = Position{}
	}

	if p := aux.Possession; p != nil {
		if e.Type == "" {
			e.Type = p.Type
		}
		if e.PassType == "" {
			e.PassType = p.PassType
		}
		if e.ShotType == "" {
			e.ShotType = p.ShotType
		}
		if e.PressureType == "" {
			e.PressureType = p.PressureType
		}
	}
	return nil
}

// KeyPlayersOnly returns a copy of the event with the player lists trimmed
// to the players recorded as key for the event. Result payloads use this to
// avoid shipping all 22 tracked positions per event.
func (e Event) KeyPlayersOnly() Event {
	out := e
	out.HomePlayers = filterKeyPlayers(e.HomePlayers, e.KeyPlayerIDs)
	out.AwayPlayers = filterKeyPlayers(e.AwayPlayers, e.KeyPlayerIDs)
	return out
}

func filterKeyPlayers(players []PlayerPosition, keyIDs []int) []PlayerPosition {
	if len(players) == 0 || len(keyIDs) == 0 {
		return nil
	}
	keep := make(map[int]struct{}, len(keyIDs))
	for _, id := range keyIDs {
		keep[id] = struct{}{}
	}
	out := make([]PlayerPosition, 0, len(keyIDs))
	for _, p := range players {
		if _, ok := keep[p.PlayerID]; ok {
			out = append(out, p)
		}
	}
	return out
}
