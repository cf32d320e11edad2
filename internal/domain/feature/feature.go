// Package feature turns canonical possession events into the compact
// records the alignment and cost layers operate on.
package feature

import (
	"github.com/okian/replay/internal/domain/model"
)

// DefaultNearBallRadius bounds which tracked players count as near the
// ball, in pitch units.
const DefaultNearBallRadius = 15.0

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithNearBallRadius sets the near-ball radius. Non-positive values keep
// the default.
func WithNearBallRadius(radius float64) Option {
	return func(e *Extractor) {
		if radius > 0 {
			e.radius = radius
		}
	}
}

// Extractor derives feature records from events. It is stateless beyond
// its configuration and safe for concurrent use.
type Extractor struct {
	radius float64
}

// New creates an Extractor with configuration options.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		radius: DefaultNearBallRadius,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// NearBallRadius returns the configured radius.
func (e *Extractor) NearBallRadius() float64 {
	return e.radius
}

// Event extracts the feature record for a single event. Player identity is
// dropped; only the positions of players within the radius of the ball
// survive, home side first.
func (e *Extractor) Event(ev model.Event) model.FeatureRecord {
	rec := model.FeatureRecord{
		Ball:         ev.Ball,
		Type:         ev.Type,
		PassType:     ev.PassType,
		ShotType:     ev.ShotType,
		PressureType: ev.PressureType,
	}

	rec.NearPlayers = appendNear(rec.NearPlayers, ev.HomePlayers, ev.Ball, e.radius)
	rec.NearPlayers = appendNear(rec.NearPlayers, ev.AwayPlayers, ev.Ball, e.radius)

	return rec
}

// Sequence extracts feature records for every event in order.
func (e *Extractor) Sequence(events []model.Event) []model.FeatureRecord {
	records := make([]model.FeatureRecord, len(events))
	for i, ev := range events {
		records[i] = e.Event(ev)
	}
	return records
}

func appendNear(dst []model.Position, players []model.PlayerPosition, ball model.Position, radius float64) []model.Position {
	for _, p := range players {
		pos := model.Position{X: p.X, Y: p.Y}
		if pos.DistanceTo(ball) <= radius {
			dst = append(dst, pos)
		}
	}
	return dst
}
