package seeder

import (
	"github.com/okian/replay/internal/domain/model"
)

// Pitch bounds and chain geometry. Coordinates are centered on the
// kickoff spot of a 105x68 pitch; attacks run toward positive x.
const (
	pitchHalfLength = 52.5
	pitchHalfWidth  = 34.0

	shotBaseX      = 46.0
	shotJitterX    = 3.0
	shotJitterY    = 8.0
	stepJitter     = 4.0
	crossX         = 38.0
	crossLaneShift = 4.0
)

// Middle-step type mix.
const (
	passShare  = 0.60
	carryShare = 0.85 // cumulative: carry occupies (passShare, carryShare]
)

// Shot outcome mix.
const (
	goalShare = 0.25
	saveShare = 0.70 // cumulative: save occupies (goalShare, saveShare]
)

// longPassShare is the fraction of passes serialized as long balls.
const longPassShare = 0.30

// headerShare is the fraction of shots finished with the head.
const headerShare = 0.15

// pressureShare is the fraction of events tagged as played under pressure.
const pressureShare = 0.30

// archetype describes one chain shape: where it starts, which lane it
// favours, how it opens, and whether the final approach goes wide.
type archetype struct {
	name     string
	setpiece string  // setpiece code on the opening event, "" for open play
	opener   string  // possession type of the first event
	originX  float64 // where chains of this shape start
	originY  float64
	lane     float64 // preferred y lane on the way forward
	crossing bool    // route the last approach step through a wide cross
}

// archetypes are cycled per sequence so every seeded match carries all
// four shapes.
var archetypes = []archetype{
	{name: "build-up", opener: model.TypePass, originX: -32, originY: 0, lane: 4},
	{name: "wing-attack", opener: model.TypePass, originX: -8, originY: 26, lane: 28, crossing: true},
	{name: "counter", opener: model.TypeClearance, originX: -36, originY: -6, lane: -14},
	{name: "set-piece", setpiece: "C", opener: model.TypeCross, originX: 49, originY: 31, lane: 6},
}

// step is one planned event of a chain: its possession type and where the
// ball is when it happens.
type step struct {
	kind string
	pos  model.Position
}

// chainSteps plans n steps from the archetype origin to a shot. The first
// step uses the archetype opener, the last is always a shot, and the
// middle mixes passes, carries, and touches along the way. When the
// archetype crosses, the step before the shot swings wide.
func chainSteps(arch archetype, n int) []step {
	if n < minChainLength {
		n = minChainLength
	}

	target := model.Position{
		X: shotBaseX + jitter(shotJitterX),
		Y: jitter(shotJitterY),
	}

	steps := make([]step, n)
	for i := range steps {
		frac := float64(i) / float64(n-1)
		pos := model.Position{
			X: arch.originX + (target.X-arch.originX)*frac + jitter(stepJitter),
			Y: arch.originY + (target.Y-arch.originY)*frac + jitter(stepJitter),
		}
		// Pull the midfield portion toward the archetype lane.
		if i > 0 && i < n-1 {
			pos.Y = (pos.Y + arch.lane) / 2
		}
		steps[i] = step{kind: middleKind(), pos: clampPitch(pos)}
	}

	steps[0].kind = arch.opener
	steps[0].pos = clampPitch(model.Position{
		X: arch.originX + jitter(stepJitter),
		Y: arch.originY + jitter(stepJitter),
	})
	steps[n-1].kind = model.TypeShot
	steps[n-1].pos = clampPitch(target)

	if arch.crossing && n >= 3 {
		wide := arch.lane + jitter(crossLaneShift)
		steps[n-2].kind = model.TypeCross
		steps[n-2].pos = clampPitch(model.Position{X: crossX + jitter(stepJitter), Y: wide})
	}
	return steps
}

// middleKind draws a possession type for an approach step.
func middleKind() string {
	switch r := randFloat(); {
	case r < passShare:
		return model.TypePass
	case r < carryShare:
		return model.TypeBallCarry
	default:
		return model.TypeTouch
	}
}

// shotOutcome draws the result code of a shot. "G" marks a goal, which
// the reader turns into goal records with their build-up.
func shotOutcome() string {
	switch r := randFloat(); {
	case r < goalShare:
		return "G"
	case r < saveShare:
		return "S"
	default:
		return "W"
	}
}

func clampPitch(p model.Position) model.Position {
	if p.X > pitchHalfLength {
		p.X = pitchHalfLength
	}
	if p.X < -pitchHalfLength {
		p.X = -pitchHalfLength
	}
	if p.Y > pitchHalfWidth {
		p.Y = pitchHalfWidth
	}
	if p.Y < -pitchHalfWidth {
		p.Y = -pitchHalfWidth
	}
	return p
}
