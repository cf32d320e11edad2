// Package cost computes the distance between two possession events as a
// weighted sum of feature sub-costs. The alignment layer plugs this in as
// its pairwise cost function.
package cost

import (
	"math"

	"github.com/okian/replay/internal/domain/model"
)

// Default weights for each feature sub-cost.
const (
	defaultBallWeight      = 1.0
	defaultTypeWeight      = 1.0
	defaultFormationWeight = 1.0
	defaultPassWeight      = 0.5
	defaultShotWeight      = 0.5
	defaultPressureWeight  = 0.3
)

// Penalty values for categorical mismatches.
const (
	typePenaltySameGroup = 2.0
	typePenaltyUnrelated = 5.0
	typePenaltyOpposed   = 10.0

	formationPenaltyOneEmpty = 10.0

	passPenaltyEmpty    = 2.0
	passPenaltyShortVsL = 3.0
	passPenaltyOther    = 1.5

	shotPenaltyMismatch = 2.0

	pressurePenaltyEmpty = 1.0
	pressurePenaltyNVsA  = 3.0
	pressurePenaltyOther = 1.5
)

// Weight names accepted by SetWeight and WithWeights. They double as the
// feature_weights keys in the service configuration.
const (
	WeightBall      = "ball"
	WeightType      = "type"
	WeightFormation = "formation"
	WeightPass      = "pass"
	WeightShot      = "shot"
	WeightPressure  = "pressure"
)

// Optional feature names accepted by SetOptionalFeature and
// WithOptionalFeatures.
const (
	FeaturePass     = "pass"
	FeatureShot     = "shot"
	FeaturePressure = "pressure"
)

// group is a bitmask of the similarity groups an event type belongs to.
type group uint8

const (
	groupPassing group = 1 << iota
	groupShooting
	groupControl
	groupDribbling
	groupDefensive
	// groupOther collects types outside every named group. Two distinct
	// unrecognized types still share it, so they compare as same-group.
	groupOther
)

// typeGroups assigns known event type codes their similarity groups.
// A code may belong to several groups at once.
var typeGroups = map[string]group{
	model.TypePass:         groupPassing,
	model.TypeCross:        groupPassing,
	"FK":                   groupPassing,
	"CK":                   groupPassing,
	"TI":                   groupPassing,
	"GK":                   groupPassing,
	model.TypeShot:         groupShooting,
	"PK":                   groupShooting,
	model.TypeInitialTouch: groupControl,
	model.TypeRebound:      groupControl | groupDefensive,
	"TO":                   groupControl,
	"CA":                   groupControl | groupDribbling,
	"DR":                   groupDribbling,
	model.TypeClearance:    groupDefensive,
}

func groupsOf(t string) group {
	if g, ok := typeGroups[t]; ok {
		return g
	}
	return groupOther
}

// Model holds the weights and toggles applied by EventDistance. A Model is
// read-only once shared; mutate a Clone and swap it in instead.
type Model struct {
	ballWeight      float64
	typeWeight      float64
	formationWeight float64
	passWeight      float64
	shotWeight      float64
	pressureWeight  float64

	usePassType     bool
	useShotType     bool
	usePressureType bool
}

// EventDistance computes the weighted distance between two feature records.
// Pass, shot and pressure sub-costs contribute only when their optional
// feature is enabled.
func (m *Model) EventDistance(a, b model.FeatureRecord) float64 {
	total := m.ballWeight * a.Ball.DistanceTo(b.Ball)
	total += m.typeWeight * TypePenalty(a.Type, b.Type)
	total += m.formationWeight * FormationDistance(a.NearPlayers, b.NearPlayers)

	if m.usePassType {
		total += m.passWeight * passPenalty(a.PassType, b.PassType)
	}
	if m.useShotType {
		total += m.shotWeight * shotPenalty(a.ShotType, b.ShotType)
	}
	if m.usePressureType {
		total += m.pressureWeight * pressurePenalty(a.PressureType, b.PressureType)
	}

	return total
}

// SetWeight updates a single feature weight. It reports whether the name was
// recognized; unknown names and negative weights leave the model untouched.
func (m *Model) SetWeight(name string, weight float64) bool {
	if weight < 0 || math.IsNaN(weight) {
		return false
	}
	switch name {
	case WeightBall:
		m.ballWeight = weight
	case WeightType:
		m.typeWeight = weight
	case WeightFormation:
		m.formationWeight = weight
	case WeightPass:
		m.passWeight = weight
	case WeightShot:
		m.shotWeight = weight
	case WeightPressure:
		m.pressureWeight = weight
	default:
		return false
	}
	return true
}

// Weight returns the current weight for name and whether the name is known.
func (m *Model) Weight(name string) (float64, bool) {
	switch name {
	case WeightBall:
		return m.ballWeight, true
	case WeightType:
		return m.typeWeight, true
	case WeightFormation:
		return m.formationWeight, true
	case WeightPass:
		return m.passWeight, true
	case WeightShot:
		return m.shotWeight, true
	case WeightPressure:
		return m.pressureWeight, true
	default:
		return 0, false
	}
}

// SetOptionalFeature toggles an optional sub-cost on or off. It reports
// whether the name was recognized.
func (m *Model) SetOptionalFeature(name string, enabled bool) bool {
	switch name {
	case FeaturePass:
		m.usePassType = enabled
	case FeatureShot:
		m.useShotType = enabled
	case FeaturePressure:
		m.usePressureType = enabled
	default:
		return false
	}
	return true
}

// OptionalFeature reports whether an optional sub-cost is enabled and
// whether the name is known.
func (m *Model) OptionalFeature(name string) (bool, bool) {
	switch name {
	case FeaturePass:
		return m.usePassType, true
	case FeatureShot:
		return m.useShotType, true
	case FeaturePressure:
		return m.usePressureType, true
	default:
		return false, false
	}
}

// Clone returns an independent copy of the model.
func (m *Model) Clone() *Model {
	c := *m
	return &c
}

// TypePenalty scores the mismatch between two event type codes. Identical
// codes cost 0, an empty side 5, shooting against defensive 10, codes that
// share a similarity group 2, anything else 5.
func TypePenalty(a, b string) float64 {
	if a == b {
		return 0
	}
	if a == "" || b == "" {
		return typePenaltyUnrelated
	}

	ga, gb := groupsOf(a), groupsOf(b)
	if ga&gb != 0 {
		return typePenaltySameGroup
	}
	if (ga&groupShooting != 0 && gb&groupDefensive != 0) ||
		(ga&groupDefensive != 0 && gb&groupShooting != 0) {
		return typePenaltyOpposed
	}
	return typePenaltyUnrelated
}

// FormationDistance compares two near-ball player sets as the mean of the
// two directional average nearest-neighbor distances. Both empty costs 0,
// exactly one empty costs a flat 10.
func FormationDistance(a, b []model.Position) float64 {
	if len(a) == 0 || len(b) == 0 {
		if len(a) == 0 && len(b) == 0 {
			return 0
		}
		return formationPenaltyOneEmpty
	}

	return (avgNearestDistance(a, b) + avgNearestDistance(b, a)) / 2
}

// avgNearestDistance averages, over every source position, the distance to
// its closest target position.
func avgNearestDistance(source, target []model.Position) float64 {
	var total float64
	for _, s := range source {
		min := math.Inf(1)
		for _, t := range target {
			if d := s.DistanceTo(t); d < min {
				min = d
			}
		}
		total += min
	}
	return total / float64(len(source))
}

func passPenalty(a, b string) float64 {
	if a == b {
		return 0
	}
	if a == "" || b == "" {
		return passPenaltyEmpty
	}
	if (a == "S" && b == "L") || (a == "L" && b == "S") {
		return passPenaltyShortVsL
	}
	return passPenaltyOther
}

func shotPenalty(a, b string) float64 {
	if a == b {
		return 0
	}
	return shotPenaltyMismatch
}

func pressurePenalty(a, b string) float64 {
	if a == b {
		return 0
	}
	if a == "" || b == "" {
		return pressurePenaltyEmpty
	}
	if (a == "N" && b == "A") || (a == "A" && b == "N") {
		return pressurePenaltyNVsA
	}
	return pressurePenaltyOther
}
