package cost_test

import (
	"testing"

	cost "github.com/okian/replay/internal/domain/cost"
	"github.com/okian/replay/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTypePenalty(t *testing.T) {
	Convey("Given the event type penalty table", t, func() {
		Convey("When both codes are identical", func() {
			So(cost.TypePenalty("PA", "PA"), ShouldEqual, 0)
			So(cost.TypePenalty("", ""), ShouldEqual, 0)
		})

		Convey("When either code is empty", func() {
			So(cost.TypePenalty("PA", ""), ShouldEqual, 5)
			So(cost.TypePenalty("", "SH"), ShouldEqual, 5)
		})

		Convey("When both codes share a similarity group", func() {
			So(cost.TypePenalty("PA", "CR"), ShouldEqual, 2) // both passing
			So(cost.TypePenalty("CK", "GK"), ShouldEqual, 2) // both passing
			So(cost.TypePenalty("SH", "PK"), ShouldEqual, 2) // both shooting
			So(cost.TypePenalty("CA", "DR"), ShouldEqual, 2) // both dribbling
			So(cost.TypePenalty("RE", "CA"), ShouldEqual, 2) // both control
			So(cost.TypePenalty("CL", "RE"), ShouldEqual, 2) // both defensive
		})

		Convey("When the codes oppose shooting against defensive", func() {
			So(cost.TypePenalty("SH", "CL"), ShouldEqual, 10)
			So(cost.TypePenalty("CL", "PK"), ShouldEqual, 10)
			So(cost.TypePenalty("SH", "RE"), ShouldEqual, 10)
		})

		Convey("When the codes belong to unrelated groups", func() {
			So(cost.TypePenalty("PA", "SH"), ShouldEqual, 5)
			So(cost.TypePenalty("CL", "PA"), ShouldEqual, 5)
			So(cost.TypePenalty("DR", "SH"), ShouldEqual, 5)
		})

		Convey("When both codes are unrecognized", func() {
			// Unrecognized codes fall into a shared catch-all group.
			So(cost.TypePenalty("CH", "BC"), ShouldEqual, 2)
			So(cost.TypePenalty("TC", "CH"), ShouldEqual, 2)
		})

		Convey("When only one code is unrecognized", func() {
			So(cost.TypePenalty("CH", "PA"), ShouldEqual, 5)
		})

		Convey("Then the penalty is symmetric", func() {
			pairs := [][2]string{{"PA", "SH"}, {"SH", "CL"}, {"CR", "PA"}, {"CH", "BC"}}
			for _, p := range pairs {
				So(cost.TypePenalty(p[0], p[1]), ShouldEqual, cost.TypePenalty(p[1], p[0]))
			}
		})
	})
}

func TestFormationDistance(t *testing.T) {
	Convey("Given the formation distance", t, func() {
		Convey("When both formations are empty", func() {
			So(cost.FormationDistance(nil, nil), ShouldEqual, 0)
			So(cost.FormationDistance([]model.Position{}, nil), ShouldEqual, 0)
		})

		Convey("When exactly one formation is empty", func() {
			players := []model.Position{{X: 1, Y: 2}}
			So(cost.FormationDistance(players, nil), ShouldEqual, 10)
			So(cost.FormationDistance(nil, players), ShouldEqual, 10)
		})

		Convey("When the formations are identical", func() {
			players := []model.Position{{X: 1, Y: 2}, {X: -3, Y: 4}}
			So(cost.FormationDistance(players, players), ShouldEqual, 0)
		})

		Convey("When the formations are single displaced players", func() {
			a := []model.Position{{X: 0, Y: 0}}
			b := []model.Position{{X: 3, Y: 4}}
			So(cost.FormationDistance(a, b), ShouldEqual, 5)
		})

		Convey("When the formations have different sizes", func() {
			a := []model.Position{{X: 0, Y: 0}, {X: 10, Y: 0}}
			b := []model.Position{{X: 0, Y: 0}}
			// Forward averages 0 and 10, reverse averages 0.
			So(cost.FormationDistance(a, b), ShouldEqual, 2.5)
		})

		Convey("Then the distance is symmetric", func() {
			a := []model.Position{{X: 0, Y: 0}, {X: 5, Y: 5}}
			b := []model.Position{{X: 1, Y: 1}, {X: 8, Y: 2}, {X: -4, Y: 3}}
			So(cost.FormationDistance(a, b), ShouldEqual, cost.FormationDistance(b, a))
		})
	})
}

func TestEventDistance(t *testing.T) {
	Convey("Given a model with default weights", t, func() {
		m := cost.New()

		Convey("When comparing an event with itself", func() {
			rec := model.FeatureRecord{
				Ball:        model.Position{X: 12, Y: -4},
				Type:        model.TypePass,
				NearPlayers: []model.Position{{X: 10, Y: -2}, {X: 15, Y: 0}},
				PassType:    "S",
			}

			Convey("Then the distance is zero", func() {
				So(m.EventDistance(rec, rec), ShouldEqual, 0)
			})
		})

		Convey("When the events differ only in ball position", func() {
			a := model.FeatureRecord{Ball: model.Position{X: 0, Y: 0}, Type: model.TypePass}
			b := model.FeatureRecord{Ball: model.Position{X: 3, Y: 4}, Type: model.TypePass}

			Convey("Then the distance is the Euclidean ball distance", func() {
				So(m.EventDistance(a, b), ShouldEqual, 5)
			})

			Convey("And doubling the ball weight doubles it", func() {
				So(m.SetWeight(cost.WeightBall, 2.0), ShouldBeTrue)
				So(m.EventDistance(a, b), ShouldEqual, 10)
			})
		})

		Convey("When the events differ only in type", func() {
			a := model.FeatureRecord{Type: model.TypeShot}
			b := model.FeatureRecord{Type: model.TypeClearance}

			Convey("Then the type penalty applies at weight one", func() {
				So(m.EventDistance(a, b), ShouldEqual, 10)
			})
		})

		Convey("When the events differ only in formation", func() {
			a := model.FeatureRecord{
				Type:        model.TypePass,
				NearPlayers: []model.Position{{X: 0, Y: 0}},
			}
			b := model.FeatureRecord{Type: model.TypePass}

			Convey("Then the one-sided formation penalty applies", func() {
				So(m.EventDistance(a, b), ShouldEqual, 10)
			})
		})

		Convey("Then the distance is symmetric", func() {
			a := model.FeatureRecord{
				Ball:        model.Position{X: -20, Y: 5},
				Type:        model.TypePass,
				NearPlayers: []model.Position{{X: -18, Y: 3}},
			}
			b := model.FeatureRecord{
				Ball:        model.Position{X: 30, Y: -10},
				Type:        model.TypeShot,
				NearPlayers: []model.Position{{X: 28, Y: -9}, {X: 35, Y: -12}},
			}
			So(m.EventDistance(a, b), ShouldEqual, m.EventDistance(b, a))
		})
	})
}

func TestOptionalFeatures(t *testing.T) {
	Convey("Given events that differ only in optional sub-types", t, func() {
		a := model.FeatureRecord{Type: model.TypePass, PassType: "S", ShotType: "F", PressureType: "N"}
		b := model.FeatureRecord{Type: model.TypePass, PassType: "L", ShotType: "", PressureType: "A"}

		Convey("When all optional features are disabled", func() {
			m := cost.New()

			Convey("Then the sub-types contribute nothing", func() {
				So(m.EventDistance(a, b), ShouldEqual, 0)
			})
		})

		Convey("When the pass type feature is enabled", func() {
			m := cost.New()
			So(m.SetOptionalFeature(cost.FeaturePass, true), ShouldBeTrue)

			Convey("Then short against long costs the pass weight times three", func() {
				So(m.EventDistance(a, b), ShouldEqual, 1.5)
			})
		})

		Convey("When the shot type feature is enabled", func() {
			m := cost.New()
			So(m.SetOptionalFeature(cost.FeatureShot, true), ShouldBeTrue)

			Convey("Then any shot mismatch costs the shot weight times two", func() {
				So(m.EventDistance(a, b), ShouldEqual, 1.0)
			})
		})

		Convey("When the pressure type feature is enabled", func() {
			m := cost.New()
			So(m.SetOptionalFeature(cost.FeaturePressure, true), ShouldBeTrue)

			Convey("Then none against active costs the pressure weight times three", func() {
				So(m.EventDistance(a, b), ShouldAlmostEqual, 0.9)
			})
		})

		Convey("When every optional feature is enabled", func() {
			m := cost.New(cost.WithOptionalFeatures(map[string]bool{
				cost.FeaturePass:     true,
				cost.FeatureShot:     true,
				cost.FeaturePressure: true,
			}))

			Convey("Then the sub-costs add up", func() {
				So(m.EventDistance(a, b), ShouldAlmostEqual, 3.4)
			})
		})
	})
}

func TestModelConfiguration(t *testing.T) {
	Convey("Given a model", t, func() {
		m := cost.New()

		Convey("When setting a known weight", func() {
			So(m.SetWeight(cost.WeightFormation, 0.5), ShouldBeTrue)

			Convey("Then the weight is updated", func() {
				w, ok := m.Weight(cost.WeightFormation)
				So(ok, ShouldBeTrue)
				So(w, ShouldEqual, 0.5)
			})
		})

		Convey("When setting an unknown weight name", func() {
			So(m.SetWeight("sideline", 3.0), ShouldBeFalse)

			Convey("Then the model keeps its defaults", func() {
				w, ok := m.Weight(cost.WeightBall)
				So(ok, ShouldBeTrue)
				So(w, ShouldEqual, 1.0)
			})
		})

		Convey("When setting a negative weight", func() {
			So(m.SetWeight(cost.WeightBall, -1.0), ShouldBeFalse)

			w, _ := m.Weight(cost.WeightBall)
			So(w, ShouldEqual, 1.0)
		})

		Convey("When setting a weight to zero", func() {
			So(m.SetWeight(cost.WeightType, 0), ShouldBeTrue)

			Convey("Then the sub-cost is silenced", func() {
				a := model.FeatureRecord{Type: model.TypeShot}
				b := model.FeatureRecord{Type: model.TypeClearance}
				So(m.EventDistance(a, b), ShouldEqual, 0)
			})
		})

		Convey("When toggling an unknown optional feature", func() {
			So(m.SetOptionalFeature("altitude", true), ShouldBeFalse)
		})

		Convey("When reading an optional feature", func() {
			on, ok := m.OptionalFeature(cost.FeatureShot)
			So(ok, ShouldBeTrue)
			So(on, ShouldBeFalse)

			_, ok = m.OptionalFeature("altitude")
			So(ok, ShouldBeFalse)
		})

		Convey("When cloning the model", func() {
			clone := m.Clone()
			So(clone.SetWeight(cost.WeightBall, 7.0), ShouldBeTrue)

			Convey("Then the original is untouched", func() {
				w, _ := m.Weight(cost.WeightBall)
				So(w, ShouldEqual, 1.0)

				cw, _ := clone.Weight(cost.WeightBall)
				So(cw, ShouldEqual, 7.0)
			})
		})
	})
}

func TestModelOptions(t *testing.T) {
	Convey("Given configuration maps", t, func() {
		Convey("When building a model with custom weights", func() {
			m := cost.New(cost.WithWeights(map[string]float64{
				cost.WeightBall:     2.0,
				cost.WeightPressure: 0.1,
				"sideline":          9.0, // skipped
			}))

			Convey("Then recognized weights are applied", func() {
				w, _ := m.Weight(cost.WeightBall)
				So(w, ShouldEqual, 2.0)

				w, _ = m.Weight(cost.WeightPressure)
				So(w, ShouldEqual, 0.1)
			})

			Convey("And untouched weights keep their defaults", func() {
				w, _ := m.Weight(cost.WeightType)
				So(w, ShouldEqual, 1.0)
			})
		})

		Convey("When building a model with optional features", func() {
			m := cost.New(cost.WithOptionalFeatures(map[string]bool{
				cost.FeaturePass: true,
			}))

			on, _ := m.OptionalFeature(cost.FeaturePass)
			So(on, ShouldBeTrue)

			on, _ = m.OptionalFeature(cost.FeatureShot)
			So(on, ShouldBeFalse)
		})
	})
}
