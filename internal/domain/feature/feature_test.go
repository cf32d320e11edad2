package feature_test

import (
	"testing"

	feature "github.com/okian/replay/internal/domain/feature"
	"github.com/okian/replay/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExtractorEvent(t *testing.T) {
	Convey("Given an extractor with the default radius", t, func() {
		ex := feature.New()
		So(ex.NearBallRadius(), ShouldEqual, 15.0)

		Convey("When extracting a fully populated event", func() {
			ev := model.Event{
				Type:         model.TypePass,
				Ball:         model.Position{X: 10, Y: 5},
				PassType:     "S",
				ShotType:     "",
				PressureType: "A",
				HomePlayers: []model.PlayerPosition{
					{PlayerID: 1, X: 12, Y: 6},  // inside
					{PlayerID: 2, X: 60, Y: 30}, // far away
				},
				AwayPlayers: []model.PlayerPosition{
					{PlayerID: 3, X: 8, Y: 4}, // inside
				},
			}

			rec := ex.Event(ev)

			Convey("Then ball, type and sub-types carry over", func() {
				So(rec.Ball, ShouldResemble, model.Position{X: 10, Y: 5})
				So(rec.Type, ShouldEqual, model.TypePass)
				So(rec.PassType, ShouldEqual, "S")
				So(rec.ShotType, ShouldEqual, "")
				So(rec.PressureType, ShouldEqual, "A")
			})

			Convey("Then only players inside the radius survive, home first", func() {
				So(rec.NearPlayers, ShouldResemble, []model.Position{
					{X: 12, Y: 6},
					{X: 8, Y: 4},
				})
			})
		})

		Convey("When a player sits exactly on the radius", func() {
			ev := model.Event{
				Type: model.TypeShot,
				Ball: model.Position{X: 0, Y: 0},
				AwayPlayers: []model.PlayerPosition{
					{PlayerID: 9, X: 9, Y: 12}, // distance exactly 15
				},
			}

			rec := ex.Event(ev)

			Convey("Then the boundary is inclusive", func() {
				So(rec.NearPlayers, ShouldResemble, []model.Position{{X: 9, Y: 12}})
			})
		})

		Convey("When no player is tracked", func() {
			rec := ex.Event(model.Event{Type: model.TypeTouch})

			Convey("Then the near list stays empty", func() {
				So(rec.NearPlayers, ShouldBeEmpty)
			})
		})

		Convey("When the ball position is missing", func() {
			ev := model.Event{
				Type: model.TypeClearance,
				HomePlayers: []model.PlayerPosition{
					{PlayerID: 4, X: 3, Y: 4},
				},
			}

			rec := ex.Event(ev)

			Convey("Then the origin default anchors the radius", func() {
				So(rec.Ball, ShouldResemble, model.Position{})
				So(rec.NearPlayers, ShouldResemble, []model.Position{{X: 3, Y: 4}})
			})
		})
	})

	Convey("Given an extractor with a custom radius", t, func() {
		ex := feature.New(feature.WithNearBallRadius(5))
		So(ex.NearBallRadius(), ShouldEqual, 5.0)

		Convey("When a player sits between the custom and default radius", func() {
			ev := model.Event{
				Ball: model.Position{X: 0, Y: 0},
				HomePlayers: []model.PlayerPosition{
					{PlayerID: 1, X: 0, Y: 8},
				},
			}

			Convey("Then the tighter radius excludes it", func() {
				So(ex.Event(ev).NearPlayers, ShouldBeEmpty)
			})
		})
	})

	Convey("Given an invalid radius option", t, func() {
		ex := feature.New(feature.WithNearBallRadius(-3))

		Convey("Then the default is preserved", func() {
			So(ex.NearBallRadius(), ShouldEqual, 15.0)
		})
	})
}

func TestExtractorSequence(t *testing.T) {
	Convey("Given an extractor", t, func() {
		ex := feature.New()

		Convey("When extracting a sequence of events", func() {
			events := []model.Event{
				{Type: model.TypePass, Ball: model.Position{X: -30, Y: 0}},
				{Type: model.TypeCross, Ball: model.Position{X: 20, Y: 15}},
				{Type: model.TypeShot, Ball: model.Position{X: 45, Y: 2}},
			}

			records := ex.Sequence(events)

			Convey("Then order and length are preserved", func() {
				So(records, ShouldHaveLength, 3)
				So(records[0].Type, ShouldEqual, model.TypePass)
				So(records[1].Type, ShouldEqual, model.TypeCross)
				So(records[2].Type, ShouldEqual, model.TypeShot)
				So(records[2].Ball, ShouldResemble, model.Position{X: 45, Y: 2})
			})
		})

		Convey("When extracting an empty sequence", func() {
			So(ex.Sequence(nil), ShouldBeEmpty)
		})

		Convey("When extracting the same sequence twice", func() {
			events := []model.Event{
				{Type: model.TypePass, Ball: model.Position{X: 1, Y: 2},
					HomePlayers: []model.PlayerPosition{{PlayerID: 1, X: 2, Y: 2}}},
			}

			Convey("Then the records are identical", func() {
				So(ex.Sequence(events), ShouldResemble, ex.Sequence(events))
			})
		})
	})
}
