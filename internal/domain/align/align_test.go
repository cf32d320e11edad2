package align_test

import (
	"math"
	"testing"

	align "github.com/okian/replay/internal/domain/align"
	"github.com/okian/replay/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// absCost compares records by the ball x coordinate only, which keeps the
// expected alignment costs easy to compute by hand.
func absCost(a, b model.FeatureRecord) float64 {
	return math.Abs(a.Ball.X - b.Ball.X)
}

func seq(values ...float64) []model.FeatureRecord {
	records := make([]model.FeatureRecord, len(values))
	for i, v := range values {
		records[i] = model.FeatureRecord{Ball: model.Position{X: v}}
	}
	return records
}

func TestAlignerEdgeCases(t *testing.T) {
	Convey("Given an aligner", t, func() {
		al := align.New(absCost)

		Convey("When either sequence is empty", func() {
			d, path := al.Align(nil, seq(1, 2))
			So(math.IsInf(d, 1), ShouldBeTrue)
			So(path, ShouldBeEmpty)

			d, path = al.Align(seq(1, 2), nil)
			So(math.IsInf(d, 1), ShouldBeTrue)
			So(path, ShouldBeEmpty)

			d, path = al.Align(nil, nil)
			So(math.IsInf(d, 1), ShouldBeTrue)
			So(path, ShouldBeEmpty)
		})

		Convey("When both sequences hold a single record", func() {
			d, path := al.Align(seq(3), seq(8))

			So(d, ShouldEqual, 5)
			So(path, ShouldResemble, model.Path{{I: 0, J: 0}})
		})

		Convey("When one sequence has a single record", func() {
			d, path := al.Align(seq(5), seq(1, 2, 3, 4))

			Convey("Then every record pairs against it", func() {
				So(d, ShouldEqual, 10)
				So(path, ShouldResemble, model.Path{
					{I: 0, J: 0}, {I: 0, J: 1}, {I: 0, J: 2}, {I: 0, J: 3},
				})
			})
		})
	})
}

func TestAlignerExactSmallCase(t *testing.T) {
	Convey("Given two short offset sequences", t, func() {
		al := align.New(absCost)
		x := seq(1, 2, 3)
		y := seq(2, 3, 4)

		Convey("When aligned", func() {
			d, path := al.Align(x, y)

			Convey("Then the distance matches the hand-computed optimum", func() {
				So(d, ShouldEqual, 2)
			})

			Convey("And the path matches the deterministic tie-breaking", func() {
				So(path, ShouldResemble, model.Path{
					{I: 0, J: 0}, {I: 1, J: 0}, {I: 2, J: 1}, {I: 2, J: 2},
				})
			})
		})
	})
}

func TestAlignerIdenticalSequences(t *testing.T) {
	Convey("Given identical sequences long enough to recurse", t, func() {
		al := align.New(absCost)
		x := seq(1, 4, 9, 16, 25, 36, 49, 64)

		Convey("When a sequence is aligned with itself", func() {
			d, path := al.Align(x, x)

			Convey("Then the distance is zero", func() {
				So(d, ShouldEqual, 0)
			})

			Convey("And the path is the main diagonal", func() {
				So(path, ShouldHaveLength, len(x))
				for i, step := range path {
					So(step.I, ShouldEqual, i)
					So(step.J, ShouldEqual, i)
				}
			})
		})
	})
}

func TestAlignerPathShape(t *testing.T) {
	Convey("Given sequences of uneven lengths", t, func() {
		al := align.New(absCost)
		x := seq(0, 5, 5, 10, 20, 20, 30, 35, 40, 50, 55)
		y := seq(0, 10, 20, 30, 40, 50)

		Convey("When aligned", func() {
			d, path := al.Align(x, y)

			Convey("Then the path starts and ends at the corners", func() {
				So(path[0], ShouldResemble, model.PathStep{I: 0, J: 0})
				So(path[len(path)-1], ShouldResemble, model.PathStep{I: len(x) - 1, J: len(y) - 1})
			})

			Convey("And every step advances monotonically by at most one", func() {
				for k := 1; k < len(path); k++ {
					di := path[k].I - path[k-1].I
					dj := path[k].J - path[k-1].J
					So(di, ShouldBeBetweenOrEqual, 0, 1)
					So(dj, ShouldBeBetweenOrEqual, 0, 1)
					So(di+dj, ShouldBeGreaterThanOrEqualTo, 1)
				}
			})

			Convey("And the distance is finite", func() {
				So(math.IsInf(d, 1), ShouldBeFalse)
			})
		})
	})
}

func TestAlignerDeterminism(t *testing.T) {
	Convey("Given any pair of sequences", t, func() {
		al := align.New(absCost)
		x := seq(3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5)
		y := seq(2, 7, 1, 8, 2, 8, 1, 8)

		Convey("When aligned repeatedly", func() {
			d1, p1 := al.Align(x, y)
			d2, p2 := al.Align(x, y)

			Convey("Then results are identical", func() {
				So(d1, ShouldEqual, d2)
				So(p1, ShouldResemble, p2)
			})
		})
	})
}

func TestAlignerRadius(t *testing.T) {
	Convey("Given radius options", t, func() {
		Convey("When constructed with defaults", func() {
			al := align.New(absCost)
			So(al.Radius(), ShouldEqual, 1)
		})

		Convey("When constructed with a custom radius", func() {
			al := align.New(absCost, align.WithRadius(3))
			So(al.Radius(), ShouldEqual, 3)
		})

		Convey("When constructed with a negative radius", func() {
			al := align.New(absCost, align.WithRadius(-2))
			So(al.Radius(), ShouldEqual, 1)
		})

		Convey("When constructed with a zero radius", func() {
			al := align.New(absCost, align.WithRadius(0))
			So(al.Radius(), ShouldEqual, 1)

			Convey("Then identical odd-length sequences still align end to end", func() {
				x := seq(1, 2, 3)
				d, path := al.Align(x, seq(1, 2, 3))

				So(math.IsInf(d, 1), ShouldBeFalse)
				So(d, ShouldEqual, 0)
				So(path[0], ShouldResemble, model.PathStep{I: 0, J: 0})
				So(path[len(path)-1], ShouldResemble, model.PathStep{I: 2, J: 2})
			})
		})

		Convey("When the radius grows past both lengths", func() {
			// Radius 5 forces exact full dynamic programming here, so its
			// distance bounds the windowed approximation from below.
			x := seq(3, 1, 4, 1, 5)
			y := seq(2, 7, 1, 8, 2, 8)

			narrow, _ := align.New(absCost, align.WithRadius(1)).Align(x, y)
			wide, _ := align.New(absCost, align.WithRadius(5)).Align(x, y)

			Convey("Then the wider window is at least as tight", func() {
				So(wide, ShouldBeLessThanOrEqualTo, narrow)
			})
		})
	})
}

