package lexical_test

import (
	"testing"

	lexical "github.com/okian/replay/internal/domain/lexical"
	. "github.com/smartystreets/goconvey/convey"
)

func TestVectorizerFit(t *testing.T) {
	Convey("Given a small corpus", t, func() {
		docs := []string{
			"apple banana apple",
			"banana cherry",
			"apple cherry banana",
			"durian",
		}

		Convey("When fitted with defaults", func() {
			v := lexical.New()
			v.Fit(docs)

			Convey("Then rare terms are filtered out", func() {
				// durian appears once, below the minimum document frequency.
				So(v.VocabSize(), ShouldEqual, 3)
				So(v.DocCount(), ShouldEqual, 4)
			})

			Convey("Then fitted rows are unit length", func() {
				for i := 0; i < v.DocCount(); i++ {
					row, ok := v.Row(i)
					So(ok, ShouldBeTrue)
					if len(row.Indices) == 0 {
						continue
					}
					So(row.Dot(row), ShouldAlmostEqual, 1.0)
				}
			})

			Convey("Then a document scores one against itself", func() {
				query, err := v.Transform(docs[0])
				So(err, ShouldBeNil)

				row, _ := v.Row(0)
				So(query.Dot(row), ShouldAlmostEqual, 1.0)
			})

			Convey("Then filtered terms vanish from transforms", func() {
				vec, err := v.Transform("durian")
				So(err, ShouldBeNil)
				So(vec.Indices, ShouldBeEmpty)
			})

			Convey("Then unseen terms vanish from transforms", func() {
				vec, err := v.Transform("apple elderberry")
				So(err, ShouldBeNil)
				So(vec.Indices, ShouldHaveLength, 1)
			})
		})

		Convey("When a term floods the corpus", func() {
			v := lexical.New()
			v.Fit([]string{"common a", "common b", "common a"})

			Convey("Then the max document ratio drops it", func() {
				// common sits in 3 of 3 documents, above 95 percent.
				// a survives with document frequency 2, b does not.
				So(v.VocabSize(), ShouldEqual, 1)

				vec, err := v.Transform("common")
				So(err, ShouldBeNil)
				So(vec.Indices, ShouldBeEmpty)
			})
		})

		Convey("When every term is filtered away", func() {
			v := lexical.New()
			v.Fit([]string{"a b", "c d"})

			Convey("Then the fit still succeeds with an empty vocabulary", func() {
				So(v.VocabSize(), ShouldEqual, 0)
				So(v.DocCount(), ShouldEqual, 2)

				vec, err := v.Transform("a")
				So(err, ShouldBeNil)
				So(vec.Indices, ShouldBeEmpty)

				matches, err := v.TopN(vec, 5, lexical.MinScore)
				So(err, ShouldBeNil)
				So(matches, ShouldBeEmpty)
			})
		})

		Convey("When fitting an empty corpus", func() {
			v := lexical.New()
			v.Fit(nil)

			So(v.DocCount(), ShouldEqual, 0)
			So(v.VocabSize(), ShouldEqual, 0)

			vec, err := v.Transform("anything")
			So(err, ShouldBeNil)

			matches, err := v.TopN(vec, 3, lexical.MinScore)
			So(err, ShouldBeNil)
			So(matches, ShouldBeEmpty)
		})
	})
}

func TestVectorizerNotFitted(t *testing.T) {
	Convey("Given an unfitted vectorizer", t, func() {
		v := lexical.New()

		Convey("When transforming", func() {
			_, err := v.Transform("apple")
			So(err, ShouldEqual, lexical.ErrNotFitted)
		})

		Convey("When scoring", func() {
			_, err := v.TopN(lexical.Vector{}, 5, lexical.MinScore)
			So(err, ShouldEqual, lexical.ErrNotFitted)
		})

		Convey("When reading a row", func() {
			_, ok := v.Row(0)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestVectorizerTopN(t *testing.T) {
	Convey("Given a fitted corpus", t, func() {
		docs := []string{
			"apple banana apple",
			"banana cherry",
			"apple cherry banana",
			"durian",
		}
		v := lexical.New()
		v.Fit(docs)

		query, err := v.Transform(docs[0])
		So(err, ShouldBeNil)

		Convey("When asking for the full ranking", func() {
			matches, topErr := v.TopN(query, 10, lexical.MinScore)
			So(topErr, ShouldBeNil)

			Convey("Then rows rank by shared weighted terms", func() {
				So(matches, ShouldHaveLength, 3)
				So(matches[0].Row, ShouldEqual, 0)
				So(matches[0].Score, ShouldAlmostEqual, 1.0)
				So(matches[1].Row, ShouldEqual, 2)
				So(matches[2].Row, ShouldEqual, 1)
				So(matches[1].Score, ShouldBeGreaterThan, matches[2].Score)
			})

			Convey("Then the empty row never scores", func() {
				for _, m := range matches {
					So(m.Row, ShouldNotEqual, 3)
				}
			})
		})

		Convey("When truncating to one result", func() {
			matches, topErr := v.TopN(query, 1, lexical.MinScore)
			So(topErr, ShouldBeNil)
			So(matches, ShouldHaveLength, 1)
			So(matches[0].Row, ShouldEqual, 0)
		})

		Convey("When raising the score floor", func() {
			matches, topErr := v.TopN(query, 10, 0.5)
			So(topErr, ShouldBeNil)
			So(matches, ShouldHaveLength, 2)
		})

		Convey("When asking for zero results", func() {
			matches, topErr := v.TopN(query, 0, lexical.MinScore)
			So(topErr, ShouldBeNil)
			So(matches, ShouldBeEmpty)
		})
	})

	Convey("Given duplicate documents", t, func() {
		v := lexical.New()
		v.Fit([]string{"alpha beta", "alpha beta", "alpha gamma"})

		query, err := v.Transform("beta")
		So(err, ShouldBeNil)

		Convey("When scores tie", func() {
			matches, topErr := v.TopN(query, 10, lexical.MinScore)
			So(topErr, ShouldBeNil)

			Convey("Then ascending row order breaks the tie", func() {
				So(matches, ShouldHaveLength, 2)
				So(matches[0].Row, ShouldEqual, 0)
				So(matches[1].Row, ShouldEqual, 1)
				So(matches[0].Score, ShouldAlmostEqual, matches[1].Score)
			})
		})
	})
}

func TestVectorizerOptions(t *testing.T) {
	Convey("Given frequency bound options", t, func() {
		docs := []string{"solo shared", "shared"}

		Convey("When lowering the minimum document frequency", func() {
			v := lexical.New(lexical.WithMinDocFreq(1), lexical.WithMaxDocRatio(1.0))
			v.Fit(docs)

			Convey("Then singleton terms survive", func() {
				So(v.VocabSize(), ShouldEqual, 2)
			})
		})

		Convey("When keeping defaults", func() {
			v := lexical.New(lexical.WithMaxDocRatio(1.0))
			v.Fit(docs)

			Convey("Then only the shared term survives", func() {
				So(v.VocabSize(), ShouldEqual, 1)
			})
		})

		Convey("When options carry invalid values", func() {
			v := lexical.New(lexical.WithMinDocFreq(0), lexical.WithMaxDocRatio(1.5))
			v.Fit(docs)

			Convey("Then the defaults still apply", func() {
				// Default ratio 0.95 of two documents caps at 1.9, so the
				// shared term in both documents is filtered out too.
				So(v.VocabSize(), ShouldEqual, 0)
			})
		})
	})
}

func TestVectorDot(t *testing.T) {
	Convey("Given sparse vectors", t, func() {
		v := lexical.Vector{Indices: []int{0, 2}, Values: []float64{0.5, 0.5}}
		w := lexical.Vector{Indices: []int{1, 2}, Values: []float64{1.0, 0.5}}

		Convey("When computing the dot product", func() {
			So(v.Dot(w), ShouldAlmostEqual, 0.25)
			So(w.Dot(v), ShouldAlmostEqual, 0.25)
		})

		Convey("When one side is empty", func() {
			So(v.Dot(lexical.Vector{}), ShouldEqual, 0)
		})
	})
}
