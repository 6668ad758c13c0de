package weights_test

import (
	"testing"

	"github.com/okian/agon/internal/domain/weights"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromFractional(t *testing.T) {
	Convey("Given fractional preset weights", t, func() {
		Convey("When all fractions are equal", func() {
			out := weights.FromFractional(map[string]float64{
				"dribble": 0.25,
				"shot":    0.25,
				"defense": 0.25,
				"stamina": 0.25,
			})

			Convey("Then every skill resolves to neutral reactivity", func() {
				So(out, ShouldHaveLength, 4)
				for _, w := range out {
					So(w, ShouldAlmostEqual, 1.0, 1e-12)
				}
			})
		})

		Convey("When fractions are uneven", func() {
			out := weights.FromFractional(map[string]float64{
				"dribble": 0.6,
				"shot":    0.2,
				"defense": 0.2,
			})

			Convey("Then reactivity is fraction over mean", func() {
				So(out["dribble"], ShouldAlmostEqual, 1.8, 1e-12)
				So(out["shot"], ShouldAlmostEqual, 0.6, 1e-12)
				So(out["defense"], ShouldAlmostEqual, 0.6, 1e-12)
			})
		})

		Convey("When one fraction dwarfs the rest", func() {
			out := weights.FromFractional(map[string]float64{
				"dribble": 100.0,
				"shot":    0.001,
			})

			Convey("Then results stay inside the reactivity bounds", func() {
				So(out["dribble"], ShouldBeLessThanOrEqualTo, weights.MaxReactivity)
				So(out["shot"], ShouldBeGreaterThanOrEqualTo, weights.MinReactivity)
			})
		})

		Convey("When fractions include non-positive entries", func() {
			out := weights.FromFractional(map[string]float64{
				"dribble": 0.5,
				"shot":    0.5,
				"broken":  -1.0,
				"zero":    0.0,
			})

			Convey("Then they are dropped without skewing the mean", func() {
				So(out, ShouldHaveLength, 2)
				So(out["dribble"], ShouldAlmostEqual, 1.0, 1e-12)
			})
		})

		Convey("When nothing usable remains", func() {
			out := weights.FromFractional(map[string]float64{"broken": -1.0})

			Convey("Then the result is empty", func() {
				So(out, ShouldBeEmpty)
			})
		})
	})
}

func TestClampAll(t *testing.T) {
	Convey("Given directly supplied weights", t, func() {
		out := weights.ClampAll(map[string]float64{
			"dribble": 7.0,
			"shot":    0.05,
			"defense": 1.2,
			"broken":  0.0,
		})

		Convey("Then each weight is bounded and non-positive entries are dropped", func() {
			So(out["dribble"], ShouldEqual, weights.MaxReactivity)
			So(out["shot"], ShouldEqual, weights.MinReactivity)
			So(out["defense"], ShouldEqual, 1.2)
			So(out, ShouldNotContainKey, "broken")
		})
	})
}
