package legend_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/zipheat/internal/domain/colorscale"
	"github.com/okian/zipheat/internal/domain/legend"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	Convey("Given the price change scale", t, func() {
		s := colorscale.MustNew(colorscale.PriceChangeBoundaries, colorscale.PriceChangeColors)
		colors := colorscale.PriceChangeColors

		Convey("When building an ascending legend with 11 ticks", func() {
			entries := legend.Build(s, 11, false)

			Convey("Then it should have exactly 11 entries", func() {
				So(len(entries), ShouldEqual, 11)
			})

			Convey("And the ticks should be the literal boundary values", func() {
				want := []float64{-1, -.8, -.6, -.4, -.2, 0, .2, .4, .6, .8, 1}
				for i, e := range entries {
					So(e.Value, ShouldEqual, want[i])
				}
			})

			Convey("And colors should follow the threshold scale", func() {
				So(entries[0].Color, ShouldResemble, colors[1])
				So(entries[5].Color, ShouldResemble, colorscale.RGB(255, 255, 255))
				So(entries[6].Color, ShouldResemble, colors[7])
				So(entries[10].Color, ShouldResemble, colors[11])
			})

			Convey("And labels should be plain numbers", func() {
				So(entries[0].Label, ShouldEqual, "-1")
				So(entries[1].Label, ShouldEqual, "-0.8")
				So(entries[5].Label, ShouldEqual, "0")
				So(entries[6].Label, ShouldEqual, "0.2")
			})
		})

		Convey("When building a reversed legend", func() {
			entries := legend.Build(s, 12, true)

			Convey("Then values should be strictly descending", func() {
				So(len(entries), ShouldEqual, 12)
				for i := 1; i < len(entries); i++ {
					So(entries[i].Value, ShouldBeLessThan, entries[i-1].Value)
				}
				So(entries[0].Value, ShouldEqual, 1)
				So(entries[len(entries)-1].Value, ShouldEqual, -1)
			})
		})

		Convey("When building an ascending legend", func() {
			entries := legend.Build(s, 7, false)

			Convey("Then values should be strictly ascending", func() {
				So(len(entries), ShouldEqual, 7)
				for i := 1; i < len(entries); i++ {
					So(entries[i].Value, ShouldBeGreaterThan, entries[i-1].Value)
				}
			})
		})

		Convey("When the tick count is not positive", func() {
			Convey("Then no entries should be produced", func() {
				So(legend.Build(s, 0, false), ShouldBeEmpty)
				So(legend.Build(s, -3, true), ShouldBeEmpty)
				So(legend.Build(nil, 5, true), ShouldBeEmpty)
			})
		})

		Convey("When a single tick is requested", func() {
			entries := legend.Build(s, 1, true)

			Convey("Then it should sit at the domain minimum", func() {
				So(len(entries), ShouldEqual, 1)
				So(entries[0].Value, ShouldEqual, -1)
			})
		})

		Convey("When percent labels and a custom domain are used", func() {
			entries := legend.Build(s, 3, false,
				legend.WithFormatter(legend.PercentLabels(0)),
				legend.WithDomain(-0.5, 0.5),
			)

			Convey("Then labels should be percentages over that domain", func() {
				So(len(entries), ShouldEqual, 3)
				So(entries[0].Label, ShouldEqual, "-50%")
				So(entries[1].Label, ShouldEqual, "0%")
				So(entries[2].Label, ShouldEqual, "50%")
			})
		})

		Convey("When an inverted domain is given", func() {
			entries := legend.Build(s, 2, false, legend.WithDomain(1, -1))

			Convey("Then the scale domain should be kept", func() {
				So(entries[0].Value, ShouldEqual, -1)
				So(entries[1].Value, ShouldEqual, 1)
			})
		})
	})
}

func TestGradient(t *testing.T) {
	Convey("Given a black to white gradient over [-1, 1]", t, func() {
		black, white := colorscale.RGB(0, 0, 0), colorscale.RGB(255, 255, 255)
		g, err := legend.NewGradient([]colorscale.Color{black, white}, -1, 1)
		So(err, ShouldBeNil)

		Convey("Then the ends should be the end colors", func() {
			So(g.ColorFor(-1), ShouldResemble, black)
			So(g.ColorFor(1), ShouldResemble, white)
		})

		Convey("Then out of domain values should clamp", func() {
			So(g.ColorFor(-7), ShouldResemble, black)
			So(g.ColorFor(7), ShouldResemble, white)
			So(g.ColorFor(math.NaN()), ShouldResemble, black)
		})

		Convey("Then the middle should be a grey", func() {
			mid := g.ColorFor(0)
			So(mid.R, ShouldBeGreaterThan, 0)
			So(mid.R, ShouldBeLessThan, 255)
			So(mid.R, ShouldEqual, mid.G)
			So(mid.Opaque(), ShouldBeTrue)
		})

		Convey("When used to build a legend", func() {
			s := colorscale.MustNew(colorscale.PriceChangeBoundaries, colorscale.PriceChangeColors)
			entries := legend.Build(s, 5, true, legend.WithGradient(g))

			Convey("Then swatches should come from the gradient", func() {
				So(entries[0].Color, ShouldResemble, white)
				So(entries[4].Color, ShouldResemble, black)
			})
		})
	})

	Convey("Given invalid gradient input", t, func() {
		_, err := legend.NewGradient([]colorscale.Color{colorscale.RGB(0, 0, 0)}, 0, 1)
		So(errors.Is(err, legend.ErrGradientColors), ShouldBeTrue)

		_, err = legend.NewGradient([]colorscale.Color{colorscale.RGB(0, 0, 0), colorscale.RGB(1, 1, 1)}, 1, 1)
		So(errors.Is(err, legend.ErrGradientDomain), ShouldBeTrue)
	})
}

func TestTicks(t *testing.T) {
	Convey("Given tick generation", t, func() {
		Convey("Then negative zero should not appear", func() {
			ticks := legend.Ticks(-1, 1, 3)
			So(ticks, ShouldResemble, []float64{-1, 0, 1})
			So(math.Signbit(ticks[1]), ShouldBeFalse)
		})

		Convey("Then zero ticks should be nil", func() {
			So(legend.Ticks(0, 1, 0), ShouldBeNil)
		})
	})
}
