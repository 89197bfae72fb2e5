package render_test

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/okian/zipheat/internal/adapters/render"
	"github.com/okian/zipheat/internal/domain/colorscale"
	"github.com/okian/zipheat/internal/domain/legend"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLegendSVG(t *testing.T) {
	Convey("Given a reversed price change legend", t, func() {
		s := colorscale.MustNew(colorscale.PriceChangeBoundaries, colorscale.PriceChangeColors)
		entries := legend.Build(s, 11, true)
		title := []string{"Change in normalized average sales", "price from 2018 to 2021"}

		Convey("When rendering it", func() {
			out, err := render.LegendSVG(title, entries)
			So(err, ShouldBeNil)
			svg := string(out)

			Convey("Then it should be well-formed XML", func() {
				d := xml.NewDecoder(strings.NewReader(svg))
				for {
					_, err := d.Token()
					if err != nil {
						So(err.Error(), ShouldEqual, "EOF")
						break
					}
				}
			})

			Convey("Then it should draw one swatch per entry", func() {
				So(strings.Count(svg, "<rect"), ShouldEqual, 11)
				So(strings.Count(svg, `class="legend"`), ShouldEqual, 11)
			})

			Convey("Then the highest value should come first", func() {
				first := strings.Index(svg, "#543005")
				last := strings.Index(svg, "#003c30")
				So(first, ShouldBeGreaterThan, 0)
				So(last, ShouldBeGreaterThan, first)
				So(svg, ShouldContainSubstring, `translate(0,45)`)
			})

			Convey("Then the title should be present", func() {
				So(svg, ShouldContainSubstring, "price from 2018 to 2021")
			})
		})
	})

	Convey("Given labels with markup characters", t, func() {
		entries := []legend.Entry{{Value: 1, Color: colorscale.Color{R: 1, A: 128}, Label: "<1 & up>"}}

		Convey("Then they should be escaped and alpha kept", func() {
			out, err := render.LegendSVG([]string{"a < b"}, entries)
			So(err, ShouldBeNil)
			So(string(out), ShouldContainSubstring, "&lt;1 &amp; up&gt;")
			So(string(out), ShouldContainSubstring, "a &lt; b")
			So(string(out), ShouldContainSubstring, `fill-opacity="0.502"`)
		})
	})

	Convey("Given no entries", t, func() {
		out, err := render.LegendSVG(nil, nil)

		Convey("Then an empty drawing should still render", func() {
			So(err, ShouldBeNil)
			So(string(out), ShouldStartWith, "<svg")
			So(string(out), ShouldNotContainSubstring, "<rect")
		})
	})
}
