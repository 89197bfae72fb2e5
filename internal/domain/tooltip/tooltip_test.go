package tooltip_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/zipheat/internal/domain/feature"
	"github.com/okian/zipheat/internal/domain/tooltip"
	. "github.com/smartystreets/goconvey/convey"
)

func priceRules() []tooltip.Rule {
	return []tooltip.Rule{
		{Field: "ZCTA5CE10", Label: "Zipcode", Kind: tooltip.KindText, Suffix: " / ZIP code"},
		{Field: "change", Label: "2018 to 2021 average price change", Kind: tooltip.KindPercent, Decimals: 2},
	}
}

func TestFormatter_Format(t *testing.T) {
	Convey("Given a formatter for the price change map", t, func() {
		f, err := tooltip.NewFormatter(priceRules())
		So(err, ShouldBeNil)

		Convey("When nothing is hovered", func() {
			Convey("Then the tooltip should be nil", func() {
				So(f.Format(nil), ShouldBeNil)
			})
		})

		Convey("When a complete feature is hovered", func() {
			feat := &feature.Feature{ID: "43215", Properties: map[string]any{
				"ZCTA5CE10": "43215",
				"change":    0.1234,
			}}
			spec := f.Format(feat)

			Convey("Then the rows should follow the rule order", func() {
				So(spec, ShouldNotBeNil)
				So(spec.ID, ShouldEqual, "43215")
				So(spec.Rows, ShouldResemble, []tooltip.Row{
					{Label: "Zipcode", Value: "43215 / ZIP code"},
					{Label: "2018 to 2021 average price change", Value: "12.34%"},
				})
				So(spec.Missing(), ShouldEqual, 0)
			})
		})

		Convey("When the hovered feature lacks a configured field", func() {
			feat := &feature.Feature{ID: "43201", Properties: map[string]any{"ZCTA5CE10": "43201"}}

			Convey("Then the row should carry the placeholder", func() {
				var spec *tooltip.Spec
				So(func() { spec = f.Format(feat) }, ShouldNotPanic)
				So(len(spec.Rows), ShouldEqual, 2)
				So(spec.Rows[1], ShouldResemble, tooltip.Row{
					Label: "2018 to 2021 average price change", Value: tooltip.DefaultPlaceholder, Missing: true,
				})
				So(spec.Missing(), ShouldEqual, 1)
			})
		})

		Convey("When a numeric field holds garbage", func() {
			for _, v := range []any{"abc", math.NaN(), math.Inf(1), true} {
				spec := f.Format(&feature.Feature{Properties: map[string]any{"change": v}})

				So(spec.Rows[1].Missing, ShouldBeTrue)
			}
		})

		Convey("When the feature has no properties at all", func() {
			spec := f.Format(&feature.Feature{ID: "x"})

			Convey("Then every row should be a placeholder", func() {
				So(spec.Missing(), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a custom placeholder", t, func() {
		f, err := tooltip.NewFormatter(priceRules(), tooltip.WithPlaceholder("-"))
		So(err, ShouldBeNil)

		spec := f.Format(&feature.Feature{})
		So(spec.Rows[0].Value, ShouldEqual, "-")
	})
}

func TestRuleKinds(t *testing.T) {
	Convey("Given one feature and several rule kinds", t, func() {
		feat := &feature.Feature{Properties: map[string]any{
			"change":      0.1234,
			"growth":      12.5,
			"valuePerSqm": 2150.75,
			"sales":       1234567.0,
			"zip":         43215.0,
		}}
		rules := []tooltip.Rule{
			{Field: "change", Kind: tooltip.KindPercent, Decimals: 0},
			{Field: "growth", Kind: tooltip.KindPercentPoints, Decimals: 2},
			{Field: "valuePerSqm", Kind: tooltip.KindUnit, Prefix: "$", Suffix: " / m²"},
			{Field: "valuePerSqm", Label: "rounded", Kind: tooltip.KindUnit, Decimals: 1, Suffix: " $/m²"},
			{Field: "sales", Kind: tooltip.KindGrouped},
			{Field: "change", Label: "fixed", Kind: tooltip.KindFixed, Decimals: 2},
			{Field: "zip"},
		}
		f, err := tooltip.NewFormatter(rules)
		So(err, ShouldBeNil)
		spec := f.Format(feat)

		Convey("Then each kind should format its value", func() {
			values := make([]string, len(spec.Rows))
			for i, r := range spec.Rows {
				values[i] = r.Value
			}
			So(values, ShouldResemble, []string{
				"12%",
				"12.50%",
				"$2150.75 / m²",
				"2150.8 $/m²",
				"1,234,567",
				"0.12",
				"43215",
			})
		})

		Convey("Then unlabelled rules should use the field name", func() {
			So(spec.Rows[0].Label, ShouldEqual, "change")
			So(spec.Rows[3].Label, ShouldEqual, "rounded")
		})
	})
}

func TestNewFormatter_Validation(t *testing.T) {
	Convey("Given invalid rule tables", t, func() {
		Convey("Then an empty table should be rejected", func() {
			_, err := tooltip.NewFormatter(nil)
			So(err, ShouldEqual, tooltip.ErrNoRules)
		})

		Convey("Then unknown kinds should be rejected", func() {
			_, err := tooltip.NewFormatter([]tooltip.Rule{{Field: "a", Kind: "emoji"}})
			So(errors.Is(err, tooltip.ErrInvalidRule), ShouldBeTrue)
		})

		Convey("Then blank fields should be rejected", func() {
			_, err := tooltip.NewFormatter([]tooltip.Rule{{Field: " "}})
			So(errors.Is(err, tooltip.ErrInvalidRule), ShouldBeTrue)
		})

		Convey("Then negative decimals should be rejected", func() {
			_, err := tooltip.NewFormatter([]tooltip.Rule{{Field: "a", Kind: tooltip.KindFixed, Decimals: -1}})
			So(errors.Is(err, tooltip.ErrInvalidRule), ShouldBeTrue)
		})
	})

	Convey("Given kind names from configuration", t, func() {
		k, err := tooltip.ParseKind(" Percent ")
		So(err, ShouldBeNil)
		So(k, ShouldEqual, tooltip.KindPercent)

		k, err = tooltip.ParseKind("")
		So(err, ShouldBeNil)
		So(k, ShouldEqual, tooltip.KindText)

		_, err = tooltip.ParseKind("sparkline")
		So(errors.Is(err, tooltip.ErrInvalidRule), ShouldBeTrue)
	})
}

func TestSpec_HTML(t *testing.T) {
	Convey("Given a tooltip spec", t, func() {
		spec := &tooltip.Spec{Rows: []tooltip.Row{
			{Label: "Zipcode", Value: "43215 / ZIP code"},
			{Label: "<b>", Value: "a & b"},
		}}

		Convey("Then the markup should list label and value blocks", func() {
			html := spec.HTML()
			So(html, ShouldStartWith, "<div><b>Zipcode</b></div><div>43215 / ZIP code</div>")
			So(html, ShouldContainSubstring, "&lt;b&gt;")
			So(html, ShouldContainSubstring, "a &amp; b")
		})

		Convey("Then a nil spec should render nothing", func() {
			var none *tooltip.Spec
			So(none.HTML(), ShouldEqual, "")
			So(none.Missing(), ShouldEqual, 0)
		})
	})
}
