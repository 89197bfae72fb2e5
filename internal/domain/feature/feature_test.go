package feature_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/okian/zipheat/internal/domain/feature"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFeature_Properties(t *testing.T) {
	Convey("Given a feature with mixed properties", t, func() {
		f := &feature.Feature{Properties: map[string]any{
			"ZCTA5CE10": "43215",
			"change":    0.1234,
			"sales":     json.Number("120"),
			"area":      " 42.5 ",
			"label":     "n/a",
			"nan":       math.NaN(),
			"empty":     nil,
		}}

		Convey("Then numbers should be read tolerantly", func() {
			v, ok := f.Number("change")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 0.1234)

			v, ok = f.Number("sales")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 120)

			v, ok = f.Number("area")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 42.5)
		})

		Convey("Then non-numeric and absent values should report false", func() {
			for _, name := range []string{"label", "nan", "empty", "missing"} {
				_, ok := f.Number(name)
				So(ok, ShouldBeFalse)
			}
		})

		Convey("Then text should render numbers in shortest form", func() {
			s, ok := f.Text("change")
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, "0.1234")

			s, ok = f.Text("ZCTA5CE10")
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, "43215")

			_, ok = f.Text("empty")
			So(ok, ShouldBeFalse)
		})

		Convey("Then a nil feature should have nothing", func() {
			var nf *feature.Feature
			So(nf.Has("change"), ShouldBeFalse)
			_, ok := nf.Number("change")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestDataset(t *testing.T) {
	Convey("Given features keyed by a property", t, func() {
		features := []*feature.Feature{
			{Properties: map[string]any{"ZCTA5CE10": "43215"}},
			{ID: "explicit", Properties: map[string]any{"ZCTA5CE10": "43201"}},
			nil,
		}

		Convey("When building a dataset", func() {
			d, err := feature.NewDataset(features, "ZCTA5CE10")

			Convey("Then IDs should come from the feature or the property", func() {
				So(err, ShouldBeNil)
				So(d.Len(), ShouldEqual, 2)
				So(d.IDs(), ShouldResemble, []string{"43215", "explicit"})

				f, ok := d.Lookup("43215")
				So(ok, ShouldBeTrue)
				So(f.ID, ShouldEqual, "43215")

				_, ok = d.Lookup("43201")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When two features share an ID", func() {
			dup := []*feature.Feature{
				{ID: "a"}, {ID: "a"},
			}
			_, err := feature.NewDataset(dup, "")

			Convey("Then the dataset should be rejected", func() {
				So(errors.Is(err, feature.ErrDuplicateID), ShouldBeTrue)
			})
		})

		Convey("When a feature has no ID at all", func() {
			_, err := feature.NewDataset([]*feature.Feature{{Properties: map[string]any{}}}, "ZCTA5CE10")

			Convey("Then the dataset should be rejected", func() {
				So(errors.Is(err, feature.ErrMissingID), ShouldBeTrue)
			})
		})

		Convey("Then the empty dataset should have no features", func() {
			So(feature.Empty().Len(), ShouldEqual, 0)
			_, ok := feature.Empty().Lookup("x")
			So(ok, ShouldBeFalse)
		})
	})
}
