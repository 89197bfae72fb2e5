package geojson_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/zipheat/internal/adapters/geojson"
	"github.com/okian/zipheat/internal/domain/feature"
	. "github.com/smartystreets/goconvey/convey"
)

const sample = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Polygon", "coordinates": [[[-83.01,39.96],[-82.99,39.96],[-82.99,39.98],[-83.01,39.98],[-83.01,39.96]]]},
      "properties": {"ZCTA5CE10": "43215", "change": 0.1234}
    },
    {
      "type": "Feature",
      "geometry": {"type": "Polygon", "coordinates": [[[-83.0,40.0],[-82.98,40.0],[-82.98,40.02],[-83.0,40.0]]]},
      "properties": {"ZCTA5CE10": "43201", "change": -0.35}
    }
  ]
}`

func TestDecode(t *testing.T) {
	Convey("Given a ZIP code FeatureCollection", t, func() {
		Convey("When decoding it", func() {
			ds, err := geojson.Decode(strings.NewReader(sample), "ZCTA5CE10")

			Convey("Then features should be indexed by ZIP code", func() {
				So(err, ShouldBeNil)
				So(ds.Len(), ShouldEqual, 2)
				So(ds.IDs(), ShouldResemble, []string{"43215", "43201"})

				f, ok := ds.Lookup("43201")
				So(ok, ShouldBeTrue)
				v, ok := f.Number("change")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, -0.35)
				So(f.Geometry, ShouldNotBeNil)
			})
		})

		Convey("When the document is malformed", func() {
			_, err := geojson.Decode(strings.NewReader(`{"type": "FeatureCollection", "features": [`), "ZCTA5CE10")

			Convey("Then a decode error should be returned", func() {
				So(errors.Is(err, geojson.ErrDecode), ShouldBeTrue)
			})
		})

		Convey("When two features share a ZIP code", func() {
			doubled := strings.Replace(sample, `"43201"`, `"43215"`, 1)
			_, err := geojson.Decode(strings.NewReader(doubled), "ZCTA5CE10")

			Convey("Then the dataset should be rejected", func() {
				So(errors.Is(err, geojson.ErrDecode), ShouldBeTrue)
				So(errors.Is(err, feature.ErrDuplicateID), ShouldBeTrue)
			})
		})
	})
}

func TestLoadFile(t *testing.T) {
	Convey("Given a GeoJSON file on disk", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "geojson_heatmap.json")
		So(os.WriteFile(path, []byte(sample), 0o600), ShouldBeNil)

		Convey("Then it should load", func() {
			ds, err := geojson.LoadFile(context.Background(), path, "ZCTA5CE10")
			So(err, ShouldBeNil)
			So(ds.Len(), ShouldEqual, 2)
		})

		Convey("Then a missing file should report not-exist", func() {
			_, err := geojson.LoadFile(context.Background(), filepath.Join(dir, "nope.json"), "ZCTA5CE10")
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})

		Convey("Then a cancelled context should stop the load", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := geojson.LoadFile(ctx, path, "ZCTA5CE10")
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestEncode(t *testing.T) {
	Convey("Given a decoded dataset", t, func() {
		ds, err := geojson.Decode(strings.NewReader(sample), "ZCTA5CE10")
		So(err, ShouldBeNil)

		Convey("When encoding with extra properties", func() {
			var buf bytes.Buffer
			err := geojson.Encode(&buf, ds, func(f *feature.Feature) map[string]any {
				return map[string]any{"bucket": len(f.ID)}
			})

			Convey("Then the output should carry both property sets", func() {
				So(err, ShouldBeNil)
				var out struct {
					Type     string `json:"type"`
					Features []struct {
						ID         string         `json:"id"`
						Properties map[string]any `json:"properties"`
					} `json:"features"`
				}
				So(json.Unmarshal(buf.Bytes(), &out), ShouldBeNil)
				So(out.Type, ShouldEqual, "FeatureCollection")
				So(len(out.Features), ShouldEqual, 2)
				So(out.Features[0].ID, ShouldEqual, "43215")
				So(out.Features[0].Properties["change"], ShouldEqual, 0.1234)
				So(out.Features[0].Properties["bucket"], ShouldEqual, float64(5))
			})

			Convey("And the dataset itself should be untouched", func() {
				f, _ := ds.Lookup("43215")
				So(f.Has("bucket"), ShouldBeFalse)
			})
		})
	})
}
