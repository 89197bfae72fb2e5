// Package geojson reads and writes feature datasets as GeoJSON
// FeatureCollections.
package geojson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"

	geomjson "github.com/twpayne/go-geom/encoding/geojson"

	"github.com/okian/zipheat/internal/domain/feature"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrDecode = errors.New("geojson decode failed")
	ErrEncode = errors.New("geojson encode failed")
)

// PropertyFunc computes extra properties to attach to a feature on encode.
type PropertyFunc func(f *feature.Feature) map[string]any

// LoadFile reads a FeatureCollection from path.
func LoadFile(ctx context.Context, path, idField string) (*feature.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Decode(f, idField)
}

// Decode parses a FeatureCollection and indexes it by feature ID, falling
// back to the idField property.
func Decode(r io.Reader, idField string) (*feature.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	var fc geomjson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	features := make([]*feature.Feature, 0, len(fc.Features))
	for _, gf := range fc.Features {
		if gf == nil {
			continue
		}
		features = append(features, &feature.Feature{
			ID:         gf.ID,
			Geometry:   gf.Geometry,
			Properties: gf.Properties,
		})
	}
	ds, err := feature.NewDataset(features, idField)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return ds, nil
}

// Encode writes the dataset as a FeatureCollection. When extra is non-nil its
// properties are merged over each feature's own; the dataset is not modified.
func Encode(w io.Writer, ds *feature.Dataset, extra PropertyFunc) error {
	fc := geomjson.FeatureCollection{Features: make([]*geomjson.Feature, 0, ds.Len())}
	for _, f := range ds.All() {
		props := make(map[string]any, len(f.Properties)+2)
		maps.Copy(props, f.Properties)
		if extra != nil {
			maps.Copy(props, extra(f))
		}
		fc.Features = append(fc.Features, &geomjson.Feature{
			ID:         f.ID,
			Geometry:   f.Geometry,
			Properties: props,
		})
	}
	data, err := json.Marshal(&fc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}
