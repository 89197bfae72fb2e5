// Package feature models the spatial regions drawn on the map.
package feature

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrDuplicateID = errors.New("duplicate feature id")
	ErrMissingID   = errors.New("feature has no id")
)

// Feature is one region (typically a ZIP code tabulation area) and its
// attributes. Features are read-only once loaded.
type Feature struct {
	ID         string
	Geometry   geom.T
	Properties map[string]any
}

// Has reports whether the property is present and non-null.
func (f *Feature) Has(name string) bool {
	if f == nil {
		return false
	}
	v, ok := f.Properties[name]
	return ok && v != nil
}

// Number reads a numeric property. Numeric strings are accepted; anything
// else, including NaN and infinities, reports false.
func (f *Feature) Number(name string) (float64, bool) {
	if !f.Has(name) {
		return 0, false
	}
	var v float64
	switch x := f.Properties[name].(type) {
	case float64:
		v = x
	case float32:
		v = float64(x)
	case int:
		v = float64(x)
	case int64:
		v = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		v = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		v = n
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Text reads a property as a string. Numbers use their shortest decimal form.
func (f *Feature) Text(name string) (string, bool) {
	if !f.Has(name) {
		return "", false
	}
	switch x := f.Properties[name].(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case json.Number:
		return x.String(), true
	default:
		return fmt.Sprint(x), true
	}
}

// Dataset is an immutable, indexed collection of features.
type Dataset struct {
	features []*Feature
	byID     map[string]*Feature
}

// NewDataset indexes features by ID. When a feature has no ID, the idField
// property is used instead. Features without any ID and repeated IDs are
// rejected.
func NewDataset(features []*Feature, idField string) (*Dataset, error) {
	d := &Dataset{
		features: make([]*Feature, 0, len(features)),
		byID:     make(map[string]*Feature, len(features)),
	}
	for i, f := range features {
		if f == nil {
			continue
		}
		if f.ID == "" && idField != "" {
			if id, ok := f.Text(idField); ok {
				f.ID = id
			}
		}
		if f.ID == "" {
			return nil, fmt.Errorf("%w: feature %d", ErrMissingID, i)
		}
		if _, dup := d.byID[f.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, f.ID)
		}
		d.byID[f.ID] = f
		d.features = append(d.features, f)
	}
	return d, nil
}

// Empty returns a dataset with no features.
func Empty() *Dataset {
	return &Dataset{byID: map[string]*Feature{}}
}

// Lookup returns the feature with the given ID.
func (d *Dataset) Lookup(id string) (*Feature, bool) {
	f, ok := d.byID[id]
	return f, ok
}

// All returns the features in load order. The slice must not be modified.
func (d *Dataset) All() []*Feature { return d.features }

// Len returns the number of features.
func (d *Dataset) Len() int { return len(d.features) }

// IDs returns the feature IDs in load order.
func (d *Dataset) IDs() []string {
	ids := make([]string, len(d.features))
	for i, f := range d.features {
		ids[i] = f.ID
	}
	return ids
}
