// Package overlay places per-zipcode chart icons on the map.
package overlay

import (
	"errors"
	"fmt"

	"github.com/twpayne/go-geom/xy"

	"github.com/okian/zipheat/internal/domain/feature"
)

// Sentinel error kinds for this package.
var (
	ErrInvalidIcon = errors.New("invalid icon")
)

// Icon is an image anchored at a map position. Position is [lon, lat];
// a nil Position asks Resolve to use the centroid of the matching feature.
type Icon struct {
	Zip      string    `json:"zip"`
	Image    string    `json:"image"`
	Position []float64 `json:"position"`
	Size     float64   `json:"size"`
}

// Placed reports whether the icon has a usable position.
func (i Icon) Placed() bool { return len(i.Position) == 2 }

// Resolve validates icons and fills missing positions from feature
// centroids. Icons that have neither a position nor a matching feature are
// dropped and returned separately so callers can report them.
func Resolve(icons []Icon, ds *feature.Dataset) (placed []Icon, dropped []Icon, err error) {
	placed = make([]Icon, 0, len(icons))
	for n, icon := range icons {
		switch {
		case icon.Image == "":
			return nil, nil, fmt.Errorf("%w: icon %d has no image", ErrInvalidIcon, n)
		case icon.Size <= 0:
			return nil, nil, fmt.Errorf("%w: icon %d (%s) has size %v", ErrInvalidIcon, n, icon.Image, icon.Size)
		case icon.Position != nil && !icon.Placed():
			return nil, nil, fmt.Errorf("%w: icon %d (%s) position needs [lon, lat]", ErrInvalidIcon, n, icon.Image)
		}
		if icon.Placed() {
			icon.Position = append([]float64(nil), icon.Position...)
			placed = append(placed, icon)
			continue
		}
		pos, ok := centroid(ds, icon.Zip)
		if !ok {
			dropped = append(dropped, icon)
			continue
		}
		icon.Position = pos
		placed = append(placed, icon)
	}
	return placed, dropped, nil
}

func centroid(ds *feature.Dataset, zip string) ([]float64, bool) {
	if ds == nil || zip == "" {
		return nil, false
	}
	f, ok := ds.Lookup(zip)
	if !ok || f.Geometry == nil {
		return nil, false
	}
	c, err := xy.Centroid(f.Geometry)
	if err != nil || len(c) < 2 {
		return nil, false
	}
	return []float64{c.X(), c.Y()}, true
}
