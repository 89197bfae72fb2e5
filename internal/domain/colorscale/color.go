// Package colorscale maps continuous values onto a discrete color palette.
package colorscale

import (
	"encoding/json"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Byte limits for color channels.
const (
	maxChannel   = 255
	rgbLen       = 3
	rgbaLen      = 4
	shortHexLen  = 3
	longHexLen   = 6
	alphaHexLen  = 8
	hexBase      = 16
	channelBits  = 8
	shortHexMult = 17 // 0xf -> 0xff
)

// Color is a non-premultiplied RGBA color with 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

// Named colors accepted by ParseColor.
var named = map[string]Color{
	"white":       {R: 255, G: 255, B: 255, A: 255},
	"black":       {A: 255},
	"transparent": {},
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: maxChannel}
}

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// Opaque reports whether alpha is fully set.
func (c Color) Opaque() bool { return c.A == maxChannel }

// Hex renders the color as #rrggbb, or #rrggbbaa when translucent.
func (c Color) Hex() string {
	if c.Opaque() {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Slice returns [r,g,b] for opaque colors and [r,g,b,a] otherwise.
func (c Color) Slice() []int {
	if c.Opaque() {
		return []int{int(c.R), int(c.G), int(c.B)}
	}
	return []int{int(c.R), int(c.G), int(c.B), int(c.A)}
}

func (c Color) String() string { return c.Hex() }

// MarshalJSON encodes the color as an array of channel values, the shape
// deck.gl accepts for fill colors.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Slice())
}

// UnmarshalJSON accepts either a channel array or a color string.
func (c *Color) UnmarshalJSON(data []byte) error {
	var channels []int
	if err := json.Unmarshal(data, &channels); err == nil {
		parsed, err := FromSlice(channels)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrBadColor, string(data))
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// FromSlice builds a color from 3 (RGB) or 4 (RGBA) channel values in 0..255.
func FromSlice(channels []int) (Color, error) {
	if len(channels) != rgbLen && len(channels) != rgbaLen {
		return Color{}, fmt.Errorf("%w: want 3 or 4 channels, got %d", ErrBadColor, len(channels))
	}
	var out [rgbaLen]uint8
	out[3] = maxChannel
	for i, v := range channels {
		if v < 0 || v > maxChannel {
			return Color{}, fmt.Errorf("%w: channel %d out of range: %d", ErrBadColor, i, v)
		}
		out[i] = uint8(v)
	}
	return Color{R: out[0], G: out[1], B: out[2], A: out[3]}, nil
}

// FromColor converts any image/color.Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

// ParseColor parses #rgb, #rrggbb, #rrggbbaa or one of the names white,
// black and transparent.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[s]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(hex, hexBase, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	switch len(hex) {
	case shortHexLen:
		return Color{
			R: uint8(v>>8&0xf) * shortHexMult,
			G: uint8(v>>4&0xf) * shortHexMult,
			B: uint8(v&0xf) * shortHexMult,
			A: maxChannel,
		}, nil
	case longHexLen:
		return Color{R: uint8(v >> 16), G: uint8(v >> channelBits), B: uint8(v), A: maxChannel}, nil
	case alphaHexLen:
		return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> channelBits), A: uint8(v)}, nil
	}
	return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
}

// MustParseColors parses a list of color strings and panics on error. It is
// meant for package-level palettes.
func MustParseColors(specs ...string) []Color {
	out := make([]Color, len(specs))
	for i, s := range specs {
		c, err := ParseColor(s)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}
