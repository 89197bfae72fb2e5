// Package render draws legend data produced by the legend package.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"strconv"
	"text/template"

	"github.com/okian/zipheat/internal/domain/legend"
)

// Layout of the legend drawing, in pixels.
const (
	marginTop     = 20
	marginLeft    = 10
	marginBottom  = 5
	minWidth      = 300
	minHeight     = 300
	swatchSize    = 20
	swatchPitch   = 20
	firstSwatchY  = 45
	titlePitch    = 20
	titleFirstY   = 10
	labelOffsetX  = 25
	labelOffsetY  = 10
	opaqueChannel = 255
)

//go:embed templates/legend.svg.tmpl
var legendTemplateStr string

var legendTemplate = template.Must(template.New("legend").Parse(legendTemplateStr))

type titleLine struct {
	Y    int
	Text string
}

type swatch struct {
	Y       int
	Fill    string
	Opacity string
	Label   string
}

type legendData struct {
	Width, Height         int
	MarginLeft, MarginTop int
	Swatch                int
	LabelX, LabelY        int
	Title                 []titleLine
	Swatches              []swatch
}

// LegendSVG draws title lines followed by one swatch per entry, top to bottom
// in the order given.
func LegendSVG(title []string, entries []legend.Entry) ([]byte, error) {
	data := legendData{
		Width:      minWidth,
		MarginLeft: marginLeft,
		MarginTop:  marginTop,
		Swatch:     swatchSize,
		LabelX:     labelOffsetX,
		LabelY:     labelOffsetY,
	}
	for i, line := range title {
		data.Title = append(data.Title, titleLine{Y: titleFirstY + i*titlePitch, Text: line})
	}
	// Swatches start below the title, never above the classic offset.
	top := firstSwatchY
	if t := titleFirstY + len(title)*titlePitch + marginBottom; t > top {
		top = t
	}
	for i, e := range entries {
		s := swatch{Y: top + i*swatchPitch, Fill: e.Color.Hex()[:7], Label: e.Label}
		if !e.Color.Opaque() {
			s.Opacity = strconv.FormatFloat(float64(e.Color.A)/opaqueChannel, 'f', 3, 64)
		}
		data.Swatches = append(data.Swatches, s)
	}
	data.Height = max(minHeight, marginTop+top+len(entries)*swatchPitch+marginBottom)

	var buf bytes.Buffer
	if err := legendTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute legend template: %w", err)
	}
	return buf.Bytes(), nil
}
