package config

import (
	"fmt"

	service "github.com/okian/zipheat/internal/app"
	"github.com/okian/zipheat/internal/domain/colorscale"
	"github.com/okian/zipheat/internal/domain/legend"
	"github.com/okian/zipheat/internal/domain/overlay"
	"github.com/okian/zipheat/internal/domain/tooltip"
)

// BuildScale resolves the preset and applies boundary, color and no-data
// overrides.
func (c *Config) BuildScale() (*colorscale.ThresholdScale, error) {
	boundaries, colors := c.Scale.Boundaries, []colorscale.Color(nil)
	if c.Scale.Preset != "" {
		p, err := colorscale.LookupPreset(c.Scale.Preset)
		if err != nil {
			return nil, fmt.Errorf("%w: scale.preset: %w", ErrInvalidConfig, err)
		}
		if len(boundaries) == 0 {
			boundaries = p.Boundaries
		}
		colors = p.Colors
	}
	if len(c.Scale.Colors) > 0 {
		colors = make([]colorscale.Color, len(c.Scale.Colors))
		for i, spec := range c.Scale.Colors {
			col, err := colorscale.ParseColor(spec)
			if err != nil {
				return nil, fmt.Errorf("%w: scale.colors[%d]: %w", ErrInvalidConfig, i, err)
			}
			colors[i] = col
		}
	}

	var opts []colorscale.Option
	if c.Scale.NoData != "" {
		noData, err := colorscale.ParseColor(c.Scale.NoData)
		if err != nil {
			return nil, fmt.Errorf("%w: scale.no_data: %w", ErrInvalidConfig, err)
		}
		opts = append(opts, colorscale.WithNoDataColor(noData))
	}

	s, err := colorscale.New(boundaries, colors, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: scale: %w", ErrInvalidConfig, err)
	}
	return s, nil
}

// LegendOptions returns the legend.Build options for the configured label
// format and color mode. Gradient mode spans the scale domain.
func (c *Config) LegendOptions(s *colorscale.ThresholdScale) ([]legend.Option, error) {
	if c.Legend.Decimals < 0 {
		return nil, fmt.Errorf("%w: legend.decimals %d is negative", ErrInvalidConfig, c.Legend.Decimals)
	}
	opts := []legend.Option{legend.WithFormatter(legend.PlainLabels())}
	if c.Legend.Percent {
		opts = []legend.Option{legend.WithFormatter(legend.PercentLabels(c.Legend.Decimals))}
	}

	switch c.Legend.Mode {
	case "", LegendModeThreshold:
	case LegendModeGradient:
		ramp, err := colorscale.Ramp(c.Legend.Ramp)
		if err != nil {
			return nil, fmt.Errorf("%w: legend.ramp: %w", ErrInvalidConfig, err)
		}
		lo, hi := s.Domain()
		g, err := legend.NewGradient(ramp, lo, hi)
		if err != nil {
			return nil, fmt.Errorf("%w: legend gradient: %w", ErrInvalidConfig, err)
		}
		opts = append(opts, legend.WithGradient(g))
	default:
		return nil, fmt.Errorf("%w: legend.mode %q", ErrInvalidConfig, c.Legend.Mode)
	}
	return opts, nil
}

// BuildTooltip builds the tooltip formatter from the field table.
func (c *Config) BuildTooltip() (*tooltip.Formatter, error) {
	rules := make([]tooltip.Rule, len(c.Tooltip.Fields))
	for i, f := range c.Tooltip.Fields {
		kind, err := tooltip.ParseKind(f.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: tooltip.fields[%d]: %w", ErrInvalidConfig, i, err)
		}
		rules[i] = tooltip.Rule{
			Field:    f.Field,
			Label:    f.Label,
			Kind:     kind,
			Decimals: f.Decimals,
			Prefix:   f.Prefix,
			Suffix:   f.Suffix,
		}
	}
	var opts []tooltip.Option
	if c.Tooltip.Placeholder != "" {
		opts = append(opts, tooltip.WithPlaceholder(c.Tooltip.Placeholder))
	}
	f, err := tooltip.NewFormatter(rules, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: tooltip: %w", ErrInvalidConfig, err)
	}
	return f, nil
}

// BuildIcons converts and validates the icon table. Positions are resolved
// later against the dataset.
func (c *Config) BuildIcons() ([]overlay.Icon, error) {
	icons := make([]overlay.Icon, len(c.Icons))
	for i, ic := range c.Icons {
		icons[i] = overlay.Icon{Zip: ic.Zip, Image: ic.Image, Size: ic.Size}
		if len(ic.Position) > 0 {
			icons[i].Position = append([]float64(nil), ic.Position...)
		}
	}
	if _, _, err := overlay.Resolve(icons, nil); err != nil {
		return nil, fmt.Errorf("%w: icons: %w", ErrInvalidConfig, err)
	}
	return icons, nil
}

// ServiceOptions maps the configuration onto choropleth service options.
func (c *Config) ServiceOptions() ([]service.Option, error) {
	scale, err := c.BuildScale()
	if err != nil {
		return nil, err
	}
	legendOpts, err := c.LegendOptions(scale)
	if err != nil {
		return nil, err
	}
	tips, err := c.BuildTooltip()
	if err != nil {
		return nil, err
	}
	icons, err := c.BuildIcons()
	if err != nil {
		return nil, err
	}
	return []service.Option{
		service.WithScale(scale),
		service.WithLegend(c.Legend.Ticks, c.Legend.Reversed, legendOpts...),
		service.WithLegendTitle(c.Legend.Title...),
		service.WithTooltipFormatter(tips),
		service.WithDataFile(c.DataPath(), c.IDField),
		service.WithMetricField(c.MetricField),
		service.WithIcons(icons),
		service.WithView(service.View(c.View)),
	}, nil
}
