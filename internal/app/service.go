// Package service composes the color scale, legend, tooltip formatter and
// ZIP code dataset into the read operations served over HTTP and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"sync"
	"time"

	"github.com/okian/zipheat/internal/adapters/geojson"
	"github.com/okian/zipheat/internal/adapters/render"
	"github.com/okian/zipheat/internal/domain/colorscale"
	"github.com/okian/zipheat/internal/domain/feature"
	"github.com/okian/zipheat/internal/domain/legend"
	"github.com/okian/zipheat/internal/domain/overlay"
	"github.com/okian/zipheat/internal/domain/tooltip"
	"github.com/okian/zipheat/pkg/logger"
	"github.com/okian/zipheat/pkg/metrics"
)

// Sentinel error kinds for this package.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrFeatureNotFound = errors.New("feature not found")
	ErrDatasetLoad     = errors.New("dataset load failed")
)

// Properties added to each feature of the choropleth document.
const (
	PropFillColor = "fill_color"
	PropBucket    = "bucket"
)

// Color lookup outcomes reported to metrics.
const (
	lookupInDomain  = "in_domain"
	lookupSaturated = "saturated"
	lookupNoData    = "no_data"
)

// View is the initial camera and basemap handed to the page.
type View struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
	MaxZoom   float64 `json:"max_zoom"`
	MapStyle  string  `json:"map_style"`
	Opacity   float64 `json:"opacity"`
}

// paint is everything computed once at Start. It is never modified after.
type paint struct {
	dataset  *feature.Dataset
	colors   map[string]colorscale.Color
	buckets  map[string]int
	counts   map[int]int
	missing  int
	icons    []overlay.Icon
	dropped  int
	loadedAt time.Time
}

// Service serves choropleth reads over a dataset loaded once at Start.
type Service struct {
	mu      sync.RWMutex
	started bool
	state   *paint

	// Configuration
	scale          *colorscale.ThresholdScale
	legendTicks    int
	legendReversed bool
	legendTitle    []string
	legendOpts     []legend.Option
	tooltips       *tooltip.Formatter
	dataFile       string
	idField        string
	metricField    string
	icons          []overlay.Icon
	view           View
	preloaded      *feature.Dataset

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithScale sets the threshold scale used for fill colors and legends.
func WithScale(scale *colorscale.ThresholdScale) Option {
	return func(s *Service) {
		if scale != nil {
			s.scale = scale
		}
	}
}

// WithLegend sets the default tick count, order and build options.
func WithLegend(ticks int, reversed bool, opts ...legend.Option) Option {
	return func(s *Service) {
		if ticks >= 0 {
			s.legendTicks = ticks
		}
		s.legendReversed = reversed
		s.legendOpts = opts
	}
}

// WithLegendTitle sets the lines drawn above the legend.
func WithLegendTitle(lines ...string) Option {
	return func(s *Service) {
		s.legendTitle = append([]string(nil), lines...)
	}
}

// WithTooltipFormatter sets the tooltip row table.
func WithTooltipFormatter(f *tooltip.Formatter) Option {
	return func(s *Service) {
		if f != nil {
			s.tooltips = f
		}
	}
}

// WithDataFile sets the GeoJSON file read at Start and the property used as
// feature ID when a feature has none.
func WithDataFile(path, idField string) Option {
	return func(s *Service) {
		s.dataFile = path
		if idField != "" {
			s.idField = idField
		}
	}
}

// WithDataset uses an already loaded dataset instead of reading a file.
func WithDataset(ds *feature.Dataset) Option {
	return func(s *Service) {
		s.preloaded = ds
	}
}

// WithMetricField sets the property colored by the scale.
func WithMetricField(field string) Option {
	return func(s *Service) {
		if field != "" {
			s.metricField = field
		}
	}
}

// WithIcons sets the chart icons placed over the map.
func WithIcons(icons []overlay.Icon) Option {
	return func(s *Service) {
		s.icons = append([]overlay.Icon(nil), icons...)
	}
}

// WithView sets the initial map view.
func WithView(v View) Option {
	return func(s *Service) {
		s.view = v
	}
}

// New constructs a new Service with default configuration: the price change
// scale, an 11 tick reversed legend and a ZIP code / change tooltip.
func New(opts ...Option) *Service {
	tips, err := tooltip.NewFormatter([]tooltip.Rule{
		{Field: "ZCTA5CE10", Label: "Zipcode", Kind: tooltip.KindText, Suffix: " / ZIP code"},
		{Field: "change", Label: "2018 to 2021 average price change", Kind: tooltip.KindPercent, Decimals: 2},
	})
	if err != nil {
		panic(err)
	}
	s := &Service{
		scale:          colorscale.MustNew(colorscale.PriceChangeBoundaries, colorscale.PriceChangeColors),
		legendTicks:    11,
		legendReversed: true,
		tooltips:       tips,
		idField:        "ZCTA5CE10",
		metricField:    "change",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset, paints every feature and places icons. A missing
// data file leaves the map empty; a malformed one fails.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting choropleth service...")

	ds, err := s.loadDataset(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("dataset", "load")
		return err
	}

	p := s.paint(ds)
	placed, dropped, err := overlay.Resolve(s.icons, ds)
	if err != nil {
		return err
	}
	p.icons, p.dropped = placed, len(dropped)
	for _, icon := range dropped {
		s.logger.Warn(ctx, "icon has no position and no matching feature", logger.String("zip", icon.Zip), logger.String("image", icon.Image))
	}

	metrics.SetBucketCounts(p.counts, p.missing)
	metrics.SetIcons(len(p.icons), p.dropped)

	s.state = p
	s.started = true
	s.logger.Info(ctx, "choropleth service started",
		logger.Int("features", ds.Len()),
		logger.Int("without_metric", p.missing),
		logger.Int("icons", len(p.icons)),
	)
	return nil
}

func (s *Service) loadDataset(ctx context.Context) (*feature.Dataset, error) {
	if s.preloaded != nil {
		return s.preloaded, nil
	}
	if s.dataFile == "" {
		return feature.Empty(), nil
	}
	start := time.Now()
	ds, err := geojson.LoadFile(ctx, s.dataFile, s.idField)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Warn(ctx, "data file not found; serving an empty map", logger.String("path", s.dataFile))
		return feature.Empty(), nil
	case err != nil:
		return nil, fmt.Errorf("%w: %s: %w", ErrDatasetLoad, s.dataFile, err)
	}
	took := time.Since(start)
	metrics.ObserveDatasetLoad(ds.Len(), took)
	s.logger.Debug(ctx, "dataset loaded", logger.String("path", s.dataFile), logger.Duration("took", took))
	return ds, nil
}

func (s *Service) paint(ds *feature.Dataset) *paint {
	p := &paint{
		dataset:  ds,
		colors:   make(map[string]colorscale.Color, ds.Len()),
		buckets:  make(map[string]int, ds.Len()),
		counts:   make(map[int]int),
		loadedAt: time.Now(),
	}
	for _, f := range ds.All() {
		v, ok := f.Number(s.metricField)
		if !ok {
			v = math.NaN()
			p.missing++
		}
		b := s.scale.Bucket(v)
		p.buckets[f.ID] = b
		p.colors[f.ID] = s.scale.ColorFor(v)
		p.counts[b]++
	}
	return p
}

// Stop marks the service stopped. Reads fail with ErrNotStarted until the
// next Start.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.state = nil
	s.logger.Info(context.Background(), "choropleth service stopped")
}

func (s *Service) current() (*paint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.state, nil
}

// Scale returns the threshold scale.
func (s *Service) Scale() *colorscale.ThresholdScale { return s.scale }

// LegendDefaults returns the configured tick count and order.
func (s *Service) LegendDefaults() (ticks int, reversed bool) {
	return s.legendTicks, s.legendReversed
}

// Legend builds legend entries with the configured label and color options.
func (s *Service) Legend(ticks int, reversed bool) []legend.Entry {
	return legend.Build(s.scale, ticks, reversed, s.legendOpts...)
}

// LegendTitle returns the lines drawn above the legend.
func (s *Service) LegendTitle() []string {
	return append([]string(nil), s.legendTitle...)
}

// LegendSVG draws the legend with its title.
func (s *Service) LegendSVG(ticks int, reversed bool) ([]byte, error) {
	return render.LegendSVG(s.legendTitle, s.Legend(ticks, reversed))
}

// ColorForValue returns the bucket and color for a raw metric value.
func (s *Service) ColorForValue(v float64) (int, colorscale.Color) {
	lo, hi := s.scale.Domain()
	switch {
	case math.IsNaN(v):
		metrics.RecordColorLookup(lookupNoData)
	case v < lo || v > hi:
		metrics.RecordColorLookup(lookupSaturated)
	default:
		metrics.RecordColorLookup(lookupInDomain)
	}
	return s.scale.Bucket(v), s.scale.ColorFor(v)
}

// FillColor returns the color painted on feature id.
func (s *Service) FillColor(id string) (colorscale.Color, error) {
	p, err := s.current()
	if err != nil {
		return colorscale.Color{}, err
	}
	c, ok := p.colors[id]
	if !ok {
		return colorscale.Color{}, fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
	}
	return c, nil
}

// FillColors returns a copy of every feature's fill color keyed by ID.
func (s *Service) FillColors() (map[string]colorscale.Color, error) {
	p, err := s.current()
	if err != nil {
		return nil, err
	}
	out := make(map[string]colorscale.Color, len(p.colors))
	for id, c := range p.colors {
		out[id] = c
	}
	return out, nil
}

// Tooltip formats the hover rows for feature id.
func (s *Service) Tooltip(id string) (*tooltip.Spec, error) {
	p, err := s.current()
	if err != nil {
		return nil, err
	}
	f, ok := p.dataset.Lookup(id)
	if !ok {
		metrics.RecordTooltip(metrics.TooltipNotFound)
		return nil, fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
	}
	spec := s.tooltips.Format(f)
	if spec.Missing() > 0 {
		metrics.RecordTooltip(metrics.TooltipPartial)
	} else {
		metrics.RecordTooltip(metrics.TooltipFound)
	}
	return spec, nil
}

// Choropleth writes the dataset as GeoJSON with fill_color and bucket added
// to every feature's properties.
func (s *Service) Choropleth(ctx context.Context, w io.Writer) error {
	p, err := s.current()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return geojson.Encode(w, p.dataset, func(f *feature.Feature) map[string]any {
		return map[string]any{
			PropFillColor: p.colors[f.ID],
			PropBucket:    p.buckets[f.ID],
		}
	})
}

// Icons returns the placed chart icons.
func (s *Service) Icons() ([]overlay.Icon, error) {
	p, err := s.current()
	if err != nil {
		return nil, err
	}
	return append([]overlay.Icon(nil), p.icons...), nil
}

// View returns the initial map view.
func (s *Service) View() View { return s.view }

// IDs returns every feature ID in dataset order.
func (s *Service) IDs() ([]string, error) {
	p, err := s.current()
	if err != nil {
		return nil, err
	}
	return p.dataset.IDs(), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"data_file":    s.dataFile,
		"metric_field": s.metricField,
		"buckets":      s.scale.Len(),
	}
	if s.started {
		p := s.state
		counts := make([]int, s.scale.Len())
		for b, n := range p.counts {
			if b >= 0 && b < len(counts) {
				counts[b] = n
			}
		}
		stats["features"] = p.dataset.Len()
		stats["without_metric"] = p.missing
		stats["bucket_counts"] = counts
		stats["icons"] = len(p.icons)
		stats["icons_dropped"] = p.dropped
		stats["loaded_at"] = p.loadedAt.UTC().Format(time.RFC3339)
	}
	return stats
}
