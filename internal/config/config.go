// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults; Load layers sources over it.
// - Nested sections map to koanf paths, e.g. scale.preset or legend.ticks.
// - Builders in build.go turn sections into domain values and fail fast.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Host and Port form the HTTP listen address. PORT overrides Port.
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// StaticDir holds the data file, chart images and other page assets.
	StaticDir string `koanf:"static_dir"`

	// DataFile is the GeoJSON FeatureCollection, relative to StaticDir
	// unless absolute.
	DataFile string `koanf:"data_file"`

	// IDField names the property identifying a feature when it has no id.
	IDField string `koanf:"id_field"`

	// MetricField names the property colored by the scale.
	MetricField string `koanf:"metric_field"`

	// CORSOrigins lists origins allowed to call the API from another site.
	// Empty disables CORS headers.
	CORSOrigins []string `koanf:"cors_origins"`

	Scale   ScaleConfig   `koanf:"scale"`
	Legend  LegendConfig  `koanf:"legend"`
	Tooltip TooltipConfig `koanf:"tooltip"`
	View    ViewConfig    `koanf:"view"`
	Icons   []IconConfig  `koanf:"icons"`
	Verify  VerifyConfig  `koanf:"verify"`
}

// ScaleConfig selects the threshold scale. Boundaries and Colors, when set,
// replace the preset's.
type ScaleConfig struct {
	Preset     string    `koanf:"preset"`
	Boundaries []float64 `koanf:"boundaries"`

	// Colors accepts #hex strings or color names, one per bucket.
	Colors []string `koanf:"colors"`

	// NoData is the color used for missing or NaN values.
	NoData string `koanf:"no_data"`
}

// LegendConfig controls legend generation.
type LegendConfig struct {
	Ticks    int      `koanf:"ticks"`
	Reversed bool     `koanf:"reversed"`
	Title    []string `koanf:"title"`

	// Mode is threshold (bucket colors) or gradient (continuous ramp).
	Mode string `koanf:"mode"`

	// Ramp names the gradient ramp used in gradient mode.
	Ramp string `koanf:"ramp"`

	// Percent prints labels as percentages with Decimals places.
	Percent  bool `koanf:"percent"`
	Decimals int  `koanf:"decimals"`
}

// Legend modes.
const (
	LegendModeThreshold = "threshold"
	LegendModeGradient  = "gradient"
)

// TooltipConfig is the tooltip row table.
type TooltipConfig struct {
	Placeholder string               `koanf:"placeholder"`
	Fields      []TooltipFieldConfig `koanf:"fields"`
}

// TooltipFieldConfig is one tooltip row.
type TooltipFieldConfig struct {
	Field    string `koanf:"field"`
	Label    string `koanf:"label"`
	Kind     string `koanf:"kind"`
	Decimals int    `koanf:"decimals"`
	Prefix   string `koanf:"prefix"`
	Suffix   string `koanf:"suffix"`
}

// ViewConfig is the initial map camera and basemap handed to the page.
type ViewConfig struct {
	Latitude  float64 `koanf:"latitude"  json:"latitude"`
	Longitude float64 `koanf:"longitude" json:"longitude"`
	Zoom      float64 `koanf:"zoom"      json:"zoom"`
	MaxZoom   float64 `koanf:"max_zoom"  json:"max_zoom"`
	MapStyle  string  `koanf:"map_style" json:"map_style"`
	Opacity   float64 `koanf:"opacity"   json:"opacity"`
}

// IconConfig places a chart image on the map. An empty Position falls back
// to the centroid of the feature with the same Zip.
type IconConfig struct {
	Zip      string    `koanf:"zip"`
	Image    string    `koanf:"image"`
	Position []float64 `koanf:"position"`
	Size     float64   `koanf:"size"`
}

// VerifyConfig tunes the remote verifier.
type VerifyConfig struct {
	URL       string `koanf:"url"`
	Workers   int    `koanf:"workers"`
	TimeoutMS int    `koanf:"timeout_ms"`

	// Rate caps tooltip requests per second; 0 is unlimited.
	Rate float64 `koanf:"rate"`
}

// New creates a Config with defaults reproducing the 2018 to 2021 Columbus
// price change map.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   "text",
		Port:        8080,
		StaticDir:   "public",
		DataFile:    "geojson_heatmap.json",
		IDField:     "ZCTA5CE10",
		MetricField: "change",
		Scale: ScaleConfig{
			Preset: "price-change",
			NoData: "transparent",
		},
		Legend: LegendConfig{
			Ticks:    11,
			Reversed: true,
			Title:    []string{"Change in normalized average sales", "price from 2018 to 2021"},
			Mode:     LegendModeThreshold,
			Ramp:     "brbg",
		},
		Tooltip: TooltipConfig{
			Placeholder: "n/a",
			Fields: []TooltipFieldConfig{
				{Field: "ZCTA5CE10", Label: "Zipcode", Kind: "text", Suffix: " / ZIP code"},
				{Field: "change", Label: "2018 to 2021 average price change", Kind: "percent", Decimals: 2},
			},
		},
		View: ViewConfig{
			Latitude:  39.95,
			Longitude: -83,
			Zoom:      10.5,
			MaxZoom:   16,
			MapStyle:  "https://basemaps.cartocdn.com/gl/voyager-gl-style/style.json",
			Opacity:   0.8,
		},
		Icons:  defaultIcons(),
		Verify: VerifyConfig{URL: "http://localhost:8080", Workers: 8, TimeoutMS: 5000},
	}
}

func defaultIcons() []IconConfig {
	icon := func(zip string, lon, lat, size float64) IconConfig {
		return IconConfig{Zip: zip, Image: "svg_" + zip + ".svg", Position: []float64{lon, lat}, Size: size}
	}
	return []IconConfig{
		icon("43026", -83.1944130, 40.0208503, 5),
		icon("43123", -83.075, 39.8694893, 6),
		icon("43228", -83.1256614, 39.95, 4),
		icon("43204", -83.078, 39.9612916, 4),
		icon("43221", -83.068, 40.014, 4),
		icon("43220", -83.0742437, 40.0491532, 4),
		icon("43214", -83.0162692, 40.0517339, 4),
		icon("43085", -83.02, 40.095, 4),
		icon("43231", -82.938, 40.0793330, 4),
		icon("43230", -82.8708749, 40.0357633, 6),
		icon("43213", -82.8621340, 39.9668733, 4),
		icon("43125", -82.87, 39.8380522, 5),
		icon("43207", -82.9628316, 39.8946789, 6),
		icon("43209", -82.9307207, 39.9536159, 4),
		icon("43203", -82.9690263, 39.9730840, 2),
		icon("43215", -83, 39.965, 4),
		icon("43202", -83.005, 40.0198116, 3),
		icon("43201", -82.9999465, 39.9908298, 2.5),
		icon("43210", -83.0232273, 40.0054346, 2.5),
		icon("43205", -82.9620715, 39.9570186, 2.5),
		icon("43212", -83.0428237, 39.9871455, 2.75),
		icon("43206", -82.9741749, 39.9424523, 2.75),
	}
}
