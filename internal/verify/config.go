package verify

import (
	"time"

	"github.com/okian/zipheat/internal/domain/tooltip"
)

// Default configuration values.
const (
	DefaultWorkers = 8
	DefaultTimeout = 5 * time.Second
	DefaultField   = "change"

	// maxMismatches bounds the mismatches kept on a Report; counters are
	// exact regardless.
	maxMismatches = 100

)

// Config holds configuration for a verification run.
type Config struct {
	BaseURL     string        // Base URL of the running server
	Workers     int           // Number of concurrent tooltip fetchers
	Timeout     time.Duration // Per-request timeout
	MetricField string        // Property colored by the scale
	Rate        float64       // Tooltip requests per second; 0 is unlimited

	// Tooltips, when set, is used to compare served tooltip rows with the
	// locally formatted ones. Without it only the status and ID are checked.
	Tooltips *tooltip.Formatter
}

func (c Config) withDefaults() Config {
	if c.Workers < 1 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MetricField == "" {
		c.MetricField = DefaultField
	}
	return c
}
