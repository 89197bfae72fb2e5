package config

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables read by Load.
const (
	EnvPrefix  = "ZIPHEAT_"
	EnvConfig  = "ZIPHEAT_CONFIG"
	EnvEnvFile = "ZIPHEAT_ENV_FILE"
	EnvPort    = "PORT"

	maxPort = 65535
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Load builds a Config by layering defaults, optional files, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if ZIPHEAT_CONFIG is set
//  3. dotenv file if ZIPHEAT_ENV_FILE is set (same keys as the environment)
//  4. PORT
//  5. env (prefix ZIPHEAT_, "__" separates nested keys)
func Load(ctx context.Context) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	if path := os.Getenv(EnvEnvFile); path != "" {
		vars, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
		for name, value := range vars {
			key := envKey(name)
			if name == EnvPort {
				key = "port"
			}
			if key == "" {
				continue
			}
			if err := k.Set(key, value); err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, name, err)
			}
		}
	}

	// PORT is the conventional platform variable; ZIPHEAT_PORT still wins.
	portProvider := env.Provider(EnvPort, ".", func(s string) string {
		if s != EnvPort {
			return ""
		}
		return "port"
	})
	if err := k.Load(portProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// ZIPHEAT_LOG_LEVEL -> log_level, ZIPHEAT_SCALE__PRESET -> scale.preset.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := unmarshal(k, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps an environment variable name to a koanf path, or "" when the
// variable does not belong to this service.
func envKey(name string) string {
	if !strings.HasPrefix(strings.ToUpper(name), EnvPrefix) {
		return ""
	}
	s := strings.ToLower(name[len(EnvPrefix):])
	switch s {
	case "config", "env_file", "":
		return ""
	}
	return strings.ReplaceAll(s, "__", ".")
}

// unmarshal decodes over cfg. Lists present in a source replace the default
// list instead of merging element by element, and comma separated strings
// decode into lists.
func unmarshal(k *koanf.Koanf, cfg *Config) error {
	return k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           cfg,
			WeaklyTypedInput: true,
			ZeroFields:       true,
		},
	})
}

// Validate checks field ranges and builds every derived domain value once so
// that a bad scale, legend or tooltip table fails at startup.
func (c *Config) Validate() error {
	switch {
	case c.Port < 1 || c.Port > maxPort:
		return fmt.Errorf("%w: port %d out of range 1-%d", ErrInvalidConfig, c.Port, maxPort)
	case !slices.Contains(logLevels, strings.ToLower(c.LogLevel)):
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	case !slices.Contains(logFormats, strings.ToLower(c.LogFormat)):
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	case strings.TrimSpace(c.StaticDir) == "":
		return fmt.Errorf("%w: static_dir must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DataFile) == "":
		return fmt.Errorf("%w: data_file must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.MetricField) == "":
		return fmt.Errorf("%w: metric_field must not be empty", ErrInvalidConfig)
	case c.Legend.Ticks < 0:
		return fmt.Errorf("%w: legend.ticks %d is negative", ErrInvalidConfig, c.Legend.Ticks)
	case c.Verify.Workers < 1:
		return fmt.Errorf("%w: verify.workers must be positive", ErrInvalidConfig)
	case c.Verify.Rate < 0:
		return fmt.Errorf("%w: verify.rate must not be negative", ErrInvalidConfig)
	}

	s, err := c.BuildScale()
	if err != nil {
		return err
	}
	if _, err := c.LegendOptions(s); err != nil {
		return err
	}
	if _, err := c.BuildTooltip(); err != nil {
		return err
	}
	if _, err := c.BuildIcons(); err != nil {
		return err
	}
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DataPath resolves DataFile against StaticDir.
func (c *Config) DataPath() string {
	if filepath.IsAbs(c.DataFile) {
		return c.DataFile
	}
	return filepath.Join(c.StaticDir, c.DataFile)
}
