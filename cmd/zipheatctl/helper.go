package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	service "github.com/okian/zipheat/internal/app"
	"github.com/okian/zipheat/internal/config"
	"github.com/okian/zipheat/pkg/logger"
)

// loadConfig loads configuration and routes logs to stderr so that stdout
// carries only command output.
func loadConfig(cmd *cobra.Command, configFile string) (*config.Config, error) {
	if configFile != "" {
		if err := os.Setenv(config.EnvConfig, configFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	if err := logger.Init(
		logger.WithLevel(cfg.LogLevel),
		logger.WithFormat(cfg.LogFormat),
		logger.WithOutput(cmd.ErrOrStderr()),
	); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	return cfg, nil
}

// newService builds the choropleth service described by cfg. It is not
// started.
func newService(cfg *config.Config) (*service.Service, error) {
	opts, err := cfg.ServiceOptions()
	if err != nil {
		return nil, err
	}
	return service.New(append(opts, service.WithLogger(logger.Named("zipheatctl")))...), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
