package config

import (
	"context"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
)

// FileSource reads the configuration from a YAML or JSON file on every Load.
type FileSource struct {
	Path string
}

// Load reads and parses the file.
func (s *FileSource) Load(_ context.Context) (*Config, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// EnvSource reads the configuration from environment variables such as
// DDNS_ZONE_ID and DDNS_SHARED_SECRET.
type EnvSource struct {
	Prefix string
}

// Load processes the environment.
func (s *EnvSource) Load(_ context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(s.Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("reading config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
