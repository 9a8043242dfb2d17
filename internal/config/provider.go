package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// ProviderConfig holds the DNS provider type and its connection settings.
type ProviderConfig struct {
	Provider string            `yaml:"provider"`
	Settings map[string]string `yaml:"settings"`
}

// LoadProviderConfig reads the DNS provider configuration from path. When the
// file does not exist the in-process "file" provider is used.
func LoadProviderConfig(path string) (*ProviderConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &ProviderConfig{Provider: "file", Settings: map[string]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading provider config file: %w", err)
	}

	var cfg ProviderConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing provider config file: %w", err)
	}

	if cfg.Provider == "" {
		return nil, fmt.Errorf("provider config: missing required field 'provider'")
	}
	if cfg.Settings == nil {
		cfg.Settings = map[string]string{}
	}

	// Expand ${ENV_VAR} references so credentials can stay out of the file.
	for k, v := range cfg.Settings {
		cfg.Settings[k] = os.ExpandEnv(v)
	}

	return &cfg, nil
}
