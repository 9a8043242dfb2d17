package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

const (
	DefaultRecordTTL  = 60
	DefaultRecordType = "A"
)

// Config is the per-invocation update configuration.
//
// From the environment only prefixed keys are read: <PREFIX>_REGION,
// <PREFIX>_ZONE_ID, <PREFIX>_RECORD_TTL, <PREFIX>_RECORD_TYPE and
// <PREFIX>_SHARED_SECRET.
type Config struct {
	Region       string `yaml:"region" split_words:"true"`
	ZoneID       string `yaml:"zone_id" split_words:"true"`
	RecordTTL    int    `yaml:"record_ttl" split_words:"true"`
	RecordType   string `yaml:"record_type" split_words:"true"`
	SharedSecret string `yaml:"shared_secret" split_words:"true"`
}

// Source loads a Config from some backing store.
type Source interface {
	Load(ctx context.Context) (*Config, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(ctx context.Context) (*Config, error)

// Load calls f(ctx).
func (f SourceFunc) Load(ctx context.Context) (*Config, error) { return f(ctx) }

// Validate fills in defaults and checks that the required fields are set.
func (c *Config) Validate() error {
	if c.RecordTTL == 0 {
		c.RecordTTL = DefaultRecordTTL
	}
	if c.RecordType == "" {
		c.RecordType = DefaultRecordType
	}
	c.RecordType = strings.ToUpper(c.RecordType)

	if c.ZoneID == "" {
		return fmt.Errorf("config: missing required field 'zone_id'")
	}
	if c.SharedSecret == "" {
		return fmt.Errorf("config: missing required field 'shared_secret'")
	}
	if c.RecordTTL < 0 {
		return fmt.Errorf("config: record_ttl must be positive, got %d", c.RecordTTL)
	}
	if c.RecordType != "A" && c.RecordType != "AAAA" {
		return fmt.Errorf("config: unsupported record_type %q (want A or AAAA)", c.RecordType)
	}
	return nil
}

// Parse decodes a YAML (or JSON) configuration document and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing document: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromMap builds a Config from flat key/value pairs, as stored in a Kubernetes
// Secret or a Redis hash.
func FromMap(m map[string]string) (*Config, error) {
	cfg := Config{
		Region:       m["region"],
		ZoneID:       m["zone_id"],
		RecordType:   m["record_type"],
		SharedSecret: m["shared_secret"],
	}
	if v := strings.TrimSpace(m["record_ttl"]); v != "" {
		ttl, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid record_ttl %q: %w", v, err)
		}
		cfg.RecordTTL = ttl
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
