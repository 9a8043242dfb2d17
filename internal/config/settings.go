package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// SettingsPrefix is the environment prefix for process settings.
const SettingsPrefix = "YK_DDNS"

// Settings are the process-level settings read once at startup. They select
// where the per-invocation Config comes from and which DNS provider to use.
type Settings struct {
	Listen            string `envconfig:"LISTEN" default:":8080"`
	TrustForwardedFor bool   `envconfig:"TRUST_FORWARDED_FOR"`

	ConfigSource    string `envconfig:"CONFIG_SOURCE" default:"file"`
	ConfigPath      string `envconfig:"CONFIG_PATH" default:"configs/ddns.yaml"`
	ConfigEnvPrefix string `envconfig:"CONFIG_ENV_PREFIX" default:"DDNS"`

	AWSRegion string `envconfig:"AWS_REGION"`
	S3Bucket  string `envconfig:"S3_BUCKET"`
	S3Key     string `envconfig:"S3_KEY" default:"config.json"`
	SecretID  string `envconfig:"SECRET_ID"`

	KubeNamespace string `envconfig:"KUBE_NAMESPACE" default:"default"`
	KubeSecret    string `envconfig:"KUBE_SECRET" default:"yk-ddns"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisDB       int    `envconfig:"REDIS_DB"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisKey      string `envconfig:"REDIS_KEY" default:"yk-ddns:config"`

	ProviderPath string `envconfig:"DNS_PROVIDER_PATH" default:"configs/dns-provider.yaml"`
}

// LoadSettings reads Settings from the environment. Files listed in envFiles
// are loaded first when they exist; variables already set win.
func LoadSettings(envFiles ...string) (*Settings, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %s: %w", f, err)
		}
	}

	var s Settings
	if err := envconfig.Process(SettingsPrefix, &s); err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return &s, nil
}
