package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	content := `region: eu-central-1
zone_id: Z123456
record_ttl: 300
record_type: aaaa
shared_secret: s3cret
`
	cfg, err := Parse([]byte(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Region != "eu-central-1" {
		t.Errorf("expected region 'eu-central-1', got %q", cfg.Region)
	}
	if cfg.ZoneID != "Z123456" {
		t.Errorf("expected zone_id 'Z123456', got %q", cfg.ZoneID)
	}
	if cfg.RecordTTL != 300 {
		t.Errorf("expected record_ttl 300, got %d", cfg.RecordTTL)
	}
	if cfg.RecordType != "AAAA" {
		t.Errorf("expected record_type 'AAAA', got %q", cfg.RecordType)
	}
	if cfg.SharedSecret != "s3cret" {
		t.Errorf("expected shared_secret 's3cret', got %q", cfg.SharedSecret)
	}
}

func TestParse_JSONDocument(t *testing.T) {
	content := `{"zone_id": "Z1", "shared_secret": "s3cret", "record_ttl": 120}`

	cfg, err := Parse([]byte(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ZoneID != "Z1" || cfg.RecordTTL != 120 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("zone_id: Z1\nshared_secret: s3cret\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RecordTTL != DefaultRecordTTL {
		t.Errorf("expected default TTL %d, got %d", DefaultRecordTTL, cfg.RecordTTL)
	}
	if cfg.RecordType != DefaultRecordType {
		t.Errorf("expected default type %q, got %q", DefaultRecordType, cfg.RecordType)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", "zone_id: [unterminated"},
		{"missing zone", "shared_secret: s3cret\n"},
		{"missing secret", "zone_id: Z1\n"},
		{"negative ttl", "zone_id: Z1\nshared_secret: s\nrecord_ttl: -5\n"},
		{"unsupported type", "zone_id: Z1\nshared_secret: s\nrecord_type: CNAME\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.content)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestFromMap(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		"region":        "us-east-1",
		"zone_id":       "example.com",
		"record_ttl":    " 90 ",
		"record_type":   "A",
		"shared_secret": "s3cret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RecordTTL != 90 {
		t.Errorf("expected record_ttl 90, got %d", cfg.RecordTTL)
	}
	if cfg.ZoneID != "example.com" {
		t.Errorf("expected zone_id 'example.com', got %q", cfg.ZoneID)
	}
}

func TestFromMap_InvalidTTL(t *testing.T) {
	_, err := FromMap(map[string]string{
		"zone_id":       "Z1",
		"shared_secret": "s3cret",
		"record_ttl":    "soon",
	})
	if err == nil {
		t.Fatal("expected error for invalid record_ttl, got nil")
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Listen != ":8080" {
		t.Errorf("expected listen ':8080', got %q", s.Listen)
	}
	if s.ConfigSource != "file" {
		t.Errorf("expected config source 'file', got %q", s.ConfigSource)
	}
	if s.ProviderPath != "configs/dns-provider.yaml" {
		t.Errorf("expected provider path 'configs/dns-provider.yaml', got %q", s.ProviderPath)
	}
}

func TestLoadSettings_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "YK_DDNS_CONFIG_SOURCE=redis\nYK_DDNS_REDIS_DB=3\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("YK_DDNS_CONFIG_SOURCE")
		os.Unsetenv("YK_DDNS_REDIS_DB")
	})

	s, err := LoadSettings(path, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ConfigSource != "redis" {
		t.Errorf("expected config source 'redis', got %q", s.ConfigSource)
	}
	if s.RedisDB != 3 {
		t.Errorf("expected redis db 3, got %d", s.RedisDB)
	}
}
