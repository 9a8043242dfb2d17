package config

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

const validDocument = "zone_id: Z1\nshared_secret: s3cret\nrecord_ttl: 120\n"

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ddns.yaml")
	if err := os.WriteFile(path, []byte(validDocument), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := (&FileSource{Path: path}).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ZoneID != "Z1" || cfg.RecordTTL != 120 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestFileSource_Missing(t *testing.T) {
	_, err := (&FileSource{Path: "/nonexistent/ddns.yaml"}).Load(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestEnvSource(t *testing.T) {
	t.Setenv("DDNS_ZONE_ID", "Z9")
	t.Setenv("DDNS_SHARED_SECRET", "from-env")
	t.Setenv("DDNS_RECORD_TYPE", "aaaa")

	cfg, err := (&EnvSource{Prefix: "DDNS"}).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ZoneID != "Z9" {
		t.Errorf("expected zone_id 'Z9', got %q", cfg.ZoneID)
	}
	if cfg.RecordType != "AAAA" {
		t.Errorf("expected record_type 'AAAA', got %q", cfg.RecordType)
	}
	if cfg.RecordTTL != DefaultRecordTTL {
		t.Errorf("expected default TTL, got %d", cfg.RecordTTL)
	}
}

func TestEnvSource_IgnoresUnprefixedVariables(t *testing.T) {
	t.Setenv("ZONE_ID", "Z-unrelated")
	t.Setenv("SHARED_SECRET", "unrelated")
	t.Setenv("REGION", "us-west-2")
	t.Setenv("DDNSP_ZONE_ID", "Z9")
	t.Setenv("DDNSP_SHARED_SECRET", "from-env")

	cfg, err := (&EnvSource{Prefix: "DDNSP"}).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ZoneID != "Z9" || cfg.SharedSecret != "from-env" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Region != "" {
		t.Errorf("expected unprefixed REGION to be ignored, got %q", cfg.Region)
	}
}

func TestEnvSource_OnlyUnprefixedVariables(t *testing.T) {
	t.Setenv("ZONE_ID", "Z-unrelated")
	t.Setenv("SHARED_SECRET", "unrelated")

	if _, err := (&EnvSource{Prefix: "DDNSQ"}).Load(context.Background()); err == nil {
		t.Fatal("expected missing zone_id error when only unprefixed variables are set, got nil")
	}
}

func TestEnvSource_InvalidTTL(t *testing.T) {
	t.Setenv("DDNSX_ZONE_ID", "Z9")
	t.Setenv("DDNSX_SHARED_SECRET", "from-env")
	t.Setenv("DDNSX_RECORD_TTL", "never")

	if _, err := (&EnvSource{Prefix: "DDNSX"}).Load(context.Background()); err == nil {
		t.Fatal("expected error for invalid TTL, got nil")
	}
}

type fakeS3 struct {
	body  string
	err   error
	input *s3.GetObjectInput
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{body: `{"zone_id":"Z1","shared_secret":"s3cret"}`}
	src := &S3Source{Client: client, Bucket: "ddns-config", Key: "config.json"}

	cfg, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ZoneID != "Z1" {
		t.Errorf("expected zone_id 'Z1', got %q", cfg.ZoneID)
	}
	if aws.ToString(client.input.Bucket) != "ddns-config" || aws.ToString(client.input.Key) != "config.json" {
		t.Errorf("unexpected object requested: %s/%s", aws.ToString(client.input.Bucket), aws.ToString(client.input.Key))
	}
}

func TestS3Source_Error(t *testing.T) {
	src := &S3Source{Client: &fakeS3{err: errors.New("access denied")}, Bucket: "b", Key: "k"}

	_, err := src.Load(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "access denied") {
		t.Errorf("expected underlying error in message, got %q", err.Error())
	}
}

type fakeSecretsManager struct {
	secret *string
	err    error
}

func (f *fakeSecretsManager) GetSecretValue(_ context.Context, _ *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: f.secret}, nil
}

func TestSecretsManagerSource(t *testing.T) {
	src := &SecretsManagerSource{Client: &fakeSecretsManager{secret: aws.String(validDocument)}, SecretID: "ddns"}

	cfg, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SharedSecret != "s3cret" {
		t.Errorf("expected shared_secret 's3cret', got %q", cfg.SharedSecret)
	}
}

func TestSecretsManagerSource_BinarySecret(t *testing.T) {
	src := &SecretsManagerSource{Client: &fakeSecretsManager{}, SecretID: "ddns"}

	if _, err := src.Load(context.Background()); err == nil {
		t.Fatal("expected error for secret without string value, got nil")
	}
}

func TestKubernetesSource(t *testing.T) {
	client := fake.NewSimpleClientset(&corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "yk-ddns", Namespace: "dns"},
		Data: map[string][]byte{
			"zone_id":       []byte("example.com"),
			"shared_secret": []byte("s3cret"),
			"record_ttl":    []byte("30"),
		},
	})
	src := &KubernetesSource{Client: client, Namespace: "dns", Name: "yk-ddns"}

	cfg, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ZoneID != "example.com" || cfg.RecordTTL != 30 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestKubernetesSource_NotFound(t *testing.T) {
	src := &KubernetesSource{Client: fake.NewSimpleClientset(), Namespace: "dns", Name: "missing"}

	_, err := src.Load(context.Background())
	if err == nil {
		t.Fatal("expected error for missing secret, got nil")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected 'not found' in error, got %q", err.Error())
	}
}

func TestNewSource(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  bool
	}{
		{"file", Settings{ConfigSource: "file", ConfigPath: "ddns.yaml"}, false},
		{"env", Settings{ConfigSource: "env", ConfigEnvPrefix: "DDNS"}, false},
		{"s3 without bucket", Settings{ConfigSource: "s3"}, true},
		{"secretsmanager without id", Settings{ConfigSource: "secretsmanager"}, true},
		{"unknown", Settings{ConfigSource: "etcd"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSource(context.Background(), &tt.settings)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSource() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
