package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/redis/rueidis"
	"k8s.io/client-go/kubernetes"
	ctrl "sigs.k8s.io/controller-runtime"
)

// NewSource builds the configuration source selected by s.ConfigSource.
func NewSource(ctx context.Context, s *Settings) (Source, error) {
	switch s.ConfigSource {
	case "file":
		return &FileSource{Path: s.ConfigPath}, nil

	case "env":
		return &EnvSource{Prefix: s.ConfigEnvPrefix}, nil

	case "s3":
		if s.S3Bucket == "" {
			return nil, fmt.Errorf("config source s3: missing bucket")
		}
		awsCfg, err := loadAWSConfig(ctx, s.AWSRegion)
		if err != nil {
			return nil, err
		}
		return &S3Source{Client: s3.NewFromConfig(awsCfg), Bucket: s.S3Bucket, Key: s.S3Key}, nil

	case "secretsmanager":
		if s.SecretID == "" {
			return nil, fmt.Errorf("config source secretsmanager: missing secret id")
		}
		awsCfg, err := loadAWSConfig(ctx, s.AWSRegion)
		if err != nil {
			return nil, err
		}
		return &SecretsManagerSource{Client: secretsmanager.NewFromConfig(awsCfg), SecretID: s.SecretID}, nil

	case "kubernetes":
		restCfg, err := ctrl.GetConfig()
		if err != nil {
			return nil, fmt.Errorf("config source kubernetes: %w", err)
		}
		clientset, err := kubernetes.NewForConfig(restCfg)
		if err != nil {
			return nil, fmt.Errorf("config source kubernetes: building client: %w", err)
		}
		return &KubernetesSource{Client: clientset, Namespace: s.KubeNamespace, Name: s.KubeSecret}, nil

	case "redis":
		client, err := rueidis.NewClient(rueidis.ClientOption{
			InitAddress: []string{s.RedisAddr},
			SelectDB:    s.RedisDB,
			Password:    s.RedisPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("config source redis: %w", err)
		}
		return &RedisSource{Client: client, Key: s.RedisKey}, nil

	default:
		return nil, fmt.Errorf("unsupported config source %q (want file, env, s3, secretsmanager, kubernetes or redis)", s.ConfigSource)
	}
}

func loadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading AWS config: %w", err)
	}
	return awsCfg, nil
}
