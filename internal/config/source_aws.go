package config

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// S3GetObjectAPI is the subset of the S3 client used by S3Source.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the configuration document from an S3 object.
type S3Source struct {
	Client S3GetObjectAPI
	Bucket string
	Key    string
}

// Load fetches and parses the object.
func (s *S3Source) Load(ctx context.Context) (*Config, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3: get s3://%s/%s: %w", s.Bucket, s.Key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3: read s3://%s/%s: %w", s.Bucket, s.Key, err)
	}
	return Parse(data)
}

// SecretsManagerAPI is the subset of the Secrets Manager client used by
// SecretsManagerSource.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerSource reads the configuration document from a secret string.
type SecretsManagerSource struct {
	Client   SecretsManagerAPI
	SecretID string
}

// Load fetches and parses the secret.
func (s *SecretsManagerSource) Load(ctx context.Context) (*Config, error) {
	out, err := s.Client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.SecretID),
	})
	if err != nil {
		return nil, fmt.Errorf("secretsmanager: get %s: %w", s.SecretID, err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("secretsmanager: secret %s has no string value", s.SecretID)
	}
	return Parse([]byte(aws.ToString(out.SecretString)))
}
