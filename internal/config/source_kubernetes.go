package config

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// KubernetesSource reads the configuration from the data keys of a Secret.
type KubernetesSource struct {
	Client    kubernetes.Interface
	Namespace string
	Name      string
}

// Load gets the Secret and converts its data.
func (s *KubernetesSource) Load(ctx context.Context) (*Config, error) {
	secret, err := s.Client.CoreV1().Secrets(s.Namespace).Get(ctx, s.Name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return nil, fmt.Errorf("kubernetes: config secret %s/%s not found", s.Namespace, s.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("kubernetes: get secret %s/%s: %w", s.Namespace, s.Name, err)
	}

	m := make(map[string]string, len(secret.Data)+len(secret.StringData))
	for k, v := range secret.Data {
		m[k] = string(v)
	}
	for k, v := range secret.StringData {
		m[k] = v
	}
	return FromMap(m)
}
