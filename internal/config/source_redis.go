package config

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"
)

// RedisSource reads the configuration from the fields of a Redis hash.
type RedisSource struct {
	Client rueidis.Client
	Key    string
}

// Load runs HGETALL on the key.
func (s *RedisSource) Load(ctx context.Context) (*Config, error) {
	m, err := s.Client.Do(ctx, s.Client.B().Hgetall().Key(s.Key).Build()).AsStrMap()
	if err != nil {
		return nil, fmt.Errorf("redis: hgetall %s: %w", s.Key, err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("redis: config hash %s is empty or missing", s.Key)
	}
	return FromMap(m)
}

// Close releases the underlying connections.
func (s *RedisSource) Close() error {
	s.Client.Close()
	return nil
}
