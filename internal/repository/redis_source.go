package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/servicedesk/sla-agent/internal/domain"
)

// StringGetter is the subset of the redis client used to read the dataset.
type StringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type redisSource struct {
	client StringGetter
	key    string
}

// NewRedisSource reads a JSON array stored under key.
func NewRedisSource(client StringGetter, key string) RawTicketSource {
	return &redisSource{client: client, key: key}
}

func (s *redisSource) Name() string {
	return "redis:" + s.key
}

func (s *redisSource) Load(ctx context.Context) ([]domain.RawTicket, error) {
	val, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("redis key %s: %w", s.key, ErrDatasetMissing)
		}
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return decodeJSON(val)
}
