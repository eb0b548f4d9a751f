package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deliverly/cart-service/pkg/redis"
)

type redisAPI interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// RedisStore keeps cart snapshots as JSON blobs in the shared key-value
// cache, expiring them after the configured TTL.
type RedisStore struct {
	client redisAPI
	ttl    time.Duration
}

// NewRedisStore wraps the redis client as a cart Store.
func NewRedisStore(client redisAPI, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Load fetches and decodes the snapshot for the session. Missing keys and
// undecodable blobs both read as "no cart".
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, nil
	}
	return &cart, nil
}

// Save serializes the cart under the session key. A nil cart deletes the key.
func (s *RedisStore) Save(ctx context.Context, sessionID string, cart *Cart) error {
	key := s.client.CartKey(sessionID)
	if cart == nil {
		return s.client.Del(ctx, key)
	}
	blob, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	return s.client.Set(ctx, key, string(blob), s.ttl)
}

// Delete removes the stored snapshot for the session.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.client.CartKey(sessionID))
}
