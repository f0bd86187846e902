// internal/domain/cart/redis_store.go
package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const maxUpdateRetries = 10

// RedisStore keeps each cart as a JSON document at cart:<owner>. Updates
// use WATCH/MULTI and are retried when another writer got there first.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis backed store. Every write refreshes the TTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func cartKey(owner string) string {
	return "cart:" + owner
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func loadCart(ctx context.Context, r stringGetter, key string) (*Cart, error) {
	data, err := r.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return New(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", key)
	}

	c := New()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", key)
	}
	if c.Lines == nil {
		c.Lines = []Line{}
	}
	return c, nil
}

// Load returns the owner's cart, empty when none exists
func (s *RedisStore) Load(ctx context.Context, owner string) (*Cart, error) {
	return loadCart(ctx, s.client, cartKey(owner))
}

// Update applies fn inside an optimistic transaction
func (s *RedisStore) Update(ctx context.Context, owner string, fn func(*Cart) error) (*Cart, error) {
	key := cartKey(owner)

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		var updated *Cart

		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			c, err := loadCart(ctx, tx, key)
			if err != nil {
				return err
			}

			if err := fn(c); err != nil {
				return err
			}

			data, err := json.Marshal(c)
			if err != nil {
				return errors.Wrap(err, "failed to encode cart")
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				if c.Len() == 0 {
					pipe.Del(ctx, key)
				} else {
					pipe.Set(ctx, key, data, s.ttl)
				}
				return nil
			})
			if err != nil {
				return err
			}

			updated = c
			return nil
		}, key)

		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}

	return nil, errors.Errorf("cart %s: too many concurrent updates", owner)
}

// Delete drops the owner's cart
func (s *RedisStore) Delete(ctx context.Context, owner string) error {
	if err := s.client.Del(ctx, cartKey(owner)).Err(); err != nil {
		return errors.Wrapf(err, "failed to delete cart %s", owner)
	}
	return nil
}
