package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	apperr "internship-watcher/pkg/errors"
)

// RedisStore persists the seen-set as a Redis set, for deployments where
// runs on several hosts must share one baseline
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
	key    string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store backed by the given Redis set key
func NewRedisStore(ctx context.Context, addr string, db int, key string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisStore{
		client: client,
		ctx:    ctx,
		key:    key,
	}
}

// Load reads all members of the set. An unreachable Redis is reported as a
// corrupt store so the run proceeds against an empty baseline.
func (r *RedisStore) Load() (*SeenSet, error) {
	members, err := r.client.SMembers(r.ctx, r.key).Result()
	if err != nil {
		return NewSeenSet(), apperr.NewStoreCorrupt("failed to read seen-set key "+r.key, err)
	}
	return NewSeenSet(members...), nil
}

// Save replaces the set members in a single pipeline
func (r *RedisStore) Save(set *SeenSet) error {
	ids := set.Identifiers()

	pipe := r.client.TxPipeline()
	pipe.Del(r.ctx, r.key)
	if len(ids) > 0 {
		members := make([]interface{}, len(ids))
		for i, id := range ids {
			members[i] = id
		}
		pipe.SAdd(r.ctx, r.key, members...)
	}

	if _, err := pipe.Exec(r.ctx); err != nil {
		return fmt.Errorf("failed to write seen-set key %s: %w", r.key, err)
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}
