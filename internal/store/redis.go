package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// maxWatchRetries bounds optimistic-lock retries in Update.
const maxWatchRetries = 5

// RedisStore keeps each collection in one hash: key <prefix><parent>,
// field = record key, value = JSON record.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisOptions configures OpenRedis.
type RedisOptions struct {
	URL            string
	Prefix         string
	PoolSize       int
	ConnectTimeout time.Duration
}

// OpenRedis connects to Redis and verifies the connection with a ping.
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.PoolSize > 0 {
		redisOpts.PoolSize = opts.PoolSize
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	redisOpts.DialTimeout = timeout

	client := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisStore(client, opts.Prefix), nil
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) hashKey(parent string) string {
	return r.prefix + parent
}

func (r *RedisStore) Children(ctx context.Context, path string) ([]Node, error) {
	parent, err := Clean(path)
	if err != nil {
		return nil, err
	}

	entries, err := r.client.HGetAll(ctx, r.hashKey(parent)).Result()
	if err != nil {
		return nil, unavailable("hgetall "+parent, err)
	}

	nodes := make([]Node, 0, len(entries))
	for key, raw := range entries {
		rec, err := decode([]byte(raw))
		if err != nil {
			return nil, unavailable("decode node "+key, err)
		}
		nodes = append(nodes, Node{Key: key, Data: rec})
	}
	sortNodes(nodes)
	return nodes, nil
}

func (r *RedisStore) Push(ctx context.Context, path string, data Record) (string, error) {
	parent, err := Clean(path)
	if err != nil {
		return "", err
	}
	key, err := NewKey()
	if err != nil {
		return "", unavailable("push", err)
	}
	payload, err := encode(compact(data))
	if err != nil {
		return "", err
	}

	if err := r.client.HSet(ctx, r.hashKey(parent), key, payload).Err(); err != nil {
		return "", unavailable("hset "+parent, err)
	}
	return key, nil
}

// Update merges under WATCH so concurrent updates to the same collection
// retry instead of overwriting each other.
func (r *RedisStore) Update(ctx context.Context, path string, fields Record) error {
	parent, key, err := Split(path)
	if err != nil {
		return err
	}
	hash := r.hashKey(parent)

	txf := func(tx *redis.Tx) error {
		current := Record{}
		raw, err := tx.HGet(ctx, hash, key).Result()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if current, err = decode([]byte(raw)); err != nil {
				return err
			}
		}

		merged := Merge(current, fields)
		if len(merged) == 0 {
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.HDel(ctx, hash, key)
				return nil
			})
			return err
		}

		payload, err := encode(merged)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, hash, key, payload)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err = r.client.Watch(ctx, txf, hash)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		break
	}
	if err != nil {
		return unavailable("update "+path, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, path string) error {
	parent, key, err := Split(path)
	if err != nil {
		return err
	}
	if err := r.client.HDel(ctx, r.hashKey(parent), key).Err(); err != nil {
		return unavailable("hdel "+parent, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ Client = (*RedisStore)(nil)
