package kvstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore maps each bucket to a Redis hash (inv:<bucket>). Update commits
// the write buffer through a MULTI/EXEC pipeline so all writes of one logical
// operation land together.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// OpenRedisClient creates and validates a go-redis client connection.
func OpenRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// OpenRedis creates a redis-backed store.
func OpenRedis(redisURL string) (*RedisStore, error) {
	rdb, err := OpenRedisClient(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisStore{rdb: rdb, prefix: "inv:"}, nil
}

func (s *RedisStore) hashKey(bucket string) string { return s.prefix + bucket }

func (s *RedisStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	doc, err := s.rdb.HGet(ctx, s.hashKey(bucket), key).Bytes()
	if err == redis.Nil {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: redis hget: %w", err)
	}
	return doc, nil
}

func (s *RedisStore) List(ctx context.Context, bucket string) ([][]byte, error) {
	vals, err := s.rdb.HVals(ctx, s.hashKey(bucket)).Result()
	if err != nil {
		return nil, fmt.Errorf("kvstore: redis hvals: %w", err)
	}
	out := make([][]byte, len(vals))
	for i, v := range vals {
		out[i] = []byte(v)
	}
	return out, nil
}

func (s *RedisStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	buf := &writeBuffer{}
	if err := fn(buf); err != nil {
		return err
	}
	if len(buf.ops) == 0 {
		return nil
	}
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, op := range buf.ops {
			if op.doc == nil {
				pipe.HDel(ctx, s.hashKey(op.bucket), op.key)
			} else {
				pipe.HSet(ctx, s.hashKey(op.bucket), op.key, op.doc)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("kvstore: redis tx pipeline: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
