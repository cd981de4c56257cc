package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// redisPrefix namespaces the platform's hashes in a shared redis.
const redisPrefix = "kruzic:kv:"

// Redis is a Store keeping one hash per namespace.
type Redis struct {
	client *redis.Client
}

var _ Store = (*Redis)(nil)

// OpenRedis connects to addr and verifies the connection.
func OpenRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	if addr == "" {
		return nil, errors.New("redis address is required")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	v, err := r.client.HGet(ctx, redisPrefix+namespace, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s/%s: %w", namespace, key, err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, namespace, key string, value []byte) error {
	if err := r.client.HSet(ctx, redisPrefix+namespace, key, value).Err(); err != nil {
		return fmt.Errorf("set %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, namespace, key string) error {
	if err := r.client.HDel(ctx, redisPrefix+namespace, key).Err(); err != nil {
		return fmt.Errorf("delete %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (r *Redis) List(ctx context.Context, namespace string) ([]string, error) {
	keys, err := r.client.HKeys(ctx, redisPrefix+namespace).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", namespace, err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *Redis) hashes(ctx context.Context) ([]string, error) {
	var out []string
	iter := r.client.Scan(ctx, 0, redisPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		out = append(out, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan namespaces: %w", err)
	}
	return out, nil
}

func (r *Redis) Snapshot(ctx context.Context) (map[string]map[string]json.RawMessage, error) {
	hashes, err := r.hashes(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]json.RawMessage, len(hashes))
	for _, h := range hashes {
		fields, err := r.client.HGetAll(ctx, h).Result()
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", h, err)
		}
		values := make(map[string]json.RawMessage, len(fields))
		for k, v := range fields {
			values[k] = json.RawMessage(v)
		}
		out[strings.TrimPrefix(h, redisPrefix)] = values
	}
	return out, nil
}

func (r *Redis) Reset(ctx context.Context) error {
	hashes, err := r.hashes(ctx)
	if err != nil {
		return err
	}
	if len(hashes) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, hashes...).Err(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
