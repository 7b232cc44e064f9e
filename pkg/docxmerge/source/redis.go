package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis loads a JSON object stored as a string value under Key.
type Redis struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

func (r Redis) Load(ctx context.Context) (map[string]any, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     r.Addr,
		Password: r.Password,
		DB:       r.DB,
	})
	defer client.Close()

	return loadKey(ctx, client, r.Key)
}

// stringGetter is the part of a redis client used to fetch a key.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func loadKey(ctx context.Context, client stringGetter, key string) (map[string]any, error) {
	content, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis key %q not found", key)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	data, err := DecodeJSON(content)
	if err != nil {
		return nil, fmt.Errorf("decode redis key %q: %w", key, err)
	}
	return data, nil
}
