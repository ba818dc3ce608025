package library

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/labelpress/labelpress/pkg/errors"
)

const redisKey = "labelpress:library"

// RedisStore keeps the whole library as one JSON value under a fixed key.
// Read-modify-write is not atomic across instances; the library is small
// and edited by humans, so last-write-wins is acceptable here.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis instance named by url
// (redis://host:port/db) and pings it before returning.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	if url == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"redis library store needs %s", EnvRedisURL)
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connecting to redis")
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	return s.load(ctx)
}

func (s *RedisStore) Add(ctx context.Context, items ...string) error {
	current, err := s.load(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, merge(current, items))
}

func (s *RedisStore) Remove(ctx context.Context, item string) error {
	current, err := s.load(ctx)
	if err != nil {
		return err
	}
	next, found := remove(current, item)
	if !found {
		return ErrNotFound
	}
	return s.save(ctx, next)
}

func (s *RedisStore) Replace(ctx context.Context, items []string) error {
	return s.save(ctx, normalize(items))
}

func (s *RedisStore) Close(ctx context.Context) error {
	return s.client.Close()
}

func (s *RedisStore) load(ctx context.Context) ([]string, error) {
	data, err := s.client.Get(ctx, redisKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "reading library from redis")
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decoding library")
	}
	return items, nil
}

func (s *RedisStore) save(ctx context.Context, items []string) error {
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encoding library")
	}
	if err := s.client.Set(ctx, redisKey, data, 0).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "writing library to redis")
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
