package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nfrund/denote/internal/domain"
)

const (
	backendRedis = "redis"

	// Redis key prefix for profile hashes
	profileKeyPrefix = "denote:profile:"
)

var _ domain.ProfileRepository = (*RedisProfileStore)(nil)

// RedisProfileStore keeps each profile in a hash at denote:profile:{name}.
type RedisProfileStore struct {
	client *redis.Client
}

// NewRedisClient parses url and checks the server is reachable.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, NewStoreError(fmt.Errorf("parse redis URL: %w", err), backendRedis, "open")
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, NewStoreError(fmt.Errorf("redis ping failed: %w", err), backendRedis, "open")
	}
	return client, nil
}

// NewRedisProfileStore wraps a connected client.
func NewRedisProfileStore(client *redis.Client) *RedisProfileStore {
	return &RedisProfileStore{client: client}
}

func profileKey(name string) string {
	return profileKeyPrefix + name
}

// Get implements domain.ProfileRepository.
func (s *RedisProfileStore) Get(ctx context.Context, name string) (*domain.ProfileRecord, error) {
	fields, err := s.client.HGetAll(ctx, profileKey(name)).Result()
	if err != nil {
		return nil, NewStoreError(err, backendRedis, "get")
	}
	// HGETALL on a missing key is an empty map, not redis.Nil
	if len(fields) == 0 {
		return nil, domain.ErrNotFound
	}
	return &domain.ProfileRecord{
		Name:        name,
		HashedToken: fields["hashed_token"],
		Config:      fields["config"],
	}, nil
}

// Put implements domain.ProfileRepository.
func (s *RedisProfileStore) Put(ctx context.Context, rec *domain.ProfileRecord) error {
	if rec == nil || rec.Name == "" {
		return NewStoreError(fmt.Errorf("record without a name"), backendRedis, "put")
	}
	err := s.client.HSet(ctx, profileKey(rec.Name),
		"hashed_token", rec.HashedToken,
		"config", rec.Config,
	).Err()
	if err != nil {
		return NewStoreError(err, backendRedis, "put")
	}
	return nil
}

// Delete implements domain.ProfileRepository.
func (s *RedisProfileStore) Delete(ctx context.Context, name string) error {
	if err := s.client.Del(ctx, profileKey(name)).Err(); err != nil {
		return NewStoreError(err, backendRedis, "delete")
	}
	return nil
}

// Close implements domain.ProfileRepository.
func (s *RedisProfileStore) Close() error {
	return s.client.Close()
}
