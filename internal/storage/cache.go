package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ExtractionTTL is how long extracted resume text stays cached
const ExtractionTTL = 24 * time.Hour

// TextCache caches extracted document text keyed by content hash
type TextCache interface {
	GetText(ctx context.Context, key string) (string, bool, error)
	SetText(ctx context.Context, key, text string) error
}

// ContentKey returns the cache key for a document's bytes
func ContentKey(data []byte) string {
	sum := sha256.Sum256(data)
	return "extract:" + hex.EncodeToString(sum[:])
}

// Redis implements TextCache
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ TextCache = (*Redis)(nil)

// NewRedis connects using a redis:// URL and verifies the connection
func NewRedis(ctx context.Context, url string) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &Redis{client: client, ttl: ExtractionTTL}, nil
}

// GetText returns the cached text and whether it was present
func (r *Redis) GetText(ctx context.Context, key string) (string, bool, error) {
	text, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return text, true, nil
}

// SetText stores text under key with the extraction TTL
func (r *Redis) SetText(ctx context.Context, key, text string) error {
	if err := r.client.Set(ctx, key, text, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close closes the client
func (r *Redis) Close() error {
	return r.client.Close()
}
