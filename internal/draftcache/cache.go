package draftcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gradeflow/rubricd/internal/rubric"
)

// Cache persists in-flight drafts in redis so an interrupted session can
// be reopened with its entries intact. With no redis URL configured the
// cache is disabled and every lookup misses.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(redisURL string, ttl time.Duration) (*Cache, error) {
	if redisURL == "" {
		return &Cache{}, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

func (c *Cache) Enabled() bool { return c.client != nil }

func (c *Cache) Put(ctx context.Context, assessmentID string, entries []rubric.AssessmentEntry) error {
	if c.client == nil {
		return nil
	}
	buf, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(assessmentID), buf, c.ttl).Err()
}

// Get returns the cached entries and whether the draft was present.
func (c *Cache) Get(ctx context.Context, assessmentID string) ([]rubric.AssessmentEntry, bool, error) {
	if c.client == nil {
		return nil, false, nil
	}
	buf, err := c.client.Get(ctx, key(assessmentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis error: %w", err)
	}
	var entries []rubric.AssessmentEntry
	if err := json.Unmarshal(buf, &entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

func (c *Cache) Delete(ctx context.Context, assessmentID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key(assessmentID)).Err()
}

func (c *Cache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func key(assessmentID string) string {
	return "rubricd:draft:" + assessmentID
}
