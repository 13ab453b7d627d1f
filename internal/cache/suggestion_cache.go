package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SuggestionCache handles Redis operations for distinct-value suggestions.
// Entries are namespaced by a generation counter; Invalidate bumps the
// generation so every older entry is orphaned and left to expire.
type SuggestionCache interface {
	GetChapters(ctx context.Context, subject string) ([]string, error)
	SetChapters(ctx context.Context, subject string, chapters []string) error
	GetTopics(ctx context.Context, chapter string) ([]string, error)
	SetTopics(ctx context.Context, chapter string, topics []string) error
	Invalidate(ctx context.Context) error
}

type suggestionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSuggestionCache creates a new suggestion cache
func NewSuggestionCache(client *redis.Client, ttl time.Duration) SuggestionCache {
	return &suggestionCache{
		client: client,
		ttl:    ttl,
	}
}

const generationKey = "suggest:gen"

func (c *suggestionCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func (c *suggestionCache) key(gen int64, kind, value string) string {
	return fmt.Sprintf("suggest:%d:%s:%s", gen, kind, value)
}

func (c *suggestionCache) get(ctx context.Context, kind, value string) ([]string, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, err
	}
	data, err := c.client.Get(ctx, c.key(gen, kind, value)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, err
	}
	return values, nil
}

func (c *suggestionCache) set(ctx context.Context, kind, value string, values []string) error {
	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(gen, kind, value), data, c.ttl).Err()
}

func (c *suggestionCache) GetChapters(ctx context.Context, subject string) ([]string, error) {
	return c.get(ctx, "chapters", subject)
}

func (c *suggestionCache) SetChapters(ctx context.Context, subject string, chapters []string) error {
	return c.set(ctx, "chapters", subject, chapters)
}

func (c *suggestionCache) GetTopics(ctx context.Context, chapter string) ([]string, error) {
	return c.get(ctx, "topics", chapter)
}

func (c *suggestionCache) SetTopics(ctx context.Context, chapter string, topics []string) error {
	return c.set(ctx, "topics", chapter, topics)
}

func (c *suggestionCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, generationKey).Err()
}
