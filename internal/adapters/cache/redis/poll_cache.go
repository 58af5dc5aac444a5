package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

const activePollsKey = "survey:polls:active"

type pollCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPollCache(client *redis.Client, ttl time.Duration) ports.PollCache {
	return &pollCache{
		client: client,
		ttl:    ttl,
	}
}

func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (c *pollCache) GetActive(ctx context.Context) ([]*domain.Poll, bool, error) {
	data, err := c.client.Get(ctx, activePollsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read active polls: %w", err)
	}

	var polls []*domain.Poll
	if err := json.Unmarshal(data, &polls); err != nil {
		return nil, false, fmt.Errorf("failed to decode active polls: %w", err)
	}
	return polls, true, nil
}

func (c *pollCache) SetActive(ctx context.Context, polls []*domain.Poll) error {
	data, err := json.Marshal(polls)
	if err != nil {
		return fmt.Errorf("failed to encode active polls: %w", err)
	}
	if err := c.client.Set(ctx, activePollsKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store active polls: %w", err)
	}
	return nil
}

func (c *pollCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, activePollsKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate active polls: %w", err)
	}
	return nil
}
