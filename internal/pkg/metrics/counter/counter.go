// Package counter keeps webhook delivery counters in a Redis hash.
package counter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const webhookEventsKey = "webhook:counters:events"

// Counter counts events per label in one Redis hash
type Counter struct {
	client *redis.Client
	key    string
}

// NewWebhookCounter counts webhook deliveries per event type
func NewWebhookCounter(client *redis.Client) *Counter {
	return &Counter{client: client, key: webhookEventsKey}
}

// Add increments the counter of label
func (c *Counter) Add(ctx context.Context, label string) error {
	return c.client.HIncrBy(ctx, c.key, label, 1).Err()
}

// Snapshot returns the current counts without resetting them
func (c *Counter) Snapshot(ctx context.Context) (map[string]int64, error) {
	data, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil {
		return nil, err
	}
	return parseCounts(data), nil
}

// Drain returns the counts and resets them. The hash is renamed to a
// temporary key first so increments arriving meanwhile are not lost.
func (c *Counter) Drain(ctx context.Context) (map[string]int64, error) {
	tmpKey := fmt.Sprintf("%s:tmp:%d", c.key, time.Now().UnixNano())
	if err := c.client.Rename(ctx, c.key, tmpKey).Err(); err != nil {
		// Nothing counted yet
		if errors.Is(err, redis.Nil) || isNoSuchKey(err) {
			return map[string]int64{}, nil
		}
		return nil, err
	}
	defer c.client.Del(ctx, tmpKey)

	data, err := c.client.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return nil, err
	}
	return parseCounts(data), nil
}

func parseCounts(data map[string]string) map[string]int64 {
	counts := make(map[string]int64, len(data))
	for label, v := range data {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n == 0 {
			continue
		}
		counts[label] = n
	}
	return counts
}

func isNoSuchKey(err error) bool {
	return err != nil && err.Error() == "ERR no such key"
}
