// Package cache provides a Redis-backed cache of smoothed mastery
// estimates. The tracker treats it as a pure optimization: entries are
// dropped on every append for the pair, and any cache failure degrades to
// recomputing from the sample store.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Entries expire on their own as a backstop; correctness comes from the
// explicit invalidation on append, not from the TTL.
const masteryTTL = 24 * time.Hour

type MasteryCache struct {
	client *redis.Client
}

func NewMasteryCache(client *redis.Client) *MasteryCache {
	return &MasteryCache{client: client}
}

func (c *MasteryCache) key(userID, topicID string) string {
	return fmt.Sprintf("mastery:%s:%s", userID, topicID)
}

// TopicMastery returns the cached estimate and whether it was present.
func (c *MasteryCache) TopicMastery(ctx context.Context, userID, topicID string) (float64, bool, error) {
	val, err := c.client.Get(ctx, c.key(userID, topicID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("cache get: %w", err)
	}

	m, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("cache parse %q: %w", val, err)
	}
	return m, true, nil
}

func (c *MasteryCache) SetTopicMastery(ctx context.Context, userID, topicID string, mastery float64) error {
	val := strconv.FormatFloat(mastery, 'f', -1, 64)
	if err := c.client.Set(ctx, c.key(userID, topicID), val, masteryTTL).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *MasteryCache) Invalidate(ctx context.Context, userID, topicID string) error {
	if err := c.client.Del(ctx, c.key(userID, topicID)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
