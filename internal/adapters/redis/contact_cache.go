package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/festivo/notify-api/internal/domain/model"
)

// ContactCache is a Redis read-through cache for resolved guest contacts.
// Dispatch resolves each contact at send time; caching keeps repeated
// advances on large jobs from hammering the guests table.
type ContactCache struct {
	client redis.UniversalClient
	prefix string
}

// NewContactCache creates a new Redis-backed contact cache.
func NewContactCache(client redis.UniversalClient) *ContactCache {
	return &ContactCache{
		client: client,
		prefix: "contact:",
	}
}

// Get fetches a cached contact. The second return reports a cache hit.
func (c *ContactCache) Get(ctx context.Context, guestID string) (*model.Contact, bool, error) {
	if guestID == "" {
		return nil, false, nil
	}

	data, err := c.client.Get(ctx, c.prefix+guestID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("contact cache get: %w", err)
	}

	var contact model.Contact
	if unmarshalErr := json.Unmarshal([]byte(data), &contact); unmarshalErr != nil {
		return nil, false, fmt.Errorf("unmarshal cached contact: %w", unmarshalErr)
	}
	return &contact, true, nil
}

// Set stores a contact with the given TTL.
func (c *ContactCache) Set(ctx context.Context, contact model.Contact, ttl time.Duration) error {
	if contact.GuestID == "" {
		return errors.New("contact guest ID cannot be empty")
	}
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(contact)
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}
	return c.client.Set(ctx, c.prefix+contact.GuestID, data, ttl).Err()
}
