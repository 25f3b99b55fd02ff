package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

const (
	// AuctionCacheTTL is the time-to-live for cached auctions. Bid projections
	// mutate auctions out-of-band, so the TTL is short and mutations through
	// the command surface invalidate eagerly.
	AuctionCacheTTL = 5 * time.Minute

	auctionCacheKeyPrefix = "auction"
)

// AuctionCache provides a read-through cache of auction snapshots.
// Key format: "auction:{auctionID}", value: JSON-encoded aggregate.
type AuctionCache struct {
	client *RedisClient
}

// NewAuctionCache creates a new AuctionCache backed by the given RedisClient.
func NewAuctionCache(r *RedisClient) *AuctionCache {
	return &AuctionCache{client: r}
}

// Get retrieves a cached auction by ID.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *AuctionCache) Get(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	data, err := c.client.Client().Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, redis.Nil
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var a models.Auction
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &a, nil
}

// Set writes an auction snapshot with the cache TTL.
func (c *AuctionCache) Set(ctx context.Context, a *models.Auction) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Client().Set(ctx, c.key(a.ID), data, AuctionCacheTTL).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached auction.
func (c *AuctionCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Client().Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "auction:{auctionID}"
func (c *AuctionCache) key(id uuid.UUID) string {
	return fmt.Sprintf("%s:%s", auctionCacheKeyPrefix, id)
}
