// Package cache keeps computed title ratings in redis so title listings
// do not re-aggregate review scores on every read. The cache is strictly
// an optimization: on any miss or redis error the caller falls back to
// the SQL aggregate.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const ratingKeyPrefix = "rating:title:"

// Sentinel stored for titles with no reviews, so "no reviews" is also a
// cache hit.
const noRating = "none"

type RatingCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRatingCache(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *RatingCache {
	return &RatingCache{rdb: rdb, ttl: ttl, logger: logger}
}

// Get returns (rating, hit). rating is nil for a cached "no reviews".
func (c *RatingCache) Get(ctx context.Context, titleID int64) (*float64, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	val, err := c.rdb.Get(ctx, ratingKey(titleID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("rating cache get failed", "title_id", titleID, "error", err)
		}
		return nil, false
	}
	if val == noRating {
		return nil, true
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil, false
	}
	return &f, true
}

// Set stores a computed rating. A nil rating records "no reviews".
func (c *RatingCache) Set(ctx context.Context, titleID int64, rating *float64) {
	if c == nil || c.rdb == nil {
		return
	}
	val := noRating
	if rating != nil {
		val = strconv.FormatFloat(*rating, 'f', -1, 64)
	}
	if err := c.rdb.Set(ctx, ratingKey(titleID), val, c.ttl).Err(); err != nil {
		c.logger.Warn("rating cache set failed", "title_id", titleID, "error", err)
	}
}

// Invalidate drops the cached rating after a review write.
func (c *RatingCache) Invalidate(ctx context.Context, titleID int64) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, ratingKey(titleID)).Err(); err != nil {
		c.logger.Warn("rating cache invalidate failed", "title_id", titleID, "error", err)
	}
}

func ratingKey(titleID int64) string {
	return fmt.Sprintf("%s%d", ratingKeyPrefix, titleID)
}
