// Package store provides the benefit catalog read-through cache. The catalog
// rarely changes, so cached reads take load off the primary store on the
// assignment hot path.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"staffdesk/internal/benefit/models"
)

// Reader is the benefit read surface the cache fronts.
type Reader interface {
	GetBenefit(ctx context.Context, id uuid.UUID) (*models.Benefit, error)
	ListBenefits(ctx context.Context) ([]*models.Benefit, error)
}

// Cache is a read-through benefit cache backed by Redis. Cache failures fall
// back to the primary store; a broken cache must never fail a read.
type Cache struct {
	next   Reader
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache fronts next with a Redis cache.
func NewCache(next Reader, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func benefitKey(id uuid.UUID) string { return "benefit:" + id.String() }

// GetBenefit serves from cache when possible, filling on miss.
func (c *Cache) GetBenefit(ctx context.Context, id uuid.UUID) (*models.Benefit, error) {
	raw, err := c.rdb.Get(ctx, benefitKey(id)).Bytes()
	if err == nil {
		b := &models.Benefit{}
		if err := json.Unmarshal(raw, b); err == nil {
			return b, nil
		}
	} else if err != redis.Nil {
		c.logger.WarnContext(ctx, "benefit cache read failed", "benefit_id", id, "error", err)
	}

	b, err := c.next.GetBenefit(ctx, id)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(b); err == nil {
		if err := c.rdb.Set(ctx, benefitKey(id), raw, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "benefit cache write failed", "benefit_id", id, "error", err)
		}
	}
	return b, nil
}

// ListBenefits always hits the primary store; the catalog listing is not on
// the hot path and caching a collection complicates invalidation.
func (c *Cache) ListBenefits(ctx context.Context) ([]*models.Benefit, error) {
	return c.next.ListBenefits(ctx)
}
