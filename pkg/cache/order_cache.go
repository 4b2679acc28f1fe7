package cache

import (
	"context"
	"encoding/json"
	"time"

	"shopflow-be/internal/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	orderKeyPrefix = "order:"
	orderTTL       = 2 * time.Minute
)

// OrderCache is a read-through cache for order snapshots served to viewers.
// Because refund amounts are recomputed from the snapshot, a stale entry
// simply shows the pre-transition numbers; writers invalidate after commit.
// A nil Redis client degrades to a pass-through.
type OrderCache struct {
	rdb *redis.Client
}

func NewOrderCache(rdb *redis.Client) *OrderCache {
	return &OrderCache{rdb: rdb}
}

func (c *OrderCache) Get(ctx context.Context, id uuid.UUID) (*entity.Order, bool) {
	if c.rdb == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, orderKeyPrefix+id.String()).Bytes()
	if err != nil {
		return nil, false
	}

	var order entity.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, false
	}
	return &order, true
}

func (c *OrderCache) Set(ctx context.Context, order *entity.Order) {
	if c.rdb == nil {
		return
	}

	data, err := json.Marshal(order)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, orderKeyPrefix+order.Id.String(), data, orderTTL)
}

func (c *OrderCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, orderKeyPrefix+id.String())
}
