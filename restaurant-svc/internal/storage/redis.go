package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"urban-bites/restaurant-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	activeOrdersKey      = "orders:active"
	orderHistoryPrefix   = "orders:history:"
	DefaultOrderViewsTTL = 10 * time.Second
)

// RedisCache keeps the polled order views. Entries expire after TTL so a missed
// invalidation converges within one polling interval.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) OrderHistoryKey(email string) string {
	return orderHistoryPrefix + email
}

func (c *RedisCache) ActiveOrders(ctx context.Context) ([]domain.Order, bool, error) {
	return c.load(ctx, activeOrdersKey)
}

func (c *RedisCache) StoreActiveOrders(ctx context.Context, orders []domain.Order) error {
	return c.store(ctx, activeOrdersKey, orders)
}

func (c *RedisCache) OrderHistory(ctx context.Context, email string) ([]domain.Order, bool, error) {
	return c.load(ctx, c.OrderHistoryKey(email))
}

func (c *RedisCache) StoreOrderHistory(ctx context.Context, email string, orders []domain.Order) error {
	return c.store(ctx, c.OrderHistoryKey(email), orders)
}

// InvalidateOrderViews drops the kitchen view and, when email is set, that customer's history.
func (c *RedisCache) InvalidateOrderViews(ctx context.Context, email string) error {
	keys := []string{activeOrdersKey}
	if email != "" {
		keys = append(keys, c.OrderHistoryKey(email))
	}
	return c.Client.Del(ctx, keys...).Err()
}

func (c *RedisCache) load(ctx context.Context, key string) ([]domain.Order, bool, error) {
	payload, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var orders []domain.Order
	if err := json.Unmarshal(payload, &orders); err != nil {
		c.Client.Del(ctx, key)
		return nil, false, nil
	}
	return orders, true, nil
}

func (c *RedisCache) store(ctx context.Context, key string, orders []domain.Order) error {
	if orders == nil {
		orders = []domain.Order{}
	}
	payload, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key, payload, c.TTL).Err()
}
