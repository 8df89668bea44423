package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"urban-bites/stats-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	// RetentionTTL bounds how long per-day statistics are kept.
	RetentionTTL = 90 * 24 * time.Hour
	// DedupTTL covers the window in which Kafka may redeliver an event.
	DedupTTL = 7 * 24 * time.Hour

	itemNamesKey = "stats:items"
)

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func DailyKey(day string) string {
	return "stats:daily:" + day
}

func PopularKey(day string) string {
	return "stats:popular:" + day
}

// MarkProcessed records key as handled and reports whether it was new.
func (s *Store) MarkProcessed(ctx context.Context, key string) (bool, error) {
	fresh, err := s.rdb.SetNX(ctx, "stats:seen:"+key, 1, DedupTTL).Result()
	if err != nil {
		return false, fmt.Errorf("mark %s processed: %w", key, err)
	}
	return fresh, nil
}

func (s *Store) UnmarkProcessed(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, "stats:seen:"+key).Err()
}

func (s *Store) RecordOrderPlaced(ctx context.Context, day string, event domain.OrderEvent) error {
	daily := DailyKey(day)
	popular := PopularKey(day)

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, daily, "orders_placed", 1)
		pipe.HIncrBy(ctx, daily, "revenue_cents", domain.ToCents(event.Total))
		pipe.Expire(ctx, daily, RetentionTTL)

		for _, item := range event.Items {
			if item.MenuItemID == "" || item.Quantity < 1 {
				continue
			}
			pipe.ZIncrBy(ctx, popular, float64(item.Quantity), item.MenuItemID)
			if item.Name != "" {
				pipe.HSet(ctx, itemNamesKey, item.MenuItemID, item.Name)
			}
		}
		pipe.Expire(ctx, popular, RetentionTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record order %s: %w", event.OrderID, err)
	}
	return nil
}

func (s *Store) RecordOrderCompleted(ctx context.Context, day string) error {
	daily := DailyKey(day)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, daily, "orders_completed", 1)
		pipe.Expire(ctx, daily, RetentionTTL)
		return nil
	})
	return err
}

func (s *Store) DailyStats(ctx context.Context, day string) (domain.DailyStats, error) {
	stats := domain.DailyStats{Date: day, Revenue: domain.FromCents(0)}

	fields, err := s.rdb.HGetAll(ctx, DailyKey(day)).Result()
	if err != nil {
		return stats, fmt.Errorf("load daily stats %s: %w", day, err)
	}

	stats.OrdersPlaced = parseCount(fields["orders_placed"])
	stats.OrdersCompleted = parseCount(fields["orders_completed"])
	stats.Revenue = domain.FromCents(parseCount(fields["revenue_cents"]))
	return stats, nil
}

// PopularItems returns up to limit items ordered by quantity sold on day, best first.
func (s *Store) PopularItems(ctx context.Context, day string, limit int) ([]domain.PopularItem, error) {
	ranked, err := s.rdb.ZRevRangeWithScores(ctx, PopularKey(day), 0, int64(limit-1)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load popular items %s: %w", day, err)
	}

	items := make([]domain.PopularItem, 0, len(ranked))
	if len(ranked) == 0 {
		return items, nil
	}

	ids := make([]string, len(ranked))
	for i, z := range ranked {
		ids[i] = z.Member.(string)
	}
	names, err := s.rdb.HMGet(ctx, itemNamesKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("load item names: %w", err)
	}

	for i, z := range ranked {
		name, _ := names[i].(string)
		items = append(items, domain.PopularItem{
			MenuItemID: ids[i],
			Name:       name,
			Quantity:   int64(z.Score),
		})
	}
	return items, nil
}

func parseCount(raw string) int64 {
	n, _ := strconv.ParseInt(raw, 10, 64)
	return n
}
