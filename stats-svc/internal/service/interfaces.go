package service

import (
	"context"

	"urban-bites/stats-svc/internal/domain"
	"urban-bites/stats-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	MarkProcessed(ctx context.Context, key string) (bool, error)
	UnmarkProcessed(ctx context.Context, key string) error
	RecordOrderPlaced(ctx context.Context, day string, event domain.OrderEvent) error
	RecordOrderCompleted(ctx context.Context, day string) error
	DailyStats(ctx context.Context, day string) (domain.DailyStats, error)
	PopularItems(ctx context.Context, day string, limit int) ([]domain.PopularItem, error)
}

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type StatsInterface interface {
	Daily(ctx context.Context, date string) (domain.DailyStats, error)
	Popular(ctx context.Context, date string, limit int) ([]domain.PopularItem, error)
}

var (
	_ StoreInterface = (*storage.Store)(nil)
	_ MessageReader  = (*kafka.Reader)(nil)
	_ StatsInterface = (*StatsService)(nil)
)
