package service

import (
	"context"
	"time"

	"urban-bites/stats-svc/internal/domain"
)

const (
	DefaultPopularLimit = 5
	MaxPopularLimit     = 50
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

type StatsService struct {
	store    StoreInterface
	location *time.Location
	now      func() time.Time
}

func NewStatsService(store StoreInterface, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{store: store, location: loc, now: time.Now}
}

func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	s.now = now
	return s
}

func (s *StatsService) Daily(ctx context.Context, date string) (domain.DailyStats, error) {
	day, err := s.resolveDay(date)
	if err != nil {
		return domain.DailyStats{}, err
	}
	return s.store.DailyStats(ctx, day)
}

// Popular returns the best sellers of a day. limit <= 0 means the default; it is capped at MaxPopularLimit.
func (s *StatsService) Popular(ctx context.Context, date string, limit int) ([]domain.PopularItem, error) {
	day, err := s.resolveDay(date)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	if limit > MaxPopularLimit {
		limit = MaxPopularLimit
	}
	return s.store.PopularItems(ctx, day, limit)
}

// resolveDay maps "" to today in the restaurant's time zone.
func (s *StatsService) resolveDay(date string) (string, error) {
	if date == "" {
		return s.now().In(s.location).Format(domain.DayLayout), nil
	}
	if _, err := time.Parse(domain.DayLayout, date); err != nil {
		return "", ValidationError{Field: "date", Message: domain.ErrInvalidDate.Error()}
	}
	return date, nil
}
