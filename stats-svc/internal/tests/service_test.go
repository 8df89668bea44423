package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"urban-bites/stats-svc/internal/domain"
	"urban-bites/stats-svc/internal/mocks"
	"urban-bites/stats-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStatsService(t *testing.T) (*service.StatsService, *mocks.StoreInterface) {
	mockStore := mocks.NewStoreInterface(t)
	svc := service.NewStatsService(mockStore, london(t)).WithClock(func() time.Time {
		return time.Date(2026, 6, 15, 23, 30, 0, 0, time.UTC)
	})
	return svc, mockStore
}

func TestStatsService_Daily(t *testing.T) {
	tests := []struct {
		name          string
		date          string
		expectedDay   string
		expectedError bool
	}{
		{name: "defaults to today in restaurant time", date: "", expectedDay: "2026-06-16"},
		{name: "explicit date", date: "2026-05-01", expectedDay: "2026-05-01"},
		{name: "malformed date", date: "01/05/2026", expectedError: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, mockStore := newStatsService(t)
			if !testCase.expectedError {
				mockStore.On("DailyStats", mock.Anything, testCase.expectedDay).
					Return(domain.DailyStats{Date: testCase.expectedDay, OrdersPlaced: 3}, nil).Once()
			}

			stats, err := svc.Daily(context.Background(), testCase.date)

			if testCase.expectedError {
				var validation service.ValidationError
				require.True(t, errors.As(err, &validation))
				assert.Equal(t, "date", validation.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(3), stats.OrdersPlaced)
		})
	}
}

func TestStatsService_PopularLimit(t *testing.T) {
	tests := []struct {
		name          string
		limit         int
		expectedLimit int
	}{
		{name: "default", limit: 0, expectedLimit: service.DefaultPopularLimit},
		{name: "negative", limit: -4, expectedLimit: service.DefaultPopularLimit},
		{name: "explicit", limit: 3, expectedLimit: 3},
		{name: "capped", limit: 1000, expectedLimit: service.MaxPopularLimit},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, mockStore := newStatsService(t)
			mockStore.On("PopularItems", mock.Anything, "2026-06-16", testCase.expectedLimit).
				Return([]domain.PopularItem{}, nil).Once()

			_, err := svc.Popular(context.Background(), "", testCase.limit)

			assert.NoError(t, err)
		})
	}
}
