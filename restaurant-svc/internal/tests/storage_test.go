package tests

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"urban-bites/restaurant-svc/internal/domain"
	"urban-bites/restaurant-svc/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLMock(t *testing.T) (*storage.PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return storage.NewPostgresRepository(db), mock
}

var orderRowColumns = []string{"id", "customer_name", "customer_email", "customer_phone", "total", "status", "created_at", "updated_at"}

func TestPostgresRepository_CreateOrderIsTransactional(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	order := &domain.Order{
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Items: []domain.OrderItem{
			{MenuItemID: "a", Name: "Burger", Quantity: 2, Price: decimal.NewFromInt(10)},
			{MenuItemID: "b", Name: "Panna Cotta", Quantity: 1, Price: decimal.NewFromInt(5)},
		},
		Total:  decimal.NewFromInt(25),
		Status: domain.OrderPending,
	}

	t.Run("commit", func(t *testing.T) {
		repo, mock := newSQLMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO orders").
			WithArgs(sqlmock.AnyArg(), "Ada", "ada@example.com", "", "25", "PENDING").
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(sqlmock.AnyArg(), 0, "a", "Burger", 2, "10").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(sqlmock.AnyArg(), 1, "b", "Panna Cotta", 1, "5").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.CreateOrder(ctx, order))
		_, err := uuid.Parse(order.ID)
		assert.NoError(t, err)
		assert.Equal(t, now, order.CreatedAt)
	})

	t.Run("item failure rolls back", func(t *testing.T) {
		repo, mock := newSQLMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO orders").
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectExec("INSERT INTO order_items").WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		assert.Error(t, repo.CreateOrder(ctx, order))
	})
}

func TestPostgresRepository_GetOrder(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()
	now := time.Now()

	t.Run("found with items", func(t *testing.T) {
		repo, mock := newSQLMock(t)
		mock.ExpectQuery("FROM orders WHERE id").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(orderRowColumns).
				AddRow(id, "Ada", "ada@example.com", "", "25.00", "READY", now, now))
		mock.ExpectQuery("FROM order_items").
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"order_id", "menu_item_id", "name", "quantity", "price"}).
				AddRow(id, "a", "Burger", 2, "10.00").
				AddRow(id, "b", "Panna Cotta", 1, "5.00"))

		order, err := repo.GetOrder(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderReady, order.Status)
		assert.True(t, order.Total.Equal(decimal.NewFromInt(25)))
		require.Len(t, order.Items, 2)
		assert.Equal(t, "Panna Cotta", order.Items[1].Name)
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock := newSQLMock(t)
		mock.ExpectQuery("FROM orders WHERE id").WithArgs(id).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetOrder(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("malformed id never reaches the database", func(t *testing.T) {
		repo, _ := newSQLMock(t)
		_, err := repo.GetOrder(ctx, "42")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPostgresRepository_UpdateOrderStatusCompareAndSet(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()
	now := time.Now()

	t.Run("won", func(t *testing.T) {
		repo, mock := newSQLMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3")).
			WithArgs("PREPARING", id, "PENDING").
			WillReturnRows(sqlmock.NewRows(orderRowColumns).
				AddRow(id, "Ada", "", "", "12.00", "PREPARING", now, now))
		mock.ExpectQuery("FROM order_items").
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"order_id", "menu_item_id", "name", "quantity", "price"}))

		order, err := repo.UpdateOrderStatus(ctx, id, domain.OrderPending, domain.OrderPreparing)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderPreparing, order.Status)
		assert.NotNil(t, order.Items)
	})

	t.Run("lost", func(t *testing.T) {
		repo, mock := newSQLMock(t)
		mock.ExpectQuery("UPDATE orders SET status").
			WithArgs("PREPARING", id, "PENDING").
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		_, err := repo.UpdateOrderStatus(ctx, id, domain.OrderPending, domain.OrderPreparing)
		assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	})
}

func TestPostgresRepository_ListOrdersFilters(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		filter    domain.OrderFilter
		wantQuery string
		wantArgs  int
	}{
		{name: "everything", filter: domain.OrderFilter{}, wantQuery: "FROM orders ORDER BY created_at DESC", wantArgs: 0},
		{name: "active", filter: domain.OrderFilter{Active: true}, wantQuery: "FROM orders WHERE status = ANY($1) ORDER BY created_at DESC", wantArgs: 1},
		{name: "history", filter: domain.OrderFilter{Email: "ada@example.com"}, wantQuery: "FROM orders WHERE customer_email = $1 ORDER BY created_at DESC", wantArgs: 1},
		{
			name:      "status and email",
			filter:    domain.OrderFilter{Status: domain.OrderReady, Email: "ada@example.com"},
			wantQuery: "FROM orders WHERE status = $1 AND customer_email = $2 ORDER BY created_at DESC",
			wantArgs:  2,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo, mock := newSQLMock(t)
			args := make([]driver.Value, testCase.wantArgs)
			for i := range args {
				args[i] = sqlmock.AnyArg()
			}
			expect := mock.ExpectQuery(regexp.QuoteMeta(testCase.wantQuery))
			if len(args) > 0 {
				expect = expect.WithArgs(args...)
			}
			expect.WillReturnRows(sqlmock.NewRows(orderRowColumns))

			orders, err := repo.ListOrders(ctx, testCase.filter)
			require.NoError(t, err)
			assert.Empty(t, orders)
		})
	}
}

func TestPostgresRepository_ListMenuItems(t *testing.T) {
	ctx := context.Background()
	columns := []string{"id", "name", "description", "price", "category", "image", "is_available", "created_at", "updated_at"}
	now := time.Now()

	t.Run("customer view", func(t *testing.T) {
		repo, mock := newSQLMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM menu_items WHERE is_available = TRUE AND category = $1 ORDER BY created_at ASC")).
			WithArgs("Mains").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(uuid.NewString(), "Ribeye Steak", "300g", "45.00", "Mains", "https://img", true, now, now))

		items, err := repo.ListMenuItems(ctx, true, domain.CategoryMains)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.True(t, items[0].Price.Equal(decimal.NewFromInt(45)))
	})

	t.Run("admin view", func(t *testing.T) {
		repo, mock := newSQLMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM menu_items ORDER BY category ASC, created_at ASC")).
			WillReturnRows(sqlmock.NewRows(columns))

		items, err := repo.ListMenuItems(ctx, false, "")
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}

func TestPostgresRepository_Reservations(t *testing.T) {
	ctx := context.Background()
	columns := []string{"id", "name", "email", "phone", "date", "time", "party_size", "notes", "status", "created_at", "updated_at"}
	id := uuid.NewString()
	now := time.Now()
	day := time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC)

	t.Run("upcoming confirmed", func(t *testing.T) {
		repo, mock := newSQLMock(t)
		from, _ := domain.ParseDate("2026-06-16")
		mock.ExpectQuery(regexp.QuoteMeta("FROM reservations WHERE status = $1 AND date >= $2 ORDER BY date ASC, time ASC")).
			WithArgs("CONFIRMED", "2026-06-16").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(id, "Grace", "grace@example.com", "", day, "19:30", 4, "", "CONFIRMED", now, now))

		reservations, err := repo.ListReservations(ctx, domain.ReservationFilter{Status: domain.ReservationConfirmed, From: from})
		require.NoError(t, err)
		require.Len(t, reservations, 1)
		assert.Equal(t, "2026-06-20", reservations[0].Date.String())
	})

	t.Run("status update on missing row", func(t *testing.T) {
		repo, mock := newSQLMock(t)
		mock.ExpectQuery("UPDATE reservations SET status").
			WithArgs("CANCELLED", id).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.UpdateReservationStatus(ctx, id, domain.ReservationCancelled)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("create", func(t *testing.T) {
		repo, mock := newSQLMock(t)
		res := storedReservation("", domain.ReservationConfirmed)
		mock.ExpectQuery("INSERT INTO reservations").
			WithArgs(sqlmock.AnyArg(), "Grace Hopper", "grace@example.com", "", "2026-06-20", "19:30", 4, "", "CONFIRMED").
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		require.NoError(t, repo.CreateReservation(ctx, res))
		assert.NotEmpty(t, res.ID)
	})
}

func TestPostgresRepository_DashboardStats(t *testing.T) {
	repo, mock := newSQLMock(t)
	mock.ExpectQuery("SELECT").
		WithArgs("PENDING", "CONFIRMED").
		WillReturnRows(sqlmock.NewRows([]string{"menu_items", "orders", "pending", "confirmed"}).AddRow(12, 30, 2, 5))

	stats, err := repo.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardStats{MenuItems: 12, Orders: 30, PendingOrders: 2, ConfirmedReservations: 5}, stats)
}

func TestPostgresRepository_EnsureSchema(t *testing.T) {
	repo, mock := newSQLMock(t)
	for _, table := range []string{"menu_items", "orders", "order_items", "reservations"} {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS " + table).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	for i := 0; i < 3; i++ {
		mock.ExpectExec("CREATE INDEX IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	assert.NoError(t, repo.EnsureSchema(context.Background()))
}

func newRedisCache(t *testing.T) (*storage.RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return storage.NewRedisCache(client, storage.DefaultOrderViewsTTL), mr
}

func TestRedisCache_OrderViews(t *testing.T) {
	ctx := context.Background()
	cache, mr := newRedisCache(t)
	orders := []domain.Order{*storedOrder("o1", domain.OrderPreparing)}

	_, ok, err := cache.ActiveOrders(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.StoreActiveOrders(ctx, orders))
	require.NoError(t, cache.StoreOrderHistory(ctx, "ada@example.com", orders))
	assert.Equal(t, storage.DefaultOrderViewsTTL, mr.TTL("orders:active"))

	cached, ok, err := cache.ActiveOrders(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, cached, 1)
	assert.Equal(t, domain.OrderPreparing, cached[0].Status)
	assert.True(t, cached[0].Total.Equal(decimal.NewFromInt(28)))

	history, ok, err := cache.OrderHistory(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, history, 1)

	require.NoError(t, cache.InvalidateOrderViews(ctx, "ada@example.com"))
	assert.False(t, mr.Exists("orders:active"))
	assert.False(t, mr.Exists(cache.OrderHistoryKey("ada@example.com")))
}

func TestRedisCache_EmptyViewIsAHit(t *testing.T) {
	ctx := context.Background()
	cache, _ := newRedisCache(t)

	require.NoError(t, cache.StoreActiveOrders(ctx, nil))
	orders, ok, err := cache.ActiveOrders(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, orders)
}

func TestRedisCache_CorruptEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	cache, mr := newRedisCache(t)
	require.NoError(t, mr.Set("orders:active", "{not json"))

	_, ok, err := cache.ActiveOrders(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("orders:active"))
}

func TestRedisCache_ExpiresAfterOnePollingInterval(t *testing.T) {
	ctx := context.Background()
	cache, mr := newRedisCache(t)
	require.NoError(t, cache.StoreActiveOrders(ctx, []domain.Order{}))

	mr.FastForward(storage.DefaultOrderViewsTTL + time.Second)

	_, ok, err := cache.ActiveOrders(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
