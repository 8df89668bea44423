package tests

import (
	"encoding/json"
	"testing"
	"time"

	"urban-bites/restaurant-svc/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_Transitions(t *testing.T) {
	all := domain.OrderStatuses()

	allowed := map[domain.OrderStatus]domain.OrderStatus{
		domain.OrderPending:   domain.OrderPreparing,
		domain.OrderPreparing: domain.OrderReady,
		domain.OrderReady:     domain.OrderCompleted,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from] == to
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)

			_, err := from.TransitionTo(to)
			if want {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrIllegalTransition)
			}
		}
	}

	assert.True(t, domain.OrderCompleted.IsTerminal())
	assert.False(t, domain.OrderCompleted.IsActive())
	_, ok := domain.OrderCompleted.Next()
	assert.False(t, ok)
	assert.Equal(t, []domain.OrderStatus{domain.OrderPending, domain.OrderPreparing, domain.OrderReady}, domain.ActiveOrderStatuses())
}

func TestOrderStatus_ParseAndJSON(t *testing.T) {
	status, err := domain.ParseOrderStatus("READY")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderReady, status)

	_, err = domain.ParseOrderStatus("ready")
	assert.ErrorIs(t, err, domain.ErrUnknownStatus)

	payload, err := json.Marshal(struct {
		Status domain.OrderStatus `json:"status"`
	}{domain.OrderPreparing})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"PREPARING"}`, string(payload))

	var decoded struct {
		Status domain.OrderStatus `json:"status"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"status":"CANCELLED"}`), &decoded))
}

func TestReservationStatus(t *testing.T) {
	assert.True(t, domain.ReservationConfirmed.CanTransitionTo(domain.ReservationCancelled))
	assert.False(t, domain.ReservationCancelled.CanTransitionTo(domain.ReservationConfirmed))
	assert.True(t, domain.ReservationCancelled.IsTerminal())
	assert.False(t, domain.ReservationConfirmed.IsTerminal())

	var status domain.ReservationStatus
	require.NoError(t, status.Scan([]byte("CANCELLED")))
	assert.Equal(t, domain.ReservationCancelled, status)
}

func TestDate(t *testing.T) {
	d, err := domain.ParseDate("2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", d.String())

	fromTimestamp, err := domain.ParseDate("2026-03-09T18:00:00+05:00")
	require.NoError(t, err)
	assert.Equal(t, d, fromTimestamp, "calendar day is kept as written")

	assert.True(t, d.AddDays(-1).Before(d))
	assert.False(t, d.Before(d))
	assert.Equal(t, "2026-03-01", d.AddDays(-8).String())

	_, err = domain.ParseDate("09/03/2026")
	assert.Error(t, err)

	var scanned domain.Date
	require.NoError(t, scanned.Scan(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, d, scanned)

	var res domain.Reservation
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2026-03-09","party_size":11}`), &res))
	assert.Equal(t, d, res.Date)
	assert.Equal(t, domain.LargeParty, res.PartySize)
}

func TestOrderTotal(t *testing.T) {
	items := []domain.OrderItem{
		{Quantity: 2, Price: decimal.RequireFromString("10.00")},
		{Quantity: 1, Price: decimal.RequireFromString("5.00")},
	}
	assert.True(t, domain.OrderTotal(items).Equal(decimal.NewFromInt(25)))

	payload, err := json.Marshal(domain.Order{Total: decimal.RequireFromString("12.50"), Items: items})
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"total":12.5`)
}

func TestMenuItemPatchApply(t *testing.T) {
	item := domain.MenuItem{Name: "Old", Price: decimal.NewFromInt(10), IsAvailable: true}
	name := "New"
	unavailable := false

	domain.MenuItemPatch{Name: &name, IsAvailable: &unavailable}.Apply(&item)

	assert.Equal(t, "New", item.Name)
	assert.False(t, item.IsAvailable)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(10)))
}
