package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"

	StatusCompleted = "COMPLETED"
)

const DayLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// OrderEvent is the message restaurant-svc publishes on every order creation and status change.
type OrderEvent struct {
	Type           string          `json:"type"`
	OrderID        string          `json:"order_id"`
	Status         string          `json:"status"`
	PreviousStatus string          `json:"previous_status"`
	Total          decimal.Decimal `json:"total"`
	Items          []EventItem     `json:"items,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

type EventItem struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

type DailyStats struct {
	Date            string          `json:"date"`
	OrdersPlaced    int64           `json:"orders_placed"`
	OrdersCompleted int64           `json:"orders_completed"`
	Revenue         decimal.Decimal `json:"revenue"`
}

type PopularItem struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
}

// ToCents converts a money amount to whole cents, rounding half away from zero.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
