package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Category string

const (
	CategoryStarters Category = "Starters"
	CategoryMains    Category = "Mains"
	CategoryDesserts Category = "Desserts"
)

var categories = []Category{CategoryStarters, CategoryMains, CategoryDesserts}

func Categories() []Category {
	return append([]Category(nil), categories...)
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	Image       string          `json:"image"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MenuItemPatch carries the fields an admin edit may change; nil means unchanged.
type MenuItemPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *Category        `json:"category"`
	Image       *string          `json:"image"`
	IsAvailable *bool            `json:"is_available"`
}

func (p MenuItemPatch) Apply(item *MenuItem) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Image != nil {
		item.Image = *p.Image
	}
	if p.IsAvailable != nil {
		item.IsAvailable = *p.IsAvailable
	}
}

type Order struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	Items         []OrderItem     `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	QRCode        string          `json:"qr_code,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderItem is a snapshot of a menu item taken when the order was placed.
type OrderItem struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func OrderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

type OrderFilter struct {
	Active bool
	Email  string
	Status OrderStatus
}

// LargeParty is the party size that stands for "10 or more guests, contact to confirm".
const LargeParty = 11

type Reservation struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone,omitempty"`
	Date      Date              `json:"date"`
	Time      string            `json:"time"`
	PartySize int               `json:"party_size"`
	Notes     string            `json:"notes,omitempty"`
	Status    ReservationStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type ReservationFilter struct {
	Status ReservationStatus
	From   Date
}

type DashboardStats struct {
	MenuItems             int `json:"menu_items"`
	Orders                int `json:"orders"`
	PendingOrders         int `json:"pending_orders"`
	ConfirmedReservations int `json:"confirmed_reservations"`
}

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
)

type OrderEvent struct {
	Type           string          `json:"type"`
	OrderID        string          `json:"order_id"`
	Status         OrderStatus     `json:"status"`
	PreviousStatus OrderStatus     `json:"previous_status"`
	CustomerEmail  string          `json:"customer_email,omitempty"`
	Total          decimal.Decimal `json:"total"`
	Items          []OrderItem     `json:"items,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}
