package service

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"urban-bites/restaurant-svc/internal/domain"

	"github.com/shopspring/decimal"
)

// ValidationError reports a request that was rejected before anything was persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateMenuItem(item *domain.MenuItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(item.Description) == "" {
		return ValidationError{Field: "description", Message: "description is required"}
	}
	if item.Price.IsNegative() {
		return ValidationError{Field: "price", Message: "price must not be negative"}
	}
	if !wholeCents(item.Price) {
		return ValidationError{Field: "price", Message: "price must have at most 2 decimal places"}
	}
	if !item.Category.Valid() {
		return ValidationError{Field: "category", Message: fmt.Sprintf("category must be one of %v", domain.Categories())}
	}
	if strings.TrimSpace(item.Image) == "" {
		return ValidationError{Field: "image", Message: "image is required"}
	}
	return nil
}

func ValidateOrder(order *domain.Order) error {
	name := strings.TrimSpace(order.CustomerName)
	if name == "" {
		return ValidationError{Field: "customer_name", Message: "customer name is required"}
	}
	if len(name) > 100 {
		return ValidationError{Field: "customer_name", Message: "customer name must be less than 100 characters"}
	}
	if order.CustomerEmail != "" {
		if _, err := mail.ParseAddress(order.CustomerEmail); err != nil {
			return ValidationError{Field: "customer_email", Message: "customer email is not a valid address"}
		}
	}
	if len(order.Items) == 0 {
		return ValidationError{Field: "items", Message: "items cannot be empty"}
	}
	for i, item := range order.Items {
		if err := validateOrderItem(item, i); err != nil {
			return err
		}
	}
	return nil
}

func validateOrderItem(item domain.OrderItem, index int) error {
	if item.MenuItemID == "" {
		return ValidationError{Field: fmt.Sprintf("items[%d].menu_item_id", index), Message: "menu item id is required"}
	}
	if strings.TrimSpace(item.Name) == "" {
		return ValidationError{Field: fmt.Sprintf("items[%d].name", index), Message: "item name is required"}
	}
	if item.Quantity <= 0 {
		return ValidationError{Field: fmt.Sprintf("items[%d].quantity", index), Message: "item quantity must be greater than 0"}
	}
	if item.Price.IsNegative() {
		return ValidationError{Field: fmt.Sprintf("items[%d].price", index), Message: "item price must not be negative"}
	}
	if !wholeCents(item.Price) {
		return ValidationError{Field: fmt.Sprintf("items[%d].price", index), Message: "item price must have at most 2 decimal places"}
	}
	return nil
}

// wholeCents reports whether price fits NUMERIC(10,2) without rounding.
func wholeCents(price decimal.Decimal) bool {
	return price.Equal(price.Round(2))
}

// ValidateReservation checks required fields and that the date is not before today.
// Only the calendar day matters: a reservation for later today is accepted.
func ValidateReservation(r *domain.Reservation, today domain.Date) error {
	if strings.TrimSpace(r.Name) == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(r.Email) == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return ValidationError{Field: "email", Message: "email is not a valid address"}
	}
	if r.Date.IsZero() {
		return ValidationError{Field: "date", Message: "date is required"}
	}
	if r.Date.Before(today) {
		return ValidationError{Field: "date", Message: "reservation date must not be in the past"}
	}
	if r.Time == "" {
		return ValidationError{Field: "time", Message: "time is required"}
	}
	if _, err := time.Parse("15:04", r.Time); err != nil {
		return ValidationError{Field: "time", Message: "time must be formatted as HH:MM"}
	}
	if r.PartySize <= 0 {
		return ValidationError{Field: "party_size", Message: "party size is required"}
	}
	if r.PartySize > domain.LargeParty {
		return ValidationError{
			Field:   "party_size",
			Message: fmt.Sprintf("party size must be between 1 and %d (use %d for parties larger than 10)", domain.LargeParty, domain.LargeParty),
		}
	}
	return nil
}
