package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// OrderStatus is a closed set: the only values are the package-level ones below.
// The zero value means "no status" and is never stored.
type OrderStatus struct {
	name string
}

var (
	OrderPending   = OrderStatus{"PENDING"}
	OrderPreparing = OrderStatus{"PREPARING"}
	OrderReady     = OrderStatus{"READY"}
	OrderCompleted = OrderStatus{"COMPLETED"}
)

var orderStatuses = []OrderStatus{OrderPending, OrderPreparing, OrderReady, OrderCompleted}

// orderTransitions is the whole lifecycle: every non-terminal status has exactly one successor.
var orderTransitions = map[OrderStatus]OrderStatus{
	OrderPending:   OrderPreparing,
	OrderPreparing: OrderReady,
	OrderReady:     OrderCompleted,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, status := range orderStatuses {
		if status.name == s {
			return status, nil
		}
	}
	return OrderStatus{}, fmt.Errorf("%w %q, expected one of %s", ErrUnknownStatus, s, joinStatuses(orderStatuses))
}

func OrderStatuses() []OrderStatus {
	return append([]OrderStatus(nil), orderStatuses...)
}

// ActiveOrderStatuses are the statuses shown on the kitchen board.
func ActiveOrderStatuses() []OrderStatus {
	return []OrderStatus{OrderPending, OrderPreparing, OrderReady}
}

func (s OrderStatus) String() string { return s.name }

func (s OrderStatus) IsZero() bool { return s.name == "" }

func (s OrderStatus) IsTerminal() bool {
	_, ok := orderTransitions[s]
	return !s.IsZero() && !ok
}

func (s OrderStatus) IsActive() bool {
	_, ok := orderTransitions[s]
	return ok
}

// Next returns the single status an order may move to from s.
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := orderTransitions[s]
	return next, ok
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	next, ok := orderTransitions[s]
	return ok && next == target
}

// TransitionTo returns target if the move is legal, or ErrIllegalTransition describing the allowed move.
func (s OrderStatus) TransitionTo(target OrderStatus) (OrderStatus, error) {
	if s.CanTransitionTo(target) {
		return target, nil
	}
	if next, ok := s.Next(); ok {
		return s, fmt.Errorf("%w: %s -> %s, only %s is allowed", ErrIllegalTransition, s, target, next)
	}
	return s, fmt.Errorf("%w: %s is terminal", ErrIllegalTransition, s)
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	if s.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(s.name)
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = OrderStatus{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseOrderStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	if s.IsZero() {
		return nil, fmt.Errorf("%w: empty order status", ErrUnknownStatus)
	}
	return s.name, nil
}

func (s *OrderStatus) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan order status: unsupported type %T", src)
	}
	parsed, err := ParseOrderStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type statusName interface{ String() string }

func joinStatuses[S statusName](statuses []S) string {
	names := make([]string, len(statuses))
	for i, status := range statuses {
		names[i] = status.String()
	}
	return strings.Join(names, ", ")
}
