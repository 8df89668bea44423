package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"urban-bites/restaurant-svc/internal/domain"

	log "github.com/sirupsen/logrus"
)

type OrderService struct {
	repo      OrderRepository
	cache     OrderViewCache
	publisher OrderEventPublisher
	qrEncoder QRGenerator
	now       func() time.Time
}

func NewOrderService(repo OrderRepository, cache OrderViewCache, publisher OrderEventPublisher, qr QRGenerator) *OrderService {
	return &OrderService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		qrEncoder: qr,
		now:       time.Now,
	}
}

// Create persists a new PENDING order. The total is computed here, once, from the item snapshots.
func (s *OrderService) Create(ctx context.Context, order *domain.Order) error {
	order.CustomerName = strings.TrimSpace(order.CustomerName)
	order.CustomerEmail = strings.TrimSpace(order.CustomerEmail)
	if err := ValidateOrder(order); err != nil {
		return err
	}

	order.Total = domain.OrderTotal(order.Items)
	order.Status = domain.OrderPending

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	s.invalidateViews(ctx, order.CustomerEmail)

	if s.qrEncoder != nil {
		if qr, err := s.qrEncoder.Generate(order.ID); err != nil {
			log.WithError(err).WithField("order_id", order.ID).Warn("Failed to generate tracking QR code")
		} else if err := s.repo.SaveQRCode(ctx, order.ID, qr); err != nil {
			log.WithError(err).WithField("order_id", order.ID).Warn("Failed to store tracking QR code")
		}
	}

	s.publish(ctx, domain.OrderEvent{
		Type:          domain.EventOrderCreated,
		OrderID:       order.ID,
		Status:        order.Status,
		CustomerEmail: order.CustomerEmail,
		Total:         order.Total,
		Items:         order.Items,
		Timestamp:     s.now(),
	})

	log.WithFields(log.Fields{"order_id": order.ID, "total": order.Total.StringFixed(2)}).Info("Order placed")
	return nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// List serves the kitchen board (active only) and a customer's history (email only)
// from the view cache; any other filter goes straight to the repository.
func (s *OrderService) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	switch {
	case s.cache != nil && filter == (domain.OrderFilter{Active: true}):
		if orders, ok, err := s.cache.ActiveOrders(ctx); err == nil && ok {
			return orders, nil
		}
		orders, err := s.repo.ListOrders(ctx, filter)
		if err != nil {
			return nil, err
		}
		if err := s.cache.StoreActiveOrders(ctx, orders); err != nil {
			log.WithError(err).Warn("Failed to cache active orders")
		}
		return orders, nil
	case s.cache != nil && filter.Email != "" && filter == (domain.OrderFilter{Email: filter.Email}):
		if orders, ok, err := s.cache.OrderHistory(ctx, filter.Email); err == nil && ok {
			return orders, nil
		}
		orders, err := s.repo.ListOrders(ctx, filter)
		if err != nil {
			return nil, err
		}
		if err := s.cache.StoreOrderHistory(ctx, filter.Email, orders); err != nil {
			log.WithError(err).Warn("Failed to cache order history")
		}
		return orders, nil
	default:
		return s.repo.ListOrders(ctx, filter)
	}
}

// UpdateStatus sets the order to status, which must be the single successor of its current status.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	target, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, ValidationError{Field: "status", Message: err.Error()}
	}
	return s.transition(ctx, id, func(current domain.OrderStatus) (domain.OrderStatus, error) {
		return current.TransitionTo(target)
	})
}

// Advance moves the order one step forward in its lifecycle.
func (s *OrderService) Advance(ctx context.Context, id string) (*domain.Order, error) {
	return s.transition(ctx, id, func(current domain.OrderStatus) (domain.OrderStatus, error) {
		next, ok := current.Next()
		if !ok {
			return current, fmt.Errorf("%w: %s is terminal", domain.ErrIllegalTransition, current)
		}
		return next, nil
	})
}

func (s *OrderService) transition(ctx context.Context, id string, decide func(domain.OrderStatus) (domain.OrderStatus, error)) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	next, err := decide(previous)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, id, previous, next)
	if err != nil {
		return nil, err
	}

	s.invalidateViews(ctx, updated.CustomerEmail)
	s.publish(ctx, domain.OrderEvent{
		Type:           domain.EventOrderStatusChanged,
		OrderID:        updated.ID,
		Status:         updated.Status,
		PreviousStatus: previous,
		CustomerEmail:  updated.CustomerEmail,
		Total:          updated.Total,
		Timestamp:      s.now(),
	})

	log.WithFields(log.Fields{"order_id": id, "from": previous.String(), "to": next.String()}).Info("Order status updated")
	return updated, nil
}

func (s *OrderService) QRCode(ctx context.Context, id string) ([]byte, error) {
	qr, err := s.repo.GetQRCode(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qrEncoder != nil {
		regenerated, err := s.qrEncoder.Generate(id)
		if err != nil {
			log.WithError(err).WithField("order_id", id).Warn("Failed to regenerate tracking QR code")
			return qr, nil
		}
		if err := s.repo.SaveQRCode(ctx, id, regenerated); err != nil {
			log.WithError(err).WithField("order_id", id).Warn("Failed to store tracking QR code")
		}
		return regenerated, nil
	}
	return qr, nil
}

func (s *OrderService) QRLink(id string) string {
	return fmt.Sprintf("/api/orders/%s/qrcode", id)
}

func (s *OrderService) invalidateViews(ctx context.Context, email string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateOrderViews(ctx, email); err != nil {
		log.WithError(err).Warn("Failed to invalidate order views")
	}
}

func (s *OrderService) publish(ctx context.Context, event domain.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).WithField("order_id", event.OrderID).Warn("Failed to publish order event")
	}
}
