package service

import (
	"context"

	"urban-bites/restaurant-svc/internal/domain"
)

type MenuRepository interface {
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	ListMenuItems(ctx context.Context, availableOnly bool, category domain.Category) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error
	SetMenuItemAvailability(ctx context.Context, id string, available bool) (*domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id string) (int64, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	// UpdateOrderStatus moves the order from one status to the next only if it is still in from.
	UpdateOrderStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error)
	SaveQRCode(ctx context.Context, id string, qr []byte) error
	GetQRCode(ctx context.Context, id string) ([]byte, error)
}

type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation *domain.Reservation) error
	GetReservation(ctx context.Context, id string) (*domain.Reservation, error)
	ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error)
	UpdateReservation(ctx context.Context, reservation *domain.Reservation) error
	UpdateReservationStatus(ctx context.Context, id string, status domain.ReservationStatus) (*domain.Reservation, error)
}

type DashboardRepository interface {
	DashboardStats(ctx context.Context) (domain.DashboardStats, error)
}

// OrderViewCache holds the two views clients poll: the kitchen's active orders and a customer's history.
type OrderViewCache interface {
	ActiveOrders(ctx context.Context) ([]domain.Order, bool, error)
	StoreActiveOrders(ctx context.Context, orders []domain.Order) error
	OrderHistory(ctx context.Context, email string) ([]domain.Order, bool, error)
	StoreOrderHistory(ctx context.Context, email string, orders []domain.Order) error
	InvalidateOrderViews(ctx context.Context, email string) error
}

type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

type MenuServiceInterface interface {
	ListAvailable(ctx context.Context, category string) ([]domain.MenuItem, error)
	GetAvailable(ctx context.Context, id string) (*domain.MenuItem, error)
	ListAll(ctx context.Context) ([]domain.MenuItem, error)
	Get(ctx context.Context, id string) (*domain.MenuItem, error)
	Create(ctx context.Context, item *domain.MenuItem) error
	Update(ctx context.Context, id string, patch domain.MenuItemPatch) (*domain.MenuItem, error)
	SetAvailability(ctx context.Context, id string, available bool) (*domain.MenuItem, error)
	Delete(ctx context.Context, id string) error
}

type OrderServiceInterface interface {
	Create(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
	Advance(ctx context.Context, id string) (*domain.Order, error)
	QRCode(ctx context.Context, id string) ([]byte, error)
	QRLink(id string) string
}

type ReservationServiceInterface interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	Get(ctx context.Context, id string) (*domain.Reservation, error)
	List(ctx context.Context, status string, upcoming bool) ([]domain.Reservation, error)
	Update(ctx context.Context, id string, changes *domain.Reservation) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Reservation, error)
	Cancel(ctx context.Context, id string) (*domain.Reservation, error)
}

type DashboardServiceInterface interface {
	Stats(ctx context.Context) (domain.DashboardStats, error)
}

var (
	_ MenuServiceInterface        = (*MenuService)(nil)
	_ OrderServiceInterface       = (*OrderService)(nil)
	_ ReservationServiceInterface = (*ReservationService)(nil)
	_ DashboardServiceInterface   = (*DashboardService)(nil)
)
