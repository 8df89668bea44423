package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"urban-bites/restaurant-svc/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

const menuItemColumns = "id, name, description, price, category, image, is_available, created_at, updated_at"

func scanMenuItem(row rowScanner) (*domain.MenuItem, error) {
	var item domain.MenuItem
	if err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category,
		&item.Image, &item.IsAvailable, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	item.ID = uuid.NewString()
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (id, name, description, price, category, image, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		item.ID, item.Name, item.Description, item.Price, string(item.Category), item.Image, item.IsAvailable,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context, availableOnly bool, category domain.Category) ([]domain.MenuItem, error) {
	var (
		conditions []string
		args       []any
	)
	if availableOnly {
		conditions = append(conditions, "is_available = TRUE")
	}
	if category != "" {
		args = append(args, string(category))
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}

	query := "SELECT " + menuItemColumns + " FROM menu_items"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	if availableOnly {
		query += " ORDER BY created_at ASC"
	} else {
		query += " ORDER BY category ASC, created_at ASC"
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	item, err := scanMenuItem(r.DB.QueryRowContext(ctx,
		"SELECT "+menuItemColumns+" FROM menu_items WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return item, err
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE menu_items
		SET name = $1, description = $2, price = $3, category = $4, image = $5, is_available = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`,
		item.Name, item.Description, item.Price, string(item.Category), item.Image, item.IsAvailable, item.ID,
	).Scan(&item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (r *PostgresRepository) SetMenuItemAvailability(ctx context.Context, id string, available bool) (*domain.MenuItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	item, err := scanMenuItem(r.DB.QueryRowContext(ctx,
		"UPDATE menu_items SET is_available = $1, updated_at = NOW() WHERE id = $2 RETURNING "+menuItemColumns,
		available, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return item, err
}

func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, id string) (int64, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, nil
	}
	result, err := r.DB.ExecContext(ctx, "DELETE FROM menu_items WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const orderColumns = "id, customer_name, customer_email, customer_phone, total, status, created_at, updated_at"

func scanOrder(row rowScanner) (*domain.Order, error) {
	order := domain.Order{Items: []domain.OrderItem{}}
	if err := row.Scan(&order.ID, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone,
		&order.Total, &order.Status, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder writes the order row and its item snapshots in one transaction.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	order.ID = uuid.NewString()
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (id, customer_name, customer_email, customer_phone, total, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		order.ID, order.CustomerName, order.CustomerEmail, order.CustomerPhone, order.Total, order.Status,
	).Scan(&order.CreatedAt, &order.UpdatedAt); err != nil {
		return err
	}

	for i, item := range order.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, menu_item_id, name, quantity, price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, i, item.MenuItemID, item.Name, item.Quantity, item.Price); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	order, err := scanOrder(r.DB.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadOrderItems(ctx, []*domain.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *PostgresRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Active {
		active := domain.ActiveOrderStatuses()
		names := make([]string, len(active))
		for i, status := range active {
			names[i] = status.String()
		}
		args = append(args, pq.Array(names))
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if !filter.Status.IsZero() {
		args = append(args, filter.Status.String())
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Email != "" {
		args = append(args, filter.Email)
		conditions = append(conditions, fmt.Sprintf("customer_email = $%d", len(args)))
	}

	query := "SELECT " + orderColumns + " FROM orders"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var loaded []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		loaded = append(loaded, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadOrderItems(ctx, loaded); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(loaded))
	for _, order := range loaded {
		orders = append(orders, *order)
	}
	return orders, nil
}

func (r *PostgresRepository) loadOrderItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, order := range orders {
		byID[order.ID] = order
		ids = append(ids, order.ID)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT order_id, menu_item_id, name, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			item    domain.OrderItem
		)
		if err := rows.Scan(&orderID, &item.MenuItemID, &item.Name, &item.Quantity, &item.Price); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if order, ok := byID[orderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	return rows.Err()
}

// UpdateOrderStatus is a compare-and-set: it only succeeds while the order is still in from.
func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3 RETURNING "+orderColumns,
		to, id, from))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %s is no longer %s", domain.ErrIllegalTransition, id, from)
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadOrderItems(ctx, []*domain.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *PostgresRepository) SaveQRCode(ctx context.Context, id string, qr []byte) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE orders SET qr_code = $1 WHERE id = $2", qr, id)
	return err
}

func (r *PostgresRepository) GetQRCode(ctx context.Context, id string) ([]byte, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	var qrCode []byte
	err := r.DB.QueryRowContext(ctx, "SELECT qr_code FROM orders WHERE id = $1", id).Scan(&qrCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return qrCode, err
}

const reservationColumns = "id, name, email, phone, date, time, party_size, notes, status, created_at, updated_at"

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := row.Scan(&res.ID, &res.Name, &res.Email, &res.Phone, &res.Date, &res.Time,
		&res.PartySize, &res.Notes, &res.Status, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *PostgresRepository) CreateReservation(ctx context.Context, res *domain.Reservation) error {
	res.ID = uuid.NewString()
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO reservations (id, name, email, phone, date, time, party_size, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		res.ID, res.Name, res.Email, res.Phone, res.Date, res.Time, res.PartySize, res.Notes, res.Status,
	).Scan(&res.CreatedAt, &res.UpdatedAt)
}

func (r *PostgresRepository) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	res, err := scanReservation(r.DB.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return res, err
}

func (r *PostgresRepository) ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	var (
		conditions []string
		args       []any
	)
	if !filter.Status.IsZero() {
		args = append(args, filter.Status.String())
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From.String())
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}

	query := "SELECT " + reservationColumns + " FROM reservations"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date ASC, time ASC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	reservations := []domain.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, *res)
	}
	return reservations, rows.Err()
}

func (r *PostgresRepository) UpdateReservation(ctx context.Context, res *domain.Reservation) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE reservations
		SET name = $1, email = $2, phone = $3, date = $4, time = $5, party_size = $6, notes = $7, updated_at = NOW()
		WHERE id = $8 AND status = $9
		RETURNING updated_at`,
		res.Name, res.Email, res.Phone, res.Date, res.Time, res.PartySize, res.Notes, res.ID, res.Status,
	).Scan(&res.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: reservation %s is no longer %s", domain.ErrIllegalTransition, res.ID, res.Status)
	}
	return err
}

func (r *PostgresRepository) UpdateReservationStatus(ctx context.Context, id string, status domain.ReservationStatus) (*domain.Reservation, error) {
	res, err := scanReservation(r.DB.QueryRowContext(ctx,
		"UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING "+reservationColumns,
		status, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return res, err
}

func (r *PostgresRepository) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	var stats domain.DashboardStats
	err := r.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM menu_items),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM orders WHERE status = $1),
			(SELECT COUNT(*) FROM reservations WHERE status = $2)`,
		domain.OrderPending, domain.ReservationConfirmed,
	).Scan(&stats.MenuItems, &stats.Orders, &stats.PendingOrders, &stats.ConfirmedReservations)
	if err != nil {
		return stats, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS menu_items (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
			category TEXT NOT NULL,
			image TEXT NOT NULL,
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			customer_name TEXT NOT NULL,
			customer_email TEXT NOT NULL DEFAULT '',
			customer_phone TEXT NOT NULL DEFAULT '',
			total NUMERIC(10, 2) NOT NULL,
			status TEXT NOT NULL,
			qr_code BYTEA,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			position INT NOT NULL,
			menu_item_id TEXT NOT NULL,
			name TEXT NOT NULL,
			quantity INT NOT NULL CHECK (quantity > 0),
			price NUMERIC(10, 2) NOT NULL,
			PRIMARY KEY (order_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS reservations (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			date DATE NOT NULL,
			time TEXT NOT NULL,
			party_size INT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		"CREATE INDEX IF NOT EXISTS orders_status_idx ON orders (status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS orders_email_idx ON orders (customer_email, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS reservations_date_idx ON reservations (status, date, time)",
	}
	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return strings.TrimSpace(stmt[:i])
	}
	return stmt
}
