package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
)

const orderUIDPrefix = "LFB-"

func newOrderUID() string {
	return orderUIDPrefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// CreateOrder inserts the order header and fills in its ID, OrderUID and
// CreatedAt.
func (s *Store) CreateOrder(ctx context.Context, order *domain.Order, customerID string) error {
	order.OrderUID = newOrderUID()
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO orders (order_uid, customer_id, subtotal, delivery_charge, total, order_type, payment_method, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		order.OrderUID,
		customerID,
		order.Subtotal,
		order.DeliveryCharge,
		order.Total,
		string(order.OrderType),
		string(order.PaymentMethod),
		string(order.Status),
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		if pqCode(err) == codeForeignKeyViolation {
			return fmt.Errorf("order customer %s: %w", customerID, ErrBadReference)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateOrderItems inserts every line in one statement, so either all lines
// are stored or none are.
func (s *Store) CreateOrderItems(ctx context.Context, orderID int64, lines []domain.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	const cols = 6
	var b strings.Builder
	b.WriteString(`INSERT INTO order_items (order_id, menu_item_id, menu_item_name, quantity, unit_price, customizations) VALUES `)
	args := make([]any, 0, len(lines)*cols)
	for i, l := range lines {
		custom, err := json.Marshal(l.Customizations)
		if err != nil {
			return fmt.Errorf("marshal customizations: %w", err)
		}
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * cols
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6)
		args = append(args, orderID, l.MenuItemID, l.MenuItemName, l.Quantity, l.UnitPrice, string(custom))
	}

	if _, err := s.db.ExecContext(ctx, b.String(), args...); err != nil {
		if pqCode(err) == codeForeignKeyViolation {
			return fmt.Errorf("order %d: %w", orderID, ErrBadReference)
		}
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

// DeleteOrder removes an order; its lines go with it.
func (s *Store) DeleteOrder(ctx context.Context, orderID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return affectedOne(res, fmt.Sprintf("order %d", orderID))
}

func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, orderID, string(status))
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return affectedOne(res, fmt.Sprintf("order %d", orderID))
}

const orderSelect = `
	SELECT o.id, o.order_uid, o.created_at, o.subtotal, o.delivery_charge, o.total,
	       o.order_type, o.payment_method, o.status,
	       c.id, c.name, c.address, c.phone, c.email
	FROM orders o
	JOIN customers c ON c.id = o.customer_id`

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		o          domain.Order
		customerID string
	)
	err := row.Scan(
		&o.ID, &o.OrderUID, &o.CreatedAt, &o.Subtotal, &o.DeliveryCharge, &o.Total,
		&o.OrderType, &o.PaymentMethod, &o.Status,
		&customerID, &o.Customer.Name, &o.Customer.Address, &o.Customer.Phone, &o.Customer.Email,
	)
	o.Customer.ID = &customerID
	o.Lines = []domain.OrderLine{}
	return o, err
}

// ListOrders returns every order with its customer and lines, newest first.
func (s *Store) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, orderSelect+` ORDER BY o.created_at DESC, o.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if err := s.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	o, err := scanOrder(s.db.QueryRowContext(ctx, orderSelect+` WHERE o.id = $1`, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	orders := []domain.Order{o}
	if err := s.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (s *Store) attachLines(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	byID := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = i
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT order_id, menu_item_id, menu_item_name, quantity, unit_price, customizations
		 FROM order_items WHERE order_id = ANY($1) ORDER BY id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID int64
			line    domain.OrderLine
			custom  []byte
		)
		if err := rows.Scan(&orderID, &line.MenuItemID, &line.MenuItemName, &line.Quantity, &line.UnitPrice, &custom); err != nil {
			return fmt.Errorf("scan order item row: %w", err)
		}
		if err := json.Unmarshal(custom, &line.Customizations); err != nil {
			return fmt.Errorf("unmarshal customizations: %w", err)
		}
		i := byID[orderID]
		orders[i].Lines = append(orders[i].Lines, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}
