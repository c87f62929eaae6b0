package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/platform/obs"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgForeignKeyViolation = "23503"

// Postgres-backed implementation of the OrderRepository port.
type SQLOrderRepository struct{ DB *sql.DB }

func NewSQLOrderRepository(db *sql.DB) *SQLOrderRepository {
	return &SQLOrderRepository{DB: db}
}

const orderColumns = `
	id,
	firstname,
	lastname,
	phonenumber,
	address,
	status,
	payment_method,
	comment,
	restaurant_id,
	created_at,
	called_at,
	delivered_at
`

// Persist the order and its items in one transaction.
func (s *SQLOrderRepository) Create(ctx context.Context, order *domain.Order) (_ *domain.Order, err error) {
	defer obs.Time(ctx, "orders.Create")(&err)

	if s.DB == nil {
		return nil, errors.New("order repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create order: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int
	err = tx.QueryRowContext(ctx, `
	INSERT INTO orders (
		firstname,
		lastname,
		phonenumber,
		address,
		status,
		payment_method,
		comment,
		restaurant_id
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id;
	`,
		order.Firstname,
		order.Lastname,
		order.Phonenumber,
		order.Address,
		string(order.Status),
		string(order.PaymentMethod),
		order.Comment,
		order.RestaurantID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create order: insert order: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO order_items (order_id, product_id, quantity, price)
	VALUES ($1, $2, $3, $4);
	`)
	if err != nil {
		return nil, fmt.Errorf("create order: prepare items insert: %w", err)
	}
	defer stmt.Close()

	for _, it := range order.Items {
		if _, err := stmt.ExecContext(ctx, id, it.ProductID, it.Quantity, it.Price); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
				return nil, fmt.Errorf("create order: product_id=%d: %w", it.ProductID, domain.ErrUnknownProduct)
			}
			return nil, fmt.Errorf("create order: insert item product_id=%d: %w", it.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create order: commit tx: %w", err)
	}

	return s.Get(ctx, id)
}

func (s *SQLOrderRepository) Get(ctx context.Context, id int) (*domain.Order, error) {
	if s.DB == nil {
		return nil, errors.New("order repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1;`, id)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order id=%d: %w", id, domain.ErrOrderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order id=%d: %w", id, err)
	}

	if err := s.attachItems(ctx, []*domain.Order{order}); err != nil {
		return nil, fmt.Errorf("get order id=%d: %w", id, err)
	}

	return order, nil
}

// List orders in the given status, newest first, with their items.
func (s *SQLOrderRepository) ListByStatus(ctx context.Context, status domain.OrderStatus) (_ []*domain.Order, err error) {
	defer obs.Time(ctx, "orders.ListByStatus")(&err)

	if s.DB == nil {
		return nil, errors.New("order repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT `+orderColumns+`
	FROM orders
	WHERE status = $1
	ORDER BY created_at DESC, id DESC;
	`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list orders: query orders table: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0, 32)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("list orders: scan row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: row iteration: %w", err)
	}

	if err := s.attachItems(ctx, orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return orders, nil
}

// Assign a restaurant, move the order to status, and stamp called_at once.
func (s *SQLOrderRepository) AssignRestaurant(ctx context.Context, id int, restaurantID int, status domain.OrderStatus) error {
	if s.DB == nil {
		return errors.New("order repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `
	UPDATE orders
	SET restaurant_id = $2,
		status = $3,
		called_at = COALESCE(called_at, now())
	WHERE id = $1;
	`, id, restaurantID, string(status))
	if err != nil {
		return fmt.Errorf("assign restaurant order_id=%d: %w", id, err)
	}

	return requireAffected(res, id)
}

// Update the order status; moving to done stamps delivered_at once.
func (s *SQLOrderRepository) UpdateStatus(ctx context.Context, id int, status domain.OrderStatus) error {
	if s.DB == nil {
		return errors.New("order repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `
	UPDATE orders
	SET status = $2,
		delivered_at = CASE WHEN $2 = 'done' THEN COALESCE(delivered_at, now()) ELSE delivered_at END
	WHERE id = $1;
	`, id, string(status))
	if err != nil {
		return fmt.Errorf("update status order_id=%d: %w", id, err)
	}

	return requireAffected(res, id)
}

func (s *SQLOrderRepository) attachItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[int]*domain.Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, int64(o.ID))
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT order_id, product_id, quantity, COALESCE(price, 0)::float8
	FROM order_items
	WHERE order_id = ANY($1::bigint[])
	ORDER BY id;
	`, ids)
	if err != nil {
		return fmt.Errorf("query order_items table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID int
		var it domain.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}

	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var status, payment string
	var restaurantID sql.NullInt64
	var calledAt, deliveredAt sql.NullTime

	err := row.Scan(
		&o.ID,
		&o.Firstname,
		&o.Lastname,
		&o.Phonenumber,
		&o.Address,
		&status,
		&payment,
		&o.Comment,
		&restaurantID,
		&o.CreatedAt,
		&calledAt,
		&deliveredAt,
	)
	if err != nil {
		return nil, err
	}

	o.Status = domain.OrderStatus(status)
	o.PaymentMethod = domain.PaymentMethod(payment)
	if restaurantID.Valid {
		id := int(restaurantID.Int64)
		o.RestaurantID = &id
	}
	o.CalledAt = nullTime(calledAt)
	o.DeliveredAt = nullTime(deliveredAt)

	return &o, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func requireAffected(res sql.Result, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("order_id=%d: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("order_id=%d: %w", id, domain.ErrOrderNotFound)
	}
	return nil
}
