package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/platform/obs"
)

// Postgres-backed implementation of the CatalogRepository port.
type SQLCatalogRepository struct{ DB *sql.DB }

func NewSQLCatalogRepository(db *sql.DB) *SQLCatalogRepository {
	return &SQLCatalogRepository{DB: db}
}

// Return available menu items joined with their restaurants, in menu item order.
func (s *SQLCatalogRepository) ListAvailableMenuItems(ctx context.Context) (_ []domain.MenuItem, err error) {
	defer obs.Time(ctx, "catalog.ListAvailableMenuItems")(&err)

	if s.DB == nil {
		return nil, errors.New("catalog repository: DB is nil")
	}

	query := `
	SELECT
		r.id,
		r.name,
		r.address,
		r.contact_phone,
		m.product_id,
		m.availability
	FROM menu_items m
	JOIN restaurants r ON r.id = m.restaurant_id
	WHERE m.availability
	ORDER BY m.id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list menu items: query menu_items table: %w", err)
	}
	defer rows.Close()

	items := make([]domain.MenuItem, 0, 64)
	for rows.Next() {
		var it domain.MenuItem
		err := rows.Scan(
			&it.Restaurant.ID,
			&it.Restaurant.Name,
			&it.Restaurant.Address,
			&it.Restaurant.ContactPhone,
			&it.ProductID,
			&it.Availability,
		)
		if err != nil {
			return nil, fmt.Errorf("list menu items: scan row: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list menu items: row iteration: %w", err)
	}

	return items, nil
}

// Return products by id. Unknown ids are absent from the result.
func (s *SQLCatalogRepository) ProductsByID(ctx context.Context, ids []int) (map[int]domain.Product, error) {
	if s.DB == nil {
		return nil, errors.New("catalog repository: DB is nil")
	}

	if len(ids) == 0 {
		return map[int]domain.Product{}, nil
	}

	keys := make([]int64, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, int64(id))
	}

	query := `
	SELECT
		id,
		name,
		price::float8,
		category_id,
		special_status,
		description
	FROM products
	WHERE id = ANY($1::bigint[]);
	`
	rows, err := s.DB.QueryContext(ctx, query, keys)
	if err != nil {
		return nil, fmt.Errorf("products by id: query products table: %w", err)
	}
	defer rows.Close()

	out := make(map[int]domain.Product, len(ids))
	for rows.Next() {
		var p domain.Product
		var category sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &category, &p.SpecialStatus, &p.Description); err != nil {
			return nil, fmt.Errorf("products by id: scan row: %w", err)
		}
		if category.Valid {
			c := int(category.Int64)
			p.CategoryID = &c
		}
		out[p.ID] = p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("products by id: row iteration: %w", err)
	}

	return out, nil
}

func (s *SQLCatalogRepository) GetRestaurant(ctx context.Context, id int) (domain.Restaurant, error) {
	if s.DB == nil {
		return domain.Restaurant{}, errors.New("catalog repository: DB is nil")
	}

	var r domain.Restaurant
	err := s.DB.QueryRowContext(ctx, `
	SELECT id, name, address, contact_phone
	FROM restaurants
	WHERE id = $1;
	`, id).Scan(&r.ID, &r.Name, &r.Address, &r.ContactPhone)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Restaurant{}, fmt.Errorf("get restaurant id=%d: %w", id, domain.ErrRestaurantNotFound)
	}
	if err != nil {
		return domain.Restaurant{}, fmt.Errorf("get restaurant id=%d: %w", id, err)
	}

	return r, nil
}
