package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres database schema. Statements are idempotent.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRestaurantsQuery := `
	CREATE TABLE IF NOT EXISTS restaurants (
		id SERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		address VARCHAR(100) NOT NULL DEFAULT '',
		contact_phone VARCHAR(50) NOT NULL DEFAULT ''
	);
	`

	createCategoriesQuery := `
	CREATE TABLE IF NOT EXISTS product_categories (
		id SERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL
	);
	`

	createProductsQuery := `
	CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		category_id INTEGER REFERENCES product_categories(id) ON DELETE SET NULL,
		price NUMERIC(8, 2) NOT NULL CHECK (price >= 0),
		special_status BOOLEAN NOT NULL DEFAULT FALSE,
		description TEXT NOT NULL DEFAULT ''
	);
	`

	createMenuItemsQuery := `
	CREATE TABLE IF NOT EXISTS menu_items (
		id SERIAL PRIMARY KEY,
		restaurant_id INTEGER NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		availability BOOLEAN NOT NULL DEFAULT TRUE,
		UNIQUE (restaurant_id, product_id)
	);
	`

	createOrdersQuery := `
	CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		firstname VARCHAR(50) NOT NULL,
		lastname VARCHAR(50) NOT NULL,
		phonenumber VARCHAR(32) NOT NULL,
		address VARCHAR(100) NOT NULL,
		payment_method VARCHAR(20) NOT NULL DEFAULT 'cash',
		comment TEXT NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'waiting',
		restaurant_id INTEGER REFERENCES restaurants(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		called_at TIMESTAMPTZ,
		delivered_at TIMESTAMPTZ
	);
	`

	createOrderItemsQuery := `
	CREATE TABLE IF NOT EXISTS order_items (
		id SERIAL PRIMARY KEY,
		order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
		price NUMERIC(10, 2) CHECK (price >= 0)
	);
	`

	createAddressesQuery := `
	CREATE TABLE IF NOT EXISTS addresses (
		id SERIAL PRIMARY KEY,
		title VARCHAR(100) NOT NULL UNIQUE,
		lon DOUBLE PRECISION,
		lat DOUBLE PRECISION,
		requested_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createIndexQueries := []string{
		`CREATE INDEX IF NOT EXISTS idx_menu_items_availability ON menu_items(availability);`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status_created_at ON orders(status, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);`,
	}

	statements := []string{
		createRestaurantsQuery,
		createCategoriesQuery,
		createProductsQuery,
		createMenuItemsQuery,
		createOrdersQuery,
		createOrderItemsQuery,
		createAddressesQuery,
	}
	statements = append(statements, createIndexQueries...)

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
