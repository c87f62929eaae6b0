package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is the seed file layout: restaurants, products, and menus.
type Catalog struct {
	Categories  []CategorySeed   `yaml:"categories"`
	Restaurants []RestaurantSeed `yaml:"restaurants"`
	Products    []ProductSeed    `yaml:"products"`
	Menu        []MenuItemSeed   `yaml:"menu"`
}

type CategorySeed struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

type RestaurantSeed struct {
	ID           int    `yaml:"id"`
	Name         string `yaml:"name"`
	Address      string `yaml:"address"`
	ContactPhone string `yaml:"contact_phone"`
}

type ProductSeed struct {
	ID            int     `yaml:"id"`
	Name          string  `yaml:"name"`
	Price         float64 `yaml:"price"`
	CategoryID    *int    `yaml:"category_id"`
	SpecialStatus bool    `yaml:"special_status"`
	Description   string  `yaml:"description"`
}

// Availability defaults to true when omitted.
type MenuItemSeed struct {
	RestaurantID int   `yaml:"restaurant_id"`
	ProductID    int   `yaml:"product_id"`
	Availability *bool `yaml:"availability"`
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	categories := make(map[int]struct{}, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.ID <= 0 {
			return fmt.Errorf("category at index %d: invalid id %d", i+1, cat.ID)
		}
		if strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("category %d: name cannot be empty", cat.ID)
		}
		categories[cat.ID] = struct{}{}
	}

	restaurants := make(map[int]struct{}, len(c.Restaurants))
	for i, r := range c.Restaurants {
		if r.ID <= 0 {
			return fmt.Errorf("restaurant at index %d: invalid id %d", i+1, r.ID)
		}
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("restaurant %d: name cannot be empty", r.ID)
		}
		if _, dup := restaurants[r.ID]; dup {
			return fmt.Errorf("restaurant %d: duplicate id", r.ID)
		}
		restaurants[r.ID] = struct{}{}
	}

	products := make(map[int]struct{}, len(c.Products))
	for i, p := range c.Products {
		if p.ID <= 0 {
			return fmt.Errorf("product at index %d: invalid id %d", i+1, p.ID)
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("product %d: name cannot be empty", p.ID)
		}
		if p.Price < 0 {
			return fmt.Errorf("product %d: price must not be negative", p.ID)
		}
		if p.CategoryID != nil {
			if _, ok := categories[*p.CategoryID]; !ok {
				return fmt.Errorf("product %d: unknown category %d", p.ID, *p.CategoryID)
			}
		}
		if _, dup := products[p.ID]; dup {
			return fmt.Errorf("product %d: duplicate id", p.ID)
		}
		products[p.ID] = struct{}{}
	}

	for i, m := range c.Menu {
		if _, ok := restaurants[m.RestaurantID]; !ok {
			return fmt.Errorf("menu item at index %d: unknown restaurant %d", i+1, m.RestaurantID)
		}
		if _, ok := products[m.ProductID]; !ok {
			return fmt.Errorf("menu item at index %d: unknown product %d", i+1, m.ProductID)
		}
	}

	return nil
}

// SeedFromFile loads a YAML catalog from path and upserts it.
func SeedFromFile(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("seed catalog: open %q: %w", path, err)
	}
	defer f.Close()

	c, err := ParseCatalog(f)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return Seed(ctx, db, c)
}

// Seed upserts the catalog in one transaction and advances id sequences
// past the seeded ids.
func Seed(ctx context.Context, db *sql.DB, c *Catalog) error {
	if db == nil {
		return errors.New("seed catalog: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed catalog: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, cat := range c.Categories {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO product_categories (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name;
		`, cat.ID, strings.TrimSpace(cat.Name)); err != nil {
			return fmt.Errorf("seed catalog: insert category id=%d: %w", cat.ID, err)
		}
	}

	for _, r := range c.Restaurants {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO restaurants (id, name, address, contact_phone) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			address = EXCLUDED.address,
			contact_phone = EXCLUDED.contact_phone;
		`, r.ID, strings.TrimSpace(r.Name), strings.TrimSpace(r.Address), strings.TrimSpace(r.ContactPhone)); err != nil {
			return fmt.Errorf("seed catalog: insert restaurant id=%d: %w", r.ID, err)
		}
	}

	for _, p := range c.Products {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO products (id, name, category_id, price, special_status, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			category_id = EXCLUDED.category_id,
			price = EXCLUDED.price,
			special_status = EXCLUDED.special_status,
			description = EXCLUDED.description;
		`, p.ID, strings.TrimSpace(p.Name), p.CategoryID, p.Price, p.SpecialStatus, p.Description); err != nil {
			return fmt.Errorf("seed catalog: insert product id=%d: %w", p.ID, err)
		}
	}

	for _, m := range c.Menu {
		available := true
		if m.Availability != nil {
			available = *m.Availability
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO menu_items (restaurant_id, product_id, availability) VALUES ($1, $2, $3)
		ON CONFLICT (restaurant_id, product_id) DO UPDATE SET availability = EXCLUDED.availability;
		`, m.RestaurantID, m.ProductID, available); err != nil {
			return fmt.Errorf("seed catalog: insert menu item restaurant=%d product=%d: %w", m.RestaurantID, m.ProductID, err)
		}
	}

	for _, table := range []string{"product_categories", "restaurants", "products"} {
		q := fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 1));`, table)
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("seed catalog: reset %s sequence: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed catalog: commit tx: %w", err)
	}

	return nil
}
