package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/platform/obs"
	"strings"
	"time"
)

// SQLAddressStore is a Postgres-backed store of geocoded addresses.
// The UNIQUE constraint on addresses.title is the single authority on
// which writer's record survives concurrent first-time lookups.
type SQLAddressStore struct {
	DB *sql.DB
}

func NewSQLAddressStore(db *sql.DB) *SQLAddressStore {
	return &SQLAddressStore{DB: db}
}

// Fetch stored addresses for the given titles.
func (s *SQLAddressStore) GetMany(
	ctx context.Context,
	titles []string,
) (_ map[string]domain.Address, err error) {
	defer obs.Time(ctx, "address.store.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("address store: db is nil")
	}

	uniq := uniqueTitles(titles)
	if len(uniq) == 0 {
		return map[string]domain.Address{}, nil
	}

	q := `
	SELECT title, lon, lat, requested_at
    FROM addresses
    WHERE title = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get addresses: query addresses table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Address, len(uniq))
	for rows.Next() {
		var title string
		var lon, lat sql.NullFloat64
		var requestedAt time.Time
		if err := rows.Scan(&title, &lon, &lat, &requestedAt); err != nil {
			return nil, fmt.Errorf("get addresses: scan rows: %w", err)
		}

		addr := domain.Address{Title: title, RequestedAt: requestedAt}
		if lon.Valid && lat.Valid {
			addr.Coords = &domain.Coordinates{Lon: lon.Float64, Lat: lat.Float64}
		}
		out[title] = addr
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get addresses: row iteration: %w", err)
	}

	return out, nil
}

// Insert addresses that are not stored yet, in one transaction, and return
// the stored record for every title. Rows written by a concurrent pass win.
func (s *SQLAddressStore) InsertMany(
	ctx context.Context,
	addrs []domain.Address,
) (_ map[string]domain.Address, err error) {
	defer obs.Time(ctx, "address.store.InsertMany")(&err)

	if s.DB == nil {
		return nil, errors.New("address store: db is nil")
	}

	if len(addrs) == 0 {
		return map[string]domain.Address{}, nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("insert addresses: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO addresses (title, lon, lat, requested_at)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (title) DO NOTHING;
	`)
	if err != nil {
		return nil, fmt.Errorf("insert addresses: db prepare: %w", err)
	}
	defer stmt.Close()

	titles := make([]string, 0, len(addrs))
	for _, a := range addrs {
		title := strings.TrimSpace(a.Title)
		if title == "" {
			return nil, fmt.Errorf("insert addresses: empty title")
		}
		titles = append(titles, title)

		var lon, lat *float64
		if a.Coords != nil {
			lon, lat = &a.Coords.Lon, &a.Coords.Lat
		}
		requestedAt := a.RequestedAt
		if requestedAt.IsZero() {
			requestedAt = time.Now().UTC()
		}

		res, err := stmt.ExecContext(ctx, title, lon, lat, requestedAt)
		if err != nil {
			return nil, fmt.Errorf("insert addresses title=%q: %w", title, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			obs.AddressInserts.WithLabelValues("existing").Inc()
		} else {
			obs.AddressInserts.WithLabelValues("inserted").Inc()
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("insert addresses commit: %w", err)
	}

	return s.GetMany(ctx, titles)
}
