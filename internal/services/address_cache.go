package services

import (
	"context"
	"fmt"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/platform/obs"
	"foodcart-service/internal/ports"
	"strings"
	"time"
)

// AddressCache resolves address text to coordinates, geocoding only
// addresses that have no stored coordinates yet.
type AddressCache struct {
	store    ports.AddressStore
	geocoder ports.Geocoder
	now      func() time.Time
}

func NewAddressCache(store ports.AddressStore, geocoder ports.Geocoder) *AddressCache {
	return &AddressCache{
		store:    store,
		geocoder: geocoder,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AddressPass is one resolution pass: a store snapshot taken once at the
// start, an overlay of records created during the pass, and a queue of
// new records persisted together by Commit. Not safe for concurrent use.
type AddressPass struct {
	cache   *AddressCache
	known   map[string]domain.Address
	failed  map[string]struct{}
	pending []domain.Address
}

// BeginPass snapshots the stored records for titles.
func (c *AddressCache) BeginPass(ctx context.Context, titles []string) (*AddressPass, error) {
	snapshot, err := c.store.GetMany(ctx, titles)
	if err != nil {
		return nil, fmt.Errorf("begin address pass: %w", err)
	}
	if snapshot == nil {
		snapshot = make(map[string]domain.Address)
	}

	return &AddressPass{
		cache:  c,
		known:  snapshot,
		failed: make(map[string]struct{}),
	}, nil
}

// Resolve resolves a single address in its own pass and persists it.
func (c *AddressCache) Resolve(ctx context.Context, title string) (domain.Address, error) {
	pass, err := c.BeginPass(ctx, []string{title})
	if err != nil {
		return domain.Address{}, err
	}

	addr := pass.Resolve(ctx, title)
	if err := pass.Commit(ctx); err != nil {
		return addr, err
	}
	return pass.lookup(addr.Title), nil
}

// Resolve returns the address for title. The result lacks coordinates
// when the title is blank or geocoding failed; failures are not queued,
// so a later pass retries them.
func (p *AddressPass) Resolve(ctx context.Context, title string) domain.Address {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Address{}
	}

	if a, ok := p.known[title]; ok && a.Located() {
		obs.AddressCacheLookups.WithLabelValues("hit").Inc()
		return a
	}
	if _, ok := p.failed[title]; ok {
		return domain.Address{Title: title}
	}
	obs.AddressCacheLookups.WithLabelValues("miss").Inc()

	coords, ok := p.cache.geocoder.FetchCoordinates(ctx, title)
	if !ok {
		p.failed[title] = struct{}{}
		return domain.Address{Title: title}
	}

	addr := domain.Address{
		Title:       title,
		Coords:      &coords,
		RequestedAt: p.cache.now(),
	}
	p.known[title] = addr
	p.pending = append(p.pending, addr)
	return addr
}

// Commit persists the addresses geocoded during the pass in one batch.
// On title conflicts the already stored record replaces the overlay entry.
func (p *AddressPass) Commit(ctx context.Context) error {
	if len(p.pending) == 0 {
		return nil
	}

	stored, err := p.cache.store.InsertMany(ctx, p.pending)
	if err != nil {
		return fmt.Errorf("commit address pass: %w", err)
	}
	p.pending = nil

	for title, a := range stored {
		// A coordinate-less stored row must not shadow a fresh lookup.
		if a.Located() {
			p.known[title] = a
		}
	}
	return nil
}

// Pending returns the number of addresses awaiting Commit.
func (p *AddressPass) Pending() int { return len(p.pending) }

func (p *AddressPass) lookup(title string) domain.Address {
	if a, ok := p.known[title]; ok {
		return a
	}
	return domain.Address{Title: title}
}
