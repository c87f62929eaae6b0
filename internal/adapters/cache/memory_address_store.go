package cache

import (
	"context"
	"errors"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/platform/obs"
	"strings"
	"sync"
	"time"
)

// MemoryAddressStore keeps addresses in process memory with the same
// insert-if-absent semantics as the durable stores.
type MemoryAddressStore struct {
	mu sync.RWMutex
	m  map[string]domain.Address
}

func NewMemoryAddressStore() *MemoryAddressStore {
	return &MemoryAddressStore{m: make(map[string]domain.Address)}
}

func (s *MemoryAddressStore) GetMany(ctx context.Context, titles []string) (map[string]domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.Address)
	for _, t := range uniqueTitles(titles) {
		if a, ok := s.m[t]; ok {
			out[t] = a
		}
	}
	return out, nil
}

func (s *MemoryAddressStore) InsertMany(ctx context.Context, addrs []domain.Address) (map[string]domain.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]domain.Address, len(addrs))
	for _, a := range addrs {
		title := strings.TrimSpace(a.Title)
		if title == "" {
			return nil, errors.New("insert addresses: empty title")
		}

		if existing, ok := s.m[title]; ok {
			obs.AddressInserts.WithLabelValues("existing").Inc()
			out[title] = existing
			continue
		}

		a.Title = title
		if a.RequestedAt.IsZero() {
			a.RequestedAt = time.Now().UTC()
		}
		s.m[title] = a
		out[title] = a
		obs.AddressInserts.WithLabelValues("inserted").Inc()
	}
	return out, nil
}

// Len returns the number of stored addresses.
func (s *MemoryAddressStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
