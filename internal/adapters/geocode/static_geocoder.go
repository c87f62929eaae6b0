package geocode

import (
	"context"
	"foodcart-service/internal/domain"
	"strings"
	"sync"
)

type StaticPoint struct {
	Address  string
	Lon, Lat float64
}

// StaticGeocoder resolves addresses from a fixed table and counts lookups.
// Unknown addresses report no match.
type StaticGeocoder struct {
	mu    sync.Mutex
	m     map[string]domain.Coordinates
	calls map[string]int
}

func NewStaticGeocoder(points []StaticPoint) *StaticGeocoder {
	m := make(map[string]domain.Coordinates, len(points))
	for _, p := range points {
		m[strings.TrimSpace(p.Address)] = domain.Coordinates{Lon: p.Lon, Lat: p.Lat}
	}
	return &StaticGeocoder{m: m, calls: make(map[string]int)}
}

func (g *StaticGeocoder) FetchCoordinates(ctx context.Context, address string) (domain.Coordinates, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := strings.TrimSpace(address)
	g.calls[key]++
	c, ok := g.m[key]
	return c, ok
}

// Calls returns how many lookups were issued for address.
func (g *StaticGeocoder) Calls(address string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[strings.TrimSpace(address)]
}

// TotalCalls returns the number of lookups across all addresses.
func (g *StaticGeocoder) TotalCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for _, c := range g.calls {
		n += c
	}
	return n
}
