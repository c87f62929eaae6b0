package services

import (
	"context"
	"errors"
	"foodcart-service/internal/adapters/cache"
	"foodcart-service/internal/adapters/geocode"
	"foodcart-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	baseLon = 37.617635
	baseLat = 55.755814
)

type fixture struct {
	catalog  *fakeCatalog
	store    *cache.MemoryAddressStore
	geo      *geocode.StaticGeocoder
	resolver *FulfillmentResolver
}

func newFixture(points []geocode.StaticPoint) *fixture {
	f := &fixture{
		catalog: newFakeCatalog(),
		store:   cache.NewMemoryAddressStore(),
		geo:     geocode.NewStaticGeocoder(points),
	}
	f.resolver = NewFulfillmentResolver(f.catalog, NewAddressCache(f.store, f.geo))
	return f
}

func pointNorth(address string, km float64) geocode.StaticPoint {
	lon, lat := north(baseLon, baseLat, km)
	return geocode.StaticPoint{Address: address, Lon: lon, Lat: lat}
}

func orderFor(address string, products ...int) *domain.Order {
	o := &domain.Order{Address: address}
	for _, p := range products {
		o.Items = append(o.Items, domain.OrderItem{ProductID: p, Quantity: 1})
	}
	return o
}

func rankedIDs(r domain.Ranking) []int {
	ids := make([]int, 0, len(r.Restaurants))
	for _, rr := range r.Restaurants {
		ids = append(ids, rr.RestaurantID)
	}
	return ids
}

func TestRankSingleFulfillingRestaurant(t *testing.T) {
	f := newFixture([]geocode.StaticPoint{
		pointNorth("Order St 1", 0),
		pointNorth("Only R", 3),
	})
	f.catalog.addRestaurant(domain.Restaurant{ID: 1, Name: "R", Address: "Only R"}, 10, 20)

	ranking, err := f.resolver.Rank(context.Background(), orderFor("Order St 1", 10, 20))
	require.NoError(t, err)

	assert.Equal(t, []int{1}, rankedIDs(ranking))
	assert.Equal(t, domain.ReasonOK, ranking.Reason)
	assert.Equal(t, 3.0, ranking.Restaurants[0].DistanceKm)
	assert.Equal(t, "R", ranking.Restaurants[0].Name)
	assert.Equal(t, "Only R", ranking.Restaurants[0].Address)
}

func TestRankProductUnavailableEverywhere(t *testing.T) {
	f := newFixture([]geocode.StaticPoint{pointNorth("Order St 1", 0), pointNorth("X", 1)})
	f.catalog.addRestaurant(domain.Restaurant{ID: 1, Name: "X", Address: "X"}, 10)

	ranking, err := f.resolver.Rank(context.Background(), orderFor("Order St 1", 10, 99))
	require.NoError(t, err)

	assert.Empty(t, ranking.Restaurants)
	assert.Equal(t, domain.ReasonNoFulfillingRestaurant, ranking.Reason)
	assert.Equal(t, 0, f.geo.TotalCalls(), "no geocoding without candidates")
}

func TestRankUnresolvableOrderAddress(t *testing.T) {
	f := newFixture([]geocode.StaticPoint{pointNorth("X", 1)})
	f.catalog.addRestaurant(domain.Restaurant{ID: 1, Name: "X", Address: "X"}, 10)

	ranking, err := f.resolver.Rank(context.Background(), orderFor("Moscow, Tverskaya 1", 10))
	require.NoError(t, err)

	assert.Empty(t, ranking.Restaurants)
	assert.Equal(t, domain.ReasonOrderAddressNotFound, ranking.Reason)
	assert.Equal(t, 0, f.geo.Calls("X"), "restaurants are not geocoded when the order address fails")
	assert.Equal(t, 0, f.store.Len())
}

func TestRankRequiresEveryProduct(t *testing.T) {
	f := newFixture([]geocode.StaticPoint{
		pointNorth("Order St 1", 0),
		pointNorth("X addr", 2),
		pointNorth("Y addr", 1),
	})
	f.catalog.addRestaurant(domain.Restaurant{ID: 1, Name: "X", Address: "X addr"}, 10, 20)
	f.catalog.addRestaurant(domain.Restaurant{ID: 2, Name: "Y", Address: "Y addr"}, 10)

	ranking, err := f.resolver.Rank(context.Background(), orderFor("Order St 1", 10, 20))
	require.NoError(t, err)

	assert.Equal(t, []int{1}, rankedIDs(ranking))
	assert.Equal(t, 0, f.geo.Calls("Y addr"), "distance computed for X only")
}

func TestRankNearestFirst(t *testing.T) {
	f := newFixture([]geocode.StaticPoint{
		pointNorth("Order St 1", 0),
		pointNorth("X addr", 2.5),
		pointNorth("Y addr", 1.1),
	})
	f.catalog.addRestaurant(domain.Restaurant{ID: 1, Name: "X", Address: "X addr"}, 10)
	f.catalog.addRestaurant(domain.Restaurant{ID: 2, Name: "Y", Address: "Y addr"}, 10)

	ranking, err := f.resolver.Rank(context.Background(), orderFor("Order St 1", 10))
	require.NoError(t, err)

	require.Equal(t, []int{2, 1}, rankedIDs(ranking))
	assert.Equal(t, 1.10, ranking.Restaurants[0].DistanceKm)
	assert.Equal(t, 2.50, ranking.Restaurants[1].DistanceKm)
}

func TestRankBlankRestaurantAddressExcluded(t *testing.T) {
	f := newFixture([]geocode.StaticPoint{pointNorth("Order St 1", 0), pointNorth("X addr", 1)})
	f.catalog.addRestaurant(domain.Restaurant{ID: 1, Name: "X", Address: "X addr"}, 10)
	f.catalog.addRestaurant(domain.Restaurant{ID: 2, Name: "Blank", Address: "  "}, 10)

	ranking, err := f.resolver.Rank(context.Background(), orderFor("Order St 1", 10))
	require.NoError(t, err)

	assert.Equal(t, []int{1}, rankedIDs(ranking))
}

func TestRankUngeocodableRestaurantExcluded(t *testing.T) {
	f := newFixture([]geocode.StaticPoint{pointNorth("Order St 1", 0), pointNorth("X addr", 1)})
	f.catalog.addRestaurant(domain.Restaurant{ID: 1, Name: "X", Address: "X addr"}, 10)
	f.catalog.addRestaurant(domain.Restaurant{ID: 2, Name: "Lost", Address: "Unknown addr"}, 10)

	ranking, err := f.resolver.Rank(context.Background(), orderFor("Order St 1", 10))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, rankedIDs(ranking))

	f.catalog.menu = f.catalog.menu[1:]
	ranking, err = f.resolver.Rank(context.Background(), orderFor("Order St 1", 10))
	require.NoError(t, err)
	assert.Empty(t, ranking.Restaurants)
	assert.Equal(t, domain.ReasonNoRankableRestaurant, ranking.Reason)
}

func TestRankTiesKeepDiscoveryOrderAndDeduplicate(t *testing.T) {
	f := newFixture([]geocode.StaticPoint{
		pointNorth("Order St 1", 0),
		pointNorth("Same", 1),
	})
	f.catalog.addRestaurant(domain.Restaurant{ID: 7, Name: "First", Address: "Same"}, 10, 20)
	f.catalog.addRestaurant(domain.Restaurant{ID: 3, Name: "Second", Address: "Same"}, 10, 20)

	ranking, err := f.resolver.Rank(context.Background(), orderFor("Order St 1", 10, 20, 10))
	require.NoError(t, err)

	assert.Equal(t, []int{7, 3}, rankedIDs(ranking))
	assert.Equal(t, 1, f.geo.Calls("Same"))
}

func TestRankManySharesOnePassAndSortsEachOrder(t *testing.T) {
	f := newFixture([]geocode.StaticPoint{
		pointNorth("Order A", 0),
		pointNorth("Order B", 10),
		pointNorth("R1", 1),
		pointNorth("R2", 4),
		pointNorth("R3", 9),
	})
	f.catalog.addRestaurant(domain.Restaurant{ID: 1, Name: "R1", Address: "R1"}, 10)
	f.catalog.addRestaurant(domain.Restaurant{ID: 2, Name: "R2", Address: "R2"}, 10)
	f.catalog.addRestaurant(domain.Restaurant{ID: 3, Name: "R3", Address: "R3"}, 10)

	orders := []*domain.Order{orderFor("Order A", 10), orderFor("Order B", 10), orderFor("Order A", 10)}
	rankings, err := f.resolver.RankMany(context.Background(), orders)
	require.NoError(t, err)
	require.Len(t, rankings, 3)

	assert.Equal(t, []int{1, 2, 3}, rankedIDs(rankings[0]))
	assert.Equal(t, []int{3, 2, 1}, rankedIDs(rankings[1]))
	assert.Equal(t, rankings[0], rankings[2])

	for _, r := range rankings {
		for i := 1; i < len(r.Restaurants); i++ {
			assert.LessOrEqual(t, r.Restaurants[i-1].DistanceKm, r.Restaurants[i].DistanceKm)
		}
	}

	// Each distinct address geocoded once, all persisted, none re-fetched later.
	assert.Equal(t, 5, f.geo.TotalCalls())
	assert.Equal(t, 5, f.store.Len())

	_, err = f.resolver.RankMany(context.Background(), orders)
	require.NoError(t, err)
	assert.Equal(t, 5, f.geo.TotalCalls())
}

func TestRankMenuFailure(t *testing.T) {
	f := newFixture(nil)
	f.catalog.menuErr = errors.New("db down")

	_, err := f.resolver.Rank(context.Background(), orderFor("Order St 1", 10))
	assert.Error(t, err)
}

func TestRankManyEmpty(t *testing.T) {
	f := newFixture(nil)

	rankings, err := f.resolver.RankMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, rankings)
}

// ctxGeocoder fails every lookup issued on a canceled context, like an
// HTTP client would.
type ctxGeocoder struct {
	*geocode.StaticGeocoder
}

func (g ctxGeocoder) FetchCoordinates(ctx context.Context, address string) (domain.Coordinates, bool) {
	if ctx.Err() != nil {
		return domain.Coordinates{}, false
	}
	return g.StaticGeocoder.FetchCoordinates(ctx, address)
}

func TestRankCompletesAfterCancellation(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addRestaurant(domain.Restaurant{ID: 1, Name: "X", Address: "X addr"}, 10)
	store := cache.NewMemoryAddressStore()
	geo := ctxGeocoder{geocode.NewStaticGeocoder([]geocode.StaticPoint{
		pointNorth("Order St 1", 0),
		pointNorth("X addr", 1.5),
	})}
	resolver := NewFulfillmentResolver(catalog, NewAddressCache(store, geo))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ranking, err := resolver.Rank(ctx, orderFor("Order St 1", 10))
	require.NoError(t, err)

	assert.Equal(t, domain.ReasonOK, ranking.Reason)
	assert.Equal(t, []int{1}, rankedIDs(ranking))
	assert.Equal(t, 2, store.Len(), "addresses geocoded before cancellation are persisted")
}
