package services

import (
	"context"
	"fmt"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/platform/obs"
	"foodcart-service/internal/ports"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

// FulfillmentResolver ranks the restaurants able to fulfill an order by
// great-circle distance to the order address, nearest first.
type FulfillmentResolver struct {
	catalog   ports.CatalogRepository
	addresses *AddressCache
}

func NewFulfillmentResolver(catalog ports.CatalogRepository, addresses *AddressCache) *FulfillmentResolver {
	return &FulfillmentResolver{catalog: catalog, addresses: addresses}
}

// Rank returns the full ranking for one order.
func (r *FulfillmentResolver) Rank(ctx context.Context, order *domain.Order) (domain.Ranking, error) {
	rankings, err := r.RankMany(ctx, []*domain.Order{order})
	if err != nil {
		return domain.Ranking{}, err
	}
	return rankings[0], nil
}

// RankMany ranks several orders in one address pass. Addresses geocoded
// during the pass are persisted together once every order is ranked.
// The result is aligned with orders.
//
// A started pass runs to completion even if ctx is canceled; each geocode
// call is still bounded by the client timeout.
func (r *FulfillmentResolver) RankMany(ctx context.Context, orders []*domain.Order) (_ []domain.Ranking, err error) {
	ctx = context.WithoutCancel(ctx)
	defer obs.Time(ctx, "fulfillment.RankMany")(&err)

	rankings := make([]domain.Ranking, len(orders))
	if len(orders) == 0 {
		return rankings, nil
	}

	items, err := r.catalog.ListAvailableMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("rank restaurants: list menu items: %w", err)
	}
	index := NewMenuIndex(items)

	candidates := make([][]domain.Restaurant, len(orders))
	titles := make([]string, 0, len(orders)*2)
	for i, o := range orders {
		candidates[i] = index.RestaurantsFor(o)
		if len(candidates[i]) == 0 {
			continue
		}
		titles = append(titles, o.Address)
		for _, rest := range candidates[i] {
			titles = append(titles, rest.Address)
		}
	}

	pass, err := r.addresses.BeginPass(ctx, titles)
	if err != nil {
		return nil, fmt.Errorf("rank restaurants: %w", err)
	}

	for i, o := range orders {
		rankings[i] = rankOrder(ctx, pass, o, candidates[i])
	}

	// The ranking stays valid when persistence fails; the next pass geocodes again.
	if err := pass.Commit(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("address cache write failed")
	}

	return rankings, nil
}

func rankOrder(ctx context.Context, pass *AddressPass, order *domain.Order, candidates []domain.Restaurant) domain.Ranking {
	if len(candidates) == 0 {
		return domain.Ranking{Restaurants: []domain.RankedRestaurant{}, Reason: domain.ReasonNoFulfillingRestaurant}
	}

	orderAddr := pass.Resolve(ctx, order.Address)
	if !orderAddr.Located() {
		return domain.Ranking{Restaurants: []domain.RankedRestaurant{}, Reason: domain.ReasonOrderAddressNotFound}
	}

	seen := make(map[int]struct{}, len(candidates))
	ranked := make([]domain.RankedRestaurant, 0, len(candidates))
	for _, rest := range candidates {
		if _, dup := seen[rest.ID]; dup {
			continue
		}
		seen[rest.ID] = struct{}{}

		if strings.TrimSpace(rest.Address) == "" {
			continue
		}

		restAddr := pass.Resolve(ctx, rest.Address)
		km, ok := DistanceKm(orderAddr.Coords, restAddr.Coords)
		if !ok {
			continue
		}

		ranked = append(ranked, domain.RankedRestaurant{
			RestaurantID: rest.ID,
			Name:         rest.Name,
			Address:      rest.Address,
			DistanceKm:   km,
		})
	}

	// Stable: equal distances keep discovery order.
	slices.SortStableFunc(ranked, func(a, b domain.RankedRestaurant) int {
		switch {
		case a.DistanceKm < b.DistanceKm:
			return -1
		case a.DistanceKm > b.DistanceKm:
			return 1
		}
		return 0
	})

	if len(ranked) == 0 {
		return domain.Ranking{Restaurants: ranked, Reason: domain.ReasonNoRankableRestaurant}
	}
	return domain.Ranking{Restaurants: ranked, Reason: domain.ReasonOK}
}
