package services

import (
	"context"
	"fmt"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/ports"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Column limits of the orders table, in characters.
const (
	maxNameLen    = 50
	maxPhoneLen   = 32
	maxAddressLen = 100
)

type RequestedProduct struct {
	ProductID int
	Quantity  int
}

type RegisterOrderRequest struct {
	Firstname     string
	Lastname      string
	Phonenumber   string
	Address       string
	PaymentMethod domain.PaymentMethod
	Comment       string
	Products      []RequestedProduct
}

// OrderService handles order intake and manager triage.
type OrderService struct {
	orders   ports.OrderRepository
	catalog  ports.CatalogRepository
	resolver *FulfillmentResolver
}

func NewOrderService(
	orders ports.OrderRepository,
	catalog ports.CatalogRepository,
	resolver *FulfillmentResolver,
) *OrderService {
	return &OrderService{orders: orders, catalog: catalog, resolver: resolver}
}

// Register validates and stores a new order, pricing each line at the
// current product price. The order is assigned to the nearest ranked
// restaurant; when none can be ranked it stays unassigned for triage.
func (s *OrderService) Register(ctx context.Context, req RegisterOrderRequest) (*domain.Order, error) {
	order, err := s.buildOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("register order: %w", err)
	}

	ranking, err := s.resolver.Rank(ctx, order)
	switch {
	case err != nil:
		zerolog.Ctx(ctx).Warn().Err(err).Msg("register order: ranking failed, leaving order unassigned")
	case len(ranking.Restaurants) > 0:
		id := ranking.Restaurants[0].RestaurantID
		order.RestaurantID = &id
	default:
		zerolog.Ctx(ctx).Info().
			Str("reason", string(ranking.Reason)).
			Str("address", order.Address).
			Msg("register order: no restaurant ranked, leaving order unassigned")
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("register order: %w", err)
	}
	return created, nil
}

func (s *OrderService) buildOrder(ctx context.Context, req RegisterOrderRequest) (*domain.Order, error) {
	order := &domain.Order{
		Firstname:     strings.TrimSpace(req.Firstname),
		Lastname:      strings.TrimSpace(req.Lastname),
		Phonenumber:   strings.TrimSpace(req.Phonenumber),
		Address:       strings.TrimSpace(req.Address),
		Status:        domain.StatusWaiting,
		PaymentMethod: req.PaymentMethod,
		Comment:       req.Comment,
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = domain.PaymentCash
	}

	switch {
	case order.Firstname == "":
		return nil, fmt.Errorf("%w: firstname is required", domain.ErrInvalidOrder)
	case order.Lastname == "":
		return nil, fmt.Errorf("%w: lastname is required", domain.ErrInvalidOrder)
	case order.Phonenumber == "":
		return nil, fmt.Errorf("%w: phonenumber is required", domain.ErrInvalidOrder)
	case order.Address == "":
		return nil, fmt.Errorf("%w: address is required", domain.ErrInvalidOrder)
	case utf8.RuneCountInString(order.Firstname) > maxNameLen:
		return nil, fmt.Errorf("%w: firstname exceeds %d characters", domain.ErrInvalidOrder, maxNameLen)
	case utf8.RuneCountInString(order.Lastname) > maxNameLen:
		return nil, fmt.Errorf("%w: lastname exceeds %d characters", domain.ErrInvalidOrder, maxNameLen)
	case utf8.RuneCountInString(order.Phonenumber) > maxPhoneLen:
		return nil, fmt.Errorf("%w: phonenumber exceeds %d characters", domain.ErrInvalidOrder, maxPhoneLen)
	case utf8.RuneCountInString(order.Address) > maxAddressLen:
		return nil, fmt.Errorf("%w: address exceeds %d characters", domain.ErrInvalidOrder, maxAddressLen)
	case !order.PaymentMethod.Valid():
		return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidOrder, order.PaymentMethod)
	case len(req.Products) == 0:
		return nil, fmt.Errorf("%w: products must not be empty", domain.ErrInvalidOrder)
	}

	ids := make([]int, 0, len(req.Products))
	for i, p := range req.Products {
		if p.Quantity < 1 {
			return nil, fmt.Errorf("%w: product at index %d: quantity must be at least 1", domain.ErrInvalidOrder, i)
		}
		ids = append(ids, p.ProductID)
	}

	products, err := s.catalog.ProductsByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	order.Items = make([]domain.OrderItem, 0, len(req.Products))
	for _, p := range req.Products {
		product, ok := products[p.ProductID]
		if !ok {
			return nil, fmt.Errorf("product_id=%d: %w", p.ProductID, domain.ErrUnknownProduct)
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			Price:     product.Price,
		})
	}

	return order, nil
}
