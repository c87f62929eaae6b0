package handlers

import (
	"context"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockService implements OrderService and ManagerService.
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, req services.RegisterOrderRequest) (*domain.Order, error) {
	args := m.Called(ctx, req)
	o, _ := args.Get(0).(*domain.Order)
	return o, args.Error(1)
}

func (m *MockService) ListWaiting(ctx context.Context) ([]services.ManagedOrder, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]services.ManagedOrder)
	return out, args.Error(1)
}

func (m *MockService) Candidates(ctx context.Context, orderID int) (services.ManagedOrder, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(services.ManagedOrder), args.Error(1)
}

func (m *MockService) AssignRestaurant(ctx context.Context, orderID int, restaurantID int) (*domain.Order, error) {
	args := m.Called(ctx, orderID, restaurantID)
	o, _ := args.Get(0).(*domain.Order)
	return o, args.Error(1)
}

func (m *MockService) UpdateStatus(ctx context.Context, orderID int, status domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(ctx, orderID, status)
	o, _ := args.Get(0).(*domain.Order)
	return o, args.Error(1)
}
