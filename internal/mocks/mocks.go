package mocks

import (
	"context"

	"order-sync/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

type MockDurableStore struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockOrderRepository) FindOrderRows(storeID string, statuses []domain.OrderStatus) ([]domain.OrderRow, error) {
	args := m.Called(storeID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderRow), args.Error(1)
}

func (m *MockOrderRepository) FindCompletedOrders(storeID string) ([]domain.Order, error) {
	args := m.Called(storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatusByIDs(ids []uint64, status domain.OrderStatus) error {
	args := m.Called(ids, status)
	return args.Error(0)
}

func (m *MockOrderRepository) MaxOrderCode(storeID, orderDate string) (int, error) {
	args := m.Called(storeID, orderDate)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) Save(order *domain.Order, items []domain.OrderLineItem) error {
	args := m.Called(order, items)
	return args.Error(0)
}

func (m *MockDurableStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockDurableStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockDurableStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}
