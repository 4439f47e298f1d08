package repository

import (
	"order-sync/internal/domain"
)

type OrderRepository interface {
	// FindOrderRows returns the flat line rows for a store's orders in the
	// given statuses, in the order the data layer emits them.
	FindOrderRows(storeID string, statuses []domain.OrderStatus) ([]domain.OrderRow, error)
	// FindCompletedOrders returns a store's completed orders, oldest first.
	FindCompletedOrders(storeID string) ([]domain.Order, error)
	// UpdateStatusByIDs sets status on every order in ids with one batched
	// statement. It is a plain assignment, so retries are harmless.
	UpdateStatusByIDs(ids []uint64, status domain.OrderStatus) error
	// MaxOrderCode returns the highest order code issued for (store, day),
	// or 0 when the day has no orders yet.
	MaxOrderCode(storeID, orderDate string) (int, error)
	Save(order *domain.Order, items []domain.OrderLineItem) error
}
