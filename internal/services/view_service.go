package services

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"order-sync/internal/domain"
	"order-sync/internal/repository"
)

// OrderGroup is one order's line rows plus the timestamp used for display
// ordering (the earliest line's creation time).
type OrderGroup struct {
	OrderID   uint64            `json:"orderId"`
	Rows      []domain.OrderRow `json:"rows"`
	CreatedAt time.Time         `json:"createdAt"`
}

// OrderViewService keeps the grouped view of a store's active orders. Every
// refresh replaces the view wholesale; it is never patched in place, so a
// failed fetch leaves readers on the previous complete snapshot.
type OrderViewService struct {
	repo repository.OrderRepository

	mu   sync.RWMutex
	view *domain.GroupedOrders
}

func NewOrderViewService(repo repository.OrderRepository) *OrderViewService {
	return &OrderViewService{
		repo: repo,
		view: domain.NewGroupedOrders(),
	}
}

// Refresh fetches the store's pending and completed line rows and rebuilds
// the grouped view. On failure the previous view is retained unchanged.
func (s *OrderViewService) Refresh(ctx context.Context, storeID string) error {
	rows, err := s.repo.FindOrderRows(storeID, []domain.OrderStatus{domain.StatusPending, domain.StatusCompleted})
	if err != nil {
		log.Printf("Order view refresh failed, keeping previous view: %v", err)
		return err
	}

	next := domain.NewGroupedOrders()
	for _, row := range rows {
		next.Append(row)
	}

	s.mu.Lock()
	s.view = next
	s.mu.Unlock()
	return nil
}

// View returns the current grouped snapshot. The snapshot is replaced, never
// mutated, so callers may read it without further locking.
func (s *OrderViewService) View() *domain.GroupedOrders {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Partitions splits the current view into pending and completed groups, each
// sorted most recent first by the earliest line's creation time.
func (s *OrderViewService) Partitions() (pending, completed []OrderGroup) {
	view := s.View()
	for _, id := range view.OrderIDs() {
		rows := view.Rows(id)
		group := OrderGroup{OrderID: id, Rows: rows, CreatedAt: earliestCreatedAt(rows)}
		if rows[0].Status == domain.StatusCompleted {
			completed = append(completed, group)
		} else {
			pending = append(pending, group)
		}
	}
	byNewest := func(groups []OrderGroup) func(i, j int) bool {
		return func(i, j int) bool { return groups[i].CreatedAt.After(groups[j].CreatedAt) }
	}
	sort.SliceStable(pending, byNewest(pending))
	sort.SliceStable(completed, byNewest(completed))
	return pending, completed
}

func earliestCreatedAt(rows []domain.OrderRow) time.Time {
	earliest := rows[0].CreatedAt
	for _, r := range rows[1:] {
		if r.CreatedAt.Before(earliest) {
			earliest = r.CreatedAt
		}
	}
	return earliest
}
