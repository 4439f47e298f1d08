package services

import (
	"context"
	"errors"
	"log"
	"time"

	"order-sync/internal/domain"
	rabbit "order-sync/internal/infra/rabbitmq"
	"order-sync/internal/repository"
)

var ErrEmptyOrder = errors.New("order has no line items")

type LineInput struct {
	MenuID    string
	Quantity  int64
	UnitPrice int64
}

// OrderService handles order submission and staff-driven reversal. Submission
// assigns the next human-facing order code scoped to (store, calendar day),
// writes the order with its line items in one transaction, and announces the
// insert on the change feed.
type OrderService struct {
	repo      repository.OrderRepository
	publisher rabbit.PublisherInterface
}

func NewOrderService(repo repository.OrderRepository, publisher rabbit.PublisherInterface) *OrderService {
	return &OrderService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *OrderService) SubmitOrder(ctx context.Context, storeID, tableID string, lines []LineInput) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	now := time.Now()
	today := now.Format("2006-01-02")

	maxCode, err := s.repo.MaxOrderCode(storeID, today)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		StoreID:   storeID,
		TableID:   tableID,
		OrderCode: maxCode + 1,
		OrderDate: today,
		Status:    domain.StatusPending,
		CreatedAt: now,
	}

	items := make([]domain.OrderLineItem, len(lines))
	for i, l := range lines {
		items[i] = domain.OrderLineItem{
			MenuID:    l.MenuID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.Quantity * l.UnitPrice,
		}
	}

	if err := s.repo.Save(order, items); err != nil {
		return nil, err
	}

	go s.publishOrderCreatedEvent(context.Background(), order)

	return order, nil
}

// ReopenOrder moves a completed order back to pending. The update is scoped
// to status=completed, so it cannot resurrect paid or archived orders.
func (s *OrderService) ReopenOrder(ctx context.Context, orderID uint64) error {
	return s.repo.UpdateStatusByIDs([]uint64{orderID}, domain.StatusPending)
}

func (s *OrderService) publishOrderCreatedEvent(ctx context.Context, order *domain.Order) {
	evt := domain.OrderCreatedEvent{
		OrderID:   order.ID,
		StoreID:   order.StoreID,
		OrderCode: order.OrderCode,
		CreatedAt: order.CreatedAt,
	}

	key := rabbit.OrderCreatedKey(order.StoreID)
	if err := s.publisher.Publish(ctx, key, evt); err != nil {
		log.Printf("Failed to publish order.created event for order %d: %v", order.ID, err)
	}
}
