package mysql

import (
	"database/sql"
	"errors"
	"log"

	"order-sync/internal/domain"
	"order-sync/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) FindOrderRows(storeID string, statuses []domain.OrderStatus) ([]domain.OrderRow, error) {
	var rows []domain.OrderRow
	err := r.db.Table("order_items").
		Select("orders.id AS order_id, orders.order_code, orders.order_date, orders.created_at, "+
			"menus.name AS menu_name, order_items.quantity, tables.name AS table_name, "+
			"orders.status, orders.store_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN menus ON menus.id = order_items.menu_id").
		Joins("JOIN tables ON tables.id = orders.table_id").
		Where("orders.store_id = ? AND orders.status IN ?", storeID, statuses).
		Order("orders.created_at ASC, order_items.id ASC").
		Scan(&rows).Error
	if err != nil {
		log.Printf("FindOrderRows error: %v", err)
		return nil, err
	}
	return rows, nil
}

func (r *orderRepo) FindCompletedOrders(storeID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.
		Where("store_id = ? AND status = ?", storeID, domain.StatusCompleted).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		log.Printf("FindCompletedOrders error: %v", err)
		return nil, err
	}
	return out, nil
}

// allowedPrior lists the statuses an order may currently hold for a
// transition into target. Paid and archived are terminal.
func allowedPrior(target domain.OrderStatus) []domain.OrderStatus {
	switch target {
	case domain.StatusCompleted:
		return []domain.OrderStatus{domain.StatusPending, domain.StatusCompleted}
	case domain.StatusPending:
		return []domain.OrderStatus{domain.StatusCompleted}
	case domain.StatusPaid, domain.StatusArchived:
		return []domain.OrderStatus{domain.StatusCompleted}
	default:
		return nil
	}
}

func (r *orderRepo) UpdateStatusByIDs(ids []uint64, status domain.OrderStatus) error {
	if len(ids) == 0 {
		return nil
	}
	prior := allowedPrior(status)
	if prior == nil {
		return errors.New("unknown target status: " + string(status))
	}
	result := r.db.Model(&domain.Order{}).
		Where("id IN ? AND status IN ?", ids, prior).
		Update("status", status)
	if result.Error != nil {
		log.Printf("UpdateStatusByIDs error: %v", result.Error)
		return result.Error
	}
	return nil
}

func (r *orderRepo) MaxOrderCode(storeID, orderDate string) (int, error) {
	var max sql.NullInt64
	err := r.db.Model(&domain.Order{}).
		Where("store_id = ? AND order_date = ?", storeID, orderDate).
		Select("MAX(order_code)").
		Scan(&max).Error
	if err != nil {
		log.Printf("MaxOrderCode error: %v", err)
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64), nil
}

func (r *orderRepo) Save(order *domain.Order, items []domain.OrderLineItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			log.Printf("Save order error: %v", err)
			return err
		}
		if order.ID == 0 {
			return errors.New("failed to assign order ID")
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				log.Printf("Save order items error: %v", err)
				return err
			}
		}
		return nil
	})
}
