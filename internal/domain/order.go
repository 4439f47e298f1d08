package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusPaid      OrderStatus = "paid"
	StatusArchived  OrderStatus = "archived"
)

// Order is one customer transaction. An order is created as pending; paid and
// archived are terminal, and only pending<->completed may be reversed by staff.
type Order struct {
	ID        uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	StoreID   string      `json:"storeId" gorm:"type:char(36);not null;index"`
	TableID   string      `json:"tableId" gorm:"type:char(36);not null"`
	OrderCode int         `json:"orderCode" gorm:"not null"`
	OrderDate string      `json:"orderDate" gorm:"type:date;not null;index"`
	Status    OrderStatus `json:"status" gorm:"type:enum('pending','completed','paid','archived');default:'pending'"`
	CreatedAt time.Time   `json:"createdAt" gorm:"autoCreateTime"`
}

type OrderLineItem struct {
	ID        uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   uint64 `json:"orderId" gorm:"not null;index"`
	MenuID    string `json:"menuId" gorm:"type:char(36);not null"`
	Quantity  int64  `json:"quantity" gorm:"not null"`
	UnitPrice int64  `json:"unitPrice" gorm:"not null"`
	LineTotal int64  `json:"lineTotal" gorm:"not null"`
}

func (OrderLineItem) TableName() string {
	return "order_items"
}

// OrderRow is one flat line of the order detail view: a line item joined with
// its order, menu name and table name, as read from the remote store.
type OrderRow struct {
	OrderID   uint64      `json:"order_id"`
	OrderCode int         `json:"order_code"`
	OrderDate string      `json:"order_date"`
	CreatedAt time.Time   `json:"created_at"`
	MenuName  string      `json:"menu_name"`
	Quantity  int64       `json:"quantity"`
	TableName string      `json:"table_name"`
	Status    OrderStatus `json:"status"`
	StoreID   string      `json:"store_id"`
}
