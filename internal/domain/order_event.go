package domain

import "time"

type OrderCreatedEvent struct {
	OrderID   uint64    `json:"orderId"`
	StoreID   string    `json:"storeId"`
	OrderCode int       `json:"orderCode"`
	CreatedAt time.Time `json:"createdAt"`
}
