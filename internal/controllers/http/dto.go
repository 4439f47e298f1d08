package http

import "order-sync/internal/services"

type SubmitOrderRequest struct {
	TableID string         `json:"tableId" binding:"required"`
	Items   []LineItemBody `json:"items" binding:"required,min=1,dive"`
}

type LineItemBody struct {
	MenuID    string `json:"menuId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
	UnitPrice int64  `json:"unitPrice" binding:"min=0"`
}

type SubmitOrderResponse struct {
	ID        uint64 `json:"id"`
	OrderCode int    `json:"orderCode"`
}

type OrdersResponse struct {
	Pending    []services.OrderGroup `json:"pending"`
	Completed  []services.OrderGroup `json:"completed"`
	UnsavedIDs []uint64              `json:"unsavedCompletedIds"`
}

type ArchiveResponse struct {
	Archived int `json:"archived"`
}
