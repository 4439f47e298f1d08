package http

import (
	"net/http"
	"strconv"

	"order-sync/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler exposes the sync services for one store to the staff UI.
type Handler struct {
	storeID    string
	view       *services.OrderViewService
	completion *services.CompletionService
	orders     *services.OrderService
	archive    *services.ArchiveService
}

func NewHandler(storeID string, view *services.OrderViewService, completion *services.CompletionService, orders *services.OrderService, archive *services.ArchiveService) *Handler {
	return &Handler{
		storeID:    storeID,
		view:       view,
		completion: completion,
		orders:     orders,
		archive:    archive,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/orders", h.GetOrders)
	r.POST("/orders", h.SubmitOrder)
	r.POST("/orders/:id/complete", h.CompleteOrder)
	r.POST("/orders/:id/reopen", h.ReopenOrder)
	r.POST("/archive", h.Archive)
}

func (h *Handler) GetOrders(c *gin.Context) {
	// on-demand refresh; a failed fetch serves the previous complete view
	_ = h.view.Refresh(c.Request.Context(), h.storeID)

	pending, completed := h.view.Partitions()
	c.JSON(http.StatusOK, OrdersResponse{
		Pending:    pending,
		Completed:  completed,
		UnsavedIDs: h.completion.Pending(),
	})
}

func (h *Handler) SubmitOrder(c *gin.Context) {
	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := uuid.Parse(req.TableID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tableId must be a UUID"})
		return
	}

	lines := make([]services.LineInput, len(req.Items))
	for i, item := range req.Items {
		lines[i] = services.LineInput{
			MenuID:    item.MenuID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	order, err := h.orders.SubmitOrder(c.Request.Context(), h.storeID, req.TableID, lines)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, SubmitOrderResponse{ID: order.ID, OrderCode: order.OrderCode})
}

func (h *Handler) CompleteOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	// optimistic: the remote update follows through the persistence triggers
	h.completion.MarkCompleted(c.Request.Context(), orderID)
	c.Status(http.StatusAccepted)
}

func (h *Handler) ReopenOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	if err := h.orders.ReopenOrder(c.Request.Context(), orderID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Archive(c *gin.Context) {
	archived, err := h.archive.Archive(c.Request.Context(), h.storeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ArchiveResponse{Archived: archived})
}
