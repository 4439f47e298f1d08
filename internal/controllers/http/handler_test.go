package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"order-sync/internal/mocks"
	"order-sync/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const (
	testStoreID = "0b9f8a3e-5f2c-4f63-9a41-8c1d2e3f4a5b"
	testTableID = "7c2e1d4f-9a3b-4c5d-8e6f-0a1b2c3d4e5f"
)

func newTestRouter(mockRepo *mocks.MockOrderRepository, mockPub *mocks.MockPublisher, mockStore *mocks.MockDurableStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	view := services.NewOrderViewService(mockRepo)
	completion := services.NewCompletionService(mockRepo, mockStore, testStoreID)
	orders := services.NewOrderService(mockRepo, mockPub)
	archive := services.NewArchiveService(mockRepo, 0, 0)

	h := NewHandler(testStoreID, view, completion, orders, archive)
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_SubmitOrder(t *testing.T) {
	tests := []struct {
		name       string
		body       SubmitOrderRequest
		setupMocks func(*mocks.MockOrderRepository, *mocks.MockPublisher)
		wantStatus int
	}{
		{
			name: "priced line items",
			body: SubmitOrderRequest{
				TableID: testTableID,
				Items: []LineItemBody{
					{MenuID: "m1", Quantity: 2, UnitPrice: 500},
				},
			},
			setupMocks: func(mockRepo *mocks.MockOrderRepository, mockPub *mocks.MockPublisher) {
				mockRepo.On("MaxOrderCode", testStoreID, mock.AnythingOfType("string")).Return(0, nil)
				mockRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
				mockPub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "free line item is accepted",
			body: SubmitOrderRequest{
				TableID: testTableID,
				Items: []LineItemBody{
					{MenuID: "m1", Quantity: 1, UnitPrice: 0},
				},
			},
			setupMocks: func(mockRepo *mocks.MockOrderRepository, mockPub *mocks.MockPublisher) {
				mockRepo.On("MaxOrderCode", testStoreID, mock.AnythingOfType("string")).Return(3, nil)
				mockRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
				mockPub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "negative price rejected",
			body: SubmitOrderRequest{
				TableID: testTableID,
				Items: []LineItemBody{
					{MenuID: "m1", Quantity: 1, UnitPrice: -100},
				},
			},
			setupMocks: func(*mocks.MockOrderRepository, *mocks.MockPublisher) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "table id must be a UUID",
			body: SubmitOrderRequest{
				TableID: "table-1",
				Items: []LineItemBody{
					{MenuID: "m1", Quantity: 1, UnitPrice: 100},
				},
			},
			setupMocks: func(*mocks.MockOrderRepository, *mocks.MockPublisher) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "empty item list rejected",
			body: SubmitOrderRequest{
				TableID: testTableID,
				Items:   []LineItemBody{},
			},
			setupMocks: func(*mocks.MockOrderRepository, *mocks.MockPublisher) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mocks.MockOrderRepository)
			mockPub := new(mocks.MockPublisher)
			mockStore := new(mocks.MockDurableStore)
			tt.setupMocks(mockRepo, mockPub)

			r := newTestRouter(mockRepo, mockPub, mockStore)
			w := postJSON(r, "/orders", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusCreated {
				// event publish is async
				time.Sleep(100 * time.Millisecond)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}
