package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"order-sync/internal/domain"
	"order-sync/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// completedOrders builds n completed orders all created age ago, with ids
// starting at firstID, ordered oldest first within the batch.
func completedOrders(firstID uint64, n int, age time.Duration, now time.Time) []domain.Order {
	out := make([]domain.Order, n)
	for i := 0; i < n; i++ {
		out[i] = domain.Order{
			ID:        firstID + uint64(i),
			StoreID:   testStoreID,
			Status:    domain.StatusCompleted,
			CreatedAt: now.Add(-age).Add(time.Duration(i) * time.Second),
		}
	}
	return out
}

func idRange(first uint64, n int) []uint64 {
	ids := make([]uint64, n)
	for i := 0; i < n; i++ {
		ids[i] = first + uint64(i)
	}
	return ids
}

func TestArchiveService_Archive(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		orders       []domain.Order
		wantArchived []uint64
	}{
		{
			name: "age rule selects old orders, capacity adds none",
			// 10 orders four days old, then 50 from yesterday: the age rule
			// fires for the 10 and the remaining 50 sit exactly at the cap
			orders: append(
				completedOrders(1, 10, 4*24*time.Hour, now),
				completedOrders(11, 50, 24*time.Hour, now)...,
			),
			wantArchived: idRange(1, 10),
		},
		{
			name:         "capacity rule evicts overflow oldest first",
			orders:       completedOrders(1, 70, time.Hour, now),
			wantArchived: idRange(1, 20),
		},
		{
			name: "age and capacity rules combine",
			// 5 old + 60 fresh: age takes 5, overflow = 65-5-50 = 10 oldest fresh
			orders: append(
				completedOrders(1, 5, 4*24*time.Hour, now),
				completedOrders(6, 60, time.Hour, now)...,
			),
			wantArchived: idRange(1, 15),
		},
		{
			name:   "nothing to archive",
			orders: completedOrders(1, 10, time.Hour, now),
		},
		{
			name:   "no completed orders",
			orders: []domain.Order{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mocks.MockOrderRepository)
			mockRepo.On("FindCompletedOrders", testStoreID).Return(tt.orders, nil)
			if tt.wantArchived != nil {
				mockRepo.On("UpdateStatusByIDs", tt.wantArchived, domain.StatusArchived).
					Return(nil).Once()
			}

			s := NewArchiveService(mockRepo, 3*24*time.Hour, 50)
			s.now = func() time.Time { return now }

			archived, err := s.Archive(context.Background(), testStoreID)
			assert.NoError(t, err)
			assert.Equal(t, len(tt.wantArchived), archived)

			if tt.wantArchived == nil {
				mockRepo.AssertNotCalled(t, "UpdateStatusByIDs", mock.Anything, mock.Anything)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestArchiveService_FetchFailure(t *testing.T) {
	mockRepo := new(mocks.MockOrderRepository)
	mockRepo.On("FindCompletedOrders", testStoreID).Return(nil, errors.New("timeout"))

	s := NewArchiveService(mockRepo, 3*24*time.Hour, 50)

	archived, err := s.Archive(context.Background(), testStoreID)
	assert.Error(t, err)
	assert.Zero(t, archived)
	mockRepo.AssertNotCalled(t, "UpdateStatusByIDs", mock.Anything, mock.Anything)
}

func TestArchiveService_UpdateFailure(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	mockRepo := new(mocks.MockOrderRepository)
	mockRepo.On("FindCompletedOrders", testStoreID).
		Return(completedOrders(1, 5, 4*24*time.Hour, now), nil)
	mockRepo.On("UpdateStatusByIDs", idRange(1, 5), domain.StatusArchived).
		Return(errors.New("deadlock"))

	s := NewArchiveService(mockRepo, 3*24*time.Hour, 50)
	s.now = func() time.Time { return now }

	archived, err := s.Archive(context.Background(), testStoreID)
	assert.Error(t, err)
	assert.Zero(t, archived)
}
