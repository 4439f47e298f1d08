package services

import (
	"context"
	"log"
	"time"

	"order-sync/internal/domain"
	"order-sync/internal/repository"
)

const (
	defaultArchiveAfter = 3 * 24 * time.Hour
	defaultMaxCompleted = 50
)

// ArchiveService evicts old and overflow completed orders to archived status,
// so a store's completed list stays bounded. Thresholds are configuration,
// not business law.
type ArchiveService struct {
	repo         repository.OrderRepository
	archiveAfter time.Duration
	maxCompleted int
	now          func() time.Time
}

func NewArchiveService(repo repository.OrderRepository, archiveAfter time.Duration, maxCompleted int) *ArchiveService {
	if archiveAfter <= 0 {
		archiveAfter = defaultArchiveAfter
	}
	if maxCompleted <= 0 {
		maxCompleted = defaultMaxCompleted
	}
	return &ArchiveService{
		repo:         repo,
		archiveAfter: archiveAfter,
		maxCompleted: maxCompleted,
		now:          time.Now,
	}
}

// Archive selects the store's completed orders that exceed the age threshold,
// plus the oldest of the rest when the completed count exceeds the retention
// cap, and archives the selection with at most one batched update. It returns
// the number of orders archived.
func (s *ArchiveService) Archive(ctx context.Context, storeID string) (int, error) {
	orders, err := s.repo.FindCompletedOrders(storeID)
	if err != nil {
		log.Printf("Failed to fetch completed orders for archival: %v", err)
		return 0, err
	}

	now := s.now()
	selected := make(map[uint64]struct{})
	var toArchive []uint64

	for _, o := range orders {
		if now.Sub(o.CreatedAt) >= s.archiveAfter {
			if _, ok := selected[o.ID]; ok {
				continue
			}
			selected[o.ID] = struct{}{}
			toArchive = append(toArchive, o.ID)
		}
	}

	overflow := len(orders) - len(toArchive) - s.maxCompleted
	if overflow > 0 {
		// orders is oldest first, so the first unselected ones are the oldest
		for _, o := range orders {
			if overflow == 0 {
				break
			}
			if _, ok := selected[o.ID]; ok {
				continue
			}
			selected[o.ID] = struct{}{}
			toArchive = append(toArchive, o.ID)
			overflow--
		}
	}

	if len(toArchive) == 0 {
		return 0, nil
	}

	if err := s.repo.UpdateStatusByIDs(toArchive, domain.StatusArchived); err != nil {
		log.Printf("Failed to archive %d orders: %v", len(toArchive), err)
		return 0, err
	}

	log.Printf("Archived %d completed orders for store %s", len(toArchive), storeID)
	return len(toArchive), nil
}
