package services

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"order-sync/internal/domain"
	"order-sync/internal/infra/durable"
	"order-sync/internal/repository"

	"golang.org/x/sync/singleflight"
)

const (
	durableKeyPrefix = "unsaved_completed:"

	defaultDebounceInterval = 5 * time.Second
	defaultSweepInterval    = 60 * time.Second
	teardownFlushTimeout    = 5 * time.Second
)

// CompletionService tracks which orders staff have marked completed before the
// remote store has confirmed them. Marks take effect locally at once; three
// triggers (debounce, periodic sweep, teardown) converge on Flush, which
// persists the current snapshot with one batched update. Every mutation is
// mirrored into the durable store so a crash before any persist succeeds can
// be replayed on the next start.
type CompletionService struct {
	repo    repository.OrderRepository
	durable durable.Store
	key     string

	debounceInterval time.Duration
	sweepInterval    time.Duration

	mu       sync.Mutex
	pending  map[uint64]struct{}
	dirty    bool
	debounce *time.Timer

	flights singleflight.Group
}

func NewCompletionService(repo repository.OrderRepository, store durable.Store, storeID string) *CompletionService {
	return &CompletionService{
		repo:             repo,
		durable:          store,
		key:              durableKeyPrefix + storeID,
		debounceInterval: defaultDebounceInterval,
		sweepInterval:    defaultSweepInterval,
		pending:          make(map[uint64]struct{}),
	}
}

// SetIntervals overrides the debounce and sweep intervals. Call before Run.
func (s *CompletionService) SetIntervals(debounce, sweep time.Duration) {
	s.debounceInterval = debounce
	s.sweepInterval = sweep
}

// MarkCompleted records the order as completed locally. It always succeeds:
// the remote update happens later through one of the persistence triggers.
func (s *CompletionService) MarkCompleted(ctx context.Context, orderID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[orderID] = struct{}{}
	s.dirty = true
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = time.AfterFunc(s.debounceInterval, func() {
		_ = s.Flush(context.Background())
	})

	s.mirrorLocked(ctx)
}

// Pending returns a snapshot of the locally tracked completed order ids, for
// callers that merge the optimistic marks with the fetched view.
func (s *CompletionService) Pending() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *CompletionService) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// RecoverFromDurableStorage merges a previously mirrored id list into the
// set. A corrupt payload is discarded with a warning; recovery never fails
// startup.
func (s *CompletionService) RecoverFromDurableStorage(ctx context.Context) {
	raw, ok, err := s.durable.Get(ctx, s.key)
	if err != nil {
		log.Printf("Failed to read pending-completion snapshot: %v", err)
		return
	}
	if !ok || raw == "" {
		return
	}

	var ids []uint64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.Printf("Discarding corrupt pending-completion snapshot: %v", err)
		if err := s.durable.Remove(ctx, s.key); err != nil {
			log.Printf("Failed to remove corrupt snapshot: %v", err)
		}
		return
	}
	if len(ids) == 0 {
		return
	}

	s.mu.Lock()
	for _, id := range ids {
		s.pending[id] = struct{}{}
	}
	s.dirty = true
	// marks may have landed before recovery ran; mirror the merged set
	s.mirrorLocked(ctx)
	s.mu.Unlock()

	log.Printf("Recovered %d unsaved completed orders from durable storage", len(ids))
}

// Flush persists the current snapshot of the set with one batched status
// update. Attempts are serialized through a single-flight group, so triggers
// firing together collapse into one persistence for one snapshot. On failure
// the dirty flag and the durable snapshot stay intact for a later retry.
func (s *CompletionService) Flush(ctx context.Context) error {
	_, err, _ := s.flights.Do("persist", func() (any, error) {
		s.mu.Lock()
		if !s.dirty || len(s.pending) == 0 {
			s.mu.Unlock()
			return nil, nil
		}
		ids := s.snapshotLocked()
		s.mu.Unlock()

		if err := s.repo.UpdateStatusByIDs(ids, domain.StatusCompleted); err != nil {
			log.Printf("Failed to persist %d completed orders: %v", len(ids), err)
			return nil, err
		}

		s.mu.Lock()
		for _, id := range ids {
			delete(s.pending, id)
		}
		if len(s.pending) == 0 {
			s.dirty = false
			if err := s.durable.Remove(ctx, s.key); err != nil {
				log.Printf("Failed to remove durable snapshot: %v", err)
			}
		} else {
			// marks arrived while the update was in flight
			s.mirrorLocked(ctx)
		}
		s.mu.Unlock()

		log.Printf("Persisted %d completed orders", len(ids))
		return nil, nil
	})
	return err
}

// Run drives the sweep trigger until ctx ends, then makes one best-effort
// teardown flush if unsaved marks remain.
func (s *CompletionService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			if s.debounce != nil {
				s.debounce.Stop()
			}
			dirty := s.dirty
			s.mu.Unlock()

			if dirty {
				flushCtx, cancel := context.WithTimeout(context.Background(), teardownFlushTimeout)
				defer cancel()
				_ = s.Flush(flushCtx)
			}
			return
		case <-ticker.C:
			if s.Dirty() {
				_ = s.Flush(ctx)
			}
		}
	}
}

// mirrorLocked writes the current id list into the durable store so a crash
// before the remote persist succeeds can be replayed. The caller holds mu:
// mirrors run in the same order as the mutations they record, so a stale
// snapshot can never overwrite a newer one.
func (s *CompletionService) mirrorLocked(ctx context.Context) {
	data, err := json.Marshal(s.snapshotLocked())
	if err != nil {
		log.Printf("Failed to serialize pending-completion snapshot: %v", err)
		return
	}
	if err := s.durable.Set(ctx, s.key, string(data)); err != nil {
		log.Printf("Failed to mirror pending-completion snapshot: %v", err)
	}
}

func (s *CompletionService) snapshotLocked() []uint64 {
	ids := make([]uint64, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
