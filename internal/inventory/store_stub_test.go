package inventory

import (
	"context"
	"fmt"
	"sync"

	apperrors "petshop/internal/errors"
)

type recordKey struct {
	productID   int
	stockroomID int
}

// memStore is an in-memory StockStore with hooks for simulating races and
// transport failures.
type memStore struct {
	mu      sync.Mutex
	records map[recordKey]int

	// casRejects makes the next N CompareAndSet calls report a conflict
	// without touching the stored value.
	casRejects int

	// casErrAfter fails CompareAndSet on a key with a transport error once
	// the per-key allowance of successful writes is used up.
	casErrAfter map[recordKey]int

	// afterGet runs once after the next Get, simulating a concurrent writer
	// sneaking in between a read and its conditional write.
	afterGet func(s *memStore)
}

func newMemStore(seed map[recordKey]int) *memStore {
	records := make(map[recordKey]int, len(seed))
	for k, v := range seed {
		records[k] = v
	}
	return &memStore{records: records}
}

func (s *memStore) Get(_ context.Context, productID, stockroomID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	qty, ok := s.records[recordKey{productID, stockroomID}]
	if !ok {
		return 0, apperrors.NewNotFoundError(fmt.Sprintf("no stock record for product %d in stockroom %d", productID, stockroomID))
	}

	if s.afterGet != nil {
		hook := s.afterGet
		s.afterGet = nil
		hook(s)
	}

	return qty, nil
}

func (s *memStore) Set(_ context.Context, productID, stockroomID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[recordKey{productID, stockroomID}] = quantity
	return nil
}

func (s *memStore) CompareAndSet(_ context.Context, productID, stockroomID, oldQty, newQty int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey{productID, stockroomID}

	if s.casErrAfter != nil {
		if allowance, ok := s.casErrAfter[key]; ok {
			if allowance == 0 {
				return false, fmt.Errorf("stock store unreachable")
			}
			s.casErrAfter[key] = allowance - 1
		}
	}

	if s.casRejects > 0 {
		s.casRejects--
		return false, nil
	}

	current, ok := s.records[key]
	if !ok || current != oldQty {
		return false, nil
	}

	s.records[key] = newQty
	return true, nil
}

func (s *memStore) quantity(productID, stockroomID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[recordKey{productID, stockroomID}]
}
