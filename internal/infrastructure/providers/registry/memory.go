package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mrcar-cl/tasador/internal/domain/vehicle"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

// MemoryStore is an in-process plate index.  The "memory" plate provider
// fills one from roster CSVs at startup, serving deployments without
// PostgreSQL.  It satisfies both Store and UpsertStore.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]vehicle.Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]vehicle.Record)}
}

// GetByPlate implements Store.
func (s *MemoryStore) GetByPlate(ctx context.Context, plate string) (*vehicle.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[vehicle.NormalizePlate(plate)]
	if !ok {
		return nil, errors.New(errors.ErrCodePlateNotFound,
			fmt.Sprintf("plate %s not in roster", plate))
	}
	out := rec
	return &out, nil
}

// UpsertBatch implements UpsertStore.  Later batches overwrite earlier ones,
// matching the oldest-first import order where the newest roster wins.
func (s *MemoryStore) UpsertBatch(ctx context.Context, records []vehicle.Record, sourceFile string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, rec := range records {
		rec.Plate = vehicle.NormalizePlate(rec.Plate)
		rec.UpdatedAt = now
		s.records[rec.Plate] = rec
	}
	return len(records), nil
}

// Len reports how many plates are indexed.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
