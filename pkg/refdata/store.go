// Package refdata maintains the in-memory reference collection the
// linkage engine ranks against. Snapshots are immutable: updates swap
// in a fresh slice so an in-flight ranking never sees a mutation.
package refdata

import (
	"context"
	"sort"
	"sync"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/sage/internal/repositories/referencerecord"
	"github.com/Ramsey-B/sage/pkg/models"
	"github.com/Ramsey-B/sage/pkg/tracing"
)

type Store struct {
	repo   *referencerecord.Repository
	logger ectologger.Logger

	mu       sync.RWMutex
	byTenant map[string][]models.ReferenceRecord
	loaded   map[string]bool
}

func NewStore(repo *referencerecord.Repository, logger ectologger.Logger) *Store {
	return &Store{
		repo:     repo,
		logger:   logger,
		byTenant: make(map[string][]models.ReferenceRecord),
		loaded:   make(map[string]bool),
	}
}

// Snapshot returns the tenant's reference collection, loading it from
// the repository on first use. The returned slice must not be mutated.
func (s *Store) Snapshot(ctx context.Context, tenantID string) ([]models.ReferenceRecord, error) {
	s.mu.RLock()
	if s.loaded[tenantID] {
		records := s.byTenant[tenantID]
		s.mu.RUnlock()
		return records, nil
	}
	s.mu.RUnlock()

	if err := s.Refresh(ctx, tenantID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byTenant[tenantID], nil
}

// Refresh replaces the tenant's snapshot with the repository contents.
func (s *Store) Refresh(ctx context.Context, tenantID string) error {
	ctx, span := tracing.StartSpan(ctx, "refdata.Store.Refresh")
	defer span.End()

	stored, err := s.repo.ListAll(ctx, tenantID)
	if err != nil {
		return err
	}

	records := make([]models.ReferenceRecord, 0, len(stored))
	for _, row := range stored {
		records = append(records, row.ToReferenceRecord())
	}

	s.mu.Lock()
	s.byTenant[tenantID] = records
	s.loaded[tenantID] = true
	s.mu.Unlock()

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id": tenantID,
		"count":     len(records),
	}).Debug("Refreshed reference snapshot")
	return nil
}

// Apply upserts one record into the tenant's snapshot. The slice is
// copied, not mutated, and stays sorted by ID.
func (s *Store) Apply(tenantID string, record models.ReferenceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded[tenantID] {
		return // snapshot not built yet; first Snapshot call loads from the repository
	}

	current := s.byTenant[tenantID]
	next := make([]models.ReferenceRecord, len(current))
	copy(next, current)

	i := sort.Search(len(next), func(i int) bool { return next[i].ID >= record.ID })
	if i < len(next) && next[i].ID == record.ID {
		next[i] = record
	} else {
		next = append(next, models.ReferenceRecord{})
		copy(next[i+1:], next[i:])
		next[i] = record
	}

	s.byTenant[tenantID] = next
}

// Remove drops one record from the tenant's snapshot.
func (s *Store) Remove(tenantID string, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded[tenantID] {
		return
	}

	current := s.byTenant[tenantID]
	i := sort.Search(len(current), func(i int) bool { return current[i].ID >= id })
	if i >= len(current) || current[i].ID != id {
		return
	}

	next := make([]models.ReferenceRecord, 0, len(current)-1)
	next = append(next, current[:i]...)
	next = append(next, current[i+1:]...)
	s.byTenant[tenantID] = next
}

// Count returns the snapshot size for a tenant, without loading.
func (s *Store) Count(tenantID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byTenant[tenantID])
}
