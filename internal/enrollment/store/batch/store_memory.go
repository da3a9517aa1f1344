package batch

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"coursebatch/internal/enrollment/models"
	"coursebatch/pkg/platform/sentinel"
)

type row struct {
	attrs        models.BatchAttributes
	participants map[string]struct{}
	templates    map[string]models.CertificateTemplate
}

// InMemoryStore keeps batches in process. Each column operation runs in a single
// critical section, so concurrent set and map updates never overwrite each other.
type InMemoryStore struct {
	mu   sync.RWMutex
	rows map[models.BatchKey]*row
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{rows: make(map[models.BatchKey]*row)}
}

func (s *InMemoryStore) GetBatch(_ context.Context, key models.BatchKey) (*models.CourseBatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rows[key]
	if !ok {
		return nil, fmt.Errorf("batch %s: %w", key, sentinel.ErrNotFound)
	}
	participants := slices.Sorted(maps.Keys(r.participants))
	return &models.CourseBatch{
		BatchKey:             key,
		BatchAttributes:      r.attrs,
		Participants:         participants,
		CertificateTemplates: maps.Clone(r.templates),
	}, nil
}

// UpsertBatch writes the scalar columns, creating the row when absent.
func (s *InMemoryStore) UpsertBatch(_ context.Context, key models.BatchKey, attrs models.BatchAttributes) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.rows[key]; ok {
		r.attrs = attrs
		return nil
	}
	s.rows[key] = &row{
		attrs:        attrs,
		participants: make(map[string]struct{}),
		templates:    make(map[string]models.CertificateTemplate),
	}
	return nil
}

func (s *InMemoryStore) MapAdd(_ context.Context, key models.BatchKey, column models.MapColumn, entry string, value models.CertificateTemplate) error {
	if column != models.ColumnCertTemplates {
		return unknownColumn(string(column))
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[key]
	if !ok {
		return fmt.Errorf("batch %s: %w", key, sentinel.ErrNotFound)
	}
	r.templates[entry] = value
	return nil
}

func (s *InMemoryStore) MapRemove(_ context.Context, key models.BatchKey, column models.MapColumn, entry string) error {
	if column != models.ColumnCertTemplates {
		return unknownColumn(string(column))
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[key]
	if !ok {
		return fmt.Errorf("batch %s: %w", key, sentinel.ErrNotFound)
	}
	delete(r.templates, entry)
	return nil
}

func (s *InMemoryStore) SetAdd(_ context.Context, key models.BatchKey, column models.SetColumn, member string) error {
	if column != models.ColumnParticipants {
		return unknownColumn(string(column))
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[key]
	if !ok {
		return fmt.Errorf("batch %s: %w", key, sentinel.ErrNotFound)
	}
	r.participants[member] = struct{}{}
	return nil
}

func (s *InMemoryStore) SetRemove(_ context.Context, key models.BatchKey, column models.SetColumn, member string) error {
	if column != models.ColumnParticipants {
		return unknownColumn(string(column))
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[key]
	if !ok {
		return fmt.Errorf("batch %s: %w", key, sentinel.ErrNotFound)
	}
	delete(r.participants, member)
	return nil
}

func (s *InMemoryStore) DeleteBatch(_ context.Context, key models.BatchKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[key]; !ok {
		return fmt.Errorf("batch %s: %w", key, sentinel.ErrNotFound)
	}
	delete(s.rows, key)
	return nil
}

// ListBatchKeys returns every batch key ordered by course then batch.
func (s *InMemoryStore) ListBatchKeys(_ context.Context) ([]models.BatchKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := slices.Collect(maps.Keys(s.rows))
	slices.SortFunc(keys, compareKeys)
	return keys, nil
}

func compareKeys(a, b models.BatchKey) int {
	if a.CourseID != b.CourseID {
		if a.CourseID < b.CourseID {
			return -1
		}
		return 1
	}
	switch {
	case a.BatchID < b.BatchID:
		return -1
	case a.BatchID > b.BatchID:
		return 1
	}
	return 0
}
