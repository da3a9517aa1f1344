package enrolment

import (
	"context"
	"fmt"
	"sync"

	"coursebatch/internal/enrollment/models"
	id "coursebatch/pkg/domain"
	"coursebatch/pkg/platform/sentinel"
)

type rowKey struct {
	batchID id.BatchID
	userID  id.UserID
}

// InMemoryStore holds enrollment rows keyed by (batch, user) with a user index
// for list queries.
type InMemoryStore struct {
	mu     sync.RWMutex
	rows   map[rowKey]*models.Enrollment
	byUser map[id.UserID]map[id.BatchID]struct{}
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		rows:   make(map[rowKey]*models.Enrollment),
		byUser: make(map[id.UserID]map[id.BatchID]struct{}),
	}
}

func (s *InMemoryStore) GetEnrollment(_ context.Context, batchID id.BatchID, userID id.UserID) (*models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.rows[rowKey{batchID, userID}]
	if !ok {
		return nil, fmt.Errorf("enrollment %s/%s: %w", batchID, userID, sentinel.ErrNotFound)
	}
	cp := *e
	return &cp, nil
}

// UpsertEnrollment applies w as the last write for its key.
func (s *InMemoryStore) UpsertEnrollment(_ context.Context, w models.EnrollmentWrite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := rowKey{w.BatchID, w.UserID}
	e, ok := s.rows[k]
	if !ok {
		e = &models.Enrollment{BatchID: w.BatchID, UserID: w.UserID}
		s.rows[k] = e
		if s.byUser[w.UserID] == nil {
			s.byUser[w.UserID] = make(map[id.BatchID]struct{})
		}
		s.byUser[w.UserID][w.BatchID] = struct{}{}
	}
	e.CourseID = w.CourseID
	e.Active = w.Active
	if !w.EnrollDate.IsZero() {
		e.EnrollDate = w.EnrollDate
	}
	return nil
}

func (s *InMemoryStore) ListActiveEnrollments(_ context.Context, userID id.UserID) ([]*models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Enrollment
	for batchID := range s.byUser[userID] {
		e := s.rows[rowKey{batchID, userID}]
		if e.Active {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListBatchEnrollments(_ context.Context, batchID id.BatchID) ([]*models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Enrollment
	for k, e := range s.rows {
		if k.batchID == batchID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Count returns the number of rows, active or not.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}
