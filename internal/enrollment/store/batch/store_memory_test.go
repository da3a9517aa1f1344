package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"coursebatch/internal/enrollment/models"
	"coursebatch/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	key   models.BatchKey
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.key = models.BatchKey{CourseID: "do_course", BatchID: "b1"}
	s.Require().NoError(s.store.UpsertBatch(s.ctx, s.key, models.BatchAttributes{
		Name:           "Batch one",
		EnrollmentType: models.EnrollmentTypeOpen,
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}))
}

func (s *InMemoryStoreSuite) TestGetBatch() {
	s.Run("missing batch", func() {
		_, err := s.store.GetBatch(s.ctx, models.BatchKey{CourseID: "do_course", BatchID: "nope"})
		s.True(errors.Is(err, sentinel.ErrNotFound))
	})

	s.Run("returns a copy", func() {
		s.Require().NoError(s.store.SetAdd(s.ctx, s.key, models.ColumnParticipants, "u1"))
		b, err := s.store.GetBatch(s.ctx, s.key)
		s.Require().NoError(err)
		b.Participants[0] = "mutated"

		again, err := s.store.GetBatch(s.ctx, s.key)
		s.Require().NoError(err)
		s.Equal([]string{"u1"}, again.Participants)
	})
}

func (s *InMemoryStoreSuite) TestUpsertKeepsCollections() {
	s.Require().NoError(s.store.SetAdd(s.ctx, s.key, models.ColumnParticipants, "u1"))
	s.Require().NoError(s.store.MapAdd(s.ctx, s.key, models.ColumnCertTemplates, "t1", models.CertificateTemplate{Name: "Merit"}))

	s.Require().NoError(s.store.UpsertBatch(s.ctx, s.key, models.BatchAttributes{Name: "Renamed"}))

	b, err := s.store.GetBatch(s.ctx, s.key)
	s.Require().NoError(err)
	s.Equal("Renamed", b.Name)
	s.Equal([]string{"u1"}, b.Participants)
	s.Contains(b.CertificateTemplates, "t1")
}

func (s *InMemoryStoreSuite) TestSetColumn() {
	s.Run("add is idempotent", func() {
		s.Require().NoError(s.store.SetAdd(s.ctx, s.key, models.ColumnParticipants, "u1"))
		s.Require().NoError(s.store.SetAdd(s.ctx, s.key, models.ColumnParticipants, "u1"))
		b, err := s.store.GetBatch(s.ctx, s.key)
		s.Require().NoError(err)
		s.Equal([]string{"u1"}, b.Participants)
	})

	s.Run("remove absent member is a no-op", func() {
		s.Require().NoError(s.store.SetRemove(s.ctx, s.key, models.ColumnParticipants, "ghost"))
	})

	s.Run("unknown batch", func() {
		err := s.store.SetAdd(s.ctx, models.BatchKey{CourseID: "x", BatchID: "y"}, models.ColumnParticipants, "u1")
		s.True(errors.Is(err, sentinel.ErrNotFound))
	})

	s.Run("unknown column", func() {
		s.Error(s.store.SetAdd(s.ctx, s.key, "mentors", "u1"))
	})
}

func (s *InMemoryStoreSuite) TestConcurrentSetAddsAreNotLost() {
	const writers = 100
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NoError(s.store.SetAdd(s.ctx, s.key, models.ColumnParticipants, fmt.Sprintf("user-%03d", i)))
		}()
	}
	wg.Wait()

	b, err := s.store.GetBatch(s.ctx, s.key)
	s.Require().NoError(err)
	s.Len(b.Participants, writers)
}

func (s *InMemoryStoreSuite) TestMapColumn() {
	s.Require().NoError(s.store.MapAdd(s.ctx, s.key, models.ColumnCertTemplates, "t1", models.CertificateTemplate{Name: "v1"}))
	s.Require().NoError(s.store.MapAdd(s.ctx, s.key, models.ColumnCertTemplates, "t1", models.CertificateTemplate{Name: "v2"}))

	b, err := s.store.GetBatch(s.ctx, s.key)
	s.Require().NoError(err)
	s.Equal("v2", b.CertificateTemplates["t1"].Name)

	s.Require().NoError(s.store.MapRemove(s.ctx, s.key, models.ColumnCertTemplates, "t1"))
	s.Require().NoError(s.store.MapRemove(s.ctx, s.key, models.ColumnCertTemplates, "t1"))
	b, err = s.store.GetBatch(s.ctx, s.key)
	s.Require().NoError(err)
	s.NotContains(b.CertificateTemplates, "t1")
}

func (s *InMemoryStoreSuite) TestDeleteAndList() {
	other := models.BatchKey{CourseID: "do_alpha", BatchID: "b9"}
	s.Require().NoError(s.store.UpsertBatch(s.ctx, other, models.BatchAttributes{Name: "Other"}))

	keys, err := s.store.ListBatchKeys(s.ctx)
	s.Require().NoError(err)
	s.Equal([]models.BatchKey{other, s.key}, keys)

	s.Require().NoError(s.store.DeleteBatch(s.ctx, other))
	s.True(errors.Is(s.store.DeleteBatch(s.ctx, other), sentinel.ErrNotFound))

	keys, err = s.store.ListBatchKeys(s.ctx)
	s.Require().NoError(err)
	s.Equal([]models.BatchKey{s.key}, keys)
}
