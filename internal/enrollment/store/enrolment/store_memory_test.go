package enrolment

import (
	"context"
	"errors"
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
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) TestUpsert() {
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	s.Run("insert then unenroll keeps the date", func() {
		s.Require().NoError(s.store.UpsertEnrollment(s.ctx, models.EnrollmentWrite{
			BatchID: "b1", UserID: "u1", CourseID: "c1", Active: true, EnrollDate: first,
		}))
		s.Require().NoError(s.store.UpsertEnrollment(s.ctx, models.EnrollmentWrite{
			BatchID: "b1", UserID: "u1", CourseID: "c1", Active: false,
		}))

		e, err := s.store.GetEnrollment(s.ctx, "b1", "u1")
		s.Require().NoError(err)
		s.False(e.Active)
		s.Equal(first, e.EnrollDate)
		s.Equal(1, s.store.Count())
	})

	s.Run("missing row", func() {
		_, err := s.store.GetEnrollment(s.ctx, "b1", "nobody")
		s.True(errors.Is(err, sentinel.ErrNotFound))
	})
}

func (s *InMemoryStoreSuite) TestLists() {
	d := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	writes := []models.EnrollmentWrite{
		{BatchID: "b1", UserID: "u1", CourseID: "c1", Active: true, EnrollDate: d},
		{BatchID: "b2", UserID: "u1", CourseID: "c2", Active: false, EnrollDate: d},
		{BatchID: "b1", UserID: "u2", CourseID: "c1", Active: true, EnrollDate: d},
	}
	for _, w := range writes {
		s.Require().NoError(s.store.UpsertEnrollment(s.ctx, w))
	}

	active, err := s.store.ListActiveEnrollments(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal("b1", active[0].BatchID.String())

	batchRows, err := s.store.ListBatchEnrollments(s.ctx, "b1")
	s.Require().NoError(err)
	s.Len(batchRows, 2)

	none, err := s.store.ListActiveEnrollments(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(none)
}
