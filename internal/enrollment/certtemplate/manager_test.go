package certtemplate

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"coursebatch/internal/enrollment/events"
	"coursebatch/internal/enrollment/models"
	"coursebatch/internal/enrollment/store/batch"
	dErrors "coursebatch/pkg/domain-errors"
)

type ManagerSuite struct {
	suite.Suite
	ctx      context.Context
	batches  *batch.InMemoryStore
	recorder *events.Recorder
	manager  *Manager
	key      models.BatchKey
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.ctx = context.Background()
	s.batches = batch.NewInMemory()
	s.recorder = events.NewRecorder()
	s.manager = New(s.batches, WithPublisher(s.recorder))
	s.key = models.BatchKey{CourseID: "do_course", BatchID: "b1"}
	s.Require().NoError(s.batches.UpsertBatch(s.ctx, s.key, models.BatchAttributes{
		Name:           "Batch 1",
		EnrollmentType: models.EnrollmentTypeOpen,
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}))
}

func template(name string) models.CertificateTemplate {
	return models.CertificateTemplate{Name: name, Criteria: map[string]any{"enrollment": map[string]any{"status": 2}}}
}

func (s *ManagerSuite) TestAddTemplate() {
	s.Run("stores the template under its id", func() {
		s.Require().NoError(s.manager.AddTemplate(s.ctx, s.key, "tmpl-1", template("Completion")))

		got, err := s.manager.ListTemplates(s.ctx, s.key)
		s.Require().NoError(err)
		s.Require().Contains(got, "tmpl-1")
		s.Equal("Completion", got["tmpl-1"].Name)
		s.Equal("tmpl-1", got["tmpl-1"].Identifier)
		s.Len(s.recorder.OfType(events.TypeTemplateAdded), 1)
	})

	s.Run("overwrites an existing entry", func() {
		s.Require().NoError(s.manager.AddTemplate(s.ctx, s.key, "tmpl-1", template("Merit")))

		got, err := s.manager.ListTemplates(s.ctx, s.key)
		s.Require().NoError(err)
		s.Len(got, 1)
		s.Equal("Merit", got["tmpl-1"].Name)
	})

	s.Run("unknown batch", func() {
		err := s.manager.AddTemplate(s.ctx, models.BatchKey{CourseID: "do_course", BatchID: "ghost"}, "tmpl-1", template("x"))
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("requires template id and name", func() {
		err := s.manager.AddTemplate(s.ctx, s.key, " ", template("x"))
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		err = s.manager.AddTemplate(s.ctx, s.key, "tmpl-2", models.CertificateTemplate{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ManagerSuite) TestRemoveTemplate() {
	s.Require().NoError(s.manager.AddTemplate(s.ctx, s.key, "tmpl-1", template("A")))
	s.Require().NoError(s.manager.AddTemplate(s.ctx, s.key, "tmpl-2", template("B")))

	s.Require().NoError(s.manager.RemoveTemplate(s.ctx, s.key, "tmpl-1"))
	got, err := s.manager.ListTemplates(s.ctx, s.key)
	s.Require().NoError(err)
	s.NotContains(got, "tmpl-1")
	s.Contains(got, "tmpl-2")

	s.Run("absent entry is a no-op", func() {
		s.NoError(s.manager.RemoveTemplate(s.ctx, s.key, "tmpl-1"))
		got, err := s.manager.ListTemplates(s.ctx, s.key)
		s.Require().NoError(err)
		s.Len(got, 1)
	})
}

func (s *ManagerSuite) TestConcurrentAddsKeepEveryTemplate() {
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NoError(s.manager.AddTemplate(s.ctx, s.key, fmt.Sprintf("tmpl-%d", i), template("T")))
		}()
	}
	wg.Wait()

	got, err := s.manager.ListTemplates(s.ctx, s.key)
	s.Require().NoError(err)
	s.Len(got, 20)
}

func (s *ManagerSuite) TestListTemplatesEmpty() {
	got, err := s.manager.ListTemplates(s.ctx, s.key)
	s.Require().NoError(err)
	s.Empty(got)
}
