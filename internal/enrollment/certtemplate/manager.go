// Package certtemplate attaches certificate templates to batches.
package certtemplate

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"coursebatch/internal/enrollment/events"
	"coursebatch/internal/enrollment/models"
	dErrors "coursebatch/pkg/domain-errors"
	"coursebatch/pkg/platform/sentinel"
	"coursebatch/pkg/requestcontext"
)

type BatchStore interface {
	GetBatch(ctx context.Context, key models.BatchKey) (*models.CourseBatch, error)
	MapAdd(ctx context.Context, key models.BatchKey, column models.MapColumn, entry string, value models.CertificateTemplate) error
	MapRemove(ctx context.Context, key models.BatchKey, column models.MapColumn, entry string) error
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Manager edits the certificate template map of a batch. Each change is a
// single-entry map update, so concurrent changes to different templates of
// the same batch never overwrite each other.
type Manager struct {
	batches   BatchStore
	publisher Publisher
	logger    *slog.Logger
}

type Option func(m *Manager)

func WithPublisher(p Publisher) Option {
	return func(m *Manager) {
		m.publisher = p
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func New(batches BatchStore, opts ...Option) *Manager {
	m := &Manager{batches: batches, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddTemplate stores details under templateID, replacing any existing entry.
func (m *Manager) AddTemplate(ctx context.Context, key models.BatchKey, templateID string, details models.CertificateTemplate) error {
	templateID = strings.TrimSpace(templateID)
	if err := validateKey(key, templateID); err != nil {
		return err
	}
	if err := details.Validate(); err != nil {
		return err
	}
	details.Identifier = templateID

	if err := m.batches.MapAdd(ctx, key, models.ColumnCertTemplates, templateID, details); err != nil {
		return mapErr(err, "add certificate template")
	}
	m.logger.InfoContext(ctx, "certificate template added",
		"request_id", requestcontext.RequestID(ctx),
		"batch_id", key.BatchID,
		"template_id", templateID,
	)
	m.publish(ctx, events.TypeTemplateAdded, key, templateID)
	return nil
}

// RemoveTemplate deletes templateID from the batch. Removing an entry that is
// not there succeeds.
func (m *Manager) RemoveTemplate(ctx context.Context, key models.BatchKey, templateID string) error {
	templateID = strings.TrimSpace(templateID)
	if err := validateKey(key, templateID); err != nil {
		return err
	}
	if err := m.batches.MapRemove(ctx, key, models.ColumnCertTemplates, templateID); err != nil {
		return mapErr(err, "remove certificate template")
	}
	m.logger.InfoContext(ctx, "certificate template removed",
		"request_id", requestcontext.RequestID(ctx),
		"batch_id", key.BatchID,
		"template_id", templateID,
	)
	m.publish(ctx, events.TypeTemplateRemoved, key, templateID)
	return nil
}

func (m *Manager) ListTemplates(ctx context.Context, key models.BatchKey) (map[string]models.CertificateTemplate, error) {
	if err := validateKey(key, "-"); err != nil {
		return nil, err
	}
	batch, err := m.batches.GetBatch(ctx, key)
	if err != nil {
		return nil, mapErr(err, "read batch")
	}
	if batch.CertificateTemplates == nil {
		return map[string]models.CertificateTemplate{}, nil
	}
	return batch.CertificateTemplates, nil
}

func (m *Manager) publish(ctx context.Context, t events.Type, key models.BatchKey, templateID string) {
	if m.publisher == nil {
		return
	}
	err := m.publisher.Publish(ctx, events.Event{
		Type:       t,
		CourseID:   key.CourseID.String(),
		BatchID:    key.BatchID.String(),
		TemplateID: templateID,
		RequestID:  requestcontext.RequestID(ctx),
		OccurredAt: requestcontext.Now(ctx),
	})
	if err != nil {
		m.logger.WarnContext(ctx, "failed to publish certificate template event",
			"event_type", t,
			"batch_id", key.BatchID,
			"error", err,
		)
	}
}

func validateKey(key models.BatchKey, templateID string) error {
	switch {
	case key.CourseID.IsNil():
		return dErrors.New(dErrors.CodeValidation, "course id is required")
	case key.BatchID.IsNil():
		return dErrors.New(dErrors.CodeValidation, "batch id is required")
	case templateID == "":
		return dErrors.New(dErrors.CodeValidation, "template id is required")
	}
	return nil
}

func mapErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeValidation, "invalid course batch id")
	}
	if dErrors.HasCode(err, dErrors.CodeStore) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeStore, msg)
}
