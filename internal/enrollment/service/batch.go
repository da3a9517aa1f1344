package service

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"coursebatch/internal/enrollment/models"
	id "coursebatch/pkg/domain"
	dErrors "coursebatch/pkg/domain-errors"
	"coursebatch/pkg/requestcontext"
)

// CreateBatch stores a new batch. An empty batch id is generated. Creating a
// batch that already exists is a conflict.
func (s *Service) CreateBatch(ctx context.Context, rc models.RequestContext, courseID id.CourseID, batchID id.BatchID, attrs models.BatchAttributes) (batch *models.CourseBatch, err error) {
	ctx = withRequestID(ctx, rc)
	ctx, done := s.startOp(ctx, "create_batch", attribute.String("course_id", courseID.String()))
	defer func() { done(err) }()

	if err := s.validator.ValidateRequestedBy(rc.RequestedBy); err != nil {
		return nil, err
	}
	if courseID.IsNil() {
		return nil, validationErr("course id is required")
	}
	if batchID.IsNil() {
		batchID = id.BatchID(uuid.NewString())
	}
	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	key := models.BatchKey{CourseID: courseID, BatchID: batchID}

	_, err = s.batches.GetBatch(ctx, key)
	switch {
	case err == nil:
		return nil, dErrors.New(dErrors.CodeConflict, "batch already exists")
	case !isNotFound(err):
		return nil, storeErr(err, "read batch")
	}

	attrs.CreatedBy = rc.RequestedBy.String()
	attrs.CreatedDate = requestcontext.Now(ctx)
	if err := s.batches.UpsertBatch(ctx, key, attrs); err != nil {
		return nil, storeErr(err, "create batch")
	}
	s.logger.InfoContext(ctx, "batch created",
		"request_id", requestcontext.RequestID(ctx),
		"course_id", courseID,
		"batch_id", batchID,
		"created_by", rc.RequestedBy,
	)
	return s.readView(ctx, key)
}

// UpdateBatch replaces the scalar attributes of an existing batch. Participants,
// certificate templates and the creation fields are left as stored.
func (s *Service) UpdateBatch(ctx context.Context, key models.BatchKey, attrs models.BatchAttributes) (batch *models.CourseBatch, err error) {
	ctx, done := s.startOp(ctx, "update_batch", attribute.String("batch_id", key.BatchID.String()))
	defer func() { done(err) }()

	existing, err := s.loadBatch(ctx, key)
	if err != nil {
		return nil, err
	}
	attrs.CreatedBy = existing.CreatedBy
	attrs.CreatedDate = existing.CreatedDate
	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	if err := s.batches.UpsertBatch(ctx, key, attrs); err != nil {
		return nil, storeErr(err, "update batch")
	}
	return s.readView(ctx, key)
}

// GetBatch returns the batch without its participant list.
func (s *Service) GetBatch(ctx context.Context, key models.BatchKey) (*models.CourseBatch, error) {
	return s.readView(ctx, key)
}

func (s *Service) DeleteBatch(ctx context.Context, key models.BatchKey) (err error) {
	ctx, done := s.startOp(ctx, "delete_batch", attribute.String("batch_id", key.BatchID.String()))
	defer func() { done(err) }()

	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.batches.DeleteBatch(ctx, key); err != nil {
		if isNotFound(err) {
			return dErrors.New(dErrors.CodeNotFound, "batch not found")
		}
		return storeErr(err, "delete batch")
	}
	s.logger.InfoContext(ctx, "batch deleted",
		"request_id", requestcontext.RequestID(ctx),
		"course_id", key.CourseID,
		"batch_id", key.BatchID,
	)
	return nil
}

func (s *Service) readView(ctx context.Context, key models.BatchKey) (*models.CourseBatch, error) {
	b, err := s.loadBatch(ctx, key)
	if err != nil {
		return nil, err
	}
	view := b.ReadView()
	return &view, nil
}

func (s *Service) loadBatch(ctx context.Context, key models.BatchKey) (*models.CourseBatch, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	b, err := s.batches.GetBatch(ctx, key)
	if err != nil {
		if isNotFound(err) {
			return nil, dErrors.New(dErrors.CodeNotFound, "batch not found")
		}
		return nil, storeErr(err, "read batch")
	}
	return b, nil
}

func validateKey(key models.BatchKey) error {
	if key.CourseID.IsNil() {
		return validationErr("course id is required")
	}
	if key.BatchID.IsNil() {
		return validationErr("batch id is required")
	}
	return nil
}

func validationErr(msg string) error {
	return dErrors.New(dErrors.CodeValidation, msg)
}
