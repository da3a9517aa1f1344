package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"coursebatch/internal/enrollment/events"
	"coursebatch/internal/enrollment/models"
	"coursebatch/pkg/requestcontext"
)

// Reconcile makes the batch participant set equal to the set of users with an
// active enrollment row. It repairs the drift left by partial failures and is
// safe to run repeatedly.
func (s *Service) Reconcile(ctx context.Context, key models.BatchKey) (report *models.ReconcileReport, err error) {
	ctx, done := s.startOp(ctx, "reconcile", attribute.String("batch_id", key.BatchID.String()))
	defer func() { done(err) }()

	b, err := s.loadBatch(ctx, key)
	if err != nil {
		return nil, err
	}
	rows, err := s.enrollments.ListBatchEnrollments(ctx, key.BatchID)
	if err != nil {
		return nil, storeErr(err, "list batch enrollments")
	}

	active := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row.Active && row.CourseID == key.CourseID {
			active[row.UserID.String()] = true
		}
	}
	present := make(map[string]bool, len(b.Participants))
	for _, p := range b.Participants {
		present[p] = true
	}

	report = &models.ReconcileReport{BatchKey: key}
	for user := range active {
		if !present[user] {
			report.Added = append(report.Added, user)
		}
	}
	for user := range present {
		if !active[user] {
			report.Removed = append(report.Removed, user)
		}
	}
	slices.Sort(report.Added)
	slices.Sort(report.Removed)

	for _, user := range report.Added {
		if err := s.batches.SetAdd(ctx, key, models.ColumnParticipants, user); err != nil {
			return nil, storeErr(err, "add participant")
		}
	}
	for _, user := range report.Removed {
		if err := s.batches.SetRemove(ctx, key, models.ColumnParticipants, user); err != nil {
			return nil, storeErr(err, "remove participant")
		}
	}

	if report.Changed() {
		if s.metrics != nil {
			s.metrics.AddReconciled(len(report.Added) + len(report.Removed))
		}
		s.logger.InfoContext(ctx, "participants reconciled",
			"request_id", requestcontext.RequestID(ctx),
			"course_id", key.CourseID,
			"batch_id", key.BatchID,
			"added", len(report.Added),
			"removed", len(report.Removed),
		)
		s.publish(ctx, events.Event{
			Type:     events.TypeParticipantsReconciled,
			CourseID: key.CourseID.String(),
			BatchID:  key.BatchID.String(),
			Added:    report.Added,
			Removed:  report.Removed,
		})
	}
	return report, nil
}

// ReconcileAll reconciles every batch and returns the reports of those that
// changed. A failing batch does not stop the pass; its error is joined into
// the returned error.
func (s *Service) ReconcileAll(ctx context.Context) ([]models.ReconcileReport, error) {
	keys, err := s.batches.ListBatchKeys(ctx)
	if err != nil {
		return nil, storeErr(err, "list batches")
	}
	var (
		changed []models.ReconcileReport
		errs    []error
	)
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		report, err := s.Reconcile(ctx, key)
		if err != nil {
			errs = append(errs, fmt.Errorf("reconcile %s: %w", key, err))
			continue
		}
		if report.Changed() {
			changed = append(changed, *report)
		}
	}
	return changed, errors.Join(errs...)
}
