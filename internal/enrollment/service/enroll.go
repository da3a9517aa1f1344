package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"coursebatch/internal/enrollment/events"
	"coursebatch/internal/enrollment/models"
	"coursebatch/internal/enrollment/validator"
	id "coursebatch/pkg/domain"
	"coursebatch/pkg/requestcontext"
)

// Enroll adds the target user of rc to a batch. The enrollment row is written
// first and the batch participant set second. When the second write fails the
// row stays active and a *models.PartialFailureError names the failed step.
func (s *Service) Enroll(ctx context.Context, rc models.RequestContext, courseID id.CourseID, batchID id.BatchID, isAdmin bool) (result *models.EnrollmentResult, err error) {
	ctx = withRequestID(ctx, rc)
	ctx, done := s.startOp(ctx, "enroll",
		attribute.String("course_id", courseID.String()),
		attribute.String("batch_id", batchID.String()),
	)
	defer func() { done(err) }()

	target, err := s.validator.ValidateEnrollCourse(ctx, models.CourseEnrollmentRequest{
		UserID:   rc.TargetUser(),
		CourseID: courseID,
		BatchID:  batchID,
		IsAdmin:  isAdmin,
	})
	if err != nil {
		return nil, err
	}
	return s.applyEnroll(ctx, rc.TargetUser(), *target)
}

// Unenroll deactivates the target user's row and removes them from the batch
// participant set. The row is kept.
func (s *Service) Unenroll(ctx context.Context, rc models.RequestContext, courseID id.CourseID, batchID id.BatchID, isAdmin bool) (result *models.UnenrollResult, err error) {
	ctx = withRequestID(ctx, rc)
	ctx, done := s.startOp(ctx, "unenroll",
		attribute.String("course_id", courseID.String()),
		attribute.String("batch_id", batchID.String()),
	)
	defer func() { done(err) }()

	userID := rc.TargetUser()
	target, err := s.validator.ValidateUnenrollCourse(ctx, models.CourseEnrollmentRequest{
		UserID:   userID,
		CourseID: courseID,
		BatchID:  batchID,
		IsAdmin:  isAdmin,
	})
	if err != nil {
		return nil, err
	}
	key := target.Key()

	if err := s.enrollments.UpsertEnrollment(ctx, models.EnrollmentWrite{
		BatchID:  key.BatchID,
		UserID:   userID,
		CourseID: key.CourseID,
		Active:   false,
	}); err != nil {
		return nil, storeErr(err, "deactivate enrollment")
	}
	if err := s.batches.SetRemove(ctx, key, models.ColumnParticipants, userID.String()); err != nil {
		return nil, s.partialFailure(ctx, models.StepRemoveParticipant, key, userID, err)
	}

	s.logger.InfoContext(ctx, "user unenrolled",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", userID,
		"course_id", key.CourseID,
		"batch_id", key.BatchID,
	)
	s.publish(ctx, events.Event{
		Type:     events.TypeUnenrolled,
		CourseID: key.CourseID.String(),
		BatchID:  key.BatchID.String(),
		UserID:   userID.String(),
	})
	return &models.UnenrollResult{UserID: userID, CourseID: key.CourseID, BatchID: key.BatchID}, nil
}

// EnrollProgram enrolls the target user in every child batch of a program.
// Batches the user is already active in are reported as skipped.
func (s *Service) EnrollProgram(ctx context.Context, rc models.RequestContext, programID id.ProgramID, isAdmin bool) (result *models.ProgramEnrollmentResult, err error) {
	ctx = withRequestID(ctx, rc)
	ctx, done := s.startOp(ctx, "enroll_program", attribute.String("program_id", programID.String()))
	defer func() { done(err) }()

	userID := rc.TargetUser()
	plan, err := s.validator.ValidateEnrollProgram(ctx, models.ProgramEnrollmentRequest{
		UserID:    userID,
		ProgramID: programID,
		IsAdmin:   isAdmin,
	})
	if err != nil {
		return nil, err
	}
	enrolled, err := s.applyPlan(ctx, userID, plan.Targets)
	if err != nil {
		return nil, err
	}
	return &models.ProgramEnrollmentResult{
		UserID:    userID,
		ProgramID: programID,
		Enrolled:  enrolled,
		Skipped:   plan.Skipped,
	}, nil
}

// BulkEnrollProgram enrolls many users into a program. Every user is validated
// before anything is written; one failure rejects the call with a
// *models.BulkValidationError. Users already active everywhere are no-ops. A
// storage failure while writing one user is reported in that user's outcome
// and the remaining users are still written.
func (s *Service) BulkEnrollProgram(ctx context.Context, rc models.RequestContext, programID id.ProgramID, userIDs []string, isAdmin bool) (result *models.BulkEnrollmentResult, err error) {
	ctx = withRequestID(ctx, rc)
	ctx, done := s.startOp(ctx, "bulk_enroll_program",
		attribute.String("program_id", programID.String()),
		attribute.Int("users", len(userIDs)),
	)
	defer func() { done(err) }()

	if err := s.validator.ValidateRequestedBy(rc.RequestedBy); err != nil {
		return nil, err
	}
	plans, err := s.validator.BulkEnrollValidationsForProgram(ctx, models.BulkProgramEnrollmentRequest{
		ProgramID: programID,
		UserIDs:   userIDs,
		IsAdmin:   isAdmin,
	})
	if err != nil {
		return nil, err
	}

	result = &models.BulkEnrollmentResult{ProgramID: programID, Results: make([]models.UserOutcome, 0, len(plans))}
	for _, plan := range plans {
		outcome := models.UserOutcome{UserID: plan.UserID.String()}
		if plan.Noop() {
			outcome.Outcome = models.BulkOutcomeNoop
			result.Results = append(result.Results, outcome)
			continue
		}
		enrolled, applyErr := s.applyPlan(ctx, plan.UserID, plan.Targets)
		outcome.Batches = enrolled
		if applyErr != nil {
			outcome.Outcome = models.BulkOutcomeFailed
			outcome.Error = applyErr.Error()
			s.logger.ErrorContext(ctx, "bulk enrollment write failed",
				"request_id", requestcontext.RequestID(ctx),
				"user_id", plan.UserID,
				"program_id", programID,
				"error", applyErr,
			)
		} else {
			outcome.Outcome = models.BulkOutcomeEnrolled
		}
		result.Results = append(result.Results, outcome)
	}
	return result, nil
}

// applyPlan writes targets in order and stops at the first failure. The
// results written before the failure are returned with the error.
func (s *Service) applyPlan(ctx context.Context, userID id.UserID, targets []validator.Target) ([]models.EnrollmentResult, error) {
	enrolled := make([]models.EnrollmentResult, 0, len(targets))
	for _, target := range targets {
		r, err := s.applyEnroll(ctx, userID, target)
		if err != nil {
			return enrolled, err
		}
		enrolled = append(enrolled, *r)
	}
	return enrolled, nil
}

func (s *Service) applyEnroll(ctx context.Context, userID id.UserID, target validator.Target) (*models.EnrollmentResult, error) {
	key := target.Key()
	now := requestcontext.Now(ctx)

	if err := s.enrollments.UpsertEnrollment(ctx, models.EnrollmentWrite{
		BatchID:    key.BatchID,
		UserID:     userID,
		CourseID:   key.CourseID,
		Active:     true,
		EnrollDate: now,
	}); err != nil {
		return nil, storeErr(err, "write enrollment")
	}
	if err := s.batches.SetAdd(ctx, key, models.ColumnParticipants, userID.String()); err != nil {
		return nil, s.partialFailure(ctx, models.StepAddParticipant, key, userID, err)
	}

	reenrolled := target.Existing != nil
	s.logger.InfoContext(ctx, "user enrolled",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", userID,
		"course_id", key.CourseID,
		"batch_id", key.BatchID,
		"reenrolled", reenrolled,
	)
	s.publish(ctx, events.Event{
		Type:       events.TypeEnrolled,
		CourseID:   key.CourseID.String(),
		BatchID:    key.BatchID.String(),
		UserID:     userID.String(),
		OccurredAt: now,
	})
	return &models.EnrollmentResult{
		UserID:     userID,
		CourseID:   key.CourseID,
		BatchID:    key.BatchID,
		EnrollDate: now,
		Reenrolled: reenrolled,
	}, nil
}

func (s *Service) partialFailure(ctx context.Context, step string, key models.BatchKey, userID id.UserID, cause error) error {
	if s.metrics != nil {
		s.metrics.IncrementPartialFailure(step)
	}
	s.logger.ErrorContext(ctx, "enrollment row written but participant set update failed",
		"request_id", requestcontext.RequestID(ctx),
		"step", step,
		"user_id", userID,
		"batch_id", key.BatchID,
		"error", cause,
	)
	return &models.PartialFailureError{
		Step:      step,
		Completed: []string{models.StepUpsertEnrollment},
		Key:       key,
		UserID:    userID.String(),
		Err:       storeErr(cause, "update participants"),
	}
}
