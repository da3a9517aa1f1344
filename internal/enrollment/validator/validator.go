// Package validator decides whether an enrollment change may proceed. It reads
// batches, enrollment rows and the program hierarchy but never writes.
package validator

import (
	"context"
	"errors"
	"strings"

	"coursebatch/internal/content"
	"coursebatch/internal/enrollment/models"
	id "coursebatch/pkg/domain"
	dErrors "coursebatch/pkg/domain-errors"
	"coursebatch/pkg/platform/sentinel"
	"coursebatch/pkg/requestcontext"
)

type BatchReader interface {
	GetBatch(ctx context.Context, key models.BatchKey) (*models.CourseBatch, error)
}

type EnrollmentReader interface {
	GetEnrollment(ctx context.Context, batchID id.BatchID, userID id.UserID) (*models.Enrollment, error)
}

type HierarchyResolver interface {
	GetProgramChildren(ctx context.Context, programID string) ([]content.Node, error)
}

// Policy holds the configurable enrollment rules.
type Policy struct {
	AllowUnenrollAfterCompletion bool
}

// Target is a batch that passed validation together with the user's current row
// in it, if any.
type Target struct {
	Batch    *models.CourseBatch
	Existing *models.Enrollment
}

func (t Target) Key() models.BatchKey {
	return t.Batch.BatchKey
}

// ProgramPlan lists the child batches a program enrollment will write and the
// ones skipped because the user is already active in them.
type ProgramPlan struct {
	Targets []Target
	Skipped []models.BatchKey
}

// UserPlan is the validated plan for one member of a bulk enrollment.
type UserPlan struct {
	Index  int
	UserID id.UserID
	ProgramPlan
}

func (p UserPlan) Noop() bool {
	return len(p.Targets) == 0
}

type Validator struct {
	batches     BatchReader
	enrollments EnrollmentReader
	hierarchy   HierarchyResolver
	policy      Policy
}

func New(batches BatchReader, enrollments EnrollmentReader, hierarchy HierarchyResolver, policy Policy) *Validator {
	return &Validator{
		batches:     batches,
		enrollments: enrollments,
		hierarchy:   hierarchy,
		policy:      policy,
	}
}

// ValidateRequestedBy fails when no user identity could be resolved.
func (v *Validator) ValidateRequestedBy(userID id.UserID) error {
	if strings.TrimSpace(userID.String()) == "" {
		return dErrors.New(dErrors.CodeIdentity, "user id is required")
	}
	return nil
}

// ValidateEnrollCourse checks, in order: identity, ids, batch existence,
// invite-only access, the enrollment window, an existing active row and
// capacity. An inactive row is allowed and will be re-activated.
func (v *Validator) ValidateEnrollCourse(ctx context.Context, req models.CourseEnrollmentRequest) (*Target, error) {
	return v.validateEnroll(ctx, req, nil)
}

// reserved counts seats already promised to earlier members of a bulk call.
func (v *Validator) validateEnroll(ctx context.Context, req models.CourseEnrollmentRequest, reserved map[models.BatchKey]int) (*Target, error) {
	if err := v.ValidateRequestedBy(req.UserID); err != nil {
		return nil, err
	}
	batch, err := v.loadBatch(ctx, req.Key())
	if err != nil {
		return nil, err
	}
	if batch.IsInviteOnly() && !req.IsAdmin {
		return nil, dErrors.New(dErrors.CodeAuthorization, "batch is invite-only; enrollment requires an administrator")
	}
	if reason := batch.ClosedReason(requestcontext.Now(ctx)); reason != "" {
		return nil, dErrors.New(dErrors.CodeEnrollmentClosed, reason)
	}

	existing, err := v.loadEnrollment(ctx, req.BatchID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Active {
		return nil, dErrors.New(dErrors.CodeAlreadyEnrolled, "user is already enrolled in batch")
	}

	if seats := batch.SeatsLeft(); seats >= 0 && !batch.HasParticipant(req.UserID) {
		if seats-reserved[batch.BatchKey] <= 0 {
			return nil, dErrors.New(dErrors.CodeEnrollmentClosed, "batch is full")
		}
	}
	return &Target{Batch: batch, Existing: existing}, nil
}

// ValidateUnenrollCourse requires an active row and, unless policy allows it,
// a batch that is not completed.
func (v *Validator) ValidateUnenrollCourse(ctx context.Context, req models.CourseEnrollmentRequest) (*Target, error) {
	if err := v.ValidateRequestedBy(req.UserID); err != nil {
		return nil, err
	}
	batch, err := v.loadBatch(ctx, req.Key())
	if err != nil {
		return nil, err
	}
	existing, err := v.loadEnrollment(ctx, req.BatchID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing == nil || !existing.Active {
		return nil, dErrors.New(dErrors.CodeNotEnrolled, "user is not enrolled in batch")
	}
	if batch.Status == models.BatchStatusCompleted && !v.policy.AllowUnenrollAfterCompletion {
		return nil, dErrors.New(dErrors.CodeValidation, "cannot unenroll from a completed batch")
	}
	return &Target{Batch: batch, Existing: existing}, nil
}

// ValidateEnrollProgram validates the user against every child batch of the
// program. Batches the user is already active in are skipped; when every batch
// is skipped the call fails with AlreadyEnrolled.
func (v *Validator) ValidateEnrollProgram(ctx context.Context, req models.ProgramEnrollmentRequest) (*ProgramPlan, error) {
	if err := v.ValidateRequestedBy(req.UserID); err != nil {
		return nil, err
	}
	keys, err := v.ProgramBatches(ctx, req.ProgramID)
	if err != nil {
		return nil, err
	}
	plan, err := v.planUser(ctx, req.UserID, keys, req.IsAdmin, nil)
	if err != nil {
		return nil, err
	}
	if len(plan.Targets) == 0 {
		return nil, dErrors.New(dErrors.CodeAlreadyEnrolled, "user is already enrolled in every batch of the program")
	}
	return plan, nil
}

// BulkEnrollValidationsForProgram validates every user before anything is
// written. Any member failure rejects the whole call with a
// *models.BulkValidationError. Members already active everywhere are planned
// as no-ops.
func (v *Validator) BulkEnrollValidationsForProgram(ctx context.Context, req models.BulkProgramEnrollmentRequest) ([]UserPlan, error) {
	if len(req.UserIDs) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "user ids are required")
	}
	keys, err := v.ProgramBatches(ctx, req.ProgramID)
	if err != nil {
		return nil, err
	}

	reserved := make(map[models.BatchKey]int)
	seen := make(map[id.UserID]bool, len(req.UserIDs))
	plans := make([]UserPlan, 0, len(req.UserIDs))
	var failures []models.UserFailure

	for i, raw := range req.UserIDs {
		userID, err := id.ParseUserID(raw)
		if err != nil {
			failures = append(failures, failure(i, raw, dErrors.New(dErrors.CodeIdentity, dErrors.MessageOf(err))))
			continue
		}
		if seen[userID] {
			failures = append(failures, failure(i, raw, dErrors.New(dErrors.CodeValidation, "duplicate user id")))
			continue
		}
		seen[userID] = true

		plan, err := v.planUser(ctx, userID, keys, req.IsAdmin, reserved)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeStore) {
				return nil, err
			}
			failures = append(failures, failure(i, raw, err))
			continue
		}
		for _, t := range plan.Targets {
			reserved[t.Key()]++
		}
		plans = append(plans, UserPlan{Index: i, UserID: userID, ProgramPlan: *plan})
	}

	if len(failures) > 0 {
		return nil, &models.BulkValidationError{Failures: failures}
	}
	return plans, nil
}

func (v *Validator) planUser(ctx context.Context, userID id.UserID, keys []models.BatchKey, isAdmin bool, reserved map[models.BatchKey]int) (*ProgramPlan, error) {
	plan := &ProgramPlan{}
	for _, key := range keys {
		target, err := v.validateEnroll(ctx, models.CourseEnrollmentRequest{
			UserID:   userID,
			CourseID: key.CourseID,
			BatchID:  key.BatchID,
			IsAdmin:  isAdmin,
		}, reserved)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeAlreadyEnrolled) {
				plan.Skipped = append(plan.Skipped, key)
				continue
			}
			return nil, err
		}
		plan.Targets = append(plan.Targets, *target)
	}
	return plan, nil
}

// ProgramBatches resolves the enrollable batches under a program. A child is
// enrollable when it is a CourseBatch node or a course node naming a batchId.
func (v *Validator) ProgramBatches(ctx context.Context, programID id.ProgramID) ([]models.BatchKey, error) {
	if programID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "program id is required")
	}
	children, err := v.hierarchy.GetProgramChildren(ctx, programID.String())
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeValidation, "program not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeStore, "resolve program children")
	}

	seen := make(map[models.BatchKey]bool)
	var keys []models.BatchKey
	for _, child := range children {
		key, ok := batchKeyOf(child)
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "program has no enrollable batches")
	}
	return keys, nil
}

func batchKeyOf(n content.Node) (models.BatchKey, bool) {
	var courseID, batchID string
	switch {
	case n.Type == content.NodeTypeCourseBatch:
		batchID = n.ID
		courseID = n.StringAttr("courseId")
		if courseID == "" {
			courseID = n.StringAttr("collectionId")
		}
	case n.StringAttr("batchId") != "":
		courseID = n.ID
		batchID = n.StringAttr("batchId")
	default:
		return models.BatchKey{}, false
	}
	c, err := id.ParseCourseID(courseID)
	if err != nil {
		return models.BatchKey{}, false
	}
	b, err := id.ParseBatchID(batchID)
	if err != nil {
		return models.BatchKey{}, false
	}
	return models.BatchKey{CourseID: c, BatchID: b}, true
}

// ValidateCourseParticipant resolves the batch a participant query targets. An
// explicit batch id wins; otherwise a fixed batch id resolves to
// "<fixedBatchId>-<courseId>".
func (v *Validator) ValidateCourseParticipant(req models.ParticipantsRequest) (models.BatchKey, error) {
	courseID, err := id.ParseCourseID(req.CourseID)
	if err != nil {
		return models.BatchKey{}, dErrors.New(dErrors.CodeValidation, "course id is required")
	}
	batch := strings.TrimSpace(req.BatchID)
	if batch == "" {
		fixed := strings.TrimSpace(req.FixedBatchID)
		if fixed == "" {
			return models.BatchKey{}, dErrors.New(dErrors.CodeValidation, "batch id or fixed batch id is required")
		}
		batch = FixedBatchID(fixed, courseID)
	}
	batchID, err := id.ParseBatchID(batch)
	if err != nil {
		return models.BatchKey{}, dErrors.New(dErrors.CodeValidation, "batch id is invalid")
	}
	return models.BatchKey{CourseID: courseID, BatchID: batchID}, nil
}

// FixedBatchID derives the batch id shared by a fixed batch across courses.
func FixedBatchID(fixedBatchID string, courseID id.CourseID) string {
	return fixedBatchID + "-" + courseID.String()
}

func (v *Validator) loadBatch(ctx context.Context, key models.BatchKey) (*models.CourseBatch, error) {
	if key.CourseID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "course id is required")
	}
	if key.BatchID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "batch id is required")
	}
	batch, err := v.batches.GetBatch(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeValidation, "invalid course batch id")
		}
		return nil, storeErr(err, "read batch")
	}
	return batch, nil
}

func (v *Validator) loadEnrollment(ctx context.Context, batchID id.BatchID, userID id.UserID) (*models.Enrollment, error) {
	e, err := v.enrollments.GetEnrollment(ctx, batchID, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, storeErr(err, "read enrollment")
	}
	return e, nil
}

func storeErr(err error, msg string) error {
	if dErrors.HasCode(err, dErrors.CodeStore) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeStore, msg)
}

func failure(index int, userID string, err error) models.UserFailure {
	return models.UserFailure{
		Index:   index,
		UserID:  userID,
		Code:    dErrors.CodeOf(err),
		Message: dErrors.MessageOf(err),
	}
}
