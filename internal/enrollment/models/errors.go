package models

import (
	"fmt"
	"strings"

	dErrors "coursebatch/pkg/domain-errors"
)

// UserFailure is one member's validation failure in a bulk call. Index is the
// position of the user in the request.
type UserFailure struct {
	Index   int          `json:"index"`
	UserID  string       `json:"userId"`
	Code    dErrors.Code `json:"code"`
	Message string       `json:"message"`
}

// BulkValidationError rejects a whole bulk call. Nothing has been written when
// it is returned.
type BulkValidationError struct {
	Failures []UserFailure
}

func (e *BulkValidationError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("user[%d] %q: %s", f.Index, f.UserID, f.Message))
	}
	return "bulk validation failed: " + strings.Join(parts, "; ")
}

func (e *BulkValidationError) Unwrap() error {
	return dErrors.New(dErrors.CodeBulkValidation,
		fmt.Sprintf("%d of the requested users failed validation", len(e.Failures)))
}

func (e *BulkValidationError) ErrorDetails() map[string]any {
	return map[string]any{"failures": e.Failures}
}

// Steps of the two-write enrollment mutation.
const (
	StepUpsertEnrollment  = "upsert_enrollment"
	StepAddParticipant    = "add_participant"
	StepRemoveParticipant = "remove_participant"
)

// PartialFailureError reports that the enrollment row was written but the batch
// participant set was not. The two must be reconciled.
type PartialFailureError struct {
	Step      string
	Completed []string
	Key       BatchKey
	UserID    string
	Err       error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("partial failure at %s for user %s in %s: %v", e.Step, e.UserID, e.Key, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return dErrors.Wrap(e.Err, dErrors.CodePartialFailure,
		fmt.Sprintf("enrollment recorded but %s failed; participants will be reconciled", e.Step))
}

func (e *PartialFailureError) ErrorDetails() map[string]any {
	return map[string]any{
		"failed_step":     e.Step,
		"completed_steps": e.Completed,
	}
}
