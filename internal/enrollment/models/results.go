package models

import (
	"time"

	id "coursebatch/pkg/domain"
)

type EnrollmentResult struct {
	UserID     id.UserID   `json:"userId"`
	CourseID   id.CourseID `json:"courseId"`
	BatchID    id.BatchID  `json:"batchId"`
	EnrollDate time.Time   `json:"enrolledDate"`
	Reenrolled bool        `json:"reenrolled"`
}

type UnenrollResult struct {
	UserID   id.UserID   `json:"userId"`
	CourseID id.CourseID `json:"courseId"`
	BatchID  id.BatchID  `json:"batchId"`
}

// ProgramEnrollmentResult lists the child batches enrolled by a program call.
// Batches the user was already active in are listed as skipped.
type ProgramEnrollmentResult struct {
	UserID    id.UserID          `json:"userId"`
	ProgramID id.ProgramID       `json:"programId"`
	Enrolled  []EnrollmentResult `json:"enrolled"`
	Skipped   []BatchKey         `json:"skipped,omitempty"`
}

type BulkOutcome string

const (
	BulkOutcomeEnrolled BulkOutcome = "enrolled"
	BulkOutcomeNoop     BulkOutcome = "noop"
	BulkOutcomeFailed   BulkOutcome = "failed"
)

type UserOutcome struct {
	UserID  string             `json:"userId"`
	Outcome BulkOutcome        `json:"outcome"`
	Batches []EnrollmentResult `json:"batches,omitempty"`
	Error   string             `json:"error,omitempty"`
}

type BulkEnrollmentResult struct {
	ProgramID id.ProgramID  `json:"programId"`
	Results   []UserOutcome `json:"results"`
}

// EnrolledCourseView is one row of a user's enrolled course list. Content holds
// the projected course attributes; Batch holds the requested batch attributes.
type EnrolledCourseView struct {
	UserID               id.UserID      `json:"userId"`
	CourseID             id.CourseID    `json:"courseId"`
	BatchID              id.BatchID     `json:"batchId"`
	Active               bool           `json:"active"`
	EnrollDate           time.Time      `json:"enrolledDate"`
	Progress             int            `json:"progress"`
	Status               int            `json:"status"`
	CompletionPercentage int            `json:"completionPercentage"`
	Content              map[string]any `json:"content"`
	Batch                map[string]any `json:"batch,omitempty"`

	// v1 responses also flatten a few course attributes.
	CourseName     string `json:"courseName,omitempty"`
	Description    string `json:"description,omitempty"`
	LeafNodesCount int    `json:"leafNodesCount,omitempty"`
	CourseLogo     string `json:"courseLogo,omitempty"`
}

type ParticipantsResult struct {
	CourseID     id.CourseID `json:"courseId"`
	BatchID      id.BatchID  `json:"batchId"`
	Count        int         `json:"count"`
	Participants []string    `json:"participants"`
}

// ReconcileReport lists the participant set changes applied to one batch.
type ReconcileReport struct {
	BatchKey
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

func (r ReconcileReport) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}
