package models

import (
	"time"

	id "coursebatch/pkg/domain"
)

// Enrollment is one user's membership row in one batch. Rows are never deleted;
// unenrolling clears Active and keeps EnrollDate.
type Enrollment struct {
	BatchID              id.BatchID  `json:"batchId"`
	UserID               id.UserID   `json:"userId"`
	CourseID             id.CourseID `json:"courseId"`
	Active               bool        `json:"active"`
	EnrollDate           time.Time   `json:"enrolledDate"`
	Progress             int         `json:"progress"`
	Status               int         `json:"status"`
	CompletionPercentage int         `json:"completionPercentage"`
}

// EnrollmentWrite is a last-writer-wins upsert of the membership columns. A zero
// EnrollDate keeps the stored date.
type EnrollmentWrite struct {
	BatchID    id.BatchID
	UserID     id.UserID
	CourseID   id.CourseID
	Active     bool
	EnrollDate time.Time
}
