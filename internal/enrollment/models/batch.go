package models

import (
	"slices"
	"strings"
	"time"

	id "coursebatch/pkg/domain"
	dErrors "coursebatch/pkg/domain-errors"
)

// EnrollmentType controls who may self-enroll in a batch.
type EnrollmentType string

const (
	EnrollmentTypeOpen       EnrollmentType = "open"
	EnrollmentTypeInviteOnly EnrollmentType = "invite-only"
)

func ParseEnrollmentType(s string) (EnrollmentType, error) {
	switch EnrollmentType(strings.ToLower(strings.TrimSpace(s))) {
	case EnrollmentTypeOpen:
		return EnrollmentTypeOpen, nil
	case EnrollmentTypeInviteOnly, "invite_only", "inviteonly":
		return EnrollmentTypeInviteOnly, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "enrollment type must be open or invite-only")
}

// BatchStatus is the lifecycle state of a batch. Values match the stored
// integers.
type BatchStatus int

const (
	BatchStatusNotStarted BatchStatus = 0
	BatchStatusInProgress BatchStatus = 1
	BatchStatusCompleted  BatchStatus = 2
)

func (s BatchStatus) IsValid() bool {
	return s >= BatchStatusNotStarted && s <= BatchStatusCompleted
}

func (s BatchStatus) String() string {
	switch s {
	case BatchStatusNotStarted:
		return "NOT_STARTED"
	case BatchStatusInProgress:
		return "IN_PROGRESS"
	case BatchStatusCompleted:
		return "COMPLETED"
	}
	return "UNKNOWN"
}

// BatchKey is the immutable composite key of a batch row.
type BatchKey struct {
	CourseID id.CourseID `json:"courseId"`
	BatchID  id.BatchID  `json:"batchId"`
}

func (k BatchKey) String() string {
	return k.CourseID.String() + "/" + k.BatchID.String()
}

// MapColumn names a map-valued batch column that supports atomic entry add and
// remove.
type MapColumn string

// SetColumn names a set-valued batch column that supports atomic member add and
// remove.
type SetColumn string

const (
	ColumnCertTemplates MapColumn = "cert_templates"
	ColumnParticipants  SetColumn = "participants"
)

// BatchAttributes are the scalar columns of a batch. Writing them never touches
// the participants or certificate template collections.
type BatchAttributes struct {
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	EnrollmentType    EnrollmentType `json:"enrollmentType"`
	Status            BatchStatus    `json:"status"`
	StartDate         time.Time      `json:"startDate"`
	EndDate           *time.Time     `json:"endDate,omitempty"`
	EnrollmentEndDate *time.Time     `json:"enrollmentEndDate,omitempty"`
	CreatedBy         string         `json:"createdBy,omitempty"`
	CreatedDate       time.Time      `json:"createdDate"`
	MaxParticipants   int            `json:"maxParticipants,omitempty"`
}

// Validate checks the date window and enum values.
func (a BatchAttributes) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "batch name is required")
	}
	if a.StartDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "batch start date is required")
	}
	if a.EnrollmentType != EnrollmentTypeOpen && a.EnrollmentType != EnrollmentTypeInviteOnly {
		return dErrors.New(dErrors.CodeValidation, "enrollment type must be open or invite-only")
	}
	if !a.Status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "batch status is invalid")
	}
	if a.EndDate != nil && a.EndDate.Before(a.StartDate) {
		return dErrors.New(dErrors.CodeValidation, "batch end date must not be before start date")
	}
	if a.EnrollmentEndDate != nil {
		if a.EnrollmentEndDate.Before(a.StartDate) {
			return dErrors.New(dErrors.CodeValidation, "enrollment end date must not be before start date")
		}
		if a.EndDate != nil && a.EnrollmentEndDate.After(*a.EndDate) {
			return dErrors.New(dErrors.CodeValidation, "enrollment end date must not be after batch end date")
		}
	}
	if a.MaxParticipants < 0 {
		return dErrors.New(dErrors.CodeValidation, "max participants must not be negative")
	}
	return nil
}

// CourseBatch is one offering of a course or program.
//
// Participants mirrors the active enrollment rows for the batch. The two are
// written separately and may diverge transiently; Reconcile repairs them.
type CourseBatch struct {
	BatchKey
	BatchAttributes
	Participants         []string                       `json:"participants,omitempty"`
	CertificateTemplates map[string]CertificateTemplate `json:"certTemplates,omitempty"`
}

func (b *CourseBatch) IsInviteOnly() bool {
	return b.EnrollmentType == EnrollmentTypeInviteOnly
}

func (b *CourseBatch) HasParticipant(userID id.UserID) bool {
	return slices.Contains(b.Participants, userID.String())
}

// ClosedReason returns why enrollment is closed at now, or "" when open.
func (b *CourseBatch) ClosedReason(now time.Time) string {
	switch {
	case b.Status == BatchStatusCompleted:
		return "batch is completed"
	case b.EndDate != nil && now.After(*b.EndDate):
		return "batch has ended"
	case b.EnrollmentEndDate != nil && now.After(*b.EnrollmentEndDate):
		return "enrollment period for batch has ended"
	}
	return ""
}

// SeatsLeft reports the remaining capacity, or -1 when the batch is unlimited.
func (b *CourseBatch) SeatsLeft() int {
	if b.MaxParticipants <= 0 {
		return -1
	}
	return max(b.MaxParticipants-len(b.Participants), 0)
}

// ReadView returns a copy without the participant list, as served by the batch
// read API.
func (b *CourseBatch) ReadView() CourseBatch {
	view := *b
	view.Participants = nil
	return view
}

// CertificateTemplate describes one certificate that can be issued for a batch.
type CertificateTemplate struct {
	Identifier      string           `json:"identifier"`
	Name            string           `json:"name"`
	Criteria        map[string]any   `json:"criteria,omitempty"`
	Issuer          map[string]any   `json:"issuer,omitempty"`
	SignatoryList   []map[string]any `json:"signatoryList,omitempty"`
	PreviewURL      string           `json:"previewUrl,omitempty"`
	AdditionalProps map[string]any   `json:"additionalProps,omitempty"`
}

func (t CertificateTemplate) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "certificate template name is required")
	}
	return nil
}
