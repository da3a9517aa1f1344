package handler

import (
	"strings"
	"time"

	"coursebatch/internal/enrollment/models"
	id "coursebatch/pkg/domain"
	dErrors "coursebatch/pkg/domain-errors"
	pkgstrings "coursebatch/pkg/platform/strings"
)

// CourseEnrolRequest accepts collectionId as an alias of courseId.
type CourseEnrolRequest struct {
	CourseID     string `json:"courseId"`
	CollectionID string `json:"collectionId"`
	BatchID      string `json:"batchId" validate:"required"`
}

func (r *CourseEnrolRequest) Validate() error {
	r.CourseID = firstNonBlank(r.CourseID, r.CollectionID)
	r.BatchID = strings.TrimSpace(r.BatchID)
	if r.CourseID == "" {
		return dErrors.New(dErrors.CodeValidation, "courseId or collectionId is required")
	}
	return nil
}

func (r *CourseEnrolRequest) ids() (id.CourseID, id.BatchID) {
	return id.CourseID(r.CourseID), id.BatchID(r.BatchID)
}

type AdminCourseEnrolRequest struct {
	UserID string `json:"userId" validate:"required"`
	CourseEnrolRequest
}

func (r *AdminCourseEnrolRequest) Validate() error {
	userID, err := parseUserID(r.UserID)
	if err != nil {
		return err
	}
	r.UserID = userID
	return r.CourseEnrolRequest.Validate()
}

// ProgramEnrolRequest accepts collectionId as an alias of programId.
type ProgramEnrolRequest struct {
	ProgramID    string `json:"programId"`
	CollectionID string `json:"collectionId"`
}

func (r *ProgramEnrolRequest) Validate() error {
	r.ProgramID = firstNonBlank(r.ProgramID, r.CollectionID)
	if r.ProgramID == "" {
		return dErrors.New(dErrors.CodeValidation, "programId or collectionId is required")
	}
	return nil
}

type AdminProgramEnrolRequest struct {
	UserID string `json:"userId" validate:"required"`
	ProgramEnrolRequest
}

func (r *AdminProgramEnrolRequest) Validate() error {
	userID, err := parseUserID(r.UserID)
	if err != nil {
		return err
	}
	r.UserID = userID
	return r.ProgramEnrolRequest.Validate()
}

// BulkProgramEnrolRequest keeps blank user ids so they are reported by
// position.
type BulkProgramEnrolRequest struct {
	ProgramEnrolRequest
	UserIDs []string `json:"userIds" validate:"required,min=1,max=1000"`
}

type ListEnrolRequest struct {
	UserID       string   `json:"userId" validate:"required"`
	Fields       []string `json:"fields"`
	BatchDetails []string `json:"batchDetails"`
	Cache        *bool    `json:"cache"`
	Version      string   `json:"version" validate:"omitempty,oneof=v1 v2"`
}

func (r *ListEnrolRequest) Validate() error {
	r.UserID = strings.TrimSpace(r.UserID)
	r.Fields = pkgstrings.DedupeAndTrim(r.Fields)
	r.BatchDetails = pkgstrings.DedupeAndTrim(r.BatchDetails)
	return nil
}

type ParticipantsRequest struct {
	CourseID     string `json:"courseId"`
	CollectionID string `json:"collectionId"`
	BatchID      string `json:"batchId"`
	FixedBatchID string `json:"fixedBatchId"`
}

func (r *ParticipantsRequest) Validate() error {
	r.CourseID = firstNonBlank(r.CourseID, r.CollectionID)
	if r.CourseID == "" {
		return dErrors.New(dErrors.CodeValidation, "courseId or collectionId is required")
	}
	return nil
}

func (r *ParticipantsRequest) toModel() models.ParticipantsRequest {
	return models.ParticipantsRequest{CourseID: r.CourseID, BatchID: r.BatchID, FixedBatchID: r.FixedBatchID}
}

// BatchRequest carries batch attributes. Dates are yyyy-MM-dd or RFC 3339.
type BatchRequest struct {
	CourseID          string `json:"courseId"`
	BatchID           string `json:"batchId"`
	Name              string `json:"name" validate:"required"`
	Description       string `json:"description"`
	EnrollmentType    string `json:"enrollmentType" validate:"required,oneof=open invite-only"`
	Status            int    `json:"status" validate:"gte=0,lte=2"`
	StartDate         string `json:"startDate" validate:"required"`
	EndDate           string `json:"endDate"`
	EnrollmentEndDate string `json:"enrollmentEndDate"`
	MaxParticipants   int    `json:"maxParticipants" validate:"gte=0"`
}

func (r *BatchRequest) Attributes() (models.BatchAttributes, error) {
	start, err := parseDate("startDate", r.StartDate)
	if err != nil {
		return models.BatchAttributes{}, err
	}
	end, err := parseOptionalDate("endDate", r.EndDate)
	if err != nil {
		return models.BatchAttributes{}, err
	}
	enrollEnd, err := parseOptionalDate("enrollmentEndDate", r.EnrollmentEndDate)
	if err != nil {
		return models.BatchAttributes{}, err
	}
	attrs := models.BatchAttributes{
		Name:              strings.TrimSpace(r.Name),
		Description:       r.Description,
		EnrollmentType:    models.EnrollmentType(r.EnrollmentType),
		Status:            models.BatchStatus(r.Status),
		StartDate:         start,
		EndDate:           end,
		EnrollmentEndDate: enrollEnd,
		MaxParticipants:   r.MaxParticipants,
	}
	return attrs, attrs.Validate()
}

type AddTemplateRequest struct {
	CourseID   string                     `json:"courseId" validate:"required"`
	BatchID    string                     `json:"batchId" validate:"required"`
	TemplateID string                     `json:"templateId" validate:"required"`
	Template   models.CertificateTemplate `json:"template"`
}

type RemoveTemplateRequest struct {
	CourseID   string `json:"courseId" validate:"required"`
	BatchID    string `json:"batchId" validate:"required"`
	TemplateID string `json:"templateId" validate:"required"`
}

// ReconcileRequest targets one batch. An empty body, or {} without ids,
// reconciles every batch.
type ReconcileRequest struct {
	CourseID string `json:"courseId"`
	BatchID  string `json:"batchId" validate:"required_with=CourseID"`
}

// parseUserID applies the same id rules the bulk route applies per user.
func parseUserID(raw string) (string, error) {
	userID, err := id.ParseUserID(raw)
	if err != nil {
		return "", dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}
	return userID.String(), nil
}

func batchKey(courseID, batchID string) models.BatchKey {
	return models.BatchKey{
		CourseID: id.CourseID(strings.TrimSpace(courseID)),
		BatchID:  id.BatchID(strings.TrimSpace(batchID)),
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}

func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, field+" must be yyyy-MM-dd or RFC 3339")
	}
	return t, nil
}

func parseOptionalDate(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := parseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
