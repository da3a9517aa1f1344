package models

import (
	id "coursebatch/pkg/domain"
)

// RequestContext carries caller identity and list parameters for one call. It
// is passed by value and never shared between calls.
type RequestContext struct {
	RequestedBy  id.UserID
	RequestedFor id.UserID
	Fields       []string
	BatchDetails []string
	UseCache     bool
	Version      id.APIVersion
	RequestID    string
}

func NewRequestContext(requestedBy, requestedFor id.UserID) RequestContext {
	return RequestContext{
		RequestedBy:  requestedBy,
		RequestedFor: requestedFor,
		UseCache:     true,
		Version:      id.DefaultVersion(),
	}
}

// TargetUser is the user the call acts on: requestedFor when set, otherwise the
// caller.
func (rc RequestContext) TargetUser() id.UserID {
	if !rc.RequestedFor.IsNil() {
		return rc.RequestedFor
	}
	return rc.RequestedBy
}

// CourseEnrollmentRequest is the resolved input of a course enroll or unenroll.
type CourseEnrollmentRequest struct {
	UserID   id.UserID
	CourseID id.CourseID
	BatchID  id.BatchID
	IsAdmin  bool
}

func (r CourseEnrollmentRequest) Key() BatchKey {
	return BatchKey{CourseID: r.CourseID, BatchID: r.BatchID}
}

type ProgramEnrollmentRequest struct {
	UserID    id.UserID
	ProgramID id.ProgramID
	IsAdmin   bool
}

// BulkProgramEnrollmentRequest keeps user ids raw so blank entries are reported
// per position instead of failing the whole parse.
type BulkProgramEnrollmentRequest struct {
	ProgramID id.ProgramID
	UserIDs   []string
	IsAdmin   bool
}

// ParticipantsRequest locates a batch either directly or through a fixed batch
// id shared by every course.
type ParticipantsRequest struct {
	CourseID     string
	BatchID      string
	FixedBatchID string
}
