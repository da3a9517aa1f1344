package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "coursebatch/pkg/domain"
	dErrors "coursebatch/pkg/domain-errors"
)

func TestTargetUser(t *testing.T) {
	assert.Equal(t, id.UserID("parent"), NewRequestContext("parent", "").TargetUser())
	assert.Equal(t, id.UserID("child"), NewRequestContext("parent", "child").TargetUser())
}

func TestNewRequestContextDefaults(t *testing.T) {
	rc := NewRequestContext("u1", "")
	assert.True(t, rc.UseCache)
	assert.Equal(t, id.DefaultVersion(), rc.Version)
}

func TestClosedReason(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name   string
		batch  CourseBatch
		closed bool
	}{
		{"open batch", CourseBatch{BatchAttributes: BatchAttributes{Status: BatchStatusInProgress, EndDate: &future}}, false},
		{"completed", CourseBatch{BatchAttributes: BatchAttributes{Status: BatchStatusCompleted}}, true},
		{"ended", CourseBatch{BatchAttributes: BatchAttributes{EndDate: &past}}, true},
		{"enrollment window over", CourseBatch{BatchAttributes: BatchAttributes{EnrollmentEndDate: &past, EndDate: &future}}, true},
		{"no dates", CourseBatch{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.closed, tt.batch.ClosedReason(now) != "")
		})
	}
}

func TestSeatsLeft(t *testing.T) {
	b := CourseBatch{Participants: []string{"a", "b"}}
	assert.Equal(t, -1, b.SeatsLeft())

	b.MaxParticipants = 3
	assert.Equal(t, 1, b.SeatsLeft())

	b.MaxParticipants = 1
	assert.Equal(t, 0, b.SeatsLeft())
}

func TestBatchAttributesValidate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	late := end.AddDate(0, 0, 1)
	early := start.AddDate(0, 0, -1)

	valid := BatchAttributes{Name: "Batch", StartDate: start, EndDate: &end, EnrollmentType: EnrollmentTypeOpen}
	require.NoError(t, valid.Validate())

	cases := map[string]func(a *BatchAttributes){
		"missing name":              func(a *BatchAttributes) { a.Name = " " },
		"missing start":             func(a *BatchAttributes) { a.StartDate = time.Time{} },
		"bad type":                  func(a *BatchAttributes) { a.EnrollmentType = "closed" },
		"bad status":                func(a *BatchAttributes) { a.Status = 7 },
		"end before start":          func(a *BatchAttributes) { a.EndDate = &early },
		"enrollment end after end":  func(a *BatchAttributes) { a.EnrollmentEndDate = &late },
		"negative max participants": func(a *BatchAttributes) { a.MaxParticipants = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			a := valid
			mutate(&a)
			err := a.Validate()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestParseEnrollmentType(t *testing.T) {
	et, err := ParseEnrollmentType(" Invite-Only ")
	require.NoError(t, err)
	assert.Equal(t, EnrollmentTypeInviteOnly, et)

	_, err = ParseEnrollmentType("private")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestTypedErrorsCarryCodes(t *testing.T) {
	bulk := &BulkValidationError{Failures: []UserFailure{{Index: 1, UserID: "", Code: dErrors.CodeIdentity, Message: "user id is required"}}}
	assert.Equal(t, dErrors.CodeBulkValidation, dErrors.CodeOf(bulk))
	assert.Contains(t, bulk.Error(), "user[1]")

	cause := errors.New("connection reset")
	partial := &PartialFailureError{Step: StepAddParticipant, Completed: []string{StepUpsertEnrollment}, Err: cause}
	assert.Equal(t, dErrors.CodePartialFailure, dErrors.CodeOf(partial))
	assert.ErrorIs(t, partial, cause)
	assert.Equal(t, StepAddParticipant, partial.ErrorDetails()["failed_step"])
}

func TestReadViewOmitsParticipants(t *testing.T) {
	b := CourseBatch{Participants: []string{"u1"}}
	view := b.ReadView()
	assert.Nil(t, view.Participants)
	assert.Equal(t, []string{"u1"}, b.Participants)
}
