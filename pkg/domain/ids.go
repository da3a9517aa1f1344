// Package domain holds identifier types shared across modules. Identifiers in the
// learning platform are opaque strings minted elsewhere (user service, content
// catalog), so parsing only enforces shape, never format.
package domain

import (
	"strings"
	"unicode"

	dErrors "coursebatch/pkg/domain-errors"
)

const maxIDLength = 256

type (
	UserID    string
	CourseID  string
	BatchID   string
	ProgramID string
)

func (id UserID) String() string    { return string(id) }
func (id CourseID) String() string  { return string(id) }
func (id BatchID) String() string   { return string(id) }
func (id ProgramID) String() string { return string(id) }

func (id UserID) IsNil() bool    { return id == "" }
func (id CourseID) IsNil() bool  { return id == "" }
func (id BatchID) IsNil() bool   { return id == "" }
func (id ProgramID) IsNil() bool { return id == "" }

// ParseUserID trims and validates a user identifier.
func ParseUserID(s string) (UserID, error) {
	v, err := parseID("user id", s)
	return UserID(v), err
}

// ParseCourseID trims and validates a course or collection identifier.
func ParseCourseID(s string) (CourseID, error) {
	v, err := parseID("course id", s)
	return CourseID(v), err
}

// ParseBatchID trims and validates a batch identifier.
func ParseBatchID(s string) (BatchID, error) {
	v, err := parseID("batch id", s)
	return BatchID(v), err
}

// ParseProgramID trims and validates a program identifier.
func ParseProgramID(s string) (ProgramID, error) {
	v, err := parseID("program id", s)
	return ProgramID(v), err
}

func parseID(kind, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > maxIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, kind+" is too long")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == '\u200b' {
			return "", dErrors.New(dErrors.CodeInvalidInput, kind+" contains invalid characters")
		}
	}
	return s, nil
}
