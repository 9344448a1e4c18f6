// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "academix/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing StudentID where ExamID is expected.
type (
	StudentID     uuid.UUID
	CourseID      uuid.UUID
	ExamID        uuid.UUID
	SubmissionID  uuid.UUID
	CertificateID uuid.UUID
)

// NewCertificateID allocates a fresh certificate identifier.
func NewCertificateID() CertificateID {
	return CertificateID(uuid.New())
}

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseStudentID(s string) (StudentID, error) {
	id, err := parseUUID(s, "student ID")
	return StudentID(id), err
}

func ParseCourseID(s string) (CourseID, error) {
	id, err := parseUUID(s, "course ID")
	return CourseID(id), err
}

func ParseExamID(s string) (ExamID, error) {
	id, err := parseUUID(s, "exam ID")
	return ExamID(id), err
}

func ParseSubmissionID(s string) (SubmissionID, error) {
	id, err := parseUUID(s, "submission ID")
	return SubmissionID(id), err
}

func ParseCertificateID(s string) (CertificateID, error) {
	id, err := parseUUID(s, "certificate ID")
	return CertificateID(id), err
}

func (id StudentID) String() string     { return uuid.UUID(id).String() }
func (id CourseID) String() string      { return uuid.UUID(id).String() }
func (id ExamID) String() string        { return uuid.UUID(id).String() }
func (id SubmissionID) String() string  { return uuid.UUID(id).String() }
func (id CertificateID) String() string { return uuid.UUID(id).String() }

func (id StudentID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id CourseID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id ExamID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id SubmissionID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id CertificateID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// Short returns the first eight characters of the textual form. It is used
// where a compact, human-readable reference is needed (placeholder content IDs).
func (id CertificateID) Short() string {
	return id.String()[:8]
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return id, nil
}
