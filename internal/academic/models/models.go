// Package models holds the read-only academic records a certificate is built from.
package models

import (
	"time"

	id "academix/pkg/domain"
)

// SubmissionStatusGraded marks a submission whose score is final.
const SubmissionStatusGraded = "graded"

type Student struct {
	ID            id.StudentID
	Email         string
	FullName      string
	WalletAddress string
}

type Course struct {
	ID   id.CourseID
	Name string
}

type Exam struct {
	ID       id.ExamID
	CourseID id.CourseID
	Title    string
}

type Submission struct {
	ID        id.SubmissionID
	StudentID id.StudentID
	ExamID    id.ExamID
	Score     float64
	Status    string
	GradedAt  time.Time
}

// IsGraded reports whether the submission can back a certificate.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}
