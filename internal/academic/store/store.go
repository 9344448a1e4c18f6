package store

import (
	"context"

	"academix/internal/academic/models"
	id "academix/pkg/domain"
)

// Reader is the read surface over students, courses, exams and submissions.
// Implementations return sentinel.ErrNotFound for missing records.
type Reader interface {
	FindGradedSubmission(ctx context.Context, studentID id.StudentID, examID id.ExamID) (*models.Submission, error)
	FindExam(ctx context.Context, examID id.ExamID) (*models.Exam, error)
	FindCourse(ctx context.Context, courseID id.CourseID) (*models.Course, error)
	FindStudent(ctx context.Context, studentID id.StudentID) (*models.Student, error)
	FindStudentByEmail(ctx context.Context, email string) (*models.Student, error)
}
