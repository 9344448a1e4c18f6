package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"academix/internal/academic/models"
	id "academix/pkg/domain"
	"academix/pkg/platform/sentinel"
)

// PostgresStore reads academic records from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindGradedSubmission(ctx context.Context, studentID id.StudentID, examID id.ExamID) (*models.Submission, error) {
	query := `
		SELECT id, student_id, exam_id, COALESCE(score, 0)::float8, status, graded_at
		FROM submissions
		WHERE student_id = $1 AND exam_id = $2 AND status = $3
		ORDER BY graded_at DESC NULLS LAST
		LIMIT 1
	`
	var sub models.Submission
	var subID, studentRaw, examRaw string
	var gradedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query, studentID.String(), examID.String(), models.SubmissionStatusGraded).
		Scan(&subID, &studentRaw, &examRaw, &sub.Score, &sub.Status, &gradedAt)
	if err != nil {
		return nil, notFoundOr(err, "find graded submission")
	}
	if sub.ID, err = id.ParseSubmissionID(subID); err != nil {
		return nil, fmt.Errorf("parse submission id: %w", err)
	}
	if sub.StudentID, err = id.ParseStudentID(studentRaw); err != nil {
		return nil, fmt.Errorf("parse submission student id: %w", err)
	}
	if sub.ExamID, err = id.ParseExamID(examRaw); err != nil {
		return nil, fmt.Errorf("parse submission exam id: %w", err)
	}
	if gradedAt.Valid {
		sub.GradedAt = gradedAt.Time
	}
	return &sub, nil
}

func (s *PostgresStore) FindExam(ctx context.Context, examID id.ExamID) (*models.Exam, error) {
	var exam models.Exam
	var examRaw, courseRaw string
	err := s.db.QueryRowContext(ctx, `SELECT id, course_id, title FROM exams WHERE id = $1`, examID.String()).
		Scan(&examRaw, &courseRaw, &exam.Title)
	if err != nil {
		return nil, notFoundOr(err, "find exam")
	}
	if exam.ID, err = id.ParseExamID(examRaw); err != nil {
		return nil, fmt.Errorf("parse exam id: %w", err)
	}
	if exam.CourseID, err = id.ParseCourseID(courseRaw); err != nil {
		return nil, fmt.Errorf("parse exam course id: %w", err)
	}
	return &exam, nil
}

func (s *PostgresStore) FindCourse(ctx context.Context, courseID id.CourseID) (*models.Course, error) {
	var course models.Course
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM courses WHERE id = $1`, courseID.String()).
		Scan(&raw, &course.Name)
	if err != nil {
		return nil, notFoundOr(err, "find course")
	}
	if course.ID, err = id.ParseCourseID(raw); err != nil {
		return nil, fmt.Errorf("parse course id: %w", err)
	}
	return &course, nil
}

func (s *PostgresStore) FindStudent(ctx context.Context, studentID id.StudentID) (*models.Student, error) {
	query := `SELECT id, email, full_name, wallet_address FROM students WHERE id = $1`
	return s.scanStudent(s.db.QueryRowContext(ctx, query, studentID.String()), "find student")
}

func (s *PostgresStore) FindStudentByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := `SELECT id, email, full_name, wallet_address FROM students WHERE lower(email) = lower($1)`
	return s.scanStudent(s.db.QueryRowContext(ctx, query, strings.TrimSpace(email)), "find student by email")
}

func (s *PostgresStore) scanStudent(row *sql.Row, op string) (*models.Student, error) {
	var st models.Student
	var raw string
	var wallet sql.NullString
	if err := row.Scan(&raw, &st.Email, &st.FullName, &wallet); err != nil {
		return nil, notFoundOr(err, op)
	}
	parsed, err := id.ParseStudentID(raw)
	if err != nil {
		return nil, fmt.Errorf("parse student id: %w", err)
	}
	st.ID = parsed
	st.WalletAddress = wallet.String
	return &st, nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
