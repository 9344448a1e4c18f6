package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"academix/internal/academic/models"
	id "academix/pkg/domain"
)

// AcademicWriter defines methods for seeding academic records
type AcademicWriter interface {
	PutStudent(ctx context.Context, student models.Student) error
	PutCourse(ctx context.Context, course models.Course) error
	PutExam(ctx context.Context, exam models.Exam) error
	PutSubmission(ctx context.Context, submission models.Submission) error
}

// Seeder populates in-memory stores with demo data
type Seeder struct {
	academic AcademicWriter
	logger   *slog.Logger
	now      func() time.Time
}

// Result lists what SeedAll created so callers can print or assert on it.
type Result struct {
	Students    []models.Student
	Courses     []models.Course
	Exams       []models.Exam
	Submissions []models.Submission
}

// New creates a new seeder
func New(academic AcademicWriter, logger *slog.Logger) *Seeder {
	return &Seeder{
		academic: academic,
		logger:   logger,
		now:      time.Now,
	}
}

// SeedAll populates all stores with demo data
func (s *Seeder) SeedAll(ctx context.Context) (*Result, error) {
	s.logger.Info("seeding demo data...")

	res := &Result{}
	if err := s.seedStudents(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to seed students: %w", err)
	}
	if err := s.seedCourses(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to seed courses: %w", err)
	}
	if err := s.seedSubmissions(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to seed submissions: %w", err)
	}

	for _, st := range res.Students {
		s.logger.Info("demo student",
			"student_id", st.ID.String(),
			"email", st.Email,
			"has_wallet", st.WalletAddress != "",
		)
	}
	for _, ex := range res.Exams {
		s.logger.Info("demo exam",
			"exam_id", ex.ID.String(),
			"course_id", ex.CourseID.String(),
			"title", ex.Title,
		)
	}
	s.logger.Info("demo data seeded successfully",
		"students", len(res.Students),
		"courses", len(res.Courses),
		"exams", len(res.Exams),
		"submissions", len(res.Submissions),
	)
	return res, nil
}

func (s *Seeder) seedStudents(ctx context.Context, res *Result) error {
	demoStudents := []struct {
		email  string
		name   string
		wallet string
	}{
		{"ada@example.edu", "Ada Lovelace", "0x8ba1f109551bD432803012645Ac136ddd64DBA72"},
		{"alan@example.edu", "Alan Turing", "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"},
		{"grace@example.edu", "Grace Hopper", ""},
		{"edsger@example.edu", "Edsger Dijkstra", "not-a-wallet"},
	}

	for _, d := range demoStudents {
		student := models.Student{
			ID:            id.StudentID(uuid.New()),
			Email:         d.email,
			FullName:      d.name,
			WalletAddress: d.wallet,
		}
		if err := s.academic.PutStudent(ctx, student); err != nil {
			return err
		}
		res.Students = append(res.Students, student)
	}
	return nil
}

func (s *Seeder) seedCourses(ctx context.Context, res *Result) error {
	demoCourses := []struct {
		name  string
		exams []string
	}{
		{"Distributed Systems", []string{"Midterm", "Final"}},
		{"Applied Cryptography", []string{"Final"}},
	}

	for _, d := range demoCourses {
		course := models.Course{ID: id.CourseID(uuid.New()), Name: d.name}
		if err := s.academic.PutCourse(ctx, course); err != nil {
			return err
		}
		res.Courses = append(res.Courses, course)

		for _, title := range d.exams {
			exam := models.Exam{ID: id.ExamID(uuid.New()), CourseID: course.ID, Title: title}
			if err := s.academic.PutExam(ctx, exam); err != nil {
				return err
			}
			res.Exams = append(res.Exams, exam)
		}
	}
	return nil
}

// seedSubmissions grades every student on every exam except the last pair,
// which stays submitted so the ungraded path can be exercised.
func (s *Seeder) seedSubmissions(ctx context.Context, res *Result) error {
	now := s.now()
	scores := []float64{92.5, 78, 85.25, 64}

	for i, st := range res.Students {
		for j, ex := range res.Exams {
			status := models.SubmissionStatusGraded
			if i == len(res.Students)-1 && j == len(res.Exams)-1 {
				status = "submitted"
			}
			sub := models.Submission{
				ID:        id.SubmissionID(uuid.New()),
				StudentID: st.ID,
				ExamID:    ex.ID,
				Score:     scores[(i+j)%len(scores)],
				Status:    status,
				GradedAt:  now.Add(-time.Duration(j+1) * 24 * time.Hour),
			}
			if err := s.academic.PutSubmission(ctx, sub); err != nil {
				return err
			}
			res.Submissions = append(res.Submissions, sub)
		}
	}
	return nil
}
