package store

import (
	"context"
	"strings"
	"sync"

	"academix/internal/academic/models"
	id "academix/pkg/domain"
	"academix/pkg/platform/sentinel"
)

// InMemoryStore backs local runs and tests. The Put methods stand in for the
// services that own this data.
type InMemoryStore struct {
	mu          sync.RWMutex
	students    map[id.StudentID]models.Student
	courses     map[id.CourseID]models.Course
	exams       map[id.ExamID]models.Exam
	submissions map[id.SubmissionID]models.Submission
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		students:    make(map[id.StudentID]models.Student),
		courses:     make(map[id.CourseID]models.Course),
		exams:       make(map[id.ExamID]models.Exam),
		submissions: make(map[id.SubmissionID]models.Submission),
	}
}

func (s *InMemoryStore) PutStudent(_ context.Context, student models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students[student.ID] = student
	return nil
}

func (s *InMemoryStore) PutCourse(_ context.Context, course models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[course.ID] = course
	return nil
}

func (s *InMemoryStore) PutExam(_ context.Context, exam models.Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exams[exam.ID] = exam
	return nil
}

func (s *InMemoryStore) PutSubmission(_ context.Context, submission models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[submission.ID] = submission
	return nil
}

// FindGradedSubmission returns the most recently graded submission of the
// student for the exam.
func (s *InMemoryStore) FindGradedSubmission(_ context.Context, studentID id.StudentID, examID id.ExamID) (*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *models.Submission
	for _, sub := range s.submissions {
		if sub.StudentID != studentID || sub.ExamID != examID || !sub.IsGraded() {
			continue
		}
		if found == nil || sub.GradedAt.After(found.GradedAt) {
			found = &sub
		}
	}
	if found == nil {
		return nil, sentinel.ErrNotFound
	}
	return found, nil
}

func (s *InMemoryStore) FindExam(_ context.Context, examID id.ExamID) (*models.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.exams[examID]; ok {
		return &e, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindCourse(_ context.Context, courseID id.CourseID) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.courses[courseID]; ok {
		return &c, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindStudent(_ context.Context, studentID id.StudentID) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.students[studentID]; ok {
		return &st, nil
	}
	return nil, sentinel.ErrNotFound
}

// FindStudentByEmail matches case-insensitively.
func (s *InMemoryStore) FindStudentByEmail(_ context.Context, email string) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.TrimSpace(email)
	for _, st := range s.students {
		if strings.EqualFold(st.Email, email) {
			return &st, nil
		}
	}
	return nil, sentinel.ErrNotFound
}
