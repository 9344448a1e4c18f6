//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"academix/migrations"
	id "academix/pkg/domain"
)

// PostgresContainer wraps a testcontainers Postgres instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a new Postgres container with migrations applied.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("academix_test"),
		postgres.WithUsername("academix"),
		postgres.WithPassword("academix_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	pc := &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}

	if err := pc.runMigrations(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to run migrations: %v", err)
	}

	// The container is shared through Manager; Ryuk reaps it when the test process exits.
	return pc
}

// runMigrations executes all *.up.sql migrations from the embedded migrations.FS in order.
func (p *PostgresContainer) runMigrations(ctx context.Context) error {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if _, err := p.DB.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", file, err)
		}
	}
	return nil
}

// TruncateTables clears all data from the specified tables.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// TruncateModuleTables truncates every table owned or read by this service.
func (p *PostgresContainer) TruncateModuleTables(ctx context.Context) error {
	return p.TruncateTables(ctx, "certificates", "submissions", "exams", "courses", "students")
}

// Exec runs a SQL statement and returns the result.
func (p *PostgresContainer) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return p.DB.ExecContext(ctx, query, args...)
}

// AcademicFixture is one graded submission with its student, course, and exam.
type AcademicFixture struct {
	StudentID    id.StudentID
	CourseID     id.CourseID
	ExamID       id.ExamID
	SubmissionID id.SubmissionID
	Email        string
}

// SeedGradedSubmission inserts a student, course, exam and a graded submission.
// Fails the test if any insert fails.
func (p *PostgresContainer) SeedGradedSubmission(ctx context.Context, t testing.TB, wallet string) AcademicFixture {
	t.Helper()
	f := AcademicFixture{
		StudentID:    id.StudentID(uuid.New()),
		CourseID:     id.CourseID(uuid.New()),
		ExamID:       id.ExamID(uuid.New()),
		SubmissionID: id.SubmissionID(uuid.New()),
		Email:        "student-" + uuid.NewString()[:8] + "@example.edu",
	}

	var walletArg any
	if wallet != "" {
		walletArg = wallet
	}

	stmts := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO students (id, email, full_name, wallet_address) VALUES ($1, $2, $3, $4)`,
			[]any{f.StudentID.String(), f.Email, "Ada Lovelace", walletArg}},
		{`INSERT INTO courses (id, name) VALUES ($1, $2)`,
			[]any{f.CourseID.String(), "Analytical Engines 101"}},
		{`INSERT INTO exams (id, course_id, title) VALUES ($1, $2, $3)`,
			[]any{f.ExamID.String(), f.CourseID.String(), "Final Exam"}},
		{`INSERT INTO submissions (id, student_id, exam_id, score, status, graded_at) VALUES ($1, $2, $3, 92.5, 'graded', NOW())`,
			[]any{f.SubmissionID.String(), f.StudentID.String(), f.ExamID.String()}},
	}
	for _, stmt := range stmts {
		if _, err := p.Exec(ctx, stmt.query, stmt.args...); err != nil {
			t.Fatalf("SeedGradedSubmission: %v", err)
		}
	}
	return f
}
