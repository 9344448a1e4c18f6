package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"academix/internal/certificate/models"
	id "academix/pkg/domain"
	"academix/pkg/platform/sentinel"
)

const certificateColumns = `
	id, student_id, course_id, exam_id, submission_id, status,
	ledger_token_id, document_cid, metadata_cid, ledger_tx_ref, revocation_reason,
	issued_at, expires_at, created_at, updated_at, version`

// PostgresStore persists certificates in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateIfAbsent relies on the submission_id unique constraint so concurrent
// callers for the same submission see exactly one insert.
func (s *PostgresStore) CreateIfAbsent(ctx context.Context, cert *models.Certificate) (*models.Certificate, bool, error) {
	query := `
		INSERT INTO certificates (` + certificateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (submission_id) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query,
		cert.ID.String(),
		cert.StudentID.String(),
		cert.CourseID.String(),
		cert.ExamID.String(),
		cert.SubmissionID.String(),
		string(cert.Status),
		nullString(cert.LedgerTokenID),
		nullString(cert.DocumentCID),
		nullString(cert.MetadataCID),
		nullString(cert.LedgerTxRef),
		nullString(cert.RevocationReason),
		cert.IssuedAt,
		nullTime(cert.ExpiresAt),
		cert.CreatedAt,
		cert.UpdatedAt,
		cert.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, false, sentinel.ErrAlreadyExists
		}
		return nil, false, fmt.Errorf("insert certificate: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("insert certificate rows affected: %w", err)
	}
	if affected == 0 {
		existing, err := s.FindBySubmission(ctx, cert.SubmissionID)
		if err != nil {
			return nil, false, fmt.Errorf("read existing certificate: %w", err)
		}
		return existing, false, nil
	}

	stored := *cert
	return &stored, true, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, certID id.CertificateID) (*models.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE id = $1`
	return s.findOne(ctx, "find certificate by id", query, certID.String())
}

func (s *PostgresStore) FindBySubmission(ctx context.Context, submissionID id.SubmissionID) (*models.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE submission_id = $1`
	return s.findOne(ctx, "find certificate by submission", query, submissionID.String())
}

func (s *PostgresStore) FindByLedgerTokenID(ctx context.Context, tokenID string) (*models.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE ledger_token_id = $1`
	return s.findOne(ctx, "find certificate by ledger token", query, tokenID)
}

func (s *PostgresStore) findOne(ctx context.Context, op, query string, args ...any) (*models.Certificate, error) {
	cert, err := scanCertificate(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cert, nil
}

// List returns matching certificates, newest first.
func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]*models.Certificate, error) {
	var conds []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if filter.CertificateID != nil {
		add("id", filter.CertificateID.String())
	}
	if filter.LedgerTokenID != "" {
		add("ledger_token_id", filter.LedgerTokenID)
	}
	if filter.StudentID != nil {
		add("student_id", filter.StudentID.String())
	}
	if filter.Status != "" {
		add("status", string(filter.Status))
	}
	if filter.UpdatedBefore != nil {
		args = append(args, *filter.UpdatedBefore)
		conds = append(conds, fmt.Sprintf("updated_at < $%d", len(args)))
	}

	query := `SELECT ` + certificateColumns + ` FROM certificates`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY issued_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Certificate, 0)
	for rows.Next() {
		cert, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		out = append(out, cert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate certificates: %w", err)
	}
	return out, nil
}

// Update writes cert if the stored row is still at cert.Version and is not
// being moved out of revoked. A row that moved on or was revoked yields
// sentinel.ErrInvalidState; cert.Version advances on success.
func (s *PostgresStore) Update(ctx context.Context, cert *models.Certificate) error {
	query := `
		UPDATE certificates SET
			status = $2,
			ledger_token_id = $3,
			document_cid = $4,
			metadata_cid = $5,
			ledger_tx_ref = $6,
			revocation_reason = $7,
			expires_at = $8,
			updated_at = $9,
			version = version + 1
		WHERE id = $1
			AND version = $10
			AND (status <> 'revoked' OR $2 = 'revoked')
	`
	res, err := s.db.ExecContext(ctx, query,
		cert.ID.String(),
		string(cert.Status),
		nullString(cert.LedgerTokenID),
		nullString(cert.DocumentCID),
		nullString(cert.MetadataCID),
		nullString(cert.LedgerTxRef),
		nullString(cert.RevocationReason),
		nullTime(cert.ExpiresAt),
		cert.UpdatedAt,
		cert.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyExists
		}
		return fmt.Errorf("update certificate: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update certificate rows affected: %w", err)
	}
	if affected == 0 {
		var exists bool
		err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM certificates WHERE id = $1)`, cert.ID.String()).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check certificate: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrInvalidState
	}
	cert.Version++
	return nil
}

type certificateRow interface {
	Scan(dest ...any) error
}

func scanCertificate(row certificateRow) (*models.Certificate, error) {
	var (
		cert                                       models.Certificate
		certID, studentID, courseID, examID, subID string
		status                                     string
		tokenID, docCID, metaCID, txRef, reason    sql.NullString
		expiresAt                                  sql.NullTime
	)
	if err := row.Scan(
		&certID, &studentID, &courseID, &examID, &subID, &status,
		&tokenID, &docCID, &metaCID, &txRef, &reason,
		&cert.IssuedAt, &expiresAt, &cert.CreatedAt, &cert.UpdatedAt, &cert.Version,
	); err != nil {
		return nil, err
	}

	var err error
	if cert.ID, err = id.ParseCertificateID(certID); err != nil {
		return nil, err
	}
	if cert.StudentID, err = id.ParseStudentID(studentID); err != nil {
		return nil, err
	}
	if cert.CourseID, err = id.ParseCourseID(courseID); err != nil {
		return nil, err
	}
	if cert.ExamID, err = id.ParseExamID(examID); err != nil {
		return nil, err
	}
	if cert.SubmissionID, err = id.ParseSubmissionID(subID); err != nil {
		return nil, err
	}

	cert.Status = models.Status(status)
	cert.LedgerTokenID = tokenID.String
	cert.DocumentCID = docCID.String
	cert.MetadataCID = metaCID.String
	cert.LedgerTxRef = txRef.String
	cert.RevocationReason = reason.String
	if expiresAt.Valid {
		t := expiresAt.Time
		cert.ExpiresAt = &t
	}
	return &cert, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
