package store

import (
	"context"

	"academix/internal/certificate/models"
	id "academix/pkg/domain"
)

// Store persists certificate records. Missing records are reported as
// sentinel.ErrNotFound. Records are never deleted.
type Store interface {
	// CreateIfAbsent inserts cert unless a certificate already exists for its
	// submission. It returns the stored record and whether this call created it.
	CreateIfAbsent(ctx context.Context, cert *models.Certificate) (*models.Certificate, bool, error)
	FindByID(ctx context.Context, certID id.CertificateID) (*models.Certificate, error)
	FindBySubmission(ctx context.Context, submissionID id.SubmissionID) (*models.Certificate, error)
	FindByLedgerTokenID(ctx context.Context, tokenID string) (*models.Certificate, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Certificate, error)
	// Update applies cert only while the stored record is still at
	// cert.Version, and never moves a revoked record to another status. Either
	// conflict is sentinel.ErrInvalidState. On success cert.Version advances.
	Update(ctx context.Context, cert *models.Certificate) error
}
