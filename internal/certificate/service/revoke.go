package service

import (
	"context"
	"errors"

	"academix/internal/certificate/models"
	"academix/internal/certificate/tracer"
	id "academix/pkg/domain"
	dErrors "academix/pkg/domain-errors"
	"academix/pkg/platform/sentinel"
)

// revokeAttempts bounds re-reads when an in-flight issuance writes the record
// between our read and our update.
const revokeAttempts = 3

// Revoke moves the certificate to the terminal revoked state. The ledger is not
// called; ledgerTxRef records on-chain evidence supplied by the caller, if any.
// Revoking an already revoked certificate rewrites the same state.
func (s *Service) Revoke(ctx context.Context, certID id.CertificateID, reason, ledgerTxRef string) (cert *models.Certificate, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanRevoke, tracer.String(tracer.AttrCertificateID, certID.String()))
	defer func() { span.End(err) }()

	var previous models.Status
	for attempt := 1; ; attempt++ {
		cert, err = s.store.FindByID(ctx, certID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeNotFound, "certificate not found")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load certificate")
		}

		previous = cert.Status
		cert.MarkRevoked(reason, ledgerTxRef, s.now())
		err = s.store.Update(ctx, cert)
		if err == nil {
			break
		}
		if !errors.Is(err, sentinel.ErrInvalidState) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke certificate")
		}
		if attempt == revokeAttempts {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "certificate is being updated, retry the revocation")
		}
	}

	s.metrics.RecordRevocation()
	s.logger.InfoContext(ctx, "certificate revoked",
		"certificate_id", cert.ID.String(),
		"previous_status", string(previous),
		"reason", cert.RevocationReason,
		"tx_ref", cert.LedgerTxRef,
	)
	return cert, nil
}
