package service

import (
	"context"
	"errors"

	"academix/internal/certificate/ledger"
	"academix/internal/certificate/models"
	"academix/internal/certificate/tracer"
	id "academix/pkg/domain"
	dErrors "academix/pkg/domain-errors"
	"academix/pkg/platform/sentinel"
)

// Verification messages.
const (
	MsgNotFound          = "certificate not found"
	MsgValid             = "certificate is valid"
	MsgRevoked           = "certificate has been revoked"
	MsgPending           = "certificate issuance is pending"
	MsgExpired           = "certificate has expired"
	MsgTokenNotFound     = "token not found on ledger"
	MsgLedgerUnavailable = "ledger unavailable"
	MsgChainOnly         = "token exists on the ledger but has no matching local certificate"
)

const (
	pathCredential = "credential"
	pathToken      = "token"
)

var errBreakerOpen = errors.New("ledger circuit open")

// VerifyByCredentialID answers from the local record. The ledger is consulted
// as a best-effort cross-check whose failure never changes Valid.
func (s *Service) VerifyByCredentialID(ctx context.Context, certID id.CertificateID) (result *models.VerificationResult, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerifyByID, tracer.String(tracer.AttrCertificateID, certID.String()))
	defer func() { span.End(err) }()

	cert, err := s.store.FindByID(ctx, certID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.RecordVerification(pathCredential, false)
			return &models.VerificationResult{Valid: false, Message: MsgNotFound}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load certificate")
	}

	result = &models.VerificationResult{Certificate: cert}
	result.Valid, result.Message = s.localVerdict(cert)

	if cert.LedgerTokenID != "" {
		result.Ledger = s.crossCheck(ctx, cert.LedgerTokenID)
		if result.Ledger.Error == "" && cert.MetadataCID != "" && result.Ledger.MetadataRef != "ipfs://"+cert.MetadataCID {
			result.Inconsistent = true
			s.logger.WarnContext(ctx, "ledger metadata differs from local record",
				"certificate_id", cert.ID.String(),
				"token_id", cert.LedgerTokenID,
				"ledger_metadata", result.Ledger.MetadataRef,
			)
		}
	}

	s.metrics.RecordVerification(pathCredential, result.Valid)
	span.SetAttributes(tracer.Bool(tracer.AttrValid, result.Valid))
	return result, nil
}

// VerifyByLedgerTokenID asks the ledger first. A token unknown to the ledger is
// invalid without touching local storage; a confirmed token without a local
// record is valid but flagged as inconsistent.
func (s *Service) VerifyByLedgerTokenID(ctx context.Context, tokenID string) (result *models.VerificationResult, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerifyByToken, tracer.String(tracer.AttrTokenID, tokenID))
	defer func() { span.End(err) }()

	if tokenID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "token id is required")
	}

	record, err := s.readToken(ctx, tokenID)
	if err != nil {
		s.metrics.RecordVerification(pathToken, false)
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return &models.VerificationResult{Valid: false, Message: MsgTokenNotFound}, nil
		}
		return &models.VerificationResult{
			Valid:   false,
			Message: MsgLedgerUnavailable,
			Ledger:  &models.LedgerView{TokenID: tokenID, Error: err.Error()},
		}, nil
	}
	view := toLedgerView(record)
	result = &models.VerificationResult{Ledger: view}

	cert, err := s.findByToken(ctx, tokenID, record.TokenID)
	switch {
	case err == nil:
		result.Certificate = cert
		result.Valid, result.Message = s.localVerdict(cert)
	case errors.Is(err, sentinel.ErrNotFound):
		result.Valid = true
		result.Message = MsgChainOnly
		result.Inconsistent = true
		s.metrics.RecordInconsistency()
		s.logger.WarnContext(ctx, "ledger token has no local certificate",
			"token_id", tokenID,
			"owner", view.Owner,
		)
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load certificate")
	}

	s.metrics.RecordVerification(pathToken, result.Valid)
	span.SetAttributes(tracer.Bool(tracer.AttrValid, result.Valid))
	return result, nil
}

// localVerdict is authoritative: only an unexpired issued certificate is valid.
func (s *Service) localVerdict(cert *models.Certificate) (bool, string) {
	switch cert.Status {
	case models.StatusIssued:
		if cert.IsExpired(s.now()) {
			return false, MsgExpired
		}
		return true, MsgValid
	case models.StatusRevoked:
		return false, MsgRevoked
	default:
		return false, MsgPending
	}
}

// findByToken tries the token id as given, then as resolved by the ledger.
func (s *Service) findByToken(ctx context.Context, requested, resolved string) (*models.Certificate, error) {
	cert, err := s.store.FindByLedgerTokenID(ctx, requested)
	if err == nil || !errors.Is(err, sentinel.ErrNotFound) || resolved == "" || resolved == requested {
		return cert, err
	}
	return s.store.FindByLedgerTokenID(ctx, resolved)
}

func (s *Service) crossCheck(ctx context.Context, tokenID string) *models.LedgerView {
	ctx, span := s.tracer.Start(ctx, tracer.SpanLedgerCrossRef, tracer.String(tracer.AttrTokenID, tokenID))
	record, err := s.readToken(ctx, tokenID)
	span.End(err)
	if err != nil {
		s.logger.InfoContext(ctx, "ledger cross-check unavailable",
			"token_id", tokenID,
			"call", "ledger.get_token",
			"error", err,
		)
		return &models.LedgerView{TokenID: tokenID, Error: err.Error()}
	}
	return toLedgerView(record)
}

// readToken reads through the circuit breaker. A token the ledger does not know
// counts as a healthy response.
func (s *Service) readToken(ctx context.Context, tokenID string) (*ledger.TokenRecord, error) {
	if s.breaker != nil && !s.breaker.Allow() {
		return nil, dErrors.Wrap(errBreakerOpen, dErrors.CodeUnavailable, errBreakerOpen.Error())
	}

	stageCtx, cancel := s.stage(ctx)
	defer cancel()
	record, err := s.ledger.GetToken(stageCtx, tokenID)
	if s.breaker != nil {
		if err == nil || dErrors.HasCode(err, dErrors.CodeNotFound) {
			if change := s.breaker.RecordSuccess(); change.Closed {
				s.logger.InfoContext(ctx, "ledger circuit closed", "breaker", s.breaker.Name())
			}
		} else if change := s.breaker.RecordFailure(); change.Opened {
			s.logger.WarnContext(ctx, "ledger circuit opened", "breaker", s.breaker.Name(), "error", err)
		}
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func toLedgerView(r *ledger.TokenRecord) *models.LedgerView {
	return &models.LedgerView{
		TokenID:       r.TokenID,
		MetadataRef:   r.MetadataRef,
		Owner:         r.Owner,
		MintedAtBlock: r.MintedAtBlock,
	}
}
