package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"academix/internal/certificate/assembler"
	"academix/internal/certificate/metrics"
	"academix/internal/certificate/models"
	"academix/internal/certificate/notify"
	"academix/internal/certificate/tracer"
	id "academix/pkg/domain"
	dErrors "academix/pkg/domain-errors"
	"academix/pkg/platform/sentinel"
)

// Pipeline stage names used in logs and metrics.
const (
	stageAssemble = "assemble"
	stageRender   = "render"
	stageDocument = "document_upload"
	stageMetadata = "metadata_upload"
	stageMint     = "mint"
	stagePersist  = "persist"
	stageNotify   = "notify"
)

// errSuperseded stops the pipeline when the stored record moved on under it,
// for example a revoke or another caller resuming the same record.
var errSuperseded = errors.New("certificate changed during issuance")

// Issue creates (or returns) the certificate for the student's graded
// submission of examID and drives it through render, upload and mint.
//
// Storage and ledger failures never fail the call: storage failures fall back
// to placeholder identifiers and a failed mint leaves the record pending.
// Only a missing graded submission or academic record aborts.
func (s *Service) Issue(ctx context.Context, studentID id.StudentID, examID id.ExamID) (cert *models.Certificate, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanIssue)
	defer func() { span.End(err) }()

	if studentID.IsNil() || examID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "student and exam are required")
	}

	sub, err := s.academic.FindGradedSubmission(ctx, studentID, examID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no graded submission for this student and exam")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load submission")
	}
	span.SetAttributes(tracer.String(tracer.AttrSubmissionID, sub.ID.String()))

	existing, err := s.store.FindBySubmission(ctx, sub.ID)
	switch {
	case err == nil:
		if !s.shouldResume(existing) {
			s.metrics.RecordIssuance(metrics.OutcomeExisting)
			span.SetAttributes(tracer.String(tracer.AttrCertificateID, existing.ID.String()), tracer.Bool(tracer.AttrCreated, false))
			return existing, nil
		}
		var claimed bool
		cert, claimed, err = s.claimPending(ctx, existing)
		if err != nil {
			return nil, err
		}
		if !claimed {
			s.metrics.RecordIssuance(metrics.OutcomeExisting)
			span.SetAttributes(tracer.String(tracer.AttrCertificateID, cert.ID.String()), tracer.Bool(tracer.AttrCreated, false))
			return cert, nil
		}
	case errors.Is(err, sentinel.ErrNotFound):
		var created bool
		cert, created, err = s.createPending(ctx, studentID, examID, sub.ID)
		if err != nil {
			return nil, err
		}
		if !created {
			s.metrics.RecordIssuance(metrics.OutcomeExisting)
			span.SetAttributes(tracer.String(tracer.AttrCertificateID, cert.ID.String()), tracer.Bool(tracer.AttrCreated, false))
			return cert, nil
		}
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing certificate")
	}
	span.SetAttributes(tracer.String(tracer.AttrCertificateID, cert.ID.String()), tracer.Bool(tracer.AttrCreated, true))

	assembly, err := s.assemble(ctx, cert)
	if err != nil {
		s.metrics.RecordIssuance(metrics.OutcomeFailed)
		return nil, err
	}

	if err := s.runPipeline(ctx, cert, assembly); err != nil {
		if errors.Is(err, errSuperseded) {
			return s.superseded(ctx, cert)
		}
		s.metrics.RecordIssuance(metrics.OutcomeFailed)
		return nil, err
	}

	if cert.Status == models.StatusIssued {
		s.metrics.RecordIssuance(metrics.OutcomeIssued)
	} else {
		s.metrics.RecordIssuance(metrics.OutcomePending)
	}
	span.SetAttributes(tracer.String(tracer.AttrStatus, string(cert.Status)))

	s.notifyAsync(ctx, cert, assembly)
	span.AddEvent(tracer.EventNotificationQueued)
	return cert, nil
}

// shouldResume reports whether an existing record needs its pipeline re-run.
// Only pending records that have been idle for resumeAfter qualify, so a
// concurrent caller never runs a second pipeline for a live issuance.
func (s *Service) shouldResume(cert *models.Certificate) bool {
	if cert.Status != models.StatusPending {
		return false
	}
	return s.now().Sub(cert.UpdatedAt) >= s.resumeAfter
}

// claimPending bumps UpdatedAt so other callers see the record as live again.
// The store update is conditional on the version that was read, so only one
// of several concurrent callers claims the record. The others get the current
// record back with claimed false.
func (s *Service) claimPending(ctx context.Context, cert *models.Certificate) (*models.Certificate, bool, error) {
	cert.UpdatedAt = s.now()
	err := s.store.Update(ctx, cert)
	if errors.Is(err, sentinel.ErrInvalidState) {
		current, err := s.store.FindByID(ctx, cert.ID)
		if err != nil {
			return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load certificate")
		}
		return current, false, nil
	}
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resume pending certificate")
	}
	s.logger.InfoContext(ctx, "resuming pending certificate",
		"certificate_id", cert.ID.String(),
		"submission_id", cert.SubmissionID.String(),
	)
	return cert, true, nil
}

// superseded returns the stored record after the pipeline lost a write race.
// A token minted for a record revoked meanwhile is logged for follow-up.
func (s *Service) superseded(ctx context.Context, cert *models.Certificate) (*models.Certificate, error) {
	current, err := s.store.FindByID(ctx, cert.ID)
	if err != nil {
		s.metrics.RecordIssuance(metrics.OutcomeFailed)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load certificate")
	}
	s.metrics.RecordIssuance(metrics.OutcomeExisting)
	s.logger.WarnContext(ctx, "certificate changed during issuance, pipeline stopped",
		"certificate_id", cert.ID.String(),
		"stored_status", string(current.Status),
		"minted_token_id", cert.LedgerTokenID,
		"tx_ref", cert.LedgerTxRef,
	)
	return current, nil
}

func (s *Service) createPending(ctx context.Context, studentID id.StudentID, examID id.ExamID, submissionID id.SubmissionID) (*models.Certificate, bool, error) {
	exam, err := s.academic.FindExam(ctx, examID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, false, dErrors.New(dErrors.CodeNotFound, "exam not found")
		}
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load exam")
	}

	pending := models.NewPendingCertificate(studentID, exam.CourseID, examID, submissionID, s.now(), s.validity)
	stored, created, err := s.store.CreateIfAbsent(ctx, pending)
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create certificate")
	}
	return stored, created, nil
}

func (s *Service) assemble(ctx context.Context, cert *models.Certificate) (*assembler.Assembly, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanStageAssemble)
	assembly, err := s.assembler.Assemble(ctx, cert)
	span.End(err)
	if err != nil {
		s.metrics.RecordStageFailure(stageAssemble)
		s.logger.WarnContext(ctx, "certificate assembly failed",
			"certificate_id", cert.ID.String(),
			"stage", stageAssemble,
			"error", err,
		)
		return nil, err
	}
	return assembly, nil
}

// runPipeline renders, uploads and mints, persisting after each stage. Only a
// render or persistence failure is returned.
func (s *Service) runPipeline(ctx context.Context, cert *models.Certificate, assembly *assembler.Assembly) error {
	doc, err := s.renderDocument(ctx, cert, assembly.Data)
	if err != nil {
		return err
	}

	cert.DocumentCID = s.upload(ctx, cert, stageDocument, "document", tracer.SpanStageDocument, func(ctx context.Context) (string, error) {
		return s.storage.PutBlob(ctx, doc, fmt.Sprintf("certificate-%s.png", cert.ID))
	})
	if err := s.persist(ctx, cert); err != nil {
		return err
	}

	bundle := assembler.BuildMetadata(assembly.Data, s.storage.ResolveURL(cert.DocumentCID))
	cert.MetadataCID = s.upload(ctx, cert, stageMetadata, "metadata", tracer.SpanStageMetadata, func(ctx context.Context) (string, error) {
		return s.storage.PutJSON(ctx, bundle, fmt.Sprintf("certificate-%s.json", cert.ID))
	})
	if err := s.persist(ctx, cert); err != nil {
		return err
	}

	recipient := s.resolveRecipient(ctx, cert, assembly.WalletAddress)
	if !s.mint(ctx, cert, recipient) {
		return nil
	}
	return s.persist(ctx, cert)
}

func (s *Service) renderDocument(ctx context.Context, cert *models.Certificate, data models.CertificateData) ([]byte, error) {
	_, span := s.tracer.Start(ctx, tracer.SpanStageRender)
	start := time.Now()
	doc, err := s.render(data)
	s.metrics.ObserveStage(stageRender, time.Since(start).Seconds())
	span.End(err)
	if err != nil {
		s.metrics.RecordStageFailure(stageRender)
		s.logger.ErrorContext(ctx, "certificate render failed",
			"certificate_id", cert.ID.String(),
			"stage", stageRender,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render certificate")
	}
	return doc, nil
}

// upload runs put under the stage timeout and returns the content identifier,
// or the certificate's placeholder identifier when the upload fails.
func (s *Service) upload(ctx context.Context, cert *models.Certificate, stage, artifact, spanName string, put func(context.Context) (string, error)) string {
	ctx, span := s.tracer.Start(ctx, spanName)
	stageCtx, cancel := s.stage(ctx)
	defer cancel()

	start := time.Now()
	cid, err := put(stageCtx)
	s.metrics.ObserveStage(stage, time.Since(start).Seconds())
	if err == nil && cid != "" {
		span.End(nil)
		return cid
	}
	if err == nil {
		err = errors.New("storage returned an empty content identifier")
	}
	span.SetAttributes(tracer.Bool(tracer.AttrPlaceholder, true))
	span.End(err)

	placeholder := models.PlaceholderCID(cert.ID)
	s.metrics.RecordStageFailure(stage)
	s.metrics.RecordPlaceholder(artifact)
	s.logger.WarnContext(ctx, "upload failed, using placeholder content id",
		"certificate_id", cert.ID.String(),
		"stage", stage,
		"call", "storage."+artifact,
		"placeholder", placeholder,
		"error", err,
	)
	return placeholder
}

// resolveRecipient prefers the student's wallet and falls back to the
// configured platform address.
func (s *Service) resolveRecipient(ctx context.Context, cert *models.Certificate, wallet string) string {
	if common.IsHexAddress(wallet) {
		return wallet
	}
	s.metrics.RecordRecipientFallback()
	s.logger.WarnContext(ctx, "student wallet missing or invalid, minting to default recipient",
		"certificate_id", cert.ID.String(),
		"student_id", cert.StudentID.String(),
		"recipient", s.defaultRecipient,
	)
	return s.defaultRecipient
}

// mint reports whether the ledger confirmed the token. On failure the
// certificate keeps its pending status.
func (s *Service) mint(ctx context.Context, cert *models.Certificate, recipient string) bool {
	ctx, span := s.tracer.Start(ctx, tracer.SpanStageMint)
	stageCtx, cancel := s.stage(ctx)
	defer cancel()

	idHint := cert.ID.String()
	start := time.Now()
	receipt, err := s.ledger.Mint(stageCtx, idHint, "ipfs://"+cert.MetadataCID, recipient)
	s.metrics.ObserveStage(stageMint, time.Since(start).Seconds())
	span.End(err)
	if err != nil {
		s.metrics.RecordStageFailure(stageMint)
		s.logger.ErrorContext(ctx, "ledger mint failed, certificate left pending",
			"certificate_id", cert.ID.String(),
			"stage", stageMint,
			"call", "ledger.mint",
			"recoverable", dErrors.IsRecoverable(err),
			"error", err,
		)
		return false
	}

	tokenID := idHint
	if receipt.AssignedTokenID != nil && *receipt.AssignedTokenID != "" {
		tokenID = *receipt.AssignedTokenID
	} else {
		s.logger.WarnContext(ctx, "mint receipt carried no token id, keeping id hint",
			"certificate_id", cert.ID.String(),
			"tx_ref", receipt.TxRef,
		)
	}
	cert.MarkIssued(tokenID, receipt.TxRef, s.now())
	return true
}

func (s *Service) persist(ctx context.Context, cert *models.Certificate) error {
	cert.UpdatedAt = s.now()
	if err := s.store.Update(ctx, cert); err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			return errSuperseded
		}
		s.metrics.RecordStageFailure(stagePersist)
		s.logger.ErrorContext(ctx, "failed to persist certificate progress",
			"certificate_id", cert.ID.String(),
			"stage", stagePersist,
			"status", string(cert.Status),
			"error", err,
		)
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return dErrors.Wrap(err, dErrors.CodeConflict, "ledger token already recorded for another certificate")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save certificate")
	}
	return nil
}

// notifyAsync dispatches the issuance notification as a detached task. It
// runs on its own context so the request finishing does not cancel it, and
// its outcome is only logged. Wait drains outstanding tasks.
func (s *Service) notifyAsync(ctx context.Context, cert *models.Certificate, assembly *assembler.Assembly) {
	n := s.buildNotification(cert, assembly)
	studentID := cert.StudentID
	certID := cert.ID.String()
	detached := context.WithoutCancel(ctx)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(detached, s.notifyTimeout)
		defer cancel()
		if err := s.dispatcher.Send(ctx, studentID, n); err != nil {
			s.metrics.RecordNotificationFailure()
			s.logger.WarnContext(ctx, "certificate notification failed",
				"certificate_id", certID,
				"stage", stageNotify,
				"error", err,
			)
		}
	}()
}

func (s *Service) buildNotification(cert *models.Certificate, assembly *assembler.Assembly) notify.Notification {
	n := notify.Notification{
		CertificateID: cert.ID.String(),
		ActionURL:     fmt.Sprintf("%s/certificates/%s", s.portalBaseURL, cert.ID),
		Metadata: map[string]string{
			"status":     string(cert.Status),
			"course":     assembly.Data.CourseName,
			"exam":       assembly.Data.ExamTitle,
			"student_id": cert.StudentID.String(),
		},
	}
	if cert.Status == models.StatusIssued {
		n.Title = "Your certificate has been issued"
		n.Message = fmt.Sprintf("Congratulations %s, your certificate for %s is ready.", assembly.Data.StudentName, assembly.Data.CourseName)
		n.Metadata["ledger_token_id"] = cert.LedgerTokenID
	} else {
		n.Title = "Your certificate is being processed"
		n.Message = fmt.Sprintf("Your certificate for %s has been created and will be anchored on the ledger shortly.", assembly.Data.CourseName)
	}
	return n
}
