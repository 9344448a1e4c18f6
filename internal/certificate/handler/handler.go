package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"academix/internal/certificate/models"
	id "academix/pkg/domain"
	dErrors "academix/pkg/domain-errors"
	"academix/pkg/platform/httputil"
	"academix/pkg/requestcontext"
)

// Service is the certificate lifecycle and verification surface.
type Service interface {
	Issue(ctx context.Context, studentID id.StudentID, examID id.ExamID) (*models.Certificate, error)
	Revoke(ctx context.Context, certID id.CertificateID, reason, ledgerTxRef string) (*models.Certificate, error)
	VerifyByCredentialID(ctx context.Context, certID id.CertificateID) (*models.VerificationResult, error)
	VerifyByLedgerTokenID(ctx context.Context, tokenID string) (*models.VerificationResult, error)
	Lookup(ctx context.Context, filter models.LookupFilter) ([]*models.Certificate, error)
	ResolveURL(cid string) string
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public verification and lookup routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/certificates", h.HandleLookup)
	r.Get("/certificates/{id}/verify", h.HandleVerify)
	r.Get("/certificates/token/{tokenId}/verify", h.HandleVerifyToken)
}

// RegisterIssuer mounts issuance. The caller wraps r with auth middleware that
// puts either a student or an admin actor in the context.
func (h *Handler) RegisterIssuer(r chi.Router) {
	r.Post("/certificates/issue", h.HandleIssue)
}

// RegisterAdmin mounts admin-only routes behind the admin token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/certificates/{id}/revoke", h.HandleRevoke)
}

// HandleIssue issues for the authenticated student. Admin callers must name
// the student in the body.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.IssueRequest](w, r, h.logger)
	if !ok {
		return
	}

	studentID, err := h.issuingStudent(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	examID, err := id.ParseExamID(req.ExamID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	cert, err := h.service.Issue(ctx, studentID, examID)
	if err != nil {
		h.logger.ErrorContext(ctx, "issue certificate failed",
			"error", err,
			"request_id", requestID,
			"student_id", studentID.String(),
			"exam_id", examID.String(),
		)
		httputil.WriteError(w, err)
		return
	}

	status := http.StatusOK
	if cert.Status == models.StatusPending {
		status = http.StatusAccepted
	}
	httputil.WriteJSON(w, status, models.ToCertificateResponse(cert, h.service.ResolveURL))
}

func (h *Handler) issuingStudent(ctx context.Context, req *models.IssueRequest) (id.StudentID, error) {
	if requestcontext.IsAdmin(ctx) {
		if req.StudentID == "" {
			return id.StudentID{}, dErrors.New(dErrors.CodeValidation, "student_id is required for admin issuance")
		}
		return id.ParseStudentID(req.StudentID)
	}

	studentID, err := httputil.RequireStudentID(ctx, h.logger)
	if err != nil {
		return id.StudentID{}, err
	}
	if req.StudentID != "" && req.StudentID != studentID.String() {
		return id.StudentID{}, dErrors.New(dErrors.CodeForbidden, "students can only issue their own certificates")
	}
	return studentID, nil
}

func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	certID, err := id.ParseCertificateID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.RevokeRequest](w, r, h.logger)
	if !ok {
		return
	}

	cert, err := h.service.Revoke(ctx, certID, req.Reason, req.LedgerTxRef)
	if err != nil {
		h.logger.ErrorContext(ctx, "revoke certificate failed",
			"error", err,
			"request_id", requestID,
			"certificate_id", certID.String(),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "certificate revoked by admin",
		"request_id", requestID,
		"certificate_id", certID.String(),
		"actor", requestcontext.AdminActor(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, models.ToCertificateResponse(cert, h.service.ResolveURL))
}

// HandleVerify answers 200 for every well-formed id; the verdict is in the body.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	certID, err := id.ParseCertificateID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.VerifyByCredentialID(ctx, certID)
	if err != nil {
		h.logger.ErrorContext(ctx, "verify certificate failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
			"certificate_id", certID.String(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToVerificationResponse(result, h.service.ResolveURL))
}

func (h *Handler) HandleVerifyToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tokenID := strings.TrimSpace(chi.URLParam(r, "tokenId"))

	result, err := h.service.VerifyByLedgerTokenID(ctx, tokenID)
	if err != nil {
		h.logger.ErrorContext(ctx, "verify token failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
			"token_id", tokenID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToVerificationResponse(result, h.service.ResolveURL))
}

// HandleLookup filters by certificate_id, token_id and email query parameters.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := models.LookupFilter{
		LedgerTokenID: strings.TrimSpace(q.Get("token_id")),
		StudentEmail:  strings.TrimSpace(q.Get("email")),
	}
	if raw := strings.TrimSpace(q.Get("certificate_id")); raw != "" {
		certID, err := id.ParseCertificateID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.CertificateID = &certID
	}

	certs, err := h.service.Lookup(ctx, filter)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			h.logger.ErrorContext(ctx, "certificate lookup failed",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	resp := &models.LookupResponse{
		Certificates: make([]*models.CertificateResponse, 0, len(certs)),
		Count:        len(certs),
	}
	for _, c := range certs {
		resp.Certificates = append(resp.Certificates, models.ToCertificateResponse(c, h.service.ResolveURL))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
