package models

import "time"

// CertificateResponse is the public JSON form of a certificate.
type CertificateResponse struct {
	ID               string     `json:"id"`
	StudentID        string     `json:"student_id"`
	CourseID         string     `json:"course_id"`
	ExamID           string     `json:"exam_id"`
	SubmissionID     string     `json:"submission_id"`
	Status           Status     `json:"status"`
	LedgerTokenID    string     `json:"ledger_token_id,omitempty"`
	LedgerTxRef      string     `json:"ledger_tx_ref,omitempty"`
	DocumentCID      string     `json:"document_cid,omitempty"`
	DocumentURL      string     `json:"document_url,omitempty"`
	MetadataCID      string     `json:"metadata_cid,omitempty"`
	MetadataURL      string     `json:"metadata_url,omitempty"`
	RevocationReason string     `json:"revocation_reason,omitempty"`
	IssuedAt         time.Time  `json:"issued_at"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToCertificateResponse maps a record to its JSON form. resolveURL turns a
// content identifier into a retrieval URL and may be nil.
func ToCertificateResponse(c *Certificate, resolveURL func(string) string) *CertificateResponse {
	if c == nil {
		return nil
	}
	resp := &CertificateResponse{
		ID:               c.ID.String(),
		StudentID:        c.StudentID.String(),
		CourseID:         c.CourseID.String(),
		ExamID:           c.ExamID.String(),
		SubmissionID:     c.SubmissionID.String(),
		Status:           c.Status,
		LedgerTokenID:    c.LedgerTokenID,
		LedgerTxRef:      c.LedgerTxRef,
		DocumentCID:      c.DocumentCID,
		MetadataCID:      c.MetadataCID,
		RevocationReason: c.RevocationReason,
		IssuedAt:         c.IssuedAt,
		ExpiresAt:        c.ExpiresAt,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if resolveURL != nil {
		resp.DocumentURL = resolveURL(c.DocumentCID)
		resp.MetadataURL = resolveURL(c.MetadataCID)
	}
	return resp
}

type VerificationResponse struct {
	Valid        bool                 `json:"valid"`
	Message      string               `json:"message"`
	Inconsistent bool                 `json:"inconsistent,omitempty"`
	Certificate  *CertificateResponse `json:"certificate"`
	Ledger       *LedgerView          `json:"ledger,omitempty"`
}

func ToVerificationResponse(r *VerificationResult, resolveURL func(string) string) *VerificationResponse {
	return &VerificationResponse{
		Valid:        r.Valid,
		Message:      r.Message,
		Inconsistent: r.Inconsistent,
		Certificate:  ToCertificateResponse(r.Certificate, resolveURL),
		Ledger:       r.Ledger,
	}
}

type LookupResponse struct {
	Certificates []*CertificateResponse `json:"certificates"`
	Count        int                    `json:"count"`
}
