package models

import (
	"strings"
	"time"

	id "academix/pkg/domain"
)

// Status is the lifecycle state of a certificate.
type Status string

const (
	StatusPending Status = "pending"
	StatusIssued  Status = "issued"
	StatusRevoked Status = "revoked"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusIssued, StatusRevoked:
		return true
	}
	return false
}

// PlaceholderPrefix marks a content identifier that stands in for a failed upload.
const PlaceholderPrefix = "placeholder-"

// PlaceholderCID derives the deterministic stand-in content identifier for a certificate.
func PlaceholderCID(certID id.CertificateID) string {
	return PlaceholderPrefix + certID.Short()
}

// IsPlaceholderCID reports whether cid was produced by PlaceholderCID.
func IsPlaceholderCID(cid string) bool {
	return strings.HasPrefix(cid, PlaceholderPrefix)
}

// Certificate is the persisted credential record. Optional text fields are
// empty until the corresponding pipeline stage has run.
type Certificate struct {
	ID               id.CertificateID
	StudentID        id.StudentID
	CourseID         id.CourseID
	ExamID           id.ExamID
	SubmissionID     id.SubmissionID
	Status           Status
	LedgerTokenID    string
	DocumentCID      string
	MetadataCID      string
	LedgerTxRef      string
	RevocationReason string
	IssuedAt         time.Time
	ExpiresAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	// Version is the stored revision this copy was read at. Store.Update only
	// applies when it still matches and advances it on success.
	Version int64
}

// NewPendingCertificate builds the record persisted before any external call.
func NewPendingCertificate(studentID id.StudentID, courseID id.CourseID, examID id.ExamID, submissionID id.SubmissionID, now time.Time, validity time.Duration) *Certificate {
	cert := &Certificate{
		ID:           id.NewCertificateID(),
		StudentID:    studentID,
		CourseID:     courseID,
		ExamID:       examID,
		SubmissionID: submissionID,
		Status:       StatusPending,
		IssuedAt:     now,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}
	if validity > 0 {
		expires := now.Add(validity)
		cert.ExpiresAt = &expires
	}
	return cert
}

// IsExpired reports whether the certificate carries an expiry that has passed.
func (c *Certificate) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// MarkIssued records a confirmed mint.
func (c *Certificate) MarkIssued(tokenID, txRef string, now time.Time) {
	c.LedgerTokenID = tokenID
	c.LedgerTxRef = txRef
	c.Status = StatusIssued
	c.UpdatedAt = now
}

// MarkRevoked moves the certificate to its terminal state. An empty txRef keeps
// the previously recorded one.
func (c *Certificate) MarkRevoked(reason, txRef string, now time.Time) {
	c.Status = StatusRevoked
	if reason != "" {
		c.RevocationReason = reason
	}
	if txRef != "" {
		c.LedgerTxRef = txRef
	}
	c.UpdatedAt = now
}

// LedgerView is what the ledger reports about a token, or why it could not.
type LedgerView struct {
	TokenID       string `json:"token_id"`
	MetadataRef   string `json:"metadata_ref,omitempty"`
	Owner         string `json:"owner,omitempty"`
	MintedAtBlock uint64 `json:"minted_at_block,omitempty"`
	Error         string `json:"error,omitempty"`
}

// VerificationResult is the single verdict returned by both verification paths.
// Inconsistent is set when the ledger and the local record disagree.
type VerificationResult struct {
	Valid        bool
	Message      string
	Inconsistent bool
	Certificate  *Certificate
	Ledger       *LedgerView
}

// LookupFilter selects certificates. At least one field must be set.
type LookupFilter struct {
	CertificateID *id.CertificateID
	LedgerTokenID string
	StudentEmail  string
}

func (f LookupFilter) IsEmpty() bool {
	return f.CertificateID == nil && strings.TrimSpace(f.LedgerTokenID) == "" && strings.TrimSpace(f.StudentEmail) == ""
}

// ListFilter is the store-level form of LookupFilter with the email already
// resolved. Set fields combine with AND.
type ListFilter struct {
	CertificateID *id.CertificateID
	LedgerTokenID string
	StudentID     *id.StudentID
	Status        Status
	// UpdatedBefore keeps records last touched strictly before the given time.
	UpdatedBefore *time.Time
	// Limit caps the result size when positive.
	Limit int
}

// CertificateData is everything the renderer and the metadata bundle need.
type CertificateData struct {
	CertificateID id.CertificateID
	StudentName   string
	StudentEmail  string
	CourseName    string
	ExamTitle     string
	Score         float64
	IssuedAt      time.Time
	ExpiresAt     *time.Time
	Issuer        string
}

// Attribute is one flattened key/value pair of the metadata bundle.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
}

// MetadataBundle is the JSON document anchored on the ledger as the token URI target.
type MetadataBundle struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}
