package models

import (
	s "academix/pkg/string"
	"academix/pkg/validation"
)

// IssueRequest triggers issuance for a (student, exam) pair. StudentID is only
// honoured for admin callers; students are always issued for themselves.
type IssueRequest struct {
	StudentID string `json:"student_id,omitempty" validate:"omitempty,uuid"`
	ExamID    string `json:"exam_id" validate:"required,uuid"`
}

func (r *IssueRequest) Normalize() {
	s.TrimStrings(&r.StudentID, &r.ExamID)
}

func (r *IssueRequest) Validate() error {
	return validation.Validate(r)
}

// RevokeRequest carries the optional reason and on-chain evidence for a revocation.
type RevokeRequest struct {
	Reason      string `json:"reason,omitempty" validate:"max=500"`
	LedgerTxRef string `json:"ledger_tx_ref,omitempty" validate:"omitempty,max=128,startswith=0x,hexadecimal"`
}

func (r *RevokeRequest) Normalize() {
	s.TrimStrings(&r.Reason, &r.LedgerTxRef)
}

func (r *RevokeRequest) Validate() error {
	return validation.Validate(r)
}
