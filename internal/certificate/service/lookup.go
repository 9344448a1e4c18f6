package service

import (
	"context"
	"errors"
	"strings"

	"academix/internal/certificate/models"
	"academix/internal/certificate/tracer"
	dErrors "academix/pkg/domain-errors"
	"academix/pkg/platform/sentinel"
)

// Lookup lists local certificates matching every set filter. An email that
// matches no student yields an empty result. The ledger is not consulted.
func (s *Service) Lookup(ctx context.Context, filter models.LookupFilter) (certs []*models.Certificate, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanLookup)
	defer func() { span.End(err) }()

	if filter.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "at least one of certificate_id, token_id or email is required")
	}

	listFilter := models.ListFilter{
		CertificateID: filter.CertificateID,
		LedgerTokenID: strings.TrimSpace(filter.LedgerTokenID),
	}
	if email := strings.TrimSpace(filter.StudentEmail); email != "" {
		student, err := s.academic.FindStudentByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return []*models.Certificate{}, nil
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve student email")
		}
		listFilter.StudentID = &student.ID
	}

	certs, err = s.store.List(ctx, listFilter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list certificates")
	}
	if certs == nil {
		certs = []*models.Certificate{}
	}
	span.SetAttributes(tracer.Int64(tracer.AttrResultCount, int64(len(certs))))
	return certs, nil
}
