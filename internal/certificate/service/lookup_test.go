package service

import (
	"context"
	"errors"

	"go.uber.org/mock/gomock"

	"academix/internal/certificate/models"
	"academix/internal/certificate/service/mocks"
	dErrors "academix/pkg/domain-errors"
)

func (s *ServiceSuite) TestLookup() {
	ctx := context.Background()

	s.Run("Given no filters When looking up Then InvalidInput is returned", func() {
		_, err := s.service.Lookup(ctx, models.LookupFilter{StudentEmail: "   "})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("Given a whitespace-only token id When looking up Then InvalidInput is returned", func() {
		f := s.seedGraded(studentWallet)
		s.seedCertificate(f, models.StatusIssued, "81")

		certs, err := s.service.Lookup(ctx, models.LookupFilter{LedgerTokenID: "   "})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
		s.Nil(certs)
	})

	s.Run("Given an email that matches no student When looking up Then the result is empty", func() {
		certs, err := s.service.Lookup(ctx, models.LookupFilter{StudentEmail: "nobody@example.edu"})
		s.Require().NoError(err)
		s.NotNil(certs)
		s.Empty(certs)
	})

	s.Run("Given a student's email When looking up Then their certificates are returned", func() {
		f := s.seedGraded(studentWallet)
		cert := s.seedCertificate(f, models.StatusIssued, "61")
		s.seedCertificate(s.seedGraded(studentWallet), models.StatusIssued, "62")

		certs, err := s.service.Lookup(ctx, models.LookupFilter{StudentEmail: f.student.Email})
		s.Require().NoError(err)
		s.Require().Len(certs, 1)
		s.Equal(cert.ID, certs[0].ID)
	})

	s.Run("Given an email and a token id of another student When looking up Then filters combine and nothing matches", func() {
		f := s.seedGraded(studentWallet)
		s.seedCertificate(f, models.StatusIssued, "63")
		s.seedCertificate(s.seedGraded(studentWallet), models.StatusIssued, "64")

		certs, err := s.service.Lookup(ctx, models.LookupFilter{StudentEmail: f.student.Email, LedgerTokenID: "64"})
		s.Require().NoError(err)
		s.Empty(certs)
	})

	s.Run("Given a certificate id When looking up Then exactly that certificate is returned", func() {
		f := s.seedGraded(studentWallet)
		cert := s.seedCertificate(f, models.StatusPending, "")

		certs, err := s.service.Lookup(ctx, models.LookupFilter{CertificateID: &cert.ID})
		s.Require().NoError(err)
		s.Require().Len(certs, 1)
		s.Equal(models.StatusPending, certs[0].Status)
	})

	s.Run("Given the store fails When looking up Then an internal error is returned", func() {
		mockStore := mocks.NewMockStore(s.ctrl)
		svc := New(mockStore, s.academic, s.mockLedger, s.mockStorage)
		mockStore.EXPECT().List(gomock.Any(), models.ListFilter{LedgerTokenID: "65"}).Return(nil, errors.New("db down"))

		_, err := svc.Lookup(ctx, models.LookupFilter{LedgerTokenID: "65"})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}
