package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"academix/internal/certificate/ledger"
	"academix/internal/certificate/models"
	id "academix/pkg/domain"
	dErrors "academix/pkg/domain-errors"
)

func (s *ServiceSuite) TestRevoke() {
	ctx := context.Background()

	s.Run("Given an unknown certificate When revoking Then NotFound is returned", func() {
		_, err := s.service.Revoke(ctx, id.CertificateID(uuid.New()), "fraud", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("Given an issued certificate When revoking Then it becomes revoked and verification reports it", func() {
		f := s.seedGraded(studentWallet)
		cert := s.seedCertificate(f, models.StatusIssued, "31")
		s.now = s.now.Add(time.Minute)

		revoked, err := s.service.Revoke(ctx, cert.ID, "academic misconduct", "0xdeadbeef")
		s.Require().NoError(err)
		s.Equal(models.StatusRevoked, revoked.Status)
		s.Equal("academic misconduct", revoked.RevocationReason)
		s.Equal("0xdeadbeef", revoked.LedgerTxRef)
		s.Equal(s.now, revoked.UpdatedAt)

		s.mockLedger.EXPECT().GetToken(gomock.Any(), "31").
			Return(&ledger.TokenRecord{TokenID: "31", MetadataRef: "ipfs://bafymeta", Owner: studentWallet}, nil)

		result, err := s.service.VerifyByCredentialID(ctx, cert.ID)
		s.Require().NoError(err)
		s.False(result.Valid)
		s.Equal(MsgRevoked, result.Message)
		s.NotEqual(MsgPending, result.Message)
		s.NotEqual(MsgNotFound, result.Message)
	})

	s.Run("Given a revoked certificate When revoking again without a tx ref Then the state is unchanged apart from the timestamp", func() {
		f := s.seedGraded(studentWallet)
		cert := s.seedCertificate(f, models.StatusIssued, "32")

		first, err := s.service.Revoke(ctx, cert.ID, "duplicate", "0x01")
		s.Require().NoError(err)
		second, err := s.service.Revoke(ctx, cert.ID, "", "")
		s.Require().NoError(err)

		s.Equal(models.StatusRevoked, second.Status)
		s.Equal(first.RevocationReason, second.RevocationReason)
		s.Equal(first.LedgerTxRef, second.LedgerTxRef)
		s.Equal("32", second.LedgerTokenID)
	})

	s.Run("Given a pending certificate When revoking Then it is revoked without a ledger token", func() {
		f := s.seedGraded(studentWallet)
		cert := s.seedCertificate(f, models.StatusPending, "")

		revoked, err := s.service.Revoke(ctx, cert.ID, "issued in error", "")
		s.Require().NoError(err)
		s.Equal(models.StatusRevoked, revoked.Status)
		s.Empty(revoked.LedgerTokenID)
	})
}
