package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	"academix/internal/certificate/ledger"
	"academix/internal/certificate/models"
	"academix/internal/certificate/service/mocks"
	id "academix/pkg/domain"
	dErrors "academix/pkg/domain-errors"
	"academix/pkg/platform/circuit"
)

func (s *ServiceSuite) TestVerifyByCredentialID() {
	ctx := context.Background()

	s.Run("Given no record When verifying Then the result is invalid and not found", func() {
		result, err := s.service.VerifyByCredentialID(ctx, id.CertificateID(uuid.New()))
		s.Require().NoError(err)
		s.False(result.Valid)
		s.Equal(MsgNotFound, result.Message)
		s.Nil(result.Certificate)
		s.Nil(result.Ledger)
	})

	s.Run("Given a pending certificate When verifying Then it is invalid and the ledger is not asked", func() {
		f := s.seedGraded(studentWallet)
		cert := s.seedCertificate(f, models.StatusPending, "")

		result, err := s.service.VerifyByCredentialID(ctx, cert.ID)
		s.Require().NoError(err)
		s.False(result.Valid)
		s.Equal(MsgPending, result.Message)
		s.Nil(result.Ledger)
	})

	s.Run("Given an issued certificate When the ledger agrees Then it is valid with the ledger view attached", func() {
		f := s.seedGraded(studentWallet)
		cert := s.seedCertificate(f, models.StatusIssued, "41")
		s.mockLedger.EXPECT().GetToken(gomock.Any(), "41").
			Return(&ledger.TokenRecord{TokenID: "41", MetadataRef: "ipfs://bafymeta", Owner: studentWallet, MintedAtBlock: 120}, nil)

		result, err := s.service.VerifyByCredentialID(ctx, cert.ID)
		s.Require().NoError(err)
		s.True(result.Valid)
		s.Equal(MsgValid, result.Message)
		s.False(result.Inconsistent)
		s.Require().NotNil(result.Ledger)
		s.Equal(uint64(120), result.Ledger.MintedAtBlock)
		s.Empty(result.Ledger.Error)
	})

	s.Run("Given an issued certificate When the ledger is unreachable Then it stays valid with a ledger error", func() {
		f := s.seedGraded(studentWallet)
		cert := s.seedCertificate(f, models.StatusIssued, "42")
		s.mockLedger.EXPECT().GetToken(gomock.Any(), "42").Return(nil, dErrors.New(dErrors.CodeUnavailable, "rpc timeout"))

		result, err := s.service.VerifyByCredentialID(ctx, cert.ID)
		s.Require().NoError(err)
		s.True(result.Valid)
		s.Require().NotNil(result.Ledger)
		s.Equal("rpc timeout", result.Ledger.Error)
	})

	s.Run("Given the ledger points at different metadata When verifying Then the result is flagged inconsistent", func() {
		f := s.seedGraded(studentWallet)
		cert := s.seedCertificate(f, models.StatusIssued, "43")
		s.mockLedger.EXPECT().GetToken(gomock.Any(), "43").
			Return(&ledger.TokenRecord{TokenID: "43", MetadataRef: "ipfs://bafyother"}, nil)

		result, err := s.service.VerifyByCredentialID(ctx, cert.ID)
		s.Require().NoError(err)
		s.True(result.Valid)
		s.True(result.Inconsistent)
	})

	s.Run("Given an expired certificate When verifying Then it is invalid", func() {
		f := s.seedGraded(studentWallet)
		cert := s.seedCertificate(f, models.StatusIssued, "44")
		expired := s.now.Add(-time.Minute)
		cert.ExpiresAt = &expired
		s.Require().NoError(s.store.Update(ctx, cert))
		s.mockLedger.EXPECT().GetToken(gomock.Any(), "44").
			Return(&ledger.TokenRecord{TokenID: "44", MetadataRef: "ipfs://bafymeta"}, nil)

		result, err := s.service.VerifyByCredentialID(ctx, cert.ID)
		s.Require().NoError(err)
		s.False(result.Valid)
		s.Equal(MsgExpired, result.Message)
	})
}

func (s *ServiceSuite) TestVerifyByCredentialIDWithOpenBreaker() {
	ctx := context.Background()
	breaker := circuit.New("ledger", circuit.WithFailureThreshold(1), circuit.WithCooldown(time.Hour))
	s.service = s.newService(WithLedgerBreaker(breaker))
	f := s.seedGraded(studentWallet)
	cert := s.seedCertificate(f, models.StatusIssued, "45")

	s.mockLedger.EXPECT().GetToken(gomock.Any(), "45").Return(nil, errors.New("connection refused")).Times(1)

	first, err := s.service.VerifyByCredentialID(ctx, cert.ID)
	s.Require().NoError(err)
	s.True(first.Valid)
	s.True(breaker.IsOpen())

	// The open breaker skips the ledger entirely.
	second, err := s.service.VerifyByCredentialID(ctx, cert.ID)
	s.Require().NoError(err)
	s.True(second.Valid)
	s.Require().NotNil(second.Ledger)
	s.Contains(second.Ledger.Error, "circuit open")
}

func (s *ServiceSuite) TestVerifyByLedgerTokenID() {
	ctx := context.Background()

	s.Run("Given the ledger does not know the token When verifying Then it is invalid and local storage is untouched", func() {
		mockStore := mocks.NewMockStore(s.ctrl)
		svc := New(mockStore, s.academic, s.mockLedger, s.mockStorage)
		s.mockLedger.EXPECT().GetToken(gomock.Any(), "404").Return(nil, dErrors.New(dErrors.CodeNotFound, "token not found"))

		result, err := svc.VerifyByLedgerTokenID(ctx, "404")
		s.Require().NoError(err)
		s.False(result.Valid)
		s.Equal(MsgTokenNotFound, result.Message)
		s.Nil(result.Certificate)
	})

	s.Run("Given the ledger is unavailable When verifying Then it is invalid with a ledger error", func() {
		s.mockLedger.EXPECT().GetToken(gomock.Any(), "50").Return(nil, dErrors.New(dErrors.CodeUnavailable, "dial tcp: refused"))

		result, err := s.service.VerifyByLedgerTokenID(ctx, "50")
		s.Require().NoError(err)
		s.False(result.Valid)
		s.Equal(MsgLedgerUnavailable, result.Message)
		s.Require().NotNil(result.Ledger)
		s.NotEmpty(result.Ledger.Error)
	})

	s.Run("Given a token confirmed on the ledger without a local record When verifying Then it is valid with no certificate", func() {
		s.mockLedger.EXPECT().GetToken(gomock.Any(), "51").
			Return(&ledger.TokenRecord{TokenID: "51", MetadataRef: "ipfs://bafyx", Owner: studentWallet}, nil)

		result, err := s.service.VerifyByLedgerTokenID(ctx, "51")
		s.Require().NoError(err)
		s.True(result.Valid)
		s.Nil(result.Certificate)
		s.True(result.Inconsistent)
		s.Equal(MsgChainOnly, result.Message)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.InconsistenciesTotal))
	})

	s.Run("Given a token whose local record is issued When verifying Then it is valid with the certificate", func() {
		f := s.seedGraded(studentWallet)
		cert := s.seedCertificate(f, models.StatusIssued, "52")
		s.mockLedger.EXPECT().GetToken(gomock.Any(), "52").
			Return(&ledger.TokenRecord{TokenID: "52", MetadataRef: "ipfs://bafymeta"}, nil)

		result, err := s.service.VerifyByLedgerTokenID(ctx, "52")
		s.Require().NoError(err)
		s.True(result.Valid)
		s.Require().NotNil(result.Certificate)
		s.Equal(cert.ID, result.Certificate.ID)
		s.False(result.Inconsistent)
	})

	s.Run("Given a token whose local record is revoked When verifying Then the local revocation wins", func() {
		f := s.seedGraded(studentWallet)
		s.seedCertificate(f, models.StatusRevoked, "53")
		s.mockLedger.EXPECT().GetToken(gomock.Any(), "53").
			Return(&ledger.TokenRecord{TokenID: "53", MetadataRef: "ipfs://bafymeta"}, nil)

		result, err := s.service.VerifyByLedgerTokenID(ctx, "53")
		s.Require().NoError(err)
		s.False(result.Valid)
		s.Equal(MsgRevoked, result.Message)
	})

	s.Run("Given a certificate id used as token hint When the ledger resolves it Then the local record is found by the resolved id", func() {
		f := s.seedGraded(studentWallet)
		cert := s.seedCertificate(f, models.StatusIssued, "54")
		s.mockLedger.EXPECT().GetToken(gomock.Any(), cert.ID.String()).
			Return(&ledger.TokenRecord{TokenID: "54", MetadataRef: "ipfs://bafymeta"}, nil)

		result, err := s.service.VerifyByLedgerTokenID(ctx, cert.ID.String())
		s.Require().NoError(err)
		s.True(result.Valid)
		s.Require().NotNil(result.Certificate)
		s.Equal(cert.ID, result.Certificate.ID)
	})

	s.Run("Given an empty token id When verifying Then InvalidInput is returned", func() {
		_, err := s.service.VerifyByLedgerTokenID(ctx, "")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
