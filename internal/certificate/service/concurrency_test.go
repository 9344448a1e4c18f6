package service

import (
	"context"
	"time"

	"go.uber.org/mock/gomock"

	"academix/internal/certificate/ledger"
	"academix/internal/certificate/models"
	"academix/internal/certificate/service/mocks"
	id "academix/pkg/domain"
	dErrors "academix/pkg/domain-errors"
	"academix/pkg/platform/sentinel"
)

func (s *ServiceSuite) TestRevokeDuringIssue() {
	ctx := context.Background()

	s.Run("Given a revoke while the document uploads When issuing Then the pipeline stops and the record stays revoked", func() {
		f := s.seedGraded(studentWallet)
		s.mockStorage.EXPECT().PutBlob(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ []byte, _ string) (string, error) {
				pending, err := s.store.FindBySubmission(ctx, f.submission.ID)
				s.Require().NoError(err)
				_, err = s.service.Revoke(ctx, pending.ID, "fraud", "")
				s.Require().NoError(err)
				return "bafydoc", nil
			})

		cert, err := s.service.Issue(ctx, f.student.ID, f.exam.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusRevoked, cert.Status)
		s.Equal("fraud", cert.RevocationReason)

		stored, err := s.store.FindBySubmission(ctx, f.submission.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusRevoked, stored.Status)
		s.Equal("fraud", stored.RevocationReason)
		s.Empty(stored.DocumentCID)
	})

	s.Run("Given a revoke while the token mints When issuing Then the mint does not overwrite the revocation", func() {
		f := s.seedGraded(studentWallet)
		s.mockStorage.EXPECT().PutBlob(gomock.Any(), gomock.Any(), gomock.Any()).Return("bafydoc", nil)
		s.mockStorage.EXPECT().PutJSON(gomock.Any(), gomock.Any(), gomock.Any()).Return("bafymeta", nil)
		s.mockLedger.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, idHint, _, _ string) (*ledger.MintReceipt, error) {
				certID, err := id.ParseCertificateID(idHint)
				s.Require().NoError(err)
				_, err = s.service.Revoke(ctx, certID, "fraud", "")
				s.Require().NoError(err)
				return &ledger.MintReceipt{TxRef: "0x77", AssignedTokenID: ptr("77")}, nil
			})

		cert, err := s.service.Issue(ctx, f.student.ID, f.exam.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusRevoked, cert.Status)

		stored, err := s.store.FindBySubmission(ctx, f.submission.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusRevoked, stored.Status)
		s.Equal("fraud", stored.RevocationReason)
		s.Empty(stored.LedgerTokenID)
		s.Equal("bafymeta", stored.MetadataCID)
	})
}

func (s *ServiceSuite) TestClaimPendingIsExclusive() {
	ctx := context.Background()
	f := s.seedGraded(studentWallet)
	s.seedCertificate(f, models.StatusPending, "")
	s.now = s.now.Add(time.Hour)

	first, err := s.store.FindBySubmission(ctx, f.submission.ID)
	s.Require().NoError(err)
	second, err := s.store.FindBySubmission(ctx, f.submission.ID)
	s.Require().NoError(err)
	s.Require().True(s.service.shouldResume(first))
	s.Require().True(s.service.shouldResume(second))

	_, claimed, err := s.service.claimPending(ctx, first)
	s.Require().NoError(err)
	s.True(claimed)

	current, claimed, err := s.service.claimPending(ctx, second)
	s.Require().NoError(err)
	s.False(claimed)
	s.Equal(s.now, current.UpdatedAt)
	s.False(s.service.shouldResume(current))
}

func (s *ServiceSuite) TestRevokeRetriesAfterConcurrentWrite() {
	ctx := context.Background()
	f := s.seedGraded(studentWallet)
	mockStore := mocks.NewMockStore(s.ctrl)
	svc := New(mockStore, s.academic, s.mockLedger, s.mockStorage, WithClock(func() time.Time { return s.now }))

	stale := models.NewPendingCertificate(f.student.ID, f.course.ID, f.exam.ID, f.submission.ID, s.now, 0)
	fresh := *stale
	fresh.DocumentCID = "bafydoc"
	fresh.Version = 2

	s.Run("Given the record moves once When revoking Then the revoke is applied on a fresh read", func() {
		gomock.InOrder(
			mockStore.EXPECT().FindByID(gomock.Any(), stale.ID).Return(stale, nil),
			mockStore.EXPECT().Update(gomock.Any(), gomock.Any()).Return(sentinel.ErrInvalidState),
			mockStore.EXPECT().FindByID(gomock.Any(), stale.ID).Return(&fresh, nil),
			mockStore.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c *models.Certificate) error {
				s.Equal(int64(2), c.Version)
				s.Equal("bafydoc", c.DocumentCID)
				return nil
			}),
		)

		cert, err := svc.Revoke(ctx, stale.ID, "fraud", "")
		s.Require().NoError(err)
		s.Equal(models.StatusRevoked, cert.Status)
	})

	s.Run("Given the record keeps moving When revoking Then a conflict is returned", func() {
		mockStore.EXPECT().FindByID(gomock.Any(), stale.ID).DoAndReturn(func(context.Context, id.CertificateID) (*models.Certificate, error) {
			c := *stale
			return &c, nil
		}).Times(revokeAttempts)
		mockStore.EXPECT().Update(gomock.Any(), gomock.Any()).Return(sentinel.ErrInvalidState).Times(revokeAttempts)

		_, err := svc.Revoke(ctx, stale.ID, "fraud", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}
