package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	academic "academix/internal/academic/models"
	"academix/internal/certificate/ledger"
	"academix/internal/certificate/metrics"
	"academix/internal/certificate/models"
	"academix/internal/certificate/notify"
	"academix/internal/certificate/service/mocks"
	id "academix/pkg/domain"
	dErrors "academix/pkg/domain-errors"
	"academix/pkg/platform/sentinel"
)

func (s *ServiceSuite) TestIssue() {
	ctx := context.Background()

	s.Run("Given a graded submission When issuing Then the certificate is rendered, uploaded, minted and stored as issued", func() {
		f := s.seedGraded(studentWallet)

		s.mockStorage.EXPECT().PutBlob(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, data []byte, name string) (string, error) {
				s.NotEmpty(data)
				s.Contains(name, ".png")
				return "bafydocument", nil
			}).Times(1)
		s.mockStorage.EXPECT().PutJSON(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, doc any, _ string) (string, error) {
				bundle, ok := doc.(models.MetadataBundle)
				s.Require().True(ok)
				s.Equal("https://gateway.test/ipfs/bafydocument", bundle.Image)
				s.Equal("Analytical Engines - Ada Lovelace", bundle.Name)
				return "bafymetadata", nil
			}).Times(1)
		s.mockLedger.EXPECT().Mint(gomock.Any(), gomock.Any(), "ipfs://bafymetadata", studentWallet).
			Return(&ledger.MintReceipt{TxRef: "0xfeed", AssignedTokenID: ptr("7")}, nil).Times(1)
		s.mockNotify.EXPECT().Send(gomock.Any(), f.student.ID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.StudentID, n notify.Notification) error {
				s.Equal("Your certificate has been issued", n.Title)
				s.Equal("7", n.Metadata["ledger_token_id"])
				s.Contains(n.ActionURL, portalBaseURL+"/certificates/")
				return nil
			}).Times(1)

		cert, err := s.service.Issue(ctx, f.student.ID, f.exam.ID)
		s.Require().NoError(err)

		s.Equal(models.StatusIssued, cert.Status)
		s.Equal("7", cert.LedgerTokenID)
		s.Equal("0xfeed", cert.LedgerTxRef)
		s.Equal("bafydocument", cert.DocumentCID)
		s.Equal("bafymetadata", cert.MetadataCID)
		s.Equal(f.course.ID, cert.CourseID)
		s.Equal(f.submission.ID, cert.SubmissionID)
		s.Equal(s.now, cert.IssuedAt)

		stored, err := s.store.FindByID(ctx, cert.ID)
		s.Require().NoError(err)
		s.Equal(cert.Status, stored.Status)
		s.Equal(cert.LedgerTokenID, stored.LedgerTokenID)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.IssuanceTotal.WithLabelValues(metrics.OutcomeIssued)))
	})

	s.Run("Given an issued certificate When issuing again Then the existing record is returned without new uploads or mints", func() {
		f := s.seedGraded(studentWallet)

		s.mockStorage.EXPECT().PutBlob(gomock.Any(), gomock.Any(), gomock.Any()).Return("bafydoc2", nil).Times(1)
		s.mockStorage.EXPECT().PutJSON(gomock.Any(), gomock.Any(), gomock.Any()).Return("bafymeta2", nil).Times(1)
		s.mockLedger.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&ledger.MintReceipt{TxRef: "0x01", AssignedTokenID: ptr("8")}, nil).Times(1)
		s.expectNotification().Times(1)

		first, err := s.service.Issue(ctx, f.student.ID, f.exam.ID)
		s.Require().NoError(err)

		s.now = s.now.Add(time.Hour)
		second, err := s.service.Issue(ctx, f.student.ID, f.exam.ID)
		s.Require().NoError(err)

		s.Equal(first.ID, second.ID)
		s.Equal(first.LedgerTokenID, second.LedgerTokenID)
		s.Equal(first.UpdatedAt, second.UpdatedAt)

		all, err := s.store.List(ctx, models.ListFilter{StudentID: &f.student.ID})
		s.Require().NoError(err)
		s.Len(all, 1)
	})

	s.Run("Given storage is down for both uploads When the mint succeeds Then the certificate is issued with placeholder content ids", func() {
		f := s.seedGraded(studentWallet)
		unavailable := dErrors.New(dErrors.CodeUnavailable, "storage down")

		s.mockStorage.EXPECT().PutBlob(gomock.Any(), gomock.Any(), gomock.Any()).Return("", unavailable).Times(1)
		s.mockStorage.EXPECT().PutJSON(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, doc any, _ string) (string, error) {
				s.Empty(doc.(models.MetadataBundle).Image)
				return "", unavailable
			}).Times(1)
		s.mockLedger.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any(), studentWallet).
			DoAndReturn(func(_ context.Context, idHint, metadataRef, _ string) (*ledger.MintReceipt, error) {
				s.Equal("ipfs://"+models.PlaceholderPrefix+idHint[:8], metadataRef)
				return &ledger.MintReceipt{TxRef: "0x02", AssignedTokenID: ptr("9")}, nil
			}).Times(1)
		s.expectNotification().Times(1)

		cert, err := s.service.Issue(ctx, f.student.ID, f.exam.ID)
		s.Require().NoError(err)

		s.Equal(models.StatusIssued, cert.Status)
		s.Equal("9", cert.LedgerTokenID)
		s.Equal("0x02", cert.LedgerTxRef)
		s.True(models.IsPlaceholderCID(cert.DocumentCID))
		s.True(models.IsPlaceholderCID(cert.MetadataCID))
		s.Equal(models.PlaceholderCID(cert.ID), cert.DocumentCID)
		s.Equal(2.0, testutil.ToFloat64(s.metrics.PlaceholderTotal.WithLabelValues("document"))+
			testutil.ToFloat64(s.metrics.PlaceholderTotal.WithLabelValues("metadata")))
	})

	s.Run("Given no graded submission When issuing Then NotFound is returned and no record is created", func() {
		f := s.seedGraded(studentWallet)
		otherExam := id.ExamID(uuid.New())

		cert, err := s.service.Issue(ctx, f.student.ID, otherExam)
		s.Require().Error(err)
		s.Nil(cert)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		all, err := s.store.List(ctx, models.ListFilter{StudentID: &f.student.ID})
		s.Require().NoError(err)
		s.Empty(all)
	})

	s.Run("Given a submission that is not graded yet When issuing Then NotFound is returned", func() {
		f := s.seedGraded(studentWallet)
		ungradedExam := academic.Exam{ID: id.ExamID(uuid.New()), CourseID: f.course.ID, Title: "Midterm"}
		s.Require().NoError(s.academic.PutExam(ctx, ungradedExam))
		s.Require().NoError(s.academic.PutSubmission(ctx, academic.Submission{
			ID:        id.SubmissionID(uuid.New()),
			StudentID: f.student.ID,
			ExamID:    ungradedExam.ID,
			Score:     40,
			Status:    "submitted",
		}))

		_, err := s.service.Issue(ctx, f.student.ID, ungradedExam.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("Given the mint fails When issuing Then the certificate stays pending with its uploaded content ids", func() {
		f := s.seedGraded(studentWallet)

		s.mockStorage.EXPECT().PutBlob(gomock.Any(), gomock.Any(), gomock.Any()).Return("bafydoc3", nil).Times(1)
		s.mockStorage.EXPECT().PutJSON(gomock.Any(), gomock.Any(), gomock.Any()).Return("bafymeta3", nil).Times(1)
		s.mockLedger.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnavailable, "node unreachable")).Times(1)
		s.mockNotify.EXPECT().Send(gomock.Any(), f.student.ID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.StudentID, n notify.Notification) error {
				s.Equal("Your certificate is being processed", n.Title)
				return nil
			}).Times(1)

		cert, err := s.service.Issue(ctx, f.student.ID, f.exam.ID)
		s.Require().NoError(err)

		s.Equal(models.StatusPending, cert.Status)
		s.Empty(cert.LedgerTokenID)
		s.Empty(cert.LedgerTxRef)

		stored, err := s.store.FindByID(ctx, cert.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusPending, stored.Status)
		s.Equal("bafydoc3", stored.DocumentCID)
		s.Equal("bafymeta3", stored.MetadataCID)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.StageFailuresTotal.WithLabelValues(stageMint)))
	})

	s.Run("Given a student without a wallet When issuing Then the mint goes to the default recipient and the fallback is counted", func() {
		f := s.seedGraded("")

		s.mockStorage.EXPECT().PutBlob(gomock.Any(), gomock.Any(), gomock.Any()).Return("bafydoc4", nil).Times(1)
		s.mockStorage.EXPECT().PutJSON(gomock.Any(), gomock.Any(), gomock.Any()).Return("bafymeta4", nil).Times(1)
		s.mockLedger.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any(), defaultRecipient).
			Return(&ledger.MintReceipt{TxRef: "0x04", AssignedTokenID: ptr("11")}, nil).Times(1)
		s.expectNotification().Times(1)

		cert, err := s.service.Issue(ctx, f.student.ID, f.exam.ID)
		s.Require().NoError(err)

		s.Equal(models.StatusIssued, cert.Status)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.RecipientFallbackTotal))
	})

	s.Run("Given a malformed wallet When issuing Then the default recipient is used", func() {
		f := s.seedGraded("not-an-address")

		s.mockStorage.EXPECT().PutBlob(gomock.Any(), gomock.Any(), gomock.Any()).Return("bafydoc5", nil).Times(1)
		s.mockStorage.EXPECT().PutJSON(gomock.Any(), gomock.Any(), gomock.Any()).Return("bafymeta5", nil).Times(1)
		s.mockLedger.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any(), defaultRecipient).
			Return(&ledger.MintReceipt{TxRef: "0x05", AssignedTokenID: ptr("12")}, nil).Times(1)
		s.expectNotification().Times(1)

		_, err := s.service.Issue(ctx, f.student.ID, f.exam.ID)
		s.Require().NoError(err)
	})

	s.Run("Given a receipt without an assigned token id When issuing Then the id hint becomes the ledger token id", func() {
		f := s.seedGraded(studentWallet)

		s.mockStorage.EXPECT().PutBlob(gomock.Any(), gomock.Any(), gomock.Any()).Return("bafydoc6", nil).Times(1)
		s.mockStorage.EXPECT().PutJSON(gomock.Any(), gomock.Any(), gomock.Any()).Return("bafymeta6", nil).Times(1)
		s.mockLedger.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&ledger.MintReceipt{TxRef: "0x06"}, nil).Times(1)
		s.expectNotification().Times(1)

		cert, err := s.service.Issue(ctx, f.student.ID, f.exam.ID)
		s.Require().NoError(err)

		s.Equal(models.StatusIssued, cert.Status)
		s.Equal(cert.ID.String(), cert.LedgerTokenID)
	})

	s.Run("Given the notification channel fails When issuing Then the outcome is unchanged", func() {
		f := s.seedGraded(studentWallet)

		s.mockStorage.EXPECT().PutBlob(gomock.Any(), gomock.Any(), gomock.Any()).Return("bafydoc7", nil).Times(1)
		s.mockStorage.EXPECT().PutJSON(gomock.Any(), gomock.Any(), gomock.Any()).Return("bafymeta7", nil).Times(1)
		s.mockLedger.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&ledger.MintReceipt{TxRef: "0x07", AssignedTokenID: ptr("13")}, nil).Times(1)
		s.mockNotify.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down")).Times(1)

		cert, err := s.service.Issue(ctx, f.student.ID, f.exam.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusIssued, cert.Status)

		s.service.Wait()
		s.Equal(1.0, testutil.ToFloat64(s.metrics.NotificationFailures))
	})

	s.Run("Given the student record is missing When issuing Then NotFound is returned before any external call", func() {
		f := s.seedGraded(studentWallet)
		orphan := academic.Submission{
			ID:        id.SubmissionID(uuid.New()),
			StudentID: id.StudentID(uuid.New()),
			ExamID:    f.exam.ID,
			Score:     80,
			Status:    academic.SubmissionStatusGraded,
			GradedAt:  s.now,
		}
		s.Require().NoError(s.academic.PutSubmission(ctx, orphan))

		_, err := s.service.Issue(ctx, orphan.StudentID, f.exam.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Contains(err.Error(), "student not found")
	})

	s.Run("Given the renderer fails When issuing Then an internal error is returned", func() {
		f := s.seedGraded(studentWallet)
		s.service.Wait()
		s.service = s.newService(WithRenderer(func(models.CertificateData) ([]byte, error) {
			return nil, errors.New("font missing")
		}))

		_, err := s.service.Issue(ctx, f.student.ID, f.exam.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("Given a validity period When issuing Then the certificate carries an expiry", func() {
		f := s.seedGraded(studentWallet)
		s.service.Wait()
		s.service = s.newService(WithValidity(365 * 24 * time.Hour))

		s.mockStorage.EXPECT().PutBlob(gomock.Any(), gomock.Any(), gomock.Any()).Return("bafydoc8", nil).Times(1)
		s.mockStorage.EXPECT().PutJSON(gomock.Any(), gomock.Any(), gomock.Any()).Return("bafymeta8", nil).Times(1)
		s.mockLedger.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&ledger.MintReceipt{TxRef: "0x08", AssignedTokenID: ptr("14")}, nil).Times(1)
		s.expectNotification().Times(1)

		cert, err := s.service.Issue(ctx, f.student.ID, f.exam.ID)
		s.Require().NoError(err)
		s.Require().NotNil(cert.ExpiresAt)
		s.Equal(s.now.Add(365*24*time.Hour), *cert.ExpiresAt)
	})

	s.Run("Given a nil exam id When issuing Then InvalidInput is returned", func() {
		_, err := s.service.Issue(ctx, id.StudentID(uuid.New()), id.ExamID{})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *ServiceSuite) TestIssueResumesStalePending() {
	ctx := context.Background()
	f := s.seedGraded(studentWallet)

	gomock.InOrder(
		s.mockLedger.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnavailable, "node unreachable")),
		s.mockLedger.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&ledger.MintReceipt{TxRef: "0x10", AssignedTokenID: ptr("21")}, nil),
	)
	s.mockStorage.EXPECT().PutBlob(gomock.Any(), gomock.Any(), gomock.Any()).Return("bafydoc", nil).Times(2)
	s.mockStorage.EXPECT().PutJSON(gomock.Any(), gomock.Any(), gomock.Any()).Return("bafymeta", nil).Times(2)
	s.expectNotification().Times(2)

	first, err := s.service.Issue(ctx, f.student.ID, f.exam.ID)
	s.Require().NoError(err)
	s.Require().Equal(models.StatusPending, first.Status)

	// Within the resume window the pending record is returned as is.
	s.now = s.now.Add(30 * time.Second)
	again, err := s.service.Issue(ctx, f.student.ID, f.exam.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, again.Status)
	s.Equal(first.ID, again.ID)

	s.now = s.now.Add(5 * time.Minute)
	resumed, err := s.service.Issue(ctx, f.student.ID, f.exam.ID)
	s.Require().NoError(err)
	s.Equal(first.ID, resumed.ID)
	s.Equal(models.StatusIssued, resumed.Status)
	s.Equal("21", resumed.LedgerTokenID)
	s.Equal(first.IssuedAt, resumed.IssuedAt)
}

func (s *ServiceSuite) TestIssueWithStoreErrors() {
	ctx := context.Background()
	f := s.seedGraded(studentWallet)
	mockStore := mocks.NewMockStore(s.ctrl)
	s.service.Wait()
	s.service = New(mockStore, s.academic, s.mockLedger, s.mockStorage,
		WithDispatcher(s.mockNotify),
		WithClock(func() time.Time { return s.now }),
	)

	s.Run("Given another caller won the insert When issuing Then the winner's record is returned without running the pipeline", func() {
		winner := models.NewPendingCertificate(f.student.ID, f.course.ID, f.exam.ID, f.submission.ID, s.now, 0)
		mockStore.EXPECT().FindBySubmission(gomock.Any(), f.submission.ID).Return(nil, sentinel.ErrNotFound)
		mockStore.EXPECT().CreateIfAbsent(gomock.Any(), gomock.Any()).Return(winner, false, nil)

		cert, err := s.service.Issue(ctx, f.student.ID, f.exam.ID)
		s.Require().NoError(err)
		s.Equal(winner.ID, cert.ID)
	})

	s.Run("Given the store fails When checking for an existing certificate Then an internal error is returned", func() {
		mockStore.EXPECT().FindBySubmission(gomock.Any(), f.submission.ID).Return(nil, errors.New("connection reset"))

		_, err := s.service.Issue(ctx, f.student.ID, f.exam.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("Given the academic store fails When issuing Then an internal error is returned", func() {
		reader := mocks.NewMockAcademicReader(s.ctrl)
		svc := New(mockStore, reader, s.mockLedger, s.mockStorage)
		reader.EXPECT().FindGradedSubmission(gomock.Any(), f.student.ID, f.exam.ID).Return(nil, errors.New("timeout"))

		_, err := svc.Issue(ctx, f.student.ID, f.exam.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}
