package resume

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academix/internal/certificate/models"
	"academix/internal/certificate/store"
	id "academix/pkg/domain"
)

type stubIssuer struct {
	calls   []id.ExamID
	results map[id.ExamID]models.Status
	errs    map[id.ExamID]error
}

func (s *stubIssuer) Issue(_ context.Context, studentID id.StudentID, examID id.ExamID) (*models.Certificate, error) {
	s.calls = append(s.calls, examID)
	if err := s.errs[examID]; err != nil {
		return nil, err
	}
	return &models.Certificate{StudentID: studentID, ExamID: examID, Status: s.results[examID]}, nil
}

func seedPending(t *testing.T, st *store.InMemoryStore, updatedAt time.Time) *models.Certificate {
	t.Helper()
	cert := models.NewPendingCertificate(id.StudentID(uuid.New()), id.CourseID(uuid.New()), id.ExamID(uuid.New()), id.SubmissionID(uuid.New()), updatedAt, 0)
	_, _, err := st.CreateIfAbsent(context.Background(), cert)
	require.NoError(t, err)
	return cert
}

func TestRunOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	st := store.NewInMemoryStore()

	staleIssued := seedPending(t, st, now.Add(-10*time.Minute))
	staleStuck := seedPending(t, st, now.Add(-9*time.Minute))
	staleBroken := seedPending(t, st, now.Add(-8*time.Minute))
	staleRevoked := seedPending(t, st, now.Add(-7*time.Minute))
	fresh := seedPending(t, st, now.Add(-30*time.Second))

	done := seedPending(t, st, now.Add(-time.Hour))
	done.MarkIssued("5", "0x5", now.Add(-time.Hour))
	require.NoError(t, st.Update(ctx, done))

	issuer := &stubIssuer{
		results: map[id.ExamID]models.Status{
			staleIssued.ExamID:  models.StatusIssued,
			staleStuck.ExamID:   models.StatusPending,
			staleRevoked.ExamID: models.StatusRevoked,
		},
		errs: map[id.ExamID]error{staleBroken.ExamID: errors.New("ledger down")},
	}

	svc, err := New(st, issuer,
		WithIdleAfter(2*time.Minute),
		WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	res, err := svc.RunOnce(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), staleBroken.ID.String())

	assert.Equal(t, Result{Scanned: 4, Issued: 1, StillPending: 1, Revoked: 1, Failed: 1}, res)
	assert.ElementsMatch(t, []id.ExamID{staleIssued.ExamID, staleStuck.ExamID, staleBroken.ExamID, staleRevoked.ExamID}, issuer.calls)
	assert.NotContains(t, issuer.calls, fresh.ExamID)
	assert.NotContains(t, issuer.calls, done.ExamID)
}

func TestRunOnceRespectsBatchSize(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	st := store.NewInMemoryStore()
	for range 3 {
		seedPending(t, st, now.Add(-time.Hour))
	}
	issuer := &stubIssuer{}

	svc, err := New(st, issuer, WithBatchSize(2), WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	res, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Scanned)
	assert.Len(t, issuer.calls, 2)
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(nil, &stubIssuer{})
	require.Error(t, err)
}

func TestStartStopsOnCancel(t *testing.T) {
	svc, err := New(store.NewInMemoryStore(), &stubIssuer{}, WithInterval(time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.NoError(t, svc.Start(ctx))
}
