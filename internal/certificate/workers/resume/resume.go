package resume

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"academix/internal/certificate/models"
	id "academix/pkg/domain"
)

// PendingLister finds certificates by store filter.
type PendingLister interface {
	List(ctx context.Context, filter models.ListFilter) ([]*models.Certificate, error)
}

// Issuer re-enters the issuance pipeline for a (student, exam) pair.
type Issuer interface {
	Issue(ctx context.Context, studentID id.StudentID, examID id.ExamID) (*models.Certificate, error)
}

// Result summarizes one resume run.
type Result struct {
	Scanned      int
	Issued       int
	StillPending int
	Revoked      int
	Failed       int
}

// Service periodically retries certificates left pending by a failed mint or upload.
type Service struct {
	store     PendingLister
	issuer    Issuer
	interval  time.Duration
	idleAfter time.Duration
	batchSize int
	now       func() time.Time
	logger    *slog.Logger
}

type Option func(*Service)

// WithInterval overrides the run interval when greater than zero.
func WithInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithIdleAfter sets how long a record must sit untouched before it is picked
// up. It should match the issuance resume window so Issue does not short-circuit.
func WithIdleAfter(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.idleAfter = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(store PendingLister, issuer Issuer, opts ...Option) (*Service, error) {
	if store == nil || issuer == nil {
		return nil, fmt.Errorf("store and issuer are required")
	}
	svc := &Service{
		store:     store,
		issuer:    issuer,
		interval:  5 * time.Minute,
		idleAfter: 2 * time.Minute,
		batchSize: 50,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// Start runs RunOnce periodically until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			res, err := s.RunOnce(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "pending certificate resume failed", "error", err)
			}
			if res.Scanned > 0 {
				s.logger.InfoContext(ctx, "pending certificates resumed",
					"scanned", res.Scanned,
					"issued", res.Issued,
					"still_pending", res.StillPending,
				"revoked", res.Revoked,
					"failed", res.Failed,
				)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// RunOnce re-issues one batch of stale pending certificates. Per-record
// failures are joined into the returned error and do not stop the batch.
func (s *Service) RunOnce(ctx context.Context) (Result, error) {
	var res Result
	cutoff := s.now().Add(-s.idleAfter)

	pending, err := s.store.List(ctx, models.ListFilter{
		Status:        models.StatusPending,
		UpdatedBefore: &cutoff,
		Limit:         s.batchSize,
	})
	if err != nil {
		return res, fmt.Errorf("list pending certificates: %w", err)
	}

	var errs []error
	for _, c := range pending {
		if ctx.Err() != nil {
			break
		}
		res.Scanned++
		cert, err := s.issuer.Issue(ctx, c.StudentID, c.ExamID)
		switch {
		case err != nil:
			res.Failed++
			errs = append(errs, fmt.Errorf("resume certificate %s: %w", c.ID, err))
		case cert.Status == models.StatusPending:
			res.StillPending++
		case cert.Status == models.StatusRevoked:
			res.Revoked++
		default:
			res.Issued++
		}
	}

	if len(errs) > 0 {
		return res, errors.Join(errs...)
	}
	return res, nil
}
