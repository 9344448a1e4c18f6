// Package service runs the certificate lifecycle (issue, revoke) and answers
// verification and lookup queries against the local store and the ledger.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	academic "academix/internal/academic/models"
	"academix/internal/certificate/assembler"
	"academix/internal/certificate/ledger"
	"academix/internal/certificate/metrics"
	"academix/internal/certificate/models"
	"academix/internal/certificate/notify"
	"academix/internal/certificate/render"
	"academix/internal/certificate/tracer"
	id "academix/pkg/domain"
	"academix/pkg/platform/circuit"
)

// Store persists certificate records.
// Error contract: lookups return sentinel.ErrNotFound when nothing matches.
// Update is a compare-and-swap on Certificate.Version that also keeps revoked
// records revoked; a lost race is sentinel.ErrInvalidState.
type Store interface {
	CreateIfAbsent(ctx context.Context, cert *models.Certificate) (*models.Certificate, bool, error)
	FindByID(ctx context.Context, certID id.CertificateID) (*models.Certificate, error)
	FindBySubmission(ctx context.Context, submissionID id.SubmissionID) (*models.Certificate, error)
	FindByLedgerTokenID(ctx context.Context, tokenID string) (*models.Certificate, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Certificate, error)
	Update(ctx context.Context, cert *models.Certificate) error
}

// AcademicReader reads the submissions, exams, courses and students owned by
// other services. Missing records are sentinel.ErrNotFound.
type AcademicReader interface {
	FindGradedSubmission(ctx context.Context, studentID id.StudentID, examID id.ExamID) (*academic.Submission, error)
	FindExam(ctx context.Context, examID id.ExamID) (*academic.Exam, error)
	FindCourse(ctx context.Context, courseID id.CourseID) (*academic.Course, error)
	FindStudent(ctx context.Context, studentID id.StudentID) (*academic.Student, error)
	FindStudentByEmail(ctx context.Context, email string) (*academic.Student, error)
}

// Ledger is the part of the ledger gateway the service calls.
type Ledger interface {
	Mint(ctx context.Context, idHint, metadataRef, recipient string) (*ledger.MintReceipt, error)
	GetToken(ctx context.Context, tokenID string) (*ledger.TokenRecord, error)
}

// ContentStorage uploads documents and resolves their retrieval URLs.
type ContentStorage interface {
	PutBlob(ctx context.Context, data []byte, name string) (string, error)
	PutJSON(ctx context.Context, doc any, name string) (string, error)
	ResolveURL(cid string) string
}

// Dispatcher delivers the post-issuance notification.
type Dispatcher interface {
	Send(ctx context.Context, recipientID id.StudentID, n notify.Notification) error
}

// Renderer turns certificate data into document bytes.
type Renderer func(data models.CertificateData) ([]byte, error)

const (
	defaultStageTimeout  = 30 * time.Second
	defaultNotifyTimeout = 10 * time.Second
	defaultResumeAfter   = 2 * time.Minute
	defaultIssuer        = "Academix"
)

type Service struct {
	store      Store
	academic   AcademicReader
	ledger     Ledger
	storage    ContentStorage
	dispatcher Dispatcher
	render     Renderer
	assembler  *assembler.Assembler

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
	breaker *circuit.Breaker
	now     func() time.Time

	issuer           string
	stageTimeout     time.Duration
	notifyTimeout    time.Duration
	resumeAfter      time.Duration
	validity         time.Duration
	defaultRecipient string
	portalBaseURL    string

	inflight sync.WaitGroup
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithDispatcher sets the notification channel. Without it notifications are dropped.
func WithDispatcher(d Dispatcher) Option {
	return func(s *Service) {
		if d != nil {
			s.dispatcher = d
		}
	}
}

func WithRenderer(r Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.render = r
		}
	}
}

// WithLedgerBreaker guards verification-time ledger reads. Issuance mints are
// never skipped by the breaker.
func WithLedgerBreaker(b *circuit.Breaker) Option {
	return func(s *Service) {
		s.breaker = b
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithStageTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.stageTimeout = d
		}
	}
}

func WithNotifyTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.notifyTimeout = d
		}
	}
}

// WithResumeAfter sets how long a pending record must be idle before a
// repeated issue call re-runs its pipeline.
func WithResumeAfter(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.resumeAfter = d
		}
	}
}

// WithValidity makes new certificates expire validity after issuance. Zero means never.
func WithValidity(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.validity = d
		}
	}
}

func WithDefaultRecipient(addr string) Option {
	return func(s *Service) {
		s.defaultRecipient = addr
	}
}

func WithIssuer(issuer string) Option {
	return func(s *Service) {
		if issuer != "" {
			s.issuer = issuer
		}
	}
}

// WithPortalBaseURL sets the base of the action link placed in notifications.
func WithPortalBaseURL(base string) Option {
	return func(s *Service) {
		s.portalBaseURL = base
	}
}

func New(store Store, reader AcademicReader, ledgerGateway Ledger, storage ContentStorage, opts ...Option) *Service {
	s := &Service{
		store:         store,
		academic:      reader,
		ledger:        ledgerGateway,
		storage:       storage,
		dispatcher:    notify.Noop{},
		render:        render.Render,
		logger:        slog.Default(),
		tracer:        tracer.NewNoop(),
		now:           time.Now,
		issuer:        defaultIssuer,
		stageTimeout:  defaultStageTimeout,
		notifyTimeout: defaultNotifyTimeout,
		resumeAfter:   defaultResumeAfter,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.assembler = assembler.New(reader, s.issuer)
	return s
}

// ResolveURL exposes the storage gateway's URL resolution for response mapping.
func (s *Service) ResolveURL(cid string) string {
	return s.storage.ResolveURL(cid)
}

// Wait blocks until every detached notification has finished.
func (s *Service) Wait() {
	s.inflight.Wait()
}

// stage bounds one external call with the configured timeout.
func (s *Service) stage(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.stageTimeout)
}
