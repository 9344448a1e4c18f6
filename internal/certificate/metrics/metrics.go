// Package metrics provides Prometheus metrics for certificate issuance and verification.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Issuance outcomes.
const (
	OutcomeIssued   = "issued"
	OutcomeExisting = "existing"
	OutcomePending  = "pending"
	OutcomeFailed   = "failed"
)

// Metrics holds the certificate collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	IssuanceTotal          *prometheus.CounterVec   // by outcome
	StageFailuresTotal     *prometheus.CounterVec   // by stage
	StageDurationSeconds   *prometheus.HistogramVec // by stage
	PlaceholderTotal       *prometheus.CounterVec   // by artifact (document, metadata)
	RecipientFallbackTotal prometheus.Counter
	RevocationsTotal       prometheus.Counter
	VerificationsTotal     *prometheus.CounterVec // by path, valid
	InconsistenciesTotal   prometheus.Counter
	NotificationFailures   prometheus.Counter
}

// New registers the collectors with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the collectors with reg (tests pass a fresh registry).
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		IssuanceTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "academix_certificate_issuance_total",
			Help: "Issuance requests by outcome",
		}, []string{"outcome"}),
		StageFailuresTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "academix_certificate_stage_failures_total",
			Help: "Issuance pipeline stage failures by stage",
		}, []string{"stage"}),
		StageDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "academix_certificate_stage_duration_seconds",
			Help:    "Duration of issuance pipeline stages",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		PlaceholderTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "academix_certificate_placeholder_total",
			Help: "Uploads replaced by a placeholder content identifier",
		}, []string{"artifact"}),
		RecipientFallbackTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "academix_certificate_recipient_fallback_total",
			Help: "Mints sent to the default recipient because the student wallet was unusable",
		}),
		RevocationsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "academix_certificate_revocations_total",
			Help: "Certificates revoked",
		}),
		VerificationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "academix_certificate_verifications_total",
			Help: "Verification requests by path and verdict",
		}, []string{"path", "valid"}),
		InconsistenciesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "academix_certificate_inconsistencies_total",
			Help: "Tokens confirmed on the ledger without a local record",
		}),
		NotificationFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "academix_certificate_notification_failures_total",
			Help: "Issuance notifications that could not be dispatched",
		}),
	}
}

func (m *Metrics) RecordIssuance(outcome string) {
	if m == nil {
		return
	}
	m.IssuanceTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordStageFailure(stage string) {
	if m == nil {
		return
	}
	m.StageFailuresTotal.WithLabelValues(stage).Inc()
}

func (m *Metrics) ObserveStage(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.StageDurationSeconds.WithLabelValues(stage).Observe(seconds)
}

func (m *Metrics) RecordPlaceholder(artifact string) {
	if m == nil {
		return
	}
	m.PlaceholderTotal.WithLabelValues(artifact).Inc()
}

func (m *Metrics) RecordRecipientFallback() {
	if m == nil {
		return
	}
	m.RecipientFallbackTotal.Inc()
}

func (m *Metrics) RecordRevocation() {
	if m == nil {
		return
	}
	m.RevocationsTotal.Inc()
}

func (m *Metrics) RecordVerification(path string, valid bool) {
	if m == nil {
		return
	}
	label := "false"
	if valid {
		label = "true"
	}
	m.VerificationsTotal.WithLabelValues(path, label).Inc()
}

func (m *Metrics) RecordInconsistency() {
	if m == nil {
		return
	}
	m.InconsistenciesTotal.Inc()
}

func (m *Metrics) RecordNotificationFailure() {
	if m == nil {
		return
	}
	m.NotificationFailures.Inc()
}
