// Package tracer is a small tracing surface for the certificate pipeline.
//
// Services depend on the Tracer interface instead of OpenTelemetry directly, so
// tests run with NoopTracer and production wires OTelTracer.
package tracer

import (
	"context"
	"time"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	// End completes the span. A non-nil err marks it failed.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key/value pair attached to spans and events.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration records value in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanIssue          = "certificate.issue"
	SpanRevoke         = "certificate.revoke"
	SpanVerifyByID     = "certificate.verify.id"
	SpanVerifyByToken  = "certificate.verify.token"
	SpanLookup         = "certificate.lookup"
	SpanStageAssemble  = "certificate.stage.assemble"
	SpanStageRender    = "certificate.stage.render"
	SpanStageDocument  = "certificate.stage.document"
	SpanStageMetadata  = "certificate.stage.metadata"
	SpanStageMint      = "certificate.stage.mint"
	SpanLedgerCrossRef = "certificate.ledger.cross_check"
)

// Attribute keys.
const (
	AttrCertificateID = "certificate.id"
	AttrSubmissionID  = "submission.id"
	AttrTokenID       = "ledger.token_id"
	AttrStatus        = "certificate.status"
	AttrCreated       = "certificate.created"
	AttrPlaceholder   = "storage.placeholder"
	AttrFallback      = "ledger.recipient_fallback"
	AttrValid         = "verification.valid"
	AttrResultCount   = "lookup.count"
)

// Event names.
const (
	EventNotificationQueued = "notification.queued"
	EventLedgerSkipped      = "ledger.skipped"
)
