// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets these values; services and stores read them without importing net/http.
package requestcontext

import (
	"context"
	"time"

	id "academix/pkg/domain"
)

type (
	studentIDKey   struct{}
	adminActorKey  struct{}
	clientIPKey    struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyStudentID   = studentIDKey{}
	ContextKeyAdminActor  = adminActorKey{}
	ContextKeyClientIP    = clientIPKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// StudentID retrieves the authenticated student from the context.
// Returns the zero value if the caller is not an authenticated student.
func StudentID(ctx context.Context) id.StudentID {
	if studentID, ok := ctx.Value(ContextKeyStudentID).(id.StudentID); ok {
		return studentID
	}
	return id.StudentID{}
}

func WithStudentID(ctx context.Context, studentID id.StudentID) context.Context {
	return context.WithValue(ctx, ContextKeyStudentID, studentID)
}

// AdminActor returns the admin caller identifier, or "" for non-admin requests.
func AdminActor(ctx context.Context) string {
	if actor, ok := ctx.Value(ContextKeyAdminActor).(string); ok {
		return actor
	}
	return ""
}

// IsAdmin reports whether the request was authenticated with the admin token.
func IsAdmin(ctx context.Context) bool {
	_, ok := ctx.Value(ContextKeyAdminActor).(string)
	return ok
}

func WithAdminActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, ContextKeyAdminActor, actor)
}

func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ContextKeyClientIP, ip)
}

func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (background tasks, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins "now" for everything downstream of ctx.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
