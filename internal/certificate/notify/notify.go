// Package notify delivers best-effort notifications about certificates.
package notify

import (
	"context"
	"errors"

	id "academix/pkg/domain"
)

// Notification is the payload handed to every channel.
type Notification struct {
	Title         string            `json:"title"`
	Message       string            `json:"message"`
	ActionURL     string            `json:"action_url,omitempty"`
	CertificateID string            `json:"certificate_id"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Dispatcher sends a notification to one student.
type Dispatcher interface {
	Send(ctx context.Context, recipientID id.StudentID, n Notification) error
}

// Multi fans a notification out to every channel. All channels are attempted;
// their errors are joined.
type Multi []Dispatcher

func (m Multi) Send(ctx context.Context, recipientID id.StudentID, n Notification) error {
	var errs []error
	for _, d := range m {
		if d == nil {
			continue
		}
		if err := d.Send(ctx, recipientID, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Noop drops every notification.
type Noop struct{}

func (Noop) Send(context.Context, id.StudentID, Notification) error { return nil }
