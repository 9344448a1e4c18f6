package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	academic "academix/internal/academic/models"
	"academix/internal/platform/config"
	id "academix/pkg/domain"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

// StudentFinder resolves the email address of a recipient.
type StudentFinder interface {
	FindStudent(ctx context.Context, studentID id.StudentID) (*academic.Student, error)
}

// EmailDispatcher sends notifications through SendGrid.
type EmailDispatcher struct {
	apiKey   string
	host     string
	from     *mail.Email
	students StudentFinder
}

type EmailOption func(*EmailDispatcher)

// WithHost points the dispatcher at another API host, mostly for tests.
func WithHost(host string) EmailOption {
	return func(d *EmailDispatcher) {
		d.host = host
	}
}

func NewEmailDispatcher(cfg config.Notification, students StudentFinder, opts ...EmailOption) *EmailDispatcher {
	d := &EmailDispatcher{
		apiKey:   cfg.SendGridAPIKey,
		host:     sendGridHost,
		from:     mail.NewEmail(cfg.FromName, cfg.FromEmail),
		students: students,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *EmailDispatcher) Send(ctx context.Context, recipientID id.StudentID, n Notification) error {
	student, err := d.students.FindStudent(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("resolve notification recipient: %w", err)
	}
	if student.Email == "" {
		return fmt.Errorf("recipient %s has no email address", recipientID)
	}

	to := mail.NewEmail(student.FullName, student.Email)
	message := mail.NewSingleEmail(d.from, n.Title, to, plainBody(n), htmlBody(n))

	request := sendgrid.GetRequest(d.apiKey, sendGridEndpoint, d.host)
	request.Method = rest.Post
	request.Body = mail.GetRequestBody(message)

	resp, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("send notification email: status %d", resp.StatusCode)
	}
	return nil
}

func plainBody(n Notification) string {
	if n.ActionURL == "" {
		return n.Message
	}
	return n.Message + "\n\n" + n.ActionURL
}

func htmlBody(n Notification) string {
	body := "<p>" + html.EscapeString(n.Message) + "</p>"
	if n.ActionURL != "" {
		body += `<p><a href="` + html.EscapeString(n.ActionURL) + `">View certificate</a></p>`
	}
	return body
}
