package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"academix/internal/platform/kafka/producer"
	id "academix/pkg/domain"
	"academix/pkg/requestcontext"
)

const eventTypeCertificate = "certificate.notification"

type envelope struct {
	EventID     string `json:"event_id"`
	RecipientID string `json:"recipient_id"`
	SentAt      string `json:"sent_at"`
	Notification
}

// KafkaDispatcher publishes notifications for the real-time delivery service
// to pick up. Records are keyed by recipient so one student's events stay ordered.
type KafkaDispatcher struct {
	publisher producer.Publisher
	topic     string
}

func NewKafkaDispatcher(publisher producer.Publisher, topic string) *KafkaDispatcher {
	return &KafkaDispatcher{publisher: publisher, topic: topic}
}

func (d *KafkaDispatcher) Send(ctx context.Context, recipientID id.StudentID, n Notification) error {
	value, err := json.Marshal(envelope{
		EventID:      uuid.NewString(),
		RecipientID:  recipientID.String(),
		SentAt:       requestcontext.Now(ctx).UTC().Format(time.RFC3339),
		Notification: n,
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	err = d.publisher.Publish(ctx, &producer.Message{
		Topic: d.topic,
		Key:   []byte(recipientID.String()),
		Value: value,
		Headers: map[string]string{
			"event_type":     eventTypeCertificate,
			"certificate_id": n.CertificateID,
		},
	})
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
