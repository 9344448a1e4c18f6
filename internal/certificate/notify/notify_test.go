package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	academic "academix/internal/academic/models"
	"academix/internal/academic/store"
	"academix/internal/platform/config"
	"academix/internal/platform/kafka/producer"
	id "academix/pkg/domain"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, msg *producer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockPublisher) Flush(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *mockPublisher) Close() error                    { return m.Called().Error(0) }

type recordingDispatcher struct {
	calls int
	err   error
}

func (r *recordingDispatcher) Send(context.Context, id.StudentID, Notification) error {
	r.calls++
	return r.err
}

var sample = Notification{
	Title:         "Your certificate is ready",
	Message:       "Congratulations on completing Cryptography.",
	ActionURL:     "https://portal.example.org/certificates/abc",
	CertificateID: "abc",
	Metadata:      map[string]string{"status": "issued"},
}

func TestKafkaDispatcher(t *testing.T) {
	recipient := id.StudentID(uuid.New())
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(msg *producer.Message) bool {
		var env envelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			return false
		}
		return msg.Topic == "academix.notifications" &&
			string(msg.Key) == recipient.String() &&
			msg.Headers["certificate_id"] == "abc" &&
			env.RecipientID == recipient.String() &&
			env.Title == sample.Title &&
			env.EventID != ""
	})).Return(nil).Once()

	err := NewKafkaDispatcher(pub, "academix.notifications").Send(context.Background(), recipient, sample)
	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestKafkaDispatcherPublishError(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := NewKafkaDispatcher(pub, "t").Send(context.Background(), id.StudentID(uuid.New()), sample)
	assert.ErrorContains(t, err, "broker down")
}

func TestEmailDispatcher(t *testing.T) {
	students := store.NewInMemoryStore()
	student := academic.Student{ID: id.StudentID(uuid.New()), Email: "ada@example.edu", FullName: "Ada Lovelace"}
	require.NoError(t, students.PutStudent(context.Background(), student))

	cfg := config.Notification{SendGridAPIKey: "SG.test", FromEmail: "certs@academix.local", FromName: "Academix"}

	t.Run("sends to the student's address", func(t *testing.T) {
		var body map[string]any
		var auth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, sendGridEndpoint, r.URL.Path)
			auth = r.Header.Get("Authorization")
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &body)
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		err := NewEmailDispatcher(cfg, students, WithHost(srv.URL)).Send(context.Background(), student.ID, sample)
		require.NoError(t, err)
		assert.Equal(t, "Bearer SG.test", auth)
		assert.Equal(t, sample.Title, body["subject"])
		assert.Contains(t, mustJSON(t, body["personalizations"]), "ada@example.edu")
	})

	t.Run("provider error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		err := NewEmailDispatcher(cfg, students, WithHost(srv.URL)).Send(context.Background(), student.ID, sample)
		assert.ErrorContains(t, err, "status 401")
	})

	t.Run("unknown recipient", func(t *testing.T) {
		err := NewEmailDispatcher(cfg, students).Send(context.Background(), id.StudentID(uuid.New()), sample)
		assert.Error(t, err)
	})
}

func TestMultiAttemptsEveryChannel(t *testing.T) {
	failing := &recordingDispatcher{err: errors.New("smtp down")}
	ok := &recordingDispatcher{}

	err := Multi{failing, nil, ok}.Send(context.Background(), id.StudentID(uuid.New()), sample)

	assert.ErrorContains(t, err, "smtp down")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
