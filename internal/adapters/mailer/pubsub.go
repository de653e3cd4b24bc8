package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"google.golang.org/api/option"
)

const publishTimeout = 30 * time.Second

// envelope is the message body the email worker consumes from the topic.
type envelope struct {
	From     string         `json:"from"`
	To       []string       `json:"to"`
	Subject  string         `json:"subject"`
	Text     string         `json:"text"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	QueuedAt time.Time      `json:"queuedAt"`
}

func encodeEnvelope(from string, msg portssvc.EmailMessage, now time.Time) ([]byte, error) {
	if len(msg.To) == 0 {
		return nil, errors.New("email has no recipients")
	}
	if msg.Subject == "" {
		return nil, errors.New("email has no subject")
	}
	return json.Marshal(envelope{
		From:     from,
		To:       msg.To,
		Subject:  msg.Subject,
		Text:     msg.Text,
		Template: msg.Template,
		Data:     msg.Data,
		QueuedAt: now.UTC(),
	})
}

// PubSubMailer hands outbound email to a worker through a Pub/Sub topic.
type PubSubMailer struct {
	client *pubsub.Client
	topic  *pubsub.Topic
	from   string
}

var _ portssvc.Mailer = (*PubSubMailer)(nil)

func NewPubSubMailer(ctx context.Context, projectID, topicName, from, credentialsJSON string) (*PubSubMailer, error) {
	if projectID == "" {
		return nil, errors.New("PUBSUB_PROJECT_ID is required")
	}
	if topicName == "" {
		return nil, errors.New("PUBSUB_EMAIL_TOPIC is required")
	}

	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	topic := client.Topic(topicName)
	ok, err := topic.Exists(ctx)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to check topic %q: %w", topicName, err)
	}
	if !ok {
		topic, err = client.CreateTopic(ctx, topicName)
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("create topic %q: %w", topicName, err)
		}
	}
	return &PubSubMailer{client: client, topic: topic, from: from}, nil
}

func (m *PubSubMailer) Send(ctx context.Context, msg portssvc.EmailMessage) error {
	data, err := encodeEnvelope(m.from, msg, time.Now())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	result := m.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"template": msg.Template},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("failed to publish email: %w", err)
	}
	return nil
}

// Close flushes pending publishes.
func (m *PubSubMailer) Close() error {
	m.topic.Stop()
	return m.client.Close()
}
