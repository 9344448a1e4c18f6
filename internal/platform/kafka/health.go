package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Admin wraps a kadm client for broker checks and topic provisioning.
type Admin struct {
	client *kadm.Client
}

// NewAdmin builds an admin client on top of an existing franz-go client.
func NewAdmin(client *kgo.Client) *Admin {
	return &Admin{client: kadm.NewClient(client)}
}

// Check reports whether broker metadata can be fetched.
func (a *Admin) Check(ctx context.Context) error {
	brokers, err := a.client.ListBrokers(ctx)
	if err != nil {
		return fmt.Errorf("list kafka brokers: %w", err)
	}
	if len(brokers) == 0 {
		return fmt.Errorf("no kafka brokers reachable")
	}
	return nil
}

// EnsureTopic creates the topic when it does not exist yet.
func (a *Admin) EnsureTopic(ctx context.Context, topic string, partitions int32, replicationFactor int16) error {
	details, err := a.client.ListTopics(ctx, topic)
	if err != nil {
		return fmt.Errorf("list kafka topics: %w", err)
	}
	if d, ok := details[topic]; ok && d.Err == nil {
		return nil
	}

	resp, err := a.client.CreateTopic(ctx, partitions, replicationFactor, nil, topic)
	if err != nil {
		return fmt.Errorf("create kafka topic %s: %w", topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create kafka topic %s: %w", topic, resp.Err)
	}
	return nil
}
