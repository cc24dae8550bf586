package events

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/pubsub"
	"github.com/myflix/apiserver/config"
	"google.golang.org/api/option"
)

// PubSubBroker publishes events to a Google Cloud Pub/Sub topic.
type PubSubBroker struct {
	client *pubsub.Client
}

// NewPubSubBroker constructs a Pub/Sub broker from config.
func NewPubSubBroker(ctx context.Context, cfg config.PubSubConfig) (*PubSubBroker, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("pubsub project id is required")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(cfg.CredentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, err
	}

	return &PubSubBroker{client: client}, nil
}

// Publish sends a message to the named topic, creating it if needed.
func (p *PubSubBroker) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("pubsub channel is required")
	}

	topic, err := p.ensureTopic(ctx, channel)
	if err != nil {
		return "", err
	}
	result := topic.Publish(ctx, &pubsub.Message{Data: data, Attributes: attrs})
	return result.Get(ctx)
}

// Close closes the underlying Pub/Sub client.
func (p *PubSubBroker) Close() error {
	return p.client.Close()
}

func (p *PubSubBroker) ensureTopic(ctx context.Context, name string) (*pubsub.Topic, error) {
	topic := p.client.Topic(name)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return p.client.CreateTopic(ctx, name)
	}
	return topic, nil
}
