package events

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/myflix/apiserver/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQBroker publishes events to a RabbitMQ queue.
type RabbitMQBroker struct {
	conn            *amqp.Connection
	channel         *amqp.Channel
	queueDurable    bool
	queueAutoDelete bool
}

// NewRabbitMQBroker constructs a RabbitMQ broker from config.
func NewRabbitMQBroker(cfg config.RabbitMQConfig) (*RabbitMQBroker, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("rabbitmq url is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if cfg.PrefetchCount > 0 {
		if err := ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, err
		}
	}

	return &RabbitMQBroker{
		conn:            conn,
		channel:         ch,
		queueDurable:    cfg.QueueDurable,
		queueAutoDelete: cfg.QueueAutoDelete,
	}, nil
}

// Publish sends a message to the named queue, declaring it if needed.
func (r *RabbitMQBroker) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("rabbitmq channel is required")
	}

	if _, err := r.channel.QueueDeclare(channel, r.queueDurable, r.queueAutoDelete, false, false, nil); err != nil {
		return "", err
	}

	headers := amqp.Table{}
	for key, value := range attrs {
		headers[key] = value
	}

	messageID := newMessageID()
	err := r.channel.PublishWithContext(ctx, "", channel, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   messageID,
		Headers:     headers,
		Body:        data,
	})
	if err != nil {
		return "", err
	}
	return messageID, nil
}

// Close closes the underlying channel and connection.
func (r *RabbitMQBroker) Close() error {
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

func newMessageID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
