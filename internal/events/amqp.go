package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/waylo/waylo-api/pkg/logger"
)

const accountCreatedQueue = "account.created"

// AMQPPublisher forwards account-created events to RabbitMQ so downstream
// consumers (notifications, analytics) can react without touching the
// primary database. Publishing is best effort; errors are logged and
// returned but never interrupt registration.
type AMQPPublisher struct {
	url string
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url}
}

// Listener adapts the publisher to the Bus listener signature.
func (p *AMQPPublisher) Listener() AccountCreatedListener {
	return func(ev AccountCreated) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return p.publish(ctx, ev)
	}
}

func (p *AMQPPublisher) publish(ctx context.Context, ev AccountCreated) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		logger.Warn("rabbitmq dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Warn("rabbitmq channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(accountCreatedQueue, true, false, false, false, nil); err != nil {
		logger.Warn("rabbitmq queue declare failed", "error", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", accountCreatedQueue, false, false, pub); err != nil {
		logger.Warn("rabbitmq publish failed", "error", err)
		return err
	}

	return nil
}
