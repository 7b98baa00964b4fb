// Package messaging delivers customer notifications over RabbitMQ. An
// external mailer consumes the queue; this system only publishes.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationQueue receives one message per finished order.
const NotificationQueue = "order.notifications"

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return &RabbitMQ{conn: conn, channel: channel}, nil
}

// DeclareQueue creates a durable queue if it doesn't exist.
func (r *RabbitMQ) DeclareQueue(name string) error {
	_, err := r.channel.QueueDeclare(
		name,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	return nil
}

// Publish sends a message to a queue.
func (r *RabbitMQ) Publish(ctx context.Context, queue string, message []byte) error {
	err := r.channel.PublishWithContext(ctx,
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        message,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Close closes the channel and connection.
func (r *RabbitMQ) Close() {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		r.conn.Close()
	}
}

// notificationMessage is the queue payload the mailer consumes.
type notificationMessage struct {
	OrderID   string    `json:"orderId"`
	Succeeded bool      `json:"succeeded"`
	SentAt    time.Time `json:"sentAt"`
}

// NotificationPublisher implements consumer.NotificationSender on top of
// the notification queue.
type NotificationPublisher struct {
	mq *RabbitMQ
}

func NewNotificationPublisher(mq *RabbitMQ) (*NotificationPublisher, error) {
	if err := mq.DeclareQueue(NotificationQueue); err != nil {
		return nil, err
	}
	return &NotificationPublisher{mq: mq}, nil
}

// Send queues the customer notification for one finished order.
func (p *NotificationPublisher) Send(ctx context.Context, orderID string, succeeded bool) error {
	body, err := json.Marshal(notificationMessage{
		OrderID:   orderID,
		Succeeded: succeeded,
		SentAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	return p.mq.Publish(ctx, NotificationQueue, body)
}
