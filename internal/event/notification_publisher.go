package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationPublisher publishes notification and audit events to RabbitMQ.
// All publishing is best-effort; callers log and move on when it fails.
type NotificationPublisher struct {
	conn              *RabbitMQConnection
	messagesPublished int64
	messagesFailed    int64
	lastPublishTime   time.Time
}

// NewNotificationPublisher creates a new notification event publisher
func NewNotificationPublisher(conn *RabbitMQConnection) *NotificationPublisher {
	return &NotificationPublisher{
		conn:            conn,
		lastPublishTime: time.Now(),
	}
}

// PublishNotification publishes a notification event to the push_noti_events queue
func (p *NotificationPublisher) PublishNotification(ctx context.Context, event NotificationEventPushModel) error {
	return p.publish(ctx, PushNotiQueue, event)
}

// PublishAudit publishes an audit event to the audit_events queue
func (p *NotificationPublisher) PublishAudit(ctx context.Context, event AuditEventModel) error {
	return p.publish(ctx, AuditQueue, event)
}

func (p *NotificationPublisher) publish(ctx context.Context, queue string, event any) error {
	if p.conn == nil || p.conn.Channel == nil {
		p.messagesFailed++
		return fmt.Errorf("rabbitmq channel not available")
	}

	_, err := p.conn.Channel.QueueDeclare(
		queue, // queue name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",    // exchange
		queue, // routing key (queue name)
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.messagesPublished++
	p.lastPublishTime = time.Now()

	return nil
}

// GetMetrics returns publisher metrics
func (p *NotificationPublisher) GetMetrics() map[string]any {
	return map[string]any{
		"messages_published": p.messagesPublished,
		"messages_failed":    p.messagesFailed,
		"last_publish_time":  p.lastPublishTime,
	}
}

// HealthCheck returns the health status of the publisher
func (p *NotificationPublisher) HealthCheck() bool {
	if p.conn == nil || p.conn.Connection == nil {
		return false
	}
	if p.conn.Connection.IsClosed() {
		slog.Warn("RabbitMQ connection is closed")
		return false
	}
	return true
}
