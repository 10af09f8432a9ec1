package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"eventregistration/internal/domain"
)

// QueueRegistrationCompleted receives one message per fulfilled registration.
const QueueRegistrationCompleted = "registration.completed"

// Bounds the TCP connect and the AMQP handshake. amqp091 waits 30s by default.
const defaultDialTimeout = 2 * time.Second

type amqpPublisher struct {
	url         string
	dialTimeout time.Duration
	logger      *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
}

// Publisher is an EventPublisher that owns a broker connection.
type Publisher interface {
	domain.EventPublisher
	Close() error
}

// NewPublisher returns a RabbitMQ publisher. An empty url returns a publisher that only logs.
// The connection is opened lazily and re-dialed after it drops.
func NewPublisher(url string, logger *slog.Logger) Publisher {
	if url == "" {
		return &noopPublisher{logger: logger}
	}
	return &amqpPublisher{url: url, dialTimeout: defaultDialTimeout, logger: logger}
}

func (p *amqpPublisher) connection(ctx context.Context) (*amqp.Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	timeout := p.dialTimeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		timeout = time.Until(deadline)
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	p.conn = conn
	return conn, nil
}

func (p *amqpPublisher) PublishRegistrationCompleted(ctx context.Context, event domain.RegistrationCompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	conn, err := p.connection(ctx)
	if err != nil {
		return err
	}
	// Channels are not safe for concurrent use; open one per publish.
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(QueueRegistrationCompleted, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	err = ch.PublishWithContext(ctx, "", QueueRegistrationCompleted, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.RegistrationID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	p.logger.Debug("published registration.completed", "registration_id", event.RegistrationID)
	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}

type noopPublisher struct {
	logger *slog.Logger
}

func (n *noopPublisher) PublishRegistrationCompleted(_ context.Context, event domain.RegistrationCompletedEvent) error {
	n.logger.Debug("registration.completed not published (no broker configured)", "registration_id", event.RegistrationID)
	return nil
}

func (n *noopPublisher) Close() error { return nil }
