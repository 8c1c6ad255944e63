package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

var _ Publisher = (*AMQPPublisher)(nil)

// AMQPPublisher publishes events to a RabbitMQ topic exchange, routed by event type.
// A closed channel or connection is reopened on the next publish.
type AMQPPublisher struct {
	url      string
	exchange string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// DialAMQP connects to the broker and declares a durable topic exchange.
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, exchange: exchange}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.channel(); err != nil {
		if p.conn != nil {
			p.conn.Close()
		}
		return nil, err
	}
	return p, nil
}

// channel returns an open channel, redialing the broker and redeclaring the
// exchange as needed. Callers hold p.mu.
func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.ch = nil

	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		p.conn = conn
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", p.exchange, err)
	}
	p.ch = ch
	return ch, nil
}

// Publish sends the event as a persistent JSON message. A publish that fails
// because the channel closed underneath it is retried once on a fresh channel.
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := Encode(event)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for attempt := 0; ; attempt++ {
		ch, err := p.channel()
		if err != nil {
			return fmt.Errorf("failed to publish %s: %w", event.Type, err)
		}
		err = ch.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, msg)
		if err == nil {
			return nil
		}
		if attempt > 0 || !errors.Is(err, amqp.ErrClosed) {
			return fmt.Errorf("failed to publish %s: %w", event.Type, err)
		}
		p.ch = nil
	}
}

// Close closes the channel and connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var chErr error
	if p.ch != nil && !p.ch.IsClosed() {
		chErr = p.ch.Close()
	}
	p.ch = nil
	if p.conn == nil || p.conn.IsClosed() {
		return chErr
	}
	connErr := p.conn.Close()
	if chErr != nil {
		return chErr
	}
	return connErr
}

// Encode renders an event as the JSON message body.
func Encode(event Event) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}
	return body, nil
}
