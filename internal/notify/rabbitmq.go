package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "orders_changes"
	ExchangeType = "topic"

	routingPrefix = "orders."
)

// DialRabbitMQ connects with a short retry loop for container startup.
func DialRabbitMQ(url string) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		slog.Warn("rabbitmq connect failed", "attempt", i+1, "error", err)
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
}

func openExchange(conn *amqp.Connection) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("could not open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		ExchangeName, // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("could not declare exchange: %w", err)
	}
	return ch, nil
}

func routingKey(t EventType) string {
	return routingPrefix + string(t)
}

type RabbitPublisher struct {
	ch *amqp.Channel
}

func NewRabbitPublisher(conn *amqp.Connection) (*RabbitPublisher, error) {
	ch, err := openExchange(conn)
	if err != nil {
		return nil, err
	}
	return &RabbitPublisher{ch: ch}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return p.ch.PublishWithContext(ctx,
		ExchangeName,           // exchange
		routingKey(event.Type), // routing key
		false,                  // mandatory
		false,                  // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   event.OccurredAt,
			Body:        body,
		},
	)
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

// RabbitSubscriber consumes through an exclusive, auto-deleted queue, so
// every subscriber sees every event.
type RabbitSubscriber struct {
	ch *amqp.Channel
}

func NewRabbitSubscriber(conn *amqp.Connection) (*RabbitSubscriber, error) {
	ch, err := openExchange(conn)
	if err != nil {
		return nil, err
	}
	return &RabbitSubscriber{ch: ch}, nil
}

func (s *RabbitSubscriber) Subscribe(ctx context.Context, handler Handler) error {
	q, err := s.ch.QueueDeclare(
		"",    // random name
		false, // non-durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("could not declare queue: %w", err)
	}

	if err := s.ch.QueueBind(q.Name, routingPrefix+"#", ExchangeName, false, nil); err != nil {
		return fmt.Errorf("could not bind queue: %w", err)
	}

	msgs, err := s.ch.Consume(
		q.Name, // queue
		"",     // consumer tag
		true,   // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return fmt.Errorf("could not start consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			var event Event
			if err := json.Unmarshal(d.Body, &event); err != nil {
				slog.WarnContext(ctx, "skipping malformed change event", "error", err)
				continue
			}
			if err := handler(ctx, event); err != nil {
				slog.ErrorContext(ctx, "change event handler failed", "type", event.Type, "order_id", event.OrderID, "error", err)
			}
		}
	}
}

func (s *RabbitSubscriber) Close() error {
	return s.ch.Close()
}
