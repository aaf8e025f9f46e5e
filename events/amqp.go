package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"orderdesk/pkg/logger"
)

const (
	ExchangeOrders = "orders_topic"
	QueueKitchen   = "kitchen.q"
)

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPPublisher forwards order events to the orders topic exchange with
// routing key "order.<type>".
type AMQPPublisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   channel
	log  *logger.Logger
}

func DialAMQP(url string, log *logger.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(ExchangeOrders, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(QueueKitchen, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(QueueKitchen, "order.*", ExchangeOrders, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, log: log}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev OrderEvent) {
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("event_publish", "", "marshal order event", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	key := RoutingKey(ev.Type)
	p.mu.Lock()
	err = p.ch.PublishWithContext(ctx, ExchangeOrders, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.At,
		Body:         body,
	})
	p.mu.Unlock()
	if err != nil {
		p.log.Error("event_publish", "", "publish order event", err,
			slog.String("routing_key", key), slog.Uint64("order_id", uint64(ev.OrderID)))
		return
	}
	p.log.Debug("event_publish", "", "order event published",
		slog.String("routing_key", key), slog.Int("size", len(body)))
}

func (p *AMQPPublisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

func RoutingKey(t Type) string { return "order." + string(t) }
