package realtime

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/logger"
)

const changesExchange = "changes"

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	ConsumeWithContext(ctx context.Context, queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

type AMQPFeed struct {
	conn  *amqp.Connection
	ch    amqpChannel
	queue string
}

// NewAMQPFeed declares the topic exchange and, when queue is set, a durable
// queue bound to every change key.
func NewAMQPFeed(url, queue string) (*AMQPFeed, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(changesExchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if queue != "" {
		q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
		if err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("declare queue: %w", err)
		}
		if err := ch.QueueBind(q.Name, "#", changesExchange, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("bind queue: %w", err)
		}
		queue = q.Name
	}

	return &AMQPFeed{conn: conn, ch: ch, queue: queue}, nil
}

func (f *AMQPFeed) Publish(ctx context.Context, e Event) error {
	body, err := encodeEvent(e)
	if err != nil {
		return err
	}
	return f.ch.PublishWithContext(ctx, changesExchange, e.RoutingKey(), false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   e.At,
		Body:        body,
	})
}

func (f *AMQPFeed) Subscribe(ctx context.Context, handle func(context.Context, Event)) error {
	if f.queue == "" {
		return fmt.Errorf("amqp feed has no queue to consume")
	}
	deliveries, err := f.ch.ConsumeWithContext(ctx, f.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			e, err := decodeEvent(d.Body)
			if err != nil {
				logger.Errorf("Bad change event %s: %v", d.RoutingKey, err)
				_ = d.Nack(false, false)
				continue
			}
			handle(ctx, e)
			_ = d.Ack(false)
		}
	}
}

func (f *AMQPFeed) Close() error {
	if f.ch != nil {
		_ = f.ch.Close()
	}
	if f.conn != nil {
		return f.conn.Close()
	}
	return nil
}
