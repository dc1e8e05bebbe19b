package pipeline

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/OFFIS-RIT/congraph/pkg/logger"
)

// AMQPSource consumes records from a message queue, one record per
// delivery. Streaming; it runs until the context is canceled. Deliveries
// are acked once the pipeline has accepted the record.
type AMQPSource struct {
	URL   string
	Queue string
}

// Stream connects to the broker and forwards message bodies as records.
func (s *AMQPSource) Stream(ctx context.Context, out chan<- string) error {
	conn, err := amqp.Dial(s.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(s.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	msgs, err := ch.Consume(
		s.Queue,
		s.Queue+"_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	logger.Info("Consuming records", "queue", s.Queue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				logger.Info("Message channel closed", "queue", s.Queue)
				return nil
			}
			select {
			case <-ctx.Done():
				_ = msg.Nack(false, true)
				return nil
			case out <- string(msg.Body):
				if err := msg.Ack(false); err != nil {
					logger.Error("Failed to ack message", "err", err)
				}
			}
		}
	}
}
