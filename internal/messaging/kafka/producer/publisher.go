package producer

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"

	"timetracker/internal/messaging/kafka"
)

// publishEvent writes one staged event to its topic, keyed by the
// aggregate ID so every event of one invite lands on the same
// partition. The request ID that created the event travels along as a
// header for cross-service tracing.
func publishEvent(ctx context.Context, writer *kafkago.Writer, event kafka.OutboxEvent) error {
	headers := []kafkago.Header{
		{Key: "event_type", Value: []byte(event.EventType)},
		{Key: "aggregate_type", Value: []byte(event.AggregateType)},
	}
	if event.RequestID != "" {
		headers = append(headers, kafkago.Header{Key: "request_id", Value: []byte(event.RequestID)})
	}

	msg := kafkago.Message{
		Topic:   event.Topic,
		Key:     []byte(event.AggregateID),
		Value:   event.Payload,
		Headers: headers,
	}

	return writer.WriteMessages(ctx, msg)
}
