package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/econ-calendar-service/internal/config"
	"github.com/couchcryptid/econ-calendar-service/internal/domain"
)

// Writer produces calendar events to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	source string
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured calendar topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, source: cfg.SourceLabel, logger: logger}
}

// Publish writes every event of the calendar in a single WriteMessages call.
// Events are keyed by ID so repeated scrapes of the same day land on the same partition.
func (w *Writer) Publish(ctx context.Context, cal domain.Calendar) error {
	if len(cal.Events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(cal.Events))
	for i := range cal.Events {
		msg, err := serializeToMessage(cal.Date, w.source, cal.Events[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish calendar: %w", err)
	}
	w.logger.Debug("calendar published", "topic", w.writer.Topic, "events", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Event into a Kafka message.
func serializeToMessage(date, source string, event domain.Event) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize calendar event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "date", Value: []byte(date)},
			{Key: "currency", Value: []byte(event.Currency)},
			{Key: "source", Value: []byte(source)},
		},
	}, nil
}
