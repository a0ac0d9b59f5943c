package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Kafka struct {
	w     messageWriter
	topic string
}

var _ Publisher = (*Kafka)(nil)

func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
			// las escrituras no bloquean la petición; los fallos solo se registran
			Async:      true,
			Completion: logCompletion,
		},
		topic: topic,
	}
}

// Publish usa el id del paciente como clave para mantener el orden por paciente.
func (k *Kafka) Publish(ctx context.Context, m Message) error {
	if m.At.IsZero() {
		m.At = time.Now().UTC()
	}
	value, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := k.w.WriteMessages(ctx, kafka.Message{Key: []byte(m.PatientID), Value: value}); err != nil {
		return fmt.Errorf("kafka write %s: %w", k.topic, err)
	}
	return nil
}

func logCompletion(msgs []kafka.Message, err error) {
	if err != nil {
		slog.Warn("[broker] async write failed", "messages", len(msgs), "error", err)
	}
}

func (k *Kafka) Close() error {
	return k.w.Close()
}
