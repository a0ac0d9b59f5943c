package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaPublish(t *testing.T) {
	fw := &fakeWriter{}
	k := &Kafka{w: fw, topic: "clinic.agenda"}

	err := k.Publish(context.Background(), Message{Type: EventCreated, EventID: "e1", PatientID: "12345678"})
	require.NoError(t, err)
	require.Len(t, fw.msgs, 1)
	assert.Equal(t, "12345678", string(fw.msgs[0].Key))

	var got Message
	require.NoError(t, json.Unmarshal(fw.msgs[0].Value, &got))
	assert.Equal(t, EventCreated, got.Type)
	assert.Equal(t, "e1", got.EventID)
	assert.False(t, got.At.IsZero())
}

func TestKafkaPublish_Error(t *testing.T) {
	k := &Kafka{w: &fakeWriter{err: errors.New("broker down")}, topic: "clinic.agenda"}
	err := k.Publish(context.Background(), Message{Type: EventDeleted})
	assert.ErrorContains(t, err, "broker down")
}

func TestNewKafka(t *testing.T) {
	k := NewKafka([]string{"localhost:9092"}, "clinic.agenda")
	w, ok := k.w.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "clinic.agenda", w.Topic)
	assert.True(t, w.Async)
	assert.NotNil(t, w.Completion)
	assert.NoError(t, k.Close())
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), Message{Type: EventCreated}))
	assert.NoError(t, p.Close())
}
