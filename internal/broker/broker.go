// Package broker publica cambios de la agenda para consumidores externos
// (recordatorios, integraciones). La publicación es best effort.
package broker

import (
	"context"
	"time"
)

const (
	EventCreated      = "event.created"
	EventUpdated      = "event.updated"
	EventDeleted      = "event.deleted"
	NotificationsRead = "notifications.read"
)

// Message es el registro publicado por cada cambio.
type Message struct {
	Type      string    `json:"type"`
	EventID   string    `json:"event_id,omitempty"`
	PatientID string    `json:"patient_id,omitempty"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, m Message) error
	Close() error
}

// Nop descarta los mensajes; se usa cuando no hay brokers configurados.
type Nop struct{}

func (Nop) Publish(context.Context, Message) error { return nil }
func (Nop) Close() error                           { return nil }
