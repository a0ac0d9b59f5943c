package cache

import "context"

// Store guarda respuestas serializadas (JSON) por clave con expiración fija.
// Los errores del backend no se propagan: un fallo equivale a un miss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	DeletePrefix(ctx context.Context, prefix string)
}

// Prefijos de clave usados por los handlers.
const (
	PrefixNotifications = "notificaciones:"
	PrefixReports       = "reportes:"
)
