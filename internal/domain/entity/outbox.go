package entity

import "time"

// Estados de una entrada de la bandeja de salida.
const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// OutboxEntry es un evento de pedido pendiente de replicar al backend de sincronización.
type OutboxEntry struct {
	ID            string
	OrderID       string
	Kind          string
	Payload       []byte
	State         string
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
	CreatedAt     time.Time
	SentAt        *time.Time
}
