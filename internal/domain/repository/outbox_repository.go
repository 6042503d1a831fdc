package repository

import (
	"context"
	"time"

	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
)

// OutboxStats resume el estado de la bandeja de salida.
type OutboxStats struct {
	Pending   int
	Failed    int
	Sent      int
	LastError string
}

// OutboxRepository guarda los eventos de pedido pendientes de sincronizar.
type OutboxRepository interface {
	Append(ctx context.Context, entry *entity.OutboxEntry) error
	// Due devuelve hasta limit entradas pendientes cuyo NextAttemptAt ya pasó, las más antiguas primero.
	Due(ctx context.Context, now time.Time, limit int) ([]*entity.OutboxEntry, error)
	MarkSent(ctx context.Context, id string, at time.Time) error
	MarkRetry(ctx context.Context, id string, attempts int, next time.Time, lastErr string) error
	MarkFailed(ctx context.Context, id string, attempts int, lastErr string) error
	Stats(ctx context.Context) (OutboxStats, error)
}
