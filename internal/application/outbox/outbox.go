package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/abs-rental-api/internal/application/order"
	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/repository"
)

var _ order.EventRecorder = (*Outbox)(nil)

// Event es el sobre JSON que viaja al backend de sincronización.
type Event struct {
	ID         string        `json:"id"`
	Kind       string        `json:"kind"`
	OrderID    string        `json:"order_id"`
	OccurredAt time.Time     `json:"occurred_at"`
	Order      *entity.Order `json:"order,omitempty"`
}

// Outbox encola eventos de pedido para su envío diferido.
type Outbox struct {
	repo  repository.OutboxRepository
	clock domain.Clock
}

// New construye la bandeja. clock nil usa la hora del sistema.
func New(repo repository.OutboxRepository, clock domain.Clock) *Outbox {
	if clock == nil {
		clock = domain.SystemClock
	}
	return &Outbox{repo: repo, clock: clock}
}

// Record guarda una instantánea del pedido. Los borrados viajan sin instantánea.
func (b *Outbox) Record(ctx context.Context, o *entity.Order, kind string) error {
	now := b.clock.Now()
	ev := Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		OrderID:    o.ID,
		OccurredAt: now,
	}
	if kind != order.EventDeleted {
		ev.Order = o
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("outbox: serializar evento %s: %w", kind, err)
	}
	entry := &entity.OutboxEntry{
		ID:            ev.ID,
		OrderID:       o.ID,
		Kind:          kind,
		Payload:       payload,
		State:         entity.OutboxPending,
		NextAttemptAt: now,
		CreatedAt:     now,
	}
	if err := b.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("outbox: encolar %s: %w", kind, err)
	}
	return nil
}
