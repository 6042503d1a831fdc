package ports

import (
	"context"

	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
)

// EventPublisher entrega eventos serializados al backend de sincronización.
type EventPublisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// Notifier avisa al cliente cuando su pedido cambia de estado.
type Notifier interface {
	OrderStatusChanged(ctx context.Context, order *entity.Order, previous entity.OrderStatus) error
}
