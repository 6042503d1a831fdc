package order

import (
	"context"

	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
)

// Tipos de evento que se replican al backend de sincronización.
const (
	EventCreated             = "order.created"
	EventApproved            = "order.approved"
	EventConfirmed           = "order.confirmed"
	EventCancelled           = "order.cancelled"
	EventDeleted             = "order.deleted"
	EventCoordinatorAssigned = "order.coordinator_assigned"
	EventStageUpdated        = "order.stage_updated"
	EventStageCompleted      = "order.stage_completed"
)

// EventRecorder deja constancia de un cambio para replicarlo después (bandeja de salida).
type EventRecorder interface {
	Record(ctx context.Context, order *entity.Order, kind string) error
}

// EvidenceStore convierte referencias en línea (data:...) en referencias a blobs.
// Las referencias que ya son blobs se devuelven sin cambios.
type EvidenceStore interface {
	Externalize(ctx context.Context, ref string) (string, error)
}

// Metrics recibe los hechos del ciclo de vida para instrumentación.
type Metrics interface {
	OrderCreated(orderType string)
	StageUpdated(stage string, completed bool)
	StatusChanged(from, to string)
}

type nopMetrics struct{}

func (nopMetrics) OrderCreated(string)          {}
func (nopMetrics) StageUpdated(string, bool)    {}
func (nopMetrics) StatusChanged(string, string) {}

type nopEvents struct{}

func (nopEvents) Record(context.Context, *entity.Order, string) error { return nil }
