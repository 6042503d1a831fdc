package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/abs-rental-api/internal/application/order"
	"github.com/jhoicas/abs-rental-api/internal/application/outbox"
)

var (
	_ order.Metrics  = (*Registry)(nil)
	_ outbox.Metrics = (*Registry)(nil)
)

const namespace = "abs"

// Registry agrupa los contadores del servicio en un registro propio
// (no el global), para que los tests puedan crear uno por caso.
type Registry struct {
	reg           *prometheus.Registry
	ordersCreated *prometheus.CounterVec
	stageUpdates  *prometheus.CounterVec
	statusChanges *prometheus.CounterVec
	syncPublished *prometheus.CounterVec
	syncFailures  *prometheus.CounterVec
	outboxPending prometheus.Gauge
}

func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Pedidos creados por tipo (quote, rental).",
		}, []string{"type"}),
		stageUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_stage_updates_total",
			Help:      "Actualizaciones de etapas logísticas.",
		}, []string{"stage", "completed"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_changes_total",
			Help:      "Transiciones de estado de pedidos.",
		}, []string{"from", "to"}),
		syncPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_published_total",
			Help:      "Eventos entregados al backend de sincronización.",
		}, []string{"kind"}),
		syncFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_failures_total",
			Help:      "Eventos descartados tras agotar reintentos.",
		}, []string{"kind"}),
		outboxPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sync_outbox_pending",
			Help:      "Eventos pendientes en la bandeja de salida.",
		}),
	}
	r.reg.MustRegister(
		r.ordersCreated, r.stageUpdates, r.statusChanges,
		r.syncPublished, r.syncFailures, r.outboxPending,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Registry) OrderCreated(orderType string) {
	r.ordersCreated.WithLabelValues(orderType).Inc()
}

func (r *Registry) StageUpdated(stage string, completed bool) {
	c := "false"
	if completed {
		c = "true"
	}
	r.stageUpdates.WithLabelValues(stage, c).Inc()
}

func (r *Registry) StatusChanged(from, to string) {
	r.statusChanges.WithLabelValues(from, to).Inc()
}

func (r *Registry) SyncPublished(kind string) {
	r.syncPublished.WithLabelValues(kind).Inc()
}

func (r *Registry) SyncFailed(kind string) {
	r.syncFailures.WithLabelValues(kind).Inc()
}

// SetOutboxPending lo actualizan el relay tras cada lote y /api/sync/status.
func (r *Registry) SetOutboxPending(n int) {
	r.outboxPending.Set(float64(n))
}

// Handler expone el registro en formato de texto de Prometheus.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
