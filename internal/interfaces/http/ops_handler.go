package http

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/abs-rental-api/internal/application/dto"
	"github.com/jhoicas/abs-rental-api/internal/application/outbox"
)

// syncStatusSource lo implementa *outbox.Relay.
type syncStatusSource interface {
	Status(ctx context.Context) (outbox.Status, error)
}

// pendingGauge lo implementa el registro de métricas.
type pendingGauge interface {
	SetOutboxPending(n int)
}

// OpsHandler endpoints operativos: salud, métricas y estado de sincronización.
type OpsHandler struct {
	service string
	sync    syncStatusSource
	gauge   pendingGauge
	metrics http.Handler
}

func NewOpsHandler(service string, sync syncStatusSource, gauge pendingGauge, metrics http.Handler) *OpsHandler {
	return &OpsHandler{service: service, sync: sync, gauge: gauge, metrics: metrics}
}

// Health godoc
// @Summary      Estado del servicio
// @Tags         ops
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *OpsHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "service": h.service})
}

// Metrics expone el registro Prometheus; 404 si no está configurado.
func (h *OpsHandler) Metrics() fiber.Handler {
	if h.metrics == nil {
		return func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) }
	}
	return adaptor.HTTPHandler(h.metrics)
}

// SyncStatus godoc
// @Summary      Estado de la sincronización
// @Description  Eventos pendientes, enviados y fallidos de la bandeja de salida.
// @Tags         ops
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncStatusResponse
// @Router       /api/sync/status [get]
func (h *OpsHandler) SyncStatus(c *fiber.Ctx) error {
	if h.sync == nil {
		return c.JSON(dto.SyncStatusResponse{})
	}
	st, err := h.sync.Status(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if h.gauge != nil {
		h.gauge.SetOutboxPending(st.Pending)
	}
	return c.JSON(dto.SyncStatusResponse{
		Pending:   st.Pending,
		Failed:    st.Failed,
		Sent:      st.Sent,
		LastError: st.LastError,
		Running:   st.Running,
	})
}
