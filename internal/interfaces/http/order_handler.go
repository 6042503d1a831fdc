package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/abs-rental-api/internal/application/cart"
	"github.com/jhoicas/abs-rental-api/internal/application/dto"
	"github.com/jhoicas/abs-rental-api/internal/application/order"
	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/pricing"
	"github.com/jhoicas/abs-rental-api/internal/domain/repository"
)

// OrderHandler expone el ciclo de vida de pedidos y su flujo logístico.
type OrderHandler struct {
	svc   *order.Service
	carts *cart.Service
}

func NewOrderHandler(svc *order.Service, carts *cart.Service) *OrderHandler {
	return &OrderHandler{svc: svc, carts: carts}
}

// Checkout godoc
// @Summary      Confirmar carrito
// @Description  Crea una cotización o un alquiler. Un alquiler sin capacidad responde 409 con todos los faltantes.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "order_type, fechas opcionales, origen y destino"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.CapacityErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	ci := order.CheckoutInput{
		OrderType:   entity.OrderType(in.OrderType),
		Origin:      in.OriginLocation,
		Destination: in.DestinationLocation,
	}
	var err error
	if in.StartDate != "" {
		if ci.StartDate, err = pricing.ParseDate(in.StartDate); err != nil {
			return respondError(c, domain.NewValidationError("start_date", "formato esperado YYYY-MM-DD"))
		}
	}
	if in.EndDate != "" {
		if ci.EndDate, err = pricing.ParseDate(in.EndDate); err != nil {
			return respondError(c, domain.NewValidationError("end_date", "formato esperado YYYY-MM-DD"))
		}
	}

	user := CurrentUser(c)
	o, err := h.svc.Checkout(c.UserContext(), user, h.carts.Session(user), ci)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order.ToResponse(o, user.Role))
}

// List godoc
// @Summary      Listar pedidos
// @Description  Los clientes solo ven sus pedidos; el personal ve todos.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "Estado"
// @Param        coordinator  query  string  false  "Email del coordinador"
// @Param        limit        query  int     false  "Límite"  default(50)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c, 50, 200)
	user := CurrentUser(c)
	orders, err := h.svc.List(c.UserContext(), user, repository.OrderFilter{
		CoordinatorEmail: c.Query("coordinator"),
		Status:           entity.OrderStatus(c.Query("status")),
		Limit:            limit,
		Offset:           offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order.ToListResponse(orders, user.Role, limit, offset))
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	user := CurrentUser(c)
	o, err := h.svc.Get(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order.ToResponse(o, user.Role))
}

// Approve godoc
// @Summary      Aprobar cotización
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                   true   "ID del pedido"
// @Param        body  body  dto.ApproveOrderRequest  false  "coordinador opcional"
// @Success      204
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/approve [post]
func (h *OrderHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	if err := h.svc.Approve(c.UserContext(), CurrentUser(c), c.Params("id"), in.CoordinatorEmail); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Confirm godoc
// @Summary      Confirmar cotización como alquiler
// @Description  Revalida el inventario con las reservas vigentes.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.CapacityErrorResponse
// @Router       /api/orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	user := CurrentUser(c)
	o, err := h.svc.ConfirmQuote(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order.ToResponse(o, user.Role))
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID del pedido"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	if err := h.svc.Cancel(c.UserContext(), CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar pedido
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID del pedido"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AssignCoordinator godoc
// @Summary      Asignar coordinador
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del pedido"
// @Param        body  body  dto.AssignCoordinatorRequest  true  "coordinator_email"
// @Success      200   {object}  dto.OrderResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/coordinator [put]
func (h *OrderHandler) AssignCoordinator(c *fiber.Ctx) error {
	var in dto.AssignCoordinatorRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	user := CurrentUser(c)
	o, err := h.svc.AssignCoordinator(c.UserContext(), user, c.Params("id"), in.CoordinatorEmail)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order.ToResponse(o, user.Role))
}

// UpdateStage godoc
// @Summary      Actualizar etapa logística
// @Description  Aplica cambios parciales; complete=true cierra la etapa (requiere firma) y avanza el estado.
// @Tags         workflow
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id        path  string                  true  "ID del pedido"
// @Param        stageKey  path  string                  true  "bodega_check, bodega_to_coord, coord_to_client, client_to_coord, coord_to_bodega"
// @Param        body      body  dto.UpdateStageRequest  true  "cambios de la etapa"
// @Success      200       {object}  dto.OrderResponse
// @Failure      403       {object}  dto.ErrorResponse
// @Failure      409       {object}  dto.ErrorResponse
// @Failure      507       {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/workflow/{stageKey} [patch]
func (h *OrderHandler) UpdateStage(c *fiber.Ctx) error {
	var in dto.UpdateStageRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	user := CurrentUser(c)
	key := entity.StageKey(c.Params("stageKey"))
	o, err := h.svc.UpdateStage(c.UserContext(), user, c.Params("id"), key, order.UpdateFromRequest(in), in.Complete)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order.ToResponse(o, user.Role))
}

// Guide godoc
// @Summary      Guía de despacho en PDF
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/guide.pdf [get]
func (h *OrderHandler) Guide(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.svc.DispatchGuide(c.UserContext(), CurrentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", "guia-"+id+".pdf"))
	return c.Send(pdf)
}
