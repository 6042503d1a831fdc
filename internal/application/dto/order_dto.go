package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/abs-rental-api/internal/domain"
)

// CheckoutRequest confirma el carrito como cotización o alquiler.
// Si las fechas vienen vacías se usan las del carrito.
type CheckoutRequest struct {
	OrderType           string `json:"order_type" validate:"required,oneof=quote rental"`
	StartDate           string `json:"start_date" validate:"omitempty"`
	EndDate             string `json:"end_date" validate:"omitempty"`
	OriginLocation      string `json:"origin_location" validate:"required"`
	DestinationLocation string `json:"destination_location" validate:"required"`
}

// ApproveOrderRequest aprobación de una cotización por un admin.
type ApproveOrderRequest struct {
	CoordinatorEmail string `json:"coordinator_email" validate:"omitempty,email"`
}

// AssignCoordinatorRequest reasignación de coordinador.
type AssignCoordinatorRequest struct {
	CoordinatorEmail string `json:"coordinator_email" validate:"required,email"`
}

// OrderItemResponse ítem congelado en el pedido.
type OrderItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	PriceRent decimal.Decimal `json:"price_rent"`
	FileURL   string          `json:"file_url,omitempty"`
}

// OrderResponse salida de un pedido con las etapas visibles para quien consulta.
type OrderResponse struct {
	ID                       string                   `json:"id"`
	UserEmail                string                   `json:"user_email"`
	AssignedCoordinatorEmail string                   `json:"assigned_coordinator_email,omitempty"`
	Status                   string                   `json:"status"`
	OrderType                string                   `json:"order_type"`
	StartDate                string                   `json:"start_date"`
	EndDate                  string                   `json:"end_date"`
	EventDays                int                      `json:"event_days"`
	OriginLocation           string                   `json:"origin_location"`
	DestinationLocation      string                   `json:"destination_location"`
	TotalAmount              decimal.Decimal          `json:"total_amount"`
	Items                    []OrderItemResponse      `json:"items"`
	Workflow                 map[string]StageResponse `json:"workflow"`
	CreatedAt                time.Time                `json:"created_at"`
	UpdatedAt                time.Time                `json:"updated_at"`
}

// OrderListResponse listado paginado de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// CapacityErrorResponse 409 con el detalle de cada ítem sin disponibilidad.
type CapacityErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Shortages []domain.Shortage `json:"shortages"`
}
