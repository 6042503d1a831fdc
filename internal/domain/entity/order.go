package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus es el estado de negocio de un pedido.
type OrderStatus string

const (
	StatusCotizacion OrderStatus = "Cotización"
	StatusPendiente  OrderStatus = "Pendiente"
	StatusEnProceso  OrderStatus = "En Proceso"
	StatusEntregado  OrderStatus = "Entregado"
	StatusFinalizado OrderStatus = "Finalizado"
	StatusCancelado  OrderStatus = "Cancelado"
)

var statusRank = map[OrderStatus]int{
	StatusCotizacion: 0,
	StatusPendiente:  1,
	StatusEnProceso:  2,
	StatusEntregado:  3,
	StatusFinalizado: 4,
}

// Valid indica si s es un estado conocido.
func (s OrderStatus) Valid() bool {
	if s == StatusCancelado {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// Rank ordena los estados del flujo normal; Cancelado queda fuera (-1).
func (s OrderStatus) Rank() int {
	r, ok := statusRank[s]
	if !ok {
		return -1
	}
	return r
}

// IsTerminal indica si el pedido ya no admite transiciones.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusFinalizado || s == StatusCancelado
}

// ReservesStock indica si un pedido en este estado ocupa inventario.
// Cotizaciones, cancelados y finalizados no reservan.
func (s OrderStatus) ReservesStock() bool {
	switch s {
	case StatusCancelado, StatusFinalizado, StatusCotizacion:
		return false
	}
	return true
}

// OrderType distingue cotización de alquiler confirmado.
type OrderType string

const (
	OrderTypeQuote  OrderType = "quote"
	OrderTypeRental OrderType = "rental"
)

// Valid indica si t es un tipo conocido.
func (t OrderType) Valid() bool {
	return t == OrderTypeQuote || t == OrderTypeRental
}

// Order es una cotización o un alquiler con su flujo logístico.
// StartDate/EndDate son días calendario (medianoche UTC), ambos inclusive.
type Order struct {
	ID                       string          `json:"id"`
	Items                    []CartItem      `json:"items"`
	UserEmail                string          `json:"user_email"`
	AssignedCoordinatorEmail string          `json:"assigned_coordinator_email,omitempty"`
	Status                   OrderStatus     `json:"status"`
	OrderType                OrderType       `json:"order_type"`
	StartDate                time.Time       `json:"start_date"`
	EndDate                  time.Time       `json:"end_date"`
	OriginLocation           string          `json:"origin_location"`
	DestinationLocation      string          `json:"destination_location"`
	TotalAmount              decimal.Decimal `json:"total_amount"`
	Workflow                 Workflow        `json:"workflow"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
}

// QuantityOf suma la cantidad pedida de productID en todos los ítems.
func (o *Order) QuantityOf(productID string) int {
	total := 0
	for _, it := range o.Items {
		if it.ID == productID {
			total += it.Quantity
		}
	}
	return total
}

// Overlaps indica si el rango [start, end] se cruza con el del pedido (límites inclusive).
func (o *Order) Overlaps(start, end time.Time) bool {
	return !start.After(o.EndDate) && !end.Before(o.StartDate)
}

// IsOwnedBy indica si el pedido fue creado por email.
func (o *Order) IsOwnedBy(email string) bool {
	return email != "" && o.UserEmail == email
}
