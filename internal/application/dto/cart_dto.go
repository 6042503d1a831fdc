package dto

import "github.com/shopspring/decimal"

// AddCartItemRequest agrega un producto al carrito.
type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
	FileURL   string `json:"file_url" validate:"omitempty"`
}

// SetCartQuantityRequest fija la cantidad de un ítem.
type SetCartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

// SetCartDatesRequest fechas del evento (YYYY-MM-DD).
type SetCartDatesRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// CartItemResponse ítem del carrito con su precio calculado.
type CartItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	FileURL   string          `json:"file_url,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse carrito con la cotización aplicada al descuento del usuario.
type CartResponse struct {
	Items              []CartItemResponse `json:"items"`
	StartDate          string             `json:"start_date,omitempty"`
	EndDate            string             `json:"end_date,omitempty"`
	EventDays          int                `json:"event_days"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	DiscountPercentage decimal.Decimal    `json:"discount_percentage"`
	Discount           decimal.Decimal    `json:"discount"`
	Total              decimal.Decimal    `json:"total"`
}
