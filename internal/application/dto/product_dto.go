package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto del catálogo.
// ID es opcional (slug legible); si falta se genera un UUID.
type CreateProductRequest struct {
	ID          string           `json:"id" validate:"omitempty,max=80"`
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Category    string           `json:"category" validate:"required"`
	Description string           `json:"description" validate:"omitempty"`
	Image       string           `json:"image" validate:"omitempty,url"`
	Stock       int              `json:"stock" validate:"min=0"`
	PriceRent   decimal.Decimal  `json:"price_rent"`
	Width       *decimal.Decimal `json:"width,omitempty"`
	Height      *decimal.Decimal `json:"height,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto. Campos nil no se tocan.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Image       *string          `json:"image,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	PriceRent   *decimal.Decimal `json:"price_rent,omitempty"`
	Width       *decimal.Decimal `json:"width,omitempty"`
	Height      *decimal.Decimal `json:"height,omitempty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Description string           `json:"description,omitempty"`
	Image       string           `json:"image,omitempty"`
	Stock       int              `json:"stock"`
	Unlimited   bool             `json:"unlimited"`
	PriceRent   decimal.Decimal  `json:"price_rent"`
	Width       *decimal.Decimal `json:"width,omitempty"`
	Height      *decimal.Decimal `json:"height,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// AvailabilityResponse unidades libres de un producto en un rango de fechas.
type AvailabilityResponse struct {
	ProductID string `json:"product_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Stock     int    `json:"stock"`
	Available int    `json:"available"`
	Unlimited bool   `json:"unlimited"`
}
