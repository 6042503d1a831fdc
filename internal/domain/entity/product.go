package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías del catálogo de alquiler.
const (
	CategoryMobiliario          = "Mobiliario"
	CategoryElectronica         = "Electrónica"
	CategoryArquitecturaEfimera = "Arquitectura Efímera"
	CategoryDecoracion          = "Decoración"
	CategoryServicios           = "Servicios"
	CategoryImpresion           = "Impresión"
)

// UnlimitedStock es el valor centinela de stock para productos sin límite (servicios, impresión).
const UnlimitedStock = 999

// Categories lista las categorías válidas en el orden en que se muestran.
var Categories = []string{
	CategoryMobiliario,
	CategoryElectronica,
	CategoryArquitecturaEfimera,
	CategoryDecoracion,
	CategoryServicios,
	CategoryImpresion,
}

// IsValidCategory indica si c es una categoría conocida.
func IsValidCategory(c string) bool {
	for _, cat := range Categories {
		if cat == c {
			return true
		}
	}
	return false
}

// Product representa un artículo alquilable del catálogo.
// PriceRent es la tarifa base por día (o por m² en Impresión).
// Width/Height solo aplican a Impresión; nil equivale a 1.
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Description string           `json:"description,omitempty"`
	Image       string           `json:"image,omitempty"`
	Stock       int              `json:"stock"`
	PriceRent   decimal.Decimal  `json:"price_rent"`
	Width       *decimal.Decimal `json:"width,omitempty"`
	Height      *decimal.Decimal `json:"height,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// IsUnlimited indica si el producto no tiene tope de inventario.
func (p Product) IsUnlimited() bool {
	return p.Stock == UnlimitedStock
}
