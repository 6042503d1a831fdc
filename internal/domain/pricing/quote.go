package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// LineBreakdown es el detalle de precio de un ítem.
type LineBreakdown struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Breakdown es la cotización completa de un carrito o pedido.
type Breakdown struct {
	EventDays       int
	Lines           []LineBreakdown
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
}

// Quote suma los subtotales y aplica el descuento del usuario (acotado a 0..100).
func Quote(items []entity.CartItem, eventDays int, discountPct decimal.Decimal) Breakdown {
	if discountPct.LessThan(decimal.Zero) {
		discountPct = decimal.Zero
	}
	if discountPct.GreaterThan(hundred) {
		discountPct = hundred
	}

	b := Breakdown{
		EventDays:       max(eventDays, 1),
		Lines:           make([]LineBreakdown, 0, len(items)),
		Subtotal:        decimal.Zero,
		DiscountPercent: discountPct,
	}
	for _, it := range items {
		l := LineFromCartItem(it)
		unit := UnitPrice(l, b.EventDays)
		sub := unit.Mul(decimal.NewFromInt(int64(l.Quantity)))
		b.Lines = append(b.Lines, LineBreakdown{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: unit,
			Subtotal:  sub,
		})
		b.Subtotal = b.Subtotal.Add(sub)
	}
	b.Discount = b.Subtotal.Mul(discountPct).Div(hundred).Round(0)
	b.Total = b.Subtotal.Sub(b.Discount)
	return b
}
