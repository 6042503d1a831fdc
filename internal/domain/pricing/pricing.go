package pricing

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
)

// Tarifa histórica de mobiliario: los productos con base 14000 usan una tabla fija.
var legacyFurnitureBase = decimal.NewFromInt(14000)

// furnitureInflation ajusta las demás bases de mobiliario antes del multiplicador por duración.
var furnitureInflation = decimal.RequireFromString("1.057")

type furnitureTier struct {
	maxDays    int // 0 = sin tope
	legacy     decimal.Decimal
	multiplier decimal.Decimal
}

// Tramos por duración del evento, límites inclusivos por abajo.
var furnitureTiers = []furnitureTier{
	{maxDays: 3, legacy: decimal.NewFromInt(14800), multiplier: decimal.NewFromInt(1)},
	{maxDays: 5, legacy: decimal.NewFromInt(17800), multiplier: decimal.RequireFromString("1.20")},
	{maxDays: 15, legacy: decimal.NewFromInt(21400), multiplier: decimal.RequireFromString("1.44")},
	{maxDays: 0, legacy: decimal.NewFromInt(25700), multiplier: decimal.RequireFromString("1.73")},
}

const dateLayout = "2006-01-02"

// EventDays cuenta los días calendario del evento, ambos extremos inclusive.
// Fechas vacías producen 1.
func EventDays(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 1
	}
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(diff.Hours()/24)) + 1
	if days < 1 {
		return 1
	}
	return days
}

// EventDaysFromStrings acepta YYYY-MM-DD o RFC3339; cualquier error de formato produce 1.
func EventDaysFromStrings(start, end string) int {
	s, err := ParseDate(start)
	if err != nil {
		return 1
	}
	e, err := ParseDate(end)
	if err != nil {
		return 1
	}
	return EventDays(s, e)
}

// ParseDate interpreta una fecha de evento y la normaliza a medianoche UTC.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		t, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, err
		}
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Line es la vista mínima de un ítem que necesita el motor de precios.
type Line struct {
	ProductID string
	Name      string
	Category  string
	BaseRate  decimal.Decimal
	Width     *decimal.Decimal
	Height    *decimal.Decimal
	Quantity  int
}

// LineFromCartItem construye una Line a partir de un ítem del carrito o pedido.
func LineFromCartItem(it entity.CartItem) Line {
	return Line{
		ProductID: it.ID,
		Name:      it.Name,
		Category:  it.Category,
		BaseRate:  it.PriceRent,
		Width:     it.Width,
		Height:    it.Height,
		Quantity:  it.Quantity,
	}
}

// UnitPrice calcula el precio unitario según la categoría y la duración del evento.
// El resultado se redondea a unidades enteras de moneda.
func UnitPrice(l Line, eventDays int) decimal.Decimal {
	if eventDays < 1 {
		eventDays = 1
	}
	days := decimal.NewFromInt(int64(eventDays))

	switch {
	case l.Category == entity.CategoryImpresion:
		return l.BaseRate.Mul(dimension(l.Width)).Mul(dimension(l.Height)).Round(0)
	case l.Category == entity.CategoryServicios && isDesignService(l.Name):
		return l.BaseRate.Round(0)
	case l.Category != entity.CategoryMobiliario:
		return l.BaseRate.Mul(days).Round(0)
	}

	tier := furnitureTierFor(eventDays)
	if l.BaseRate.Equal(legacyFurnitureBase) {
		return tier.legacy
	}
	return l.BaseRate.Mul(furnitureInflation).Mul(tier.multiplier).Round(0)
}

// LineSubtotal es el precio unitario por la cantidad.
func LineSubtotal(l Line, eventDays int) decimal.Decimal {
	return UnitPrice(l, eventDays).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func furnitureTierFor(days int) furnitureTier {
	for _, t := range furnitureTiers {
		if t.maxDays == 0 || days <= t.maxDays {
			return t
		}
	}
	return furnitureTiers[len(furnitureTiers)-1]
}

func dimension(v *decimal.Decimal) decimal.Decimal {
	if v == nil || v.LessThanOrEqual(decimal.Zero) {
		return decimal.NewFromInt(1)
	}
	return *v
}

// isDesignService detecta "diseño" sin importar mayúsculas ni tildes.
func isDesignService(name string) bool {
	return strings.Contains(fold(name), "diseno")
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}
