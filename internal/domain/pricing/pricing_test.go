package pricing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/pricing"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func furniture(base int64) pricing.Line {
	return pricing.Line{Name: "Silla Tiffany", Category: entity.CategoryMobiliario, BaseRate: d(base), Quantity: 1}
}

// ──────────────────────────────────────────────────────────────────────────────
// EventDays
// ──────────────────────────────────────────────────────────────────────────────

func TestEventDays(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"mismo día", base, base, 1},
		{"1 al 4 de enero", base, base.AddDate(0, 0, 3), 4},
		{"rango invertido", base.AddDate(0, 0, 3), base, 4},
		{"fracción de día redondea hacia arriba", base, base.Add(30 * time.Hour), 3},
		{"fecha vacía", time.Time{}, base, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, pricing.EventDays(tc.start, tc.end))
		})
	}
}

func TestEventDaysFromStrings_FormatoInvalidoDevuelveUno(t *testing.T) {
	assert.Equal(t, 4, pricing.EventDaysFromStrings("2026-01-01", "2026-01-04"))
	assert.Equal(t, 2, pricing.EventDaysFromStrings("2026-01-01T10:00:00Z", "2026-01-02"))
	assert.Equal(t, 1, pricing.EventDaysFromStrings("ayer", "2026-01-04"))
	assert.Equal(t, 1, pricing.EventDaysFromStrings("", ""))
}

// ──────────────────────────────────────────────────────────────────────────────
// UnitPrice
// ──────────────────────────────────────────────────────────────────────────────

func TestUnitPrice_MobiliarioTablaHistorica(t *testing.T) {
	cases := map[int]int64{1: 14800, 3: 14800, 4: 17800, 5: 17800, 6: 21400, 15: 21400, 16: 25700, 40: 25700}
	for days, want := range cases {
		got := pricing.UnitPrice(furniture(14000), days)
		assert.True(t, d(want).Equal(got), "%d días: esperado %d, obtenido %s", days, want, got)
	}
}

func TestUnitPrice_MobiliarioBaseNoHistorica(t *testing.T) {
	assert.Equal(t, "21140", pricing.UnitPrice(furniture(20000), 2).String())
	assert.Equal(t, "25368", pricing.UnitPrice(furniture(20000), 4).String(), "20000 × 1.057 × 1.20")
	assert.Equal(t, "30442", pricing.UnitPrice(furniture(20000), 10).String(), "20000 × 1.057 × 1.44")
	assert.Equal(t, "36572", pricing.UnitPrice(furniture(20000), 20).String(), "20000 × 1.057 × 1.73")
}

func TestUnitPrice_MobiliarioMonotonoEnDias(t *testing.T) {
	for _, base := range []int64{14000, 9000, 20000, 55000} {
		prev := pricing.UnitPrice(furniture(base), 1)
		for days := 2; days <= 30; days++ {
			cur := pricing.UnitPrice(furniture(base), days)
			assert.True(t, cur.GreaterThanOrEqual(prev),
				"base %d: el precio no debe bajar al pasar de %d a %d días", base, days-1, days)
			prev = cur
		}
	}
}

func TestUnitPrice_ImpresionPorArea(t *testing.T) {
	w := decimal.RequireFromString("2.5")
	h := d(3)
	l := pricing.Line{Name: "Backing", Category: entity.CategoryImpresion, BaseRate: d(40000), Width: &w, Height: &h}

	assert.Equal(t, "300000", pricing.UnitPrice(l, 7).String(), "no depende de los días")

	l.Width, l.Height = nil, nil
	assert.Equal(t, "40000", pricing.UnitPrice(l, 7).String(), "sin medidas se asume 1×1")
}

func TestUnitPrice_ServicioDeDisenoTarifaPlana(t *testing.T) {
	for _, name := range []string{"Diseño gráfico", "DISEÑO de stand", "Servicio de diseno"} {
		l := pricing.Line{Name: name, Category: entity.CategoryServicios, BaseRate: d(350000)}
		assert.Equal(t, "350000", pricing.UnitPrice(l, 5).String(), name)
	}

	montaje := pricing.Line{Name: "Montaje", Category: entity.CategoryServicios, BaseRate: d(100000)}
	assert.Equal(t, "500000", pricing.UnitPrice(montaje, 5).String(), "otros servicios cobran por día")
}

func TestUnitPrice_OtrasCategoriasLineales(t *testing.T) {
	l := pricing.Line{Name: "Pantalla LED", Category: entity.CategoryElectronica, BaseRate: d(120000)}
	assert.Equal(t, "360000", pricing.UnitPrice(l, 3).String())
	assert.Equal(t, "120000", pricing.UnitPrice(l, 0).String(), "días < 1 se tratan como 1")
}

// ──────────────────────────────────────────────────────────────────────────────
// Quote
// ──────────────────────────────────────────────────────────────────────────────

func TestQuote_SubtotalDescuentoYTotal(t *testing.T) {
	items := []entity.CartItem{
		{Product: entity.Product{ID: "silla", Name: "Silla", Category: entity.CategoryMobiliario, PriceRent: d(14000)}, Quantity: 10},
		{Product: entity.Product{ID: "led", Name: "Pantalla", Category: entity.CategoryElectronica, PriceRent: d(100000)}, Quantity: 1},
	}

	b := pricing.Quote(items, 4, d(10))

	assert.Equal(t, 4, b.EventDays)
	assert.Len(t, b.Lines, 2)
	assert.Equal(t, "178000", b.Lines[0].Subtotal.String())
	assert.Equal(t, "400000", b.Lines[1].Subtotal.String())
	assert.Equal(t, "578000", b.Subtotal.String())
	assert.Equal(t, "57800", b.Discount.String())
	assert.Equal(t, "520200", b.Total.String())
}

func TestQuote_DescuentoFueraDeRangoSeAcota(t *testing.T) {
	items := []entity.CartItem{{Product: entity.Product{Category: entity.CategoryDecoracion, PriceRent: d(1000)}, Quantity: 2}}

	assert.Equal(t, "0", pricing.Quote(items, 1, d(150)).Total.String())
	assert.Equal(t, "2000", pricing.Quote(items, 1, d(-5)).Total.String())
}
