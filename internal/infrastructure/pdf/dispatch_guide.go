// Package pdf genera la guía de despacho de un pedido con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: ABS Eventos          │  N° Pedido + Fechas          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE / COORDINADOR / ORIGEN / DESTINO                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal                  │
//	│  TOTALES: Subtotal / Descuento / TOTAL                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CUSTODIA: una fila por etapa + QR del pedido                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/abs-rental-api/internal/application/ports"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/pricing"
)

var _ ports.GuideRenderer = (*GuideGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var stageLabels = map[entity.StageKey]string{
	entity.StageBodegaCheck:   "Revisión en bodega",
	entity.StageBodegaToCoord: "Bodega → Coordinador",
	entity.StageCoordToClient: "Coordinador → Cliente",
	entity.StageClientToCoord: "Cliente → Coordinador",
	entity.StageCoordToBodega: "Coordinador → Bodega",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// GuideGenerator arma la guía de despacho que acompaña la carga.
type GuideGenerator struct {
	company string
}

func NewGuideGenerator(company string) *GuideGenerator {
	return &GuideGenerator{company: nonEmpty(company, "ABS Eventos")}
}

// RenderDispatchGuide genera el PDF y devuelve sus bytes.
func (g *GuideGenerator) RenderDispatchGuide(ctx context.Context, o *entity.Order, quote pricing.Breakdown) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Guía de despacho "+o.ID, true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRows(o)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(quote.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(quote))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(custodyRows(o)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar guía %s: %w", o.ID, err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *GuideGenerator) headerRow(o *entity.Order) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.company, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Alquiler de mobiliario y equipos para eventos", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("GUÍA DE DESPACHO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(o.ID, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(fmt.Sprintf("Evento: %s al %s",
				o.StartDate.Format("02/01/2006"), o.EndDate.Format("02/01/2006"),
			), props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

func partiesRows(o *entity.Order) []core.Row {
	field := func(label, value string) core.Col {
		return col.New(6).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(value, "-"), props.Text{Size: 8, Top: 6, Color: colorGray}),
		)
	}
	return []core.Row{
		row.New(12).Add(
			field("CLIENTE", o.UserEmail),
			field("COORDINADOR", o.AssignedCoordinatorEmail),
		),
		row.New(12).Add(
			field("ORIGEN", o.OriginLocation),
			field("DESTINO", o.DestinationLocation),
		),
	}
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func tableDetailRows(lines []pricing.LineBreakdown) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				l.Name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				money(l.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				money(l.Subtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func totalsRow(q pricing.Breakdown) core.Row {
	label := func(s string, bold bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 2, Style: fontstyle.Bold}
		if bold {
			p.Color = colorPrimary
			p.Size = 10
		}
		return text.New(s, p)
	}
	value := func(s string, bold bool, top float64) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}
		if bold {
			p.Style = fontstyle.Bold
			p.Color = colorPrimary
			p.Size = 10
		}
		return text.New(s, p)
	}

	return row.New(20).Add(
		col.New(6).Add(text.New(fmt.Sprintf("Días de evento: %d", q.EventDays), props.Text{
			Size: 8, Color: colorGray, Top: 1,
		})),
		col.New(3).Add(
			label("Subtotal:", false),
			text.New(fmt.Sprintf("Descuento (%s%%):", q.DiscountPercent.StringFixed(0)), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 6,
			}),
			text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: 12, Color: colorPrimary,
			}),
		),
		col.New(3).Add(
			value(money(q.Subtotal), false, 0),
			value("-"+money(q.Discount), false, 6),
			value(money(q.Total), true, 12),
		),
	)
}

// custodyRows: estado y firmante de cada etapa, con el QR del pedido al lado.
func custodyRows(o *entity.Order) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("CADENA DE CUSTODIA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	stages := make([]core.Component, 0, len(entity.StageKeys))
	for i, key := range entity.StageKeys {
		stages = append(stages, text.New(stageLine(key, o.Workflow[key]), props.Text{
			Size: 8, Top: float64(i * 6), Left: 1,
		}))
	}

	rows = append(rows, row.New(40).Add(
		col.New(8).Add(stages...),
		col.New(4).Add(code.NewQr(o.ID, props.Rect{Percent: 90, Center: true})),
	))

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New("Quien recibe declara haber verificado la cantidad y el estado de los elementos listados.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func stageLine(key entity.StageKey, st *entity.StageData) string {
	label := stageLabels[key]
	if st == nil || !st.IsCompleted() {
		return label + ": pendiente"
	}
	out := label + ": completada"
	if st.Timestamp != nil {
		out += " " + st.Timestamp.Format("02/01/2006 15:04")
	}
	if st.Signature != nil && st.Signature.Name != "" {
		out += " (firma " + st.Signature.Name + ")"
	}
	return out
}

func money(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	if len(s) > 0 && s[0] == '-' {
		return "-$" + formatMoney(s[1:])
	}
	return "$" + formatMoney(s)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
