// Package pdf genera la hoja de costos de un pedido de venta.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + NIT  │  Pedido + Fecha + Moneda     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción (sangría por nivel) | SKU        │
//	│         | Costo unit. | Costo total                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL COSTO DEL PEDIDO                                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/Ventas-api/internal/application/saleorder"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

var _ saleorder.CostSheetGenerator = (*MarotoCostSheetGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// indentPerLevel sangría en mm de la descripción por cada nivel de kit.
const indentPerLevel = 4

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoCostSheetGenerator implementa saleorder.CostSheetGenerator usando Maroto v2.
type MarotoCostSheetGenerator struct {
	printer *message.Printer
}

// NewMarotoCostSheetGenerator construye el generador; los montos se formatean en español (1.234,56).
func NewMarotoCostSheetGenerator() *MarotoCostSheetGenerator {
	return &MarotoCostSheetGenerator{printer: message.NewPrinter(language.Spanish)}
}

// GenerateCostSheet genera el PDF y devuelve sus bytes.
func (g *MarotoCostSheetGenerator) GenerateCostSheet(
	_ context.Context,
	order *entity.SaleOrder,
	company *entity.Company,
	products map[string]*entity.Product,
) ([]byte, error) {
	if order == nil || company == nil {
		return nil, fmt.Errorf("pdf: pedido y empresa son obligatorios")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de costos", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(order, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, root := range order.Lines {
		root.Walk(func(l *entity.SaleOrderLine, depth int) {
			m.AddRows(g.lineRow(l, depth, products))
		})
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalRow(order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: Razón social + NIT (izq) y referencia del pedido + fecha (der).
func (g *MarotoCostSheetGenerator) headerRow(order *entity.SaleOrder, company *entity.Company) core.Row {
	ref := nonEmpty(order.Reference, order.ID)
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+company.NIT, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("HOJA DE COSTOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Pedido "+ref, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 6,
			}),
			text.New(fmt.Sprintf("Fecha: %s   |   Moneda: %s", order.OrderDate.Format("02/01/2006"), order.Currency),
				props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("SKU", 2, align.Left),
		h("Costo unit.", 2, align.Right),
		h("Costo total", 2, align.Right),
	)
}

// lineRow una fila por línea; los kits van en negrita y sus componentes con sangría.
func (g *MarotoCostSheetGenerator) lineRow(l *entity.SaleOrderLine, depth int, products map[string]*entity.Product) core.Row {
	style := fontstyle.Normal
	if !l.IsLeaf() {
		style = fontstyle.Bold
	}
	desc, sku := l.Description, ""
	if l.HasProduct() {
		if p := products[*l.ProductID]; p != nil {
			desc = nonEmpty(desc, p.Name)
			sku = p.SKU
		}
	}
	return row.New(7).Add(
		col.New(1).Add(text.New(g.amount(l.Quantity),
			props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(5).Add(text.New(nonEmpty(desc, "—"),
			props.Text{Size: 8, Style: style, Top: 1, Left: 1 + float64((depth-1)*indentPerLevel)})),
		col.New(2).Add(text.New(sku,
			props.Text{Size: 8, Top: 1, Color: colorGray})),
		col.New(2).Add(text.New(g.amount(l.CostPrice),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New(g.amount(l.CostTotal),
			props.Text{Size: 8, Style: style, Align: align.Right, Top: 1, Right: 1})),
	)
}

func (g *MarotoCostSheetGenerator) totalRow(order *entity.SaleOrder) core.Row {
	return row.New(10).Add(
		col.New(8).Add(text.New("TOTAL COSTO DEL PEDIDO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(4).Add(text.New(order.Currency+" "+g.amount(order.TotalCost), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// amount formatea con separador de miles y los decimales que traiga el valor (mínimo 2).
func (g *MarotoCostSheetGenerator) amount(d decimal.Decimal) string {
	scale := -d.Exponent()
	if scale < 2 {
		scale = 2
	}
	f, _ := d.Float64()
	return g.printer.Sprint(number.Decimal(f, number.Scale(int(scale))))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
