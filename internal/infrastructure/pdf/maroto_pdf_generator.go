// Package pdf genera el reporte imprimible de la tabla de detalle del dashboard.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Dashboard de Análisis Estratégico │ Período         │
//	│  TÍTULO: Detalle: Clase 'A', Categoría 'Vinos'               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Subcategoría | Facturación | Unid. | Rot. │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: filas / facturación total                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

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

	"github.com/jhoicas/ventas-dashboard/internal/application/analytics"
	"github.com/jhoicas/ventas-dashboard/internal/application/dto"
	"github.com/jhoicas/ventas-dashboard/internal/domain/sales"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ analytics.DetailsPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa analytics.DetailsPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.English)}
}

// GenerateDetailsPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDetailsPDF(_ context.Context, report *dto.ProductDetailsDTO) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte nulo")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.tableDetailRows(report.Rows)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(report.Rows))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del reporte + título (izq) y período (der).
func headerRow(report *dto.ProductDetailsDTO) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New("Dashboard de Análisis Estratégico", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(report.Title, props.Text{
				Size: 10, Top: 9,
			}),
		),
		col.New(4).Add(
			text.New("PERÍODO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(periodLabel(report.Period), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de detalle.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Subcategoría", 2, align.Left),
		h("Facturación", 2, align.Right),
		h("Unidades", 1, align.Right),
		h("Stock", 1, align.Right),
		h("Rotación de Stock", 2, align.Center),
	)
}

// tableDetailRows: una fila por producto; la rotación lleva el color de su etiqueta.
func (g *MarotoPDFGenerator) tableDetailRows(rows []dto.ProductDetailDTO) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, d := range rows {
		stock := "-"
		if d.StockUnits != nil {
			stock = d.StockUnits.StringFixed(2)
		}
		rotation := props.Text{Size: 8, Align: align.Center, Top: 1, Style: fontstyle.Bold}
		if c, ok := hexColor(d.TextColor); ok {
			rotation.Color = c
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(d.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(d.Subcategory, "-"), props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
			col.New(2).Add(text.New(g.money(d.TotalRevenue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(d.TotalUnitsSold.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(stock, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(d.Rotation, rotation)),
		))
	}
	return result
}

// totalsRow: cantidad de filas y facturación total de la selección.
func (g *MarotoPDFGenerator) totalsRow(rows []dto.ProductDetailDTO) core.Row {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.TotalRevenue)
	}
	return row.New(10).Add(
		col.New(6).Add(text.New(fmt.Sprintf("%d productos", len(rows)), props.Text{
			Size: 9, Top: 2, Color: colorGray,
		})),
		col.New(6).Add(text.New("TOTAL: "+g.money(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea con separador de miles: 1234.5 → "$1,234.50".
func (g *MarotoPDFGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%.2f", d.InexactFloat64())
}

func periodLabel(period string) string {
	if period == sales.TrailingToken {
		return "Últimos 90 días"
	}
	return period
}

// hexColor convierte "#rrggbb" a props.Color.
func hexColor(s string) (*props.Color, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return nil, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, false
	}
	return &props.Color{Red: int(v >> 16 & 0xff), Green: int(v >> 8 & 0xff), Blue: int(v & 0xff)}, true
}
