// Package spreadsheet lee las planillas .xlsx de origen del ETL con excelize.
package spreadsheet

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/ventas-dashboard/internal/application/etl"
	"github.com/jhoicas/ventas-dashboard/pkg/logger"
)

// Columnas esperadas (encabezados normalizados).
const (
	colSaleDate      = "fecha_venta"
	colProductID     = "id_producto"
	colQuantitySold  = "cantidad_vendida"
	colUnitPrice     = "precio_unitario_final"
	colStockUnits    = "unidades_stock"
	colProductName   = "nombre_producto"
	colSubcategory   = "subcategoria"
	colUnitOfMeasure = "unidad_de_medida"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// Paths rutas de las cuatro planillas.
type Paths struct {
	Sales         string
	Stock         string
	ProductMap    string
	Subcategories string
}

var _ etl.SourceReader = (*Reader)(nil)

// Reader adaptador de etl.SourceReader sobre archivos .xlsx (primera hoja de cada libro).
type Reader struct {
	paths Paths
	log   *logger.Logger
}

// NewReader construye el lector.
func NewReader(paths Paths, log *logger.Logger) *Reader {
	if log == nil {
		log = logger.Nop()
	}
	return &Reader{paths: paths, log: log.Component("spreadsheet")}
}

// ReadSales lee la planilla de ventas. Las fechas inválidas quedan en cero.
func (r *Reader) ReadSales(ctx context.Context) ([]etl.SaleRow, error) {
	t, err := r.open(ctx, r.paths.Sales, colSaleDate, colProductID, colQuantitySold, colUnitPrice)
	if err != nil {
		return nil, err
	}
	out := make([]etl.SaleRow, 0, len(t.rows))
	for i := range t.rows {
		qty, err := t.number(i, colQuantitySold)
		if err != nil {
			return nil, err
		}
		price, err := t.number(i, colUnitPrice)
		if err != nil {
			return nil, err
		}
		out = append(out, etl.SaleRow{
			SaleDate:     parseDate(t.cell(i, colSaleDate)),
			ProductID:    t.cell(i, colProductID),
			QuantitySold: qty.Decimal,
			UnitPrice:    price.Decimal,
		})
	}
	return out, nil
}

// ReadStock lee la planilla de stock actual.
func (r *Reader) ReadStock(ctx context.Context) ([]etl.StockRow, error) {
	t, err := r.open(ctx, r.paths.Stock, colProductID, colStockUnits)
	if err != nil {
		return nil, err
	}
	out := make([]etl.StockRow, 0, len(t.rows))
	for i := range t.rows {
		units, err := t.number(i, colStockUnits)
		if err != nil {
			return nil, err
		}
		out = append(out, etl.StockRow{ProductID: t.cell(i, colProductID), Units: units})
	}
	return out, nil
}

// ReadProductMap lee el mapeo de productos.
func (r *Reader) ReadProductMap(ctx context.Context) ([]etl.ProductMapRow, error) {
	t, err := r.open(ctx, r.paths.ProductMap, colProductID, colProductName, colSubcategory)
	if err != nil {
		return nil, err
	}
	out := make([]etl.ProductMapRow, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, etl.ProductMapRow{
			ProductID:   t.cell(i, colProductID),
			ProductName: t.cell(i, colProductName),
			Subcategory: t.cell(i, colSubcategory),
		})
	}
	return out, nil
}

// ReadSubcategories lee el catálogo de subcategorías.
func (r *Reader) ReadSubcategories(ctx context.Context) ([]etl.SubcategoryRow, error) {
	t, err := r.open(ctx, r.paths.Subcategories, colSubcategory, colUnitOfMeasure)
	if err != nil {
		return nil, err
	}
	out := make([]etl.SubcategoryRow, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, etl.SubcategoryRow{
			Subcategory:   t.cell(i, colSubcategory),
			UnitOfMeasure: t.cell(i, colUnitOfMeasure),
		})
	}
	return out, nil
}

// ── Tabla genérica ───────────────────────────────────────────────────────────

type table struct {
	path  string
	index map[string]int
	rows  [][]string
}

func (r *Reader) open(ctx context.Context, path string, required ...string) (*table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: abrir %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet: %s: el libro no tiene hojas", path)
	}
	// RawCellValue: fechas como número de serie y números sin formato de presentación.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: leer %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet: %s: hoja vacía", path)
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		key := NormalizeHeader(h)
		if _, dup := index[key]; !dup && key != "" {
			index[key] = i
		}
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("spreadsheet: %s: falta la columna %q", path, col)
		}
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		data = append(data, row)
	}
	r.log.Debug().Str("archivo", path).Int("filas", len(data)).Msg("planilla leída")
	return &table{path: path, index: index, rows: data}, nil
}

// cell devuelve el valor recortado; las filas cortas se completan con vacío.
func (t *table) cell(row int, col string) string {
	i := t.index[col]
	if i >= len(t.rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.rows[row][i])
}

// number parsea un número; la celda vacía es nula.
func (t *table) number(row int, col string) (decimal.NullDecimal, error) {
	v := t.cell(row, col)
	if v == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		// fila 1 = encabezado
		return decimal.NullDecimal{}, fmt.Errorf("spreadsheet: %s fila %d: %s no numérico %q", t.path, row+2, col, v)
	}
	return decimal.NewNullDecimal(d), nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseDate acepta número de serie de Excel o texto en los formatos habituales.
// Devuelve la fecha cero cuando no puede interpretar el valor.
func parseDate(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}
		}
		return t
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// NormalizeHeader lleva un encabezado a snake_case sin tildes: "Unidad de Medida" → "unidad_de_medida".
func NormalizeHeader(h string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, h)
	if err != nil {
		s = h
	}
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}
