// Package etl consolida las planillas de ventas, stock, mapeo de productos y
// catálogo de subcategorías en la tabla de ventas que consume el dashboard.
package etl

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-dashboard/internal/domain/entity"
	"github.com/jhoicas/ventas-dashboard/pkg/logger"
)

// Report estadísticas de una corrida del ETL.
type Report struct {
	SalesRead       int
	StockRead       int
	ProductsMapped  int
	Subcategories   int
	DroppedQuantity int // ventas con cantidad_vendida <= 0
	DroppedDate     int // ventas sin fecha válida
	StockClipped    int // stock negativo llevado a 0
	StockFilled     int // stock nulo llevado a 0
	UnmatchedMap    int // ventas cuyo producto no está en el mapeo
	UnmatchedUoM    int // ventas cuya subcategoría no está en el catálogo
	UnmatchedStock  int // ventas sin stock registrado (quedan con 0)
	DuplicateKeys   int // claves repetidas en mapeo/catálogo/stock (se usa la primera)
	Written         int64
}

// Loader ejecuta extracción, limpieza, combinación y carga.
type Loader struct {
	reader SourceReader
	writer SalesWriter
	log    *logger.Logger
}

// NewLoader construye el ETL.
func NewLoader(reader SourceReader, writer SalesWriter, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{reader: reader, writer: writer, log: log.Component("etl")}
}

// Run ejecuta el proceso completo. Cualquier fallo de lectura o escritura es fatal
// para la corrida y la tabla destino queda intacta.
func (l *Loader) Run(ctx context.Context) (*Report, error) {
	rep := &Report{}

	// ── 1. Extracción ─────────────────────────────────────────────────────────
	salesRows, err := l.reader.ReadSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("etl: leer ventas: %w", err)
	}
	stockRows, err := l.reader.ReadStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("etl: leer stock: %w", err)
	}
	mapRows, err := l.reader.ReadProductMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("etl: leer mapeo de productos: %w", err)
	}
	subRows, err := l.reader.ReadSubcategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("etl: leer catálogo de subcategorías: %w", err)
	}
	rep.SalesRead = len(salesRows)
	rep.StockRead = len(stockRows)
	rep.ProductsMapped = len(mapRows)
	rep.Subcategories = len(subRows)
	l.log.Info().
		Int("ventas", rep.SalesRead).
		Int("stock", rep.StockRead).
		Int("mapeo", rep.ProductsMapped).
		Int("subcategorias", rep.Subcategories).
		Msg("fuentes cargadas")

	// ── 2. Transformación ─────────────────────────────────────────────────────
	stockByID := make(map[string]decimal.Decimal, len(stockRows))
	for _, s := range stockRows {
		id := NormalizeID(s.ProductID)
		units, clipped, filled := cleanStock(s.Units)
		if clipped {
			rep.StockClipped++
		}
		if filled {
			rep.StockFilled++
		}
		if _, dup := stockByID[id]; dup {
			rep.DuplicateKeys++
			continue
		}
		stockByID[id] = units
	}

	productByID := make(map[string]ProductMapRow, len(mapRows))
	for _, m := range mapRows {
		id := NormalizeID(m.ProductID)
		if _, dup := productByID[id]; dup {
			rep.DuplicateKeys++
			continue
		}
		productByID[id] = m
	}

	uomBySub := make(map[string]string, len(subRows))
	for _, s := range subRows {
		key := strings.TrimSpace(s.Subcategory)
		if _, dup := uomBySub[key]; dup {
			rep.DuplicateKeys++
			continue
		}
		uomBySub[key] = strings.TrimSpace(s.UnitOfMeasure)
	}

	// ── 3. Combinación (left joins: ninguna venta válida se pierde) ───────────
	records := make([]entity.SalesRecord, 0, len(salesRows))
	for _, s := range salesRows {
		if !s.QuantitySold.IsPositive() {
			rep.DroppedQuantity++
			continue
		}
		if s.SaleDate.IsZero() {
			rep.DroppedDate++
			continue
		}
		id := NormalizeID(s.ProductID)
		rec := entity.SalesRecord{
			SaleDate:     s.SaleDate,
			ProductID:    id,
			QuantitySold: s.QuantitySold,
			UnitPrice:    s.UnitPrice,
		}
		if p, ok := productByID[id]; ok {
			rec.ProductName = strings.TrimSpace(p.ProductName)
			rec.Subcategory = strings.TrimSpace(p.Subcategory)
		} else {
			rep.UnmatchedMap++
		}
		if uom, ok := uomBySub[rec.Subcategory]; ok && rec.Subcategory != "" {
			rec.UnitOfMeasure = uom
		} else {
			rep.UnmatchedUoM++
		}
		if units, ok := stockByID[id]; ok {
			rec.StockUnits = decimal.NewNullDecimal(units)
		} else {
			rec.StockUnits = decimal.NewNullDecimal(decimal.Zero)
			rep.UnmatchedStock++
		}
		records = append(records, rec)
	}

	l.log.Info().
		Int("descartadas_cantidad", rep.DroppedQuantity).
		Int("descartadas_fecha", rep.DroppedDate).
		Int("stock_negativo", rep.StockClipped).
		Int("stock_nulo", rep.StockFilled).
		Msg("limpieza completada")
	if rep.UnmatchedMap+rep.UnmatchedUoM+rep.DuplicateKeys > 0 {
		l.log.Warn().
			Int("sin_mapeo", rep.UnmatchedMap).
			Int("sin_unidad", rep.UnmatchedUoM).
			Int("sin_stock", rep.UnmatchedStock).
			Int("claves_duplicadas", rep.DuplicateKeys).
			Msg("combinación con faltantes")
	}

	// ── 4. Carga ──────────────────────────────────────────────────────────────
	n, err := l.writer.ReplaceAll(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("etl: guardar ventas: %w", err)
	}
	rep.Written = n
	l.log.Info().Int64("filas", n).Msg("proceso ETL completado")
	return rep, nil
}

// cleanStock lleva negativos y nulos a cero.
func cleanStock(units decimal.NullDecimal) (value decimal.Decimal, clipped, filled bool) {
	if !units.Valid {
		return decimal.Zero, false, true
	}
	if units.Decimal.IsNegative() {
		return decimal.Zero, true, false
	}
	return units.Decimal, false, false
}

// NormalizeID estandariza un id de producto como texto: sin espacios y sin el
// sufijo ".0" que agregan las celdas numéricas de las planillas.
func NormalizeID(raw string) string {
	id := strings.TrimSpace(raw)
	if digits, ok := strings.CutSuffix(id, ".0"); ok && digits != "" && isDigits(digits) {
		return digits
	}
	return id
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
