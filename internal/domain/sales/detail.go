package sales

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-dashboard/internal/domain"
	"github.com/jhoicas/ventas-dashboard/internal/domain/entity"
)

// DetailKey clave de agrupación de la tabla de detalle.
type DetailKey struct {
	ProductID     string
	ProductName   string
	Subcategory   string
	UnitOfMeasure string
}

// ProductDetailRow fila agregada de la tabla de detalle con su rotación.
type ProductDetailRow struct {
	DetailKey
	TotalRevenue   decimal.Decimal
	TotalUnitsSold decimal.Decimal
	StockUnits     decimal.NullDecimal // primer valor no nulo del grupo
	Rotation       RotationResult
}

// ProductDetails filtra records por clase y categoría, agrupa por
// (id, nombre, subcategoría, unidad de medida) y clasifica la rotación de cada fila.
// Los registros sin subcategoría o sin unidad de medida (sin catálogo) no forman grupo.
// El stock de la fila es el primer valor no nulo en el orden de records.
// Orden: facturación descendente, desempate por id de producto.
func ProductDetails(records []entity.SalesRecord, summaries []ProductRevenueSummary, class Class, category string) ([]ProductDetailRow, error) {
	if class == "" || category == "" {
		return nil, domain.ErrNoSelection
	}
	if len(records) == 0 {
		return nil, domain.ErrEmptyWindow
	}

	classes := classIndex(summaries)
	groups := make(map[DetailKey]*ProductDetailRow)
	order := make([]DetailKey, 0)
	for _, r := range records {
		if classes[r.ProductName] != class || r.MainCategory != category {
			continue
		}
		if r.Subcategory == "" || r.UnitOfMeasure == "" {
			continue
		}
		key := DetailKey{
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			Subcategory:   r.Subcategory,
			UnitOfMeasure: r.UnitOfMeasure,
		}
		g, ok := groups[key]
		if !ok {
			g = &ProductDetailRow{DetailKey: key, StockUnits: r.StockUnits}
			groups[key] = g
			order = append(order, key)
		}
		if !g.StockUnits.Valid {
			g.StockUnits = r.StockUnits
		}
		g.TotalRevenue = g.TotalRevenue.Add(r.Revenue)
		g.TotalUnitsSold = g.TotalUnitsSold.Add(r.QuantitySold)
	}

	out := make([]ProductDetailRow, 0, len(order))
	for _, k := range order {
		row := *groups[k]
		row.Rotation = ClassifyRotation(row.TotalUnitsSold, row.StockUnits, row.UnitOfMeasure)
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TotalRevenue.Equal(out[j].TotalRevenue) {
			return out[i].TotalRevenue.GreaterThan(out[j].TotalRevenue)
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}
