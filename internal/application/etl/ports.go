package etl

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-dashboard/internal/domain/entity"
)

// SaleRow fila cruda de la planilla de ventas.
// SaleDate queda en cero cuando la celda no contiene una fecha válida.
type SaleRow struct {
	SaleDate     time.Time
	ProductID    string
	QuantitySold decimal.Decimal
	UnitPrice    decimal.Decimal
}

// StockRow fila cruda de la planilla de stock actual (Units puede venir nulo o negativo).
type StockRow struct {
	ProductID string
	Units     decimal.NullDecimal
}

// ProductMapRow fila del mapeo id_producto → nombre y subcategoría.
type ProductMapRow struct {
	ProductID   string
	ProductName string
	Subcategory string
}

// SubcategoryRow fila del catálogo subcategoría → unidad de medida.
type SubcategoryRow struct {
	Subcategory   string
	UnitOfMeasure string
}

// SourceReader puerto de lectura de las cuatro fuentes del ETL.
type SourceReader interface {
	ReadSales(ctx context.Context) ([]SaleRow, error)
	ReadStock(ctx context.Context) ([]StockRow, error)
	ReadProductMap(ctx context.Context) ([]ProductMapRow, error)
	ReadSubcategories(ctx context.Context) ([]SubcategoryRow, error)
}

// SalesWriter puerto de escritura: reemplaza por completo la tabla de ventas.
type SalesWriter interface {
	ReplaceAll(ctx context.Context, records []entity.SalesRecord) (int64, error)
}
