package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida tal como llegan en el catálogo de subcategorías.
const (
	UnitOfMeasureUnit     = "Unidad"
	UnitOfMeasureKilogram = "Kg"
)

// SalesRecord una línea de venta desnormalizada de la tabla ventas.
// StockUnits es el stock actual del producto (no histórico); puede venir NULL
// si la tabla fue escrita por otro proceso que no pasó por el ETL.
type SalesRecord struct {
	SaleDate      time.Time
	ProductID     string
	ProductName   string
	Subcategory   string
	UnitOfMeasure string
	QuantitySold  decimal.Decimal // > 0, garantizado por el ETL
	UnitPrice     decimal.Decimal // precio unitario final
	StockUnits    decimal.NullDecimal

	// Derivados; los completa sales.NewSnapshot una única vez.
	Revenue      decimal.Decimal // QuantitySold * UnitPrice
	MonthKey     string          // "2006-01"
	MainCategory string          // por prefijo de ProductID; "" si es desconocido
}
