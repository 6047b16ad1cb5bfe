package sales_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-dashboard/internal/domain/entity"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func stock(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

// rec construye un registro de venta; la facturación la calcula NewSnapshot.
func rec(date, id, name, qty, price string) entity.SalesRecord {
	return entity.SalesRecord{
		SaleDate:      day(date),
		ProductID:     id,
		ProductName:   name,
		Subcategory:   "General",
		UnitOfMeasure: entity.UnitOfMeasureUnit,
		QuantitySold:  dec(qty),
		UnitPrice:     dec(price),
		StockUnits:    stock("10"),
	}
}
