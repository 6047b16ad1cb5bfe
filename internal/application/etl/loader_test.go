package etl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-dashboard/internal/application/etl"
	"github.com/jhoicas/ventas-dashboard/internal/domain/entity"
	"github.com/jhoicas/ventas-dashboard/pkg/logger"
)

// ── Fakes ────────────────────────────────────────────────────────────────────

type fakeReader struct {
	sales []etl.SaleRow
	stock []etl.StockRow
	pmap  []etl.ProductMapRow
	subs  []etl.SubcategoryRow
	err   error
}

func (f *fakeReader) ReadSales(context.Context) ([]etl.SaleRow, error) { return f.sales, f.err }
func (f *fakeReader) ReadStock(context.Context) ([]etl.StockRow, error) { return f.stock, nil }
func (f *fakeReader) ReadProductMap(context.Context) ([]etl.ProductMapRow, error) {
	return f.pmap, nil
}
func (f *fakeReader) ReadSubcategories(context.Context) ([]etl.SubcategoryRow, error) {
	return f.subs, nil
}

type fakeWriter struct {
	got   []entity.SalesRecord
	calls int
	err   error
}

func (f *fakeWriter) ReplaceAll(_ context.Context, records []entity.SalesRecord) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	f.got = records
	return int64(len(records)), nil
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nd(s string) decimal.NullDecimal { return decimal.NewNullDecimal(d(s)) }

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixtureReader() *fakeReader {
	return &fakeReader{
		sales: []etl.SaleRow{
			{SaleDate: date("2024-07-01"), ProductID: "VI001", QuantitySold: d("2"), UnitPrice: d("10")},
			{SaleDate: date("2024-07-02"), ProductID: "AL001", QuantitySold: d("1.5"), UnitPrice: d("8")},
			{SaleDate: date("2024-07-03"), ProductID: "VI001", QuantitySold: d("0"), UnitPrice: d("10")},
			{SaleDate: date("2024-07-03"), ProductID: "VI001", QuantitySold: d("-1"), UnitPrice: d("10")},
			{ProductID: "VI001", QuantitySold: d("1"), UnitPrice: d("10")},
			{SaleDate: date("2024-07-04"), ProductID: " 12345.0 ", QuantitySold: d("1"), UnitPrice: d("3")},
			{SaleDate: date("2024-07-05"), ProductID: "ZZ999", QuantitySold: d("1"), UnitPrice: d("1")},
		},
		stock: []etl.StockRow{
			{ProductID: "VI001", Units: nd("-3")},
			{ProductID: "AL001", Units: nd("40")},
			{ProductID: "12345", Units: decimal.NullDecimal{}},
		},
		pmap: []etl.ProductMapRow{
			{ProductID: "VI001", ProductName: "Malbec", Subcategory: "Tintos"},
			{ProductID: "AL001", ProductName: "Queso", Subcategory: "Quesos"},
			{ProductID: "12345", ProductName: "Servilletas", Subcategory: "Varios"},
			{ProductID: "VI001", ProductName: "Duplicado", Subcategory: "Tintos"},
		},
		subs: []etl.SubcategoryRow{
			{Subcategory: "Tintos", UnitOfMeasure: "Unidad"},
			{Subcategory: "Quesos", UnitOfMeasure: "Kg"},
		},
	}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestLoader_LimpiaCombinaYReemplaza(t *testing.T) {
	w := &fakeWriter{}
	rep, err := etl.NewLoader(fixtureReader(), w, logger.Nop()).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, w.got, 4)
	assert.Equal(t, int64(4), rep.Written)
	assert.Equal(t, 7, rep.SalesRead)
	assert.Equal(t, 2, rep.DroppedQuantity)
	assert.Equal(t, 1, rep.DroppedDate)
	assert.Equal(t, 1, rep.StockClipped)
	assert.Equal(t, 1, rep.StockFilled)
	assert.Equal(t, 1, rep.UnmatchedMap)
	assert.Equal(t, 1, rep.DuplicateKeys)

	for _, r := range w.got {
		assert.True(t, r.QuantitySold.IsPositive(), "toda venta cargada tiene cantidad > 0")
		assert.True(t, r.StockUnits.Valid, "el stock nunca queda nulo")
		assert.False(t, r.StockUnits.Decimal.IsNegative())
	}

	malbec := w.got[0]
	assert.Equal(t, "Malbec", malbec.ProductName, "con id duplicado en el mapeo gana la primera fila")
	assert.Equal(t, "Tintos", malbec.Subcategory)
	assert.Equal(t, entity.UnitOfMeasureUnit, malbec.UnitOfMeasure)
	assert.True(t, malbec.StockUnits.Decimal.IsZero(), "stock negativo recortado a 0")

	queso := w.got[1]
	assert.Equal(t, entity.UnitOfMeasureKilogram, queso.UnitOfMeasure)
	assert.True(t, queso.StockUnits.Decimal.Equal(d("40")))

	servilletas := w.got[2]
	assert.Equal(t, "12345", servilletas.ProductID, "id numérico normalizado a texto")
	assert.Equal(t, "Servilletas", servilletas.ProductName)
	assert.Equal(t, "", servilletas.UnitOfMeasure, "subcategoría fuera del catálogo")

	// left join: la venta de un producto desconocido se conserva
	desconocido := w.got[3]
	assert.Equal(t, "ZZ999", desconocido.ProductID)
	assert.Equal(t, "", desconocido.ProductName)
	assert.True(t, desconocido.StockUnits.Decimal.IsZero())
	assert.Equal(t, 1, rep.UnmatchedStock)
}

func TestLoader_ErrorDeLecturaNoEscribe(t *testing.T) {
	r := fixtureReader()
	r.err = errors.New("archivo no encontrado")
	w := &fakeWriter{}

	_, err := etl.NewLoader(r, w, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leer ventas")
	assert.Equal(t, 0, w.calls, "la tabla destino no se toca si falla la lectura")
}

func TestLoader_ErrorDeEscrituraSePropaga(t *testing.T) {
	boom := errors.New("conexión perdida")
	w := &fakeWriter{err: boom}

	_, err := etl.NewLoader(fixtureReader(), w, logger.Nop()).Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestNormalizeID(t *testing.T) {
	cases := map[string]string{
		"VI001":   "VI001",
		" VI001 ": "VI001",
		"12345.0": "12345",
		"12345":   "12345",
		"12.5":    "12.5",
		"AB.0":    "AB.0",
		".0":      ".0",
		"":        "",
	}
	for in, want := range cases {
		assert.Equal(t, want, etl.NormalizeID(in), "id %q", in)
	}
}
