package sales_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-dashboard/internal/domain"
	"github.com/jhoicas/ventas-dashboard/internal/domain/entity"
	"github.com/jhoicas/ventas-dashboard/internal/domain/sales"
)

// drillDownFixture: facturación total 1480; tres vinos en A (acumulado 0.797),
// un queso en B y un aceite en C.
func drillDownFixture() ([]entity.SalesRecord, []sales.ProductRevenueSummary) {
	queso := rec("2024-09-06", "AL001", "Queso", "5", "34")
	queso.UnitOfMeasure = entity.UnitOfMeasureKilogram
	queso.StockUnits = stock("50")

	sinStock := rec("2024-09-07", "VI003", "Rosado", "2", "90")
	sinStock.StockUnits = decimal.NullDecimal{}

	oliva := rec("2024-09-08", "AC001", "Oliva", "1", "130")
	oliva.StockUnits = stock("20")

	records := sales.NewSnapshot([]entity.SalesRecord{
		rec("2024-09-01", "VI001", "Malbec", "5", "100"),
		rec("2024-09-02", "VI002", "Syrah", "2", "100"),
		rec("2024-09-03", "VI001", "Malbec", "3", "100"),
		sinStock,
		queso,
		oliva,
	}).Records()
	// el segundo registro de Malbec trae otro stock: se conserva el primero
	records[2].StockUnits = stock("999")

	summaries, err := sales.ClassifyABC(records)
	if err != nil {
		panic(err)
	}
	return records, summaries
}

func TestProductDetails_AgrupaYClasifica(t *testing.T) {
	records, summaries := drillDownFixture()

	rows, err := sales.ProductDetails(records, summaries, sales.ClassA, "Vinos")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	malbec := rows[0]
	assert.Equal(t, "VI001", malbec.ProductID)
	assert.True(t, malbec.TotalRevenue.Equal(dec("800")))
	assert.True(t, malbec.TotalUnitsSold.Equal(dec("8")))
	assert.True(t, malbec.StockUnits.Decimal.Equal(dec("10")), "stock = primer valor del grupo")
	assert.Equal(t, sales.RotationHealthy, malbec.Rotation.Label)

	assert.Equal(t, "VI002", rows[1].ProductID)
	assert.Equal(t, sales.RotationSlow, rows[1].Rotation.Label)

	// una fila con fallo no afecta a las demás
	assert.Equal(t, "VI003", rows[2].ProductID)
	assert.Equal(t, sales.RotationCalculationError, rows[2].Rotation.Label)
	assert.True(t, rows[2].Rotation.Failed())
	assert.False(t, rows[0].Rotation.Failed())
}

func TestProductDetails_FiltraPorClaseYCategoria(t *testing.T) {
	records, summaries := drillDownFixture()

	rows, err := sales.ProductDetails(records, summaries, sales.ClassA, "Aceites de Oliva")
	require.NoError(t, err)
	assert.Empty(t, rows, "Oliva es clase C en esta ventana")

	rows, err = sales.ProductDetails(records, summaries, sales.ClassC, "Aceites de Oliva")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, sales.RotationStagnant, rows[0].Rotation.Label)
}

func TestProductDetails_KilogramoEstancado(t *testing.T) {
	queso := rec("2024-09-06", "AL001", "Queso", "1", "2")
	queso.UnitOfMeasure = entity.UnitOfMeasureKilogram
	queso.StockUnits = stock("50")
	records := sales.NewSnapshot([]entity.SalesRecord{queso}).Records()
	summaries, err := sales.ClassifyABC(records)
	require.NoError(t, err)

	rows, err := sales.ProductDetails(records, summaries, sales.ClassC, "Alimentos")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, sales.RotationStagnant, rows[0].Rotation.Label)
}

func TestProductDetails_OrdenDeterminista(t *testing.T) {
	records := sales.NewSnapshot([]entity.SalesRecord{
		rec("2024-09-01", "VI009", "Z", "1", "10"),
		rec("2024-09-01", "VI001", "Y", "1", "10"),
		rec("2024-09-01", "VI005", "X", "1", "10"),
		rec("2024-09-01", "VI007", "W", "1", "70"),
	}).Records()
	summaries, err := sales.ClassifyABC(records)
	require.NoError(t, err)

	var ids [][]string
	for i := 0; i < 2; i++ {
		all := make([]string, 0)
		for _, c := range sales.Classes {
			rows, err := sales.ProductDetails(records, summaries, c, "Vinos")
			require.NoError(t, err)
			for _, r := range rows {
				all = append(all, string(c)+":"+r.ProductID)
			}
		}
		ids = append(ids, all)
	}
	assert.Equal(t, ids[0], ids[1])
	assert.Equal(t, []string{"A:VI007", "A:VI005", "B:VI001", "C:VI009"}, ids[0])
}

func TestProductDetails_SinSeleccion(t *testing.T) {
	records, summaries := drillDownFixture()

	_, err := sales.ProductDetails(records, summaries, "", "Vinos")
	assert.ErrorIs(t, err, domain.ErrNoSelection)
	_, err = sales.ProductDetails(records, summaries, sales.ClassA, "")
	assert.ErrorIs(t, err, domain.ErrNoSelection)
	_, err = sales.ProductDetails(nil, nil, sales.ClassA, "Vinos")
	assert.ErrorIs(t, err, domain.ErrEmptyWindow)
}

func TestBreakdownByCategory(t *testing.T) {
	records, summaries := drillDownFixture()

	got, err := sales.BreakdownByCategory(records, summaries, sales.ClassA)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Vinos", got[0].MainCategory)
	assert.True(t, got[0].TotalRevenue.Equal(dec("1180")))

	got, err = sales.BreakdownByCategory(records, summaries, sales.ClassB)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alimentos", got[0].MainCategory)
	assert.True(t, got[0].TotalRevenue.Equal(dec("170")))

	got, err = sales.BreakdownByCategory(records, summaries, sales.ClassC)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Aceites de Oliva", got[0].MainCategory)
}

func TestBreakdownByCategory_IgnoraCategoriaDesconocida(t *testing.T) {
	records := sales.NewSnapshot([]entity.SalesRecord{
		rec("2024-09-01", "ZZ001", "Misterio", "1", "100"),
		rec("2024-09-01", "VI001", "Malbec", "1", "100"),
	}).Records()
	summaries, err := sales.ClassifyABC(records)
	require.NoError(t, err)

	var cats []string
	for _, c := range sales.Classes {
		got, err := sales.BreakdownByCategory(records, summaries, c)
		require.NoError(t, err)
		for _, b := range got {
			cats = append(cats, b.MainCategory)
		}
	}
	assert.Equal(t, []string{"Vinos"}, cats)
}

func TestBreakdownByCategory_SinClase(t *testing.T) {
	records, summaries := drillDownFixture()

	_, err := sales.BreakdownByCategory(records, summaries, "")
	assert.ErrorIs(t, err, domain.ErrNoSelection)
}

func TestProductDetails_StockEsPrimerValorNoNulo(t *testing.T) {
	sinStock := rec("2024-09-01", "VI001", "Malbec", "1", "10")
	sinStock.StockUnits = decimal.NullDecimal{}
	records := sales.NewSnapshot([]entity.SalesRecord{
		sinStock,
		rec("2024-09-02", "VI001", "Malbec", "4", "10"),
	}).Records()
	summaries, err := sales.ClassifyABC(records)
	require.NoError(t, err)

	rows, err := sales.ProductDetails(records, summaries, sales.ClassC, "Vinos")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].StockUnits.Valid)
	assert.True(t, rows[0].StockUnits.Decimal.Equal(dec("10")))
	assert.Equal(t, sales.RotationHealthy, rows[0].Rotation.Label, "5 vendidas sobre 10 en stock")
}

func TestProductDetails_SinCatalogoNoFormaGrupo(t *testing.T) {
	sinCatalogo := rec("2024-09-02", "VI002", "Syrah", "1", "10")
	sinCatalogo.Subcategory = ""
	sinCatalogo.UnitOfMeasure = ""
	records := sales.NewSnapshot([]entity.SalesRecord{
		rec("2024-09-01", "VI001", "Malbec", "1", "10"),
		sinCatalogo,
	}).Records()
	summaries, err := sales.ClassifyABC(records)
	require.NoError(t, err)

	var ids []string
	for _, c := range sales.Classes {
		rows, err := sales.ProductDetails(records, summaries, c, "Vinos")
		require.NoError(t, err)
		for _, r := range rows {
			ids = append(ids, r.ProductID)
		}
	}
	assert.Equal(t, []string{"VI001"}, ids)
}
