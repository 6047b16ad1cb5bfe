package sales

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-dashboard/internal/domain"
	"github.com/jhoicas/ventas-dashboard/internal/domain/entity"
)

// Class clase ABC de un producto.
type Class string

const (
	ClassA Class = "A"
	ClassB Class = "B"
	ClassC Class = "C"
)

// Classes orden fijo de las clases para gráficos y reportes.
var Classes = []Class{ClassA, ClassB, ClassC}

// ParseClass valida el valor de clase recibido desde la UI.
func ParseClass(s string) (Class, error) {
	switch c := Class(s); c {
	case ClassA, ClassB, ClassC:
		return c, nil
	}
	return "", fmt.Errorf("%w: clase %q", domain.ErrInvalidInput, s)
}

// Umbrales sobre la participación acumulada (límites superiores inclusivos).
var (
	thresholdA = decimal.RequireFromString("0.80")
	thresholdB = decimal.RequireFromString("0.95")
)

// ProductRevenueSummary facturación de un producto dentro de una ventana y su clase ABC.
type ProductRevenueSummary struct {
	ProductName     string
	TotalRevenue    decimal.Decimal
	CumulativeShare decimal.Decimal // 0..1, acumulado en orden descendente de facturación
	Class           Class
}

// ClassTotals facturación y cantidad de productos por clase.
type ClassTotals struct {
	Class        Class
	TotalRevenue decimal.Decimal
	Products     int
}

// classify aplica los umbrales a la participación acumulada de la propia fila.
// Un único producto queda con participación 1 y por lo tanto en C.
func classify(share decimal.Decimal) Class {
	switch {
	case share.LessThanOrEqual(thresholdA):
		return ClassA
	case share.LessThanOrEqual(thresholdB):
		return ClassB
	default:
		return ClassC
	}
}

// ClassifyABC agrupa records por nombre de producto, ordena por facturación
// descendente (desempate: nombre ascendente) y asigna la clase ABC según la
// participación acumulada sobre el total del subconjunto.
//
// Debe llamarse con el subconjunto ya filtrado: las clases son relativas al
// total de esa ventana. Los registros sin nombre de producto (venta sin mapeo)
// no entran al ranking ni al total. Devuelve domain.ErrEmptyWindow si no hay
// registros o si la facturación total es cero.
func ClassifyABC(records []entity.SalesRecord) ([]ProductRevenueSummary, error) {
	if len(records) == 0 {
		return nil, domain.ErrEmptyWindow
	}

	byProduct := make(map[string]decimal.Decimal)
	for _, r := range records {
		if r.ProductName == "" {
			continue
		}
		byProduct[r.ProductName] = byProduct[r.ProductName].Add(r.Revenue)
	}

	out := make([]ProductRevenueSummary, 0, len(byProduct))
	total := decimal.Zero
	for name, rev := range byProduct {
		out = append(out, ProductRevenueSummary{ProductName: name, TotalRevenue: rev})
		total = total.Add(rev)
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: facturación total %s", domain.ErrEmptyWindow, total.String())
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalRevenue.Equal(out[j].TotalRevenue) {
			return out[i].TotalRevenue.GreaterThan(out[j].TotalRevenue)
		}
		return out[i].ProductName < out[j].ProductName
	})

	cumulative := decimal.Zero
	for i := range out {
		cumulative = cumulative.Add(out[i].TotalRevenue)
		share := cumulative.Div(total)
		out[i].CumulativeShare = share
		out[i].Class = classify(share)
	}
	return out, nil
}

// SummarizeClasses totaliza la facturación por clase en el orden A, B, C.
// Las clases sin productos aparecen con cero.
func SummarizeClasses(summaries []ProductRevenueSummary) []ClassTotals {
	idx := map[Class]int{ClassA: 0, ClassB: 1, ClassC: 2}
	out := make([]ClassTotals, len(Classes))
	for i, c := range Classes {
		out[i] = ClassTotals{Class: c, TotalRevenue: decimal.Zero}
	}
	for _, s := range summaries {
		t := &out[idx[s.Class]]
		t.TotalRevenue = t.TotalRevenue.Add(s.TotalRevenue)
		t.Products++
	}
	return out
}

// classIndex mapa nombre de producto -> clase, para unir la clase a cada registro.
func classIndex(summaries []ProductRevenueSummary) map[string]Class {
	m := make(map[string]Class, len(summaries))
	for _, s := range summaries {
		m[s.ProductName] = s.Class
	}
	return m
}
