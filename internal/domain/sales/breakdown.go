package sales

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-dashboard/internal/domain"
	"github.com/jhoicas/ventas-dashboard/internal/domain/entity"
)

// CategoryBreakdown facturación de una categoría principal dentro de la clase elegida.
type CategoryBreakdown struct {
	MainCategory string
	TotalRevenue decimal.Decimal
}

// BreakdownByCategory une la clase ABC a cada registro (por nombre de producto),
// conserva los de la clase elegida y suma la facturación por categoría principal.
// Los productos sin categoría conocida no forman parte del desglose.
// Orden: facturación descendente, luego nombre de categoría.
func BreakdownByCategory(records []entity.SalesRecord, summaries []ProductRevenueSummary, class Class) ([]CategoryBreakdown, error) {
	if class == "" {
		return nil, domain.ErrNoSelection
	}
	if len(records) == 0 {
		return nil, domain.ErrEmptyWindow
	}

	classes := classIndex(summaries)
	byCategory := make(map[string]decimal.Decimal)
	for _, r := range records {
		if classes[r.ProductName] != class || r.MainCategory == "" {
			continue
		}
		byCategory[r.MainCategory] = byCategory[r.MainCategory].Add(r.Revenue)
	}

	out := make([]CategoryBreakdown, 0, len(byCategory))
	for cat, rev := range byCategory {
		out = append(out, CategoryBreakdown{MainCategory: cat, TotalRevenue: rev})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalRevenue.Equal(out[j].TotalRevenue) {
			return out[i].TotalRevenue.GreaterThan(out[j].TotalRevenue)
		}
		return out[i].MainCategory < out[j].MainCategory
	})
	return out, nil
}
