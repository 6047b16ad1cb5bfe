package sales

import (
	"fmt"
	"time"

	"github.com/jhoicas/ventas-dashboard/internal/domain"
	"github.com/jhoicas/ventas-dashboard/internal/domain/entity"
)

const (
	// TrailingToken es el valor del selector para "Últimos 90 días".
	TrailingToken = "90d"
	trailingDays  = 90
	monthLayout   = "2006-01"
)

// Period selector de ventana temporal: últimos 90 días o un mes explícito.
type Period struct {
	trailing bool
	month    string
}

// Trailing90 devuelve el período "últimos 90 días".
func Trailing90() Period { return Period{trailing: true} }

// Month devuelve el período de un mes "YYYY-MM".
func Month(key string) (Period, error) {
	t, err := time.Parse(monthLayout, key)
	if err != nil || t.Format(monthLayout) != key {
		return Period{}, fmt.Errorf("%w: mes %q", domain.ErrInvalidPeriod, key)
	}
	return Period{month: key}, nil
}

// ParsePeriod interpreta el token del selector ("90d" o "YYYY-MM").
func ParsePeriod(token string) (Period, error) {
	if token == TrailingToken {
		return Trailing90(), nil
	}
	return Month(token)
}

// IsTrailing indica si es la ventana móvil de 90 días.
func (p Period) IsTrailing() bool { return p.trailing }

// String devuelve el token del selector.
func (p Period) String() string {
	if p.trailing {
		return TrailingToken
	}
	return p.month
}

// filter devuelve los registros dentro del período.
// La ventana de 90 días se ancla en maxDate (la venta más reciente), no en el reloj:
// entran las ventas con fecha estrictamente posterior a maxDate - 90 días.
func (p Period) filter(records []entity.SalesRecord, maxDate time.Time) []entity.SalesRecord {
	out := make([]entity.SalesRecord, 0, len(records))
	if p.trailing {
		if len(records) == 0 {
			return out
		}
		cutoff := maxDate.AddDate(0, 0, -trailingDays)
		for _, r := range records {
			if r.SaleDate.After(cutoff) {
				out = append(out, r)
			}
		}
		return out
	}
	for _, r := range records {
		if r.MonthKey == p.month {
			out = append(out, r)
		}
	}
	return out
}
