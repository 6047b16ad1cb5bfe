package sales

import (
	"sort"
	"time"

	"github.com/jhoicas/ventas-dashboard/internal/domain/entity"
)

// Snapshot conjunto inmutable de ventas cargado una vez al arrancar.
// Es seguro compartirlo entre requests concurrentes: nunca se modifica después
// de NewSnapshot y los accesores devuelven copias.
type Snapshot struct {
	records []entity.SalesRecord
	maxDate time.Time
	months  []string
}

// NewSnapshot copia records, calcula los campos derivados (facturación, mes,
// categoría principal) y descarta las filas sin fecha.
func NewSnapshot(records []entity.SalesRecord) *Snapshot {
	s := &Snapshot{records: make([]entity.SalesRecord, 0, len(records))}
	seen := make(map[string]struct{})
	for _, r := range records {
		if r.SaleDate.IsZero() {
			continue
		}
		r.Revenue = r.QuantitySold.Mul(r.UnitPrice)
		r.MonthKey = r.SaleDate.Format(monthLayout)
		r.MainCategory = MainCategory(r.ProductID)
		if r.SaleDate.After(s.maxDate) {
			s.maxDate = r.SaleDate
		}
		if _, ok := seen[r.MonthKey]; !ok {
			seen[r.MonthKey] = struct{}{}
			s.months = append(s.months, r.MonthKey)
		}
		s.records = append(s.records, r)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(s.months)))
	return s
}

// Len cantidad de registros.
func (s *Snapshot) Len() int { return len(s.records) }

// Empty indica si no hay datos cargados.
func (s *Snapshot) Empty() bool { return len(s.records) == 0 }

// MaxDate fecha de la venta más reciente (cero si está vacío).
func (s *Snapshot) MaxDate() time.Time { return s.maxDate }

// Months meses presentes ("YYYY-MM"), del más reciente al más antiguo.
func (s *Snapshot) Months() []string {
	out := make([]string, len(s.months))
	copy(out, s.months)
	return out
}

// Records copia de todos los registros.
func (s *Snapshot) Records() []entity.SalesRecord {
	out := make([]entity.SalesRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Window devuelve una copia de los registros dentro del período.
func (s *Snapshot) Window(p Period) []entity.SalesRecord {
	return p.filter(s.records, s.maxDate)
}
