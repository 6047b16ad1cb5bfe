package sales

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-dashboard/internal/domain/entity"
)

// RotationLabel etiqueta de rotación de stock mostrada en la tabla de detalle.
type RotationLabel string

const (
	RotationHealthy          RotationLabel = "Healthy"
	RotationSlow             RotationLabel = "Slow"
	RotationStagnant         RotationLabel = "Stagnant"
	RotationOutOfStock       RotationLabel = "Out of Stock"
	RotationInactive         RotationLabel = "Inactive"
	RotationNoUnitOfMeasure  RotationLabel = "No Unit-of-Measure"
	RotationCalculationError RotationLabel = "Calculation Error"
)

// ErrStockMissing el stock llegó NULL al clasificador.
var ErrStockMissing = errors.New("stock ausente")

// rotationThresholds umbrales (saludable, lento) de la razón vendidas/stock por unidad de medida.
var rotationThresholds = map[string][2]decimal.Decimal{
	entity.UnitOfMeasureUnit:     {decimal.RequireFromString("0.5"), decimal.RequireFromString("0.1")},
	entity.UnitOfMeasureKilogram: {decimal.RequireFromString("0.2"), decimal.RequireFromString("0.05")},
}

// RotationResult resultado de clasificar una fila: etiqueta y, si falló, la causa.
// Con Err != nil la etiqueta es siempre RotationCalculationError.
type RotationResult struct {
	Label RotationLabel
	Err   error
}

// Failed indica si la fila no pudo clasificarse.
func (r RotationResult) Failed() bool { return r.Err != nil }

// ClassifyRotation clasifica la rotación de una fila agregada.
// Es pura: depende sólo de unidades vendidas, stock y unidad de medida.
// Un fallo (stock NULL, unidades negativas, pánico aritmético) queda confinado
// al resultado de esta fila.
func ClassifyRotation(unitsSold decimal.Decimal, stock decimal.NullDecimal, unitOfMeasure string) (res RotationResult) {
	defer func() {
		if p := recover(); p != nil {
			res = RotationResult{Label: RotationCalculationError, Err: fmt.Errorf("rotación: %v", p)}
		}
	}()

	if !stock.Valid {
		return RotationResult{Label: RotationCalculationError, Err: ErrStockMissing}
	}
	if unitsSold.IsNegative() {
		return RotationResult{Label: RotationCalculationError, Err: fmt.Errorf("unidades vendidas negativas: %s", unitsSold.String())}
	}

	effective := stock.Decimal
	if effective.IsNegative() {
		effective = decimal.Zero
	}
	if effective.IsZero() {
		if unitsSold.IsPositive() {
			return RotationResult{Label: RotationOutOfStock}
		}
		return RotationResult{Label: RotationInactive}
	}

	th, ok := rotationThresholds[unitOfMeasure]
	if !ok {
		return RotationResult{Label: RotationNoUnitOfMeasure}
	}
	ratio := unitsSold.Div(effective)
	switch {
	case ratio.GreaterThanOrEqual(th[0]):
		return RotationResult{Label: RotationHealthy}
	case ratio.GreaterThanOrEqual(th[1]):
		return RotationResult{Label: RotationSlow}
	default:
		return RotationResult{Label: RotationStagnant}
	}
}
