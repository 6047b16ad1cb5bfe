package repository

import (
	"context"

	"github.com/jhoicas/ventas-dashboard/internal/domain/entity"
)

// SalesRepository puerto de lectura de la tabla consolidada de ventas.
type SalesRepository interface {
	// LoadAll devuelve todas las filas; se llama una vez al iniciar la API.
	LoadAll(ctx context.Context) ([]entity.SalesRecord, error)
}
