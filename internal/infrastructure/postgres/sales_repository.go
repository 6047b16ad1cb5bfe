package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/ventas-dashboard/internal/application/etl"
	"github.com/jhoicas/ventas-dashboard/internal/domain"
	"github.com/jhoicas/ventas-dashboard/internal/domain/entity"
	"github.com/jhoicas/ventas-dashboard/internal/domain/repository"
)

var (
	_ repository.SalesRepository = (*SalesRepo)(nil)
	_ etl.SalesWriter            = (*SalesRepo)(nil)
)

// salesColumns orden de columnas de la tabla consolidada (mismo orden en SELECT y COPY).
var salesColumns = []string{
	"fecha_venta",
	"id_producto",
	"nombre_producto",
	"subcategoria",
	"unidad_de_medida",
	"cantidad_vendida",
	"precio_unitario_final",
	"unidades_stock",
}

const createSalesTable = `
	CREATE TABLE IF NOT EXISTS %s (
		fecha_venta           DATE    NOT NULL,
		id_producto           TEXT    NOT NULL,
		nombre_producto       TEXT    NOT NULL DEFAULT '',
		subcategoria          TEXT    NOT NULL DEFAULT '',
		unidad_de_medida      TEXT    NOT NULL DEFAULT '',
		cantidad_vendida      NUMERIC NOT NULL CHECK (cantidad_vendida > 0),
		precio_unitario_final NUMERIC NOT NULL,
		unidades_stock        NUMERIC
	)`

// SalesRepo lectura y reemplazo de la tabla de ventas sobre PostgreSQL.
type SalesRepo struct {
	pool  *pgxpool.Pool
	table string
}

// NewSalesRepository construye el adaptador; table es el nombre de la tabla destino (ej. "ventas").
func NewSalesRepository(pool *pgxpool.Pool, table string) *SalesRepo {
	return &SalesRepo{pool: pool, table: table}
}

// LoadAll lee la tabla completa. Si la tabla no existe devuelve domain.ErrDataUnavailable.
func (r *SalesRepo) LoadAll(ctx context.Context) ([]entity.SalesRecord, error) {
	query, args, err := squirrel.
		Select(
			"fecha_venta",
			"id_producto",
			"COALESCE(nombre_producto, '')",
			"COALESCE(subcategoria, '')",
			"COALESCE(unidad_de_medida, '')",
			"cantidad_vendida",
			"precio_unitario_final",
			"unidades_stock",
		).
		From(pgx.Identifier{r.table}.Sanitize()).
		Where(squirrel.Gt{"cantidad_vendida": 0}).
		OrderBy("fecha_venta ASC", "id_producto ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sales query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		if isUndefinedTable(err) {
			return nil, fmt.Errorf("tabla %s: %w", r.table, domain.ErrDataUnavailable)
		}
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var list []entity.SalesRecord
	for rows.Next() {
		var s entity.SalesRecord
		if err := rows.Scan(
			&s.SaleDate, &s.ProductID, &s.ProductName, &s.Subcategory, &s.UnitOfMeasure,
			&s.QuantitySold, &s.UnitPrice, &s.StockUnits,
		); err != nil {
			return nil, fmt.Errorf("scan sales: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}
	return list, nil
}

// ReplaceAll reemplaza el contenido de la tabla en una sola transacción:
// crea la tabla si falta, la vacía y copia las filas con COPY.
func (r *SalesRepo) ReplaceAll(ctx context.Context, records []entity.SalesRecord) (int64, error) {
	ident := pgx.Identifier{r.table}
	var copied int64
	err := runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, fmt.Sprintf(createSalesTable, ident.Sanitize())); err != nil {
			return fmt.Errorf("create sales table: %w", err)
		}
		if _, err := tx.Exec(ctx, "TRUNCATE "+ident.Sanitize()); err != nil {
			return fmt.Errorf("truncate sales: %w", err)
		}
		n, err := tx.CopyFrom(ctx, ident, salesColumns, pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			s := records[i]
			return []any{
				s.SaleDate, s.ProductID, s.ProductName, s.Subcategory, s.UnitOfMeasure,
				s.QuantitySold, s.UnitPrice, s.StockUnits,
			}, nil
		}))
		if err != nil {
			return fmt.Errorf("copy sales: %w", err)
		}
		copied = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return copied, nil
}
