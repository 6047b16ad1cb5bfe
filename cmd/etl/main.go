package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/jhoicas/ventas-dashboard/internal/application/etl"
	"github.com/jhoicas/ventas-dashboard/internal/infrastructure/postgres"
	"github.com/jhoicas/ventas-dashboard/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/ventas-dashboard/pkg/config"
	"github.com/jhoicas/ventas-dashboard/pkg/logger"
)

// Carga las cuatro planillas en la tabla de ventas. Reemplaza el contenido completo de la tabla.
// Uso: go run ./cmd/etl [--ventas data/ventas.xlsx] [--stock ...] [--mapeo ...] [--catalogo ...] [--tabla ventas]
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	pflag.StringVar(&cfg.ETL.SalesFile, "ventas", cfg.ETL.SalesFile, "planilla de ventas (.xlsx)")
	pflag.StringVar(&cfg.ETL.StockFile, "stock", cfg.ETL.StockFile, "planilla de stock (.xlsx)")
	pflag.StringVar(&cfg.ETL.ProductMapFile, "mapeo", cfg.ETL.ProductMapFile, "mapeo de productos (.xlsx)")
	pflag.StringVar(&cfg.ETL.SubcategoryFile, "catalogo", cfg.ETL.SubcategoryFile, "catálogo de subcategorías (.xlsx)")
	pflag.StringVar(&cfg.ETL.Table, "tabla", cfg.ETL.Table, "tabla destino")
	pflag.Parse()

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	reader := spreadsheet.NewReader(spreadsheet.Paths{
		Sales:         cfg.ETL.SalesFile,
		Stock:         cfg.ETL.StockFile,
		ProductMap:    cfg.ETL.ProductMapFile,
		Subcategories: cfg.ETL.SubcategoryFile,
	}, log)
	writer := postgres.NewSalesRepository(pool, cfg.ETL.Table)

	start := time.Now()
	rep, err := etl.NewLoader(reader, writer, log).Run(ctx)
	if err != nil {
		pool.Close()
		log.Fatal().Err(err).Msg("ETL fallido; la tabla no se modificó")
	}

	log.Info().
		Str("tabla", cfg.ETL.Table).
		Int("ventas_leidas", rep.SalesRead).
		Int("descartadas_cantidad", rep.DroppedQuantity).
		Int("descartadas_fecha", rep.DroppedDate).
		Int("sin_mapeo", rep.UnmatchedMap).
		Int("sin_unidad", rep.UnmatchedUoM).
		Int("sin_stock", rep.UnmatchedStock).
		Int("claves_duplicadas", rep.DuplicateKeys).
		Int64("escritas", rep.Written).
		Dur("duracion", time.Since(start)).
		Msg("ETL completado")
}
