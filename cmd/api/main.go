package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	appanalytics "github.com/jhoicas/ventas-dashboard/internal/application/analytics"
	"github.com/jhoicas/ventas-dashboard/internal/application/auth"
	infrapdf "github.com/jhoicas/ventas-dashboard/internal/infrastructure/pdf"
	"github.com/jhoicas/ventas-dashboard/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/ventas-dashboard/internal/interfaces/http"
	"github.com/jhoicas/ventas-dashboard/pkg/config"
	"github.com/jhoicas/ventas-dashboard/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	salesRepo := postgres.NewSalesRepository(pool, cfg.ETL.Table)

	// El snapshot se carga una sola vez; sin datos el dashboard responde con placeholders.
	snap, err := appanalytics.LoadSnapshot(ctx, salesRepo)
	if err != nil {
		log.Error().Err(err).Str("tabla", cfg.ETL.Table).Msg("no se pudieron cargar las ventas; el dashboard queda sin datos")
		snap = nil
	} else {
		log.Info().Int("registros", snap.Len()).Msg("ventas cargadas")
	}

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	dashboardUC := appanalytics.NewDashboardUseCase(snap, pdfGenerator, log)

	secret := cfg.Session.Secret
	if secret == "" {
		// Solo fuera de producción (config.Load lo exige allí): las sesiones no sobreviven un reinicio.
		secret = uuid.NewString()
		log.Warn().Msg("SESSION_SECRET vacío: se usa un secreto aleatorio")
	}
	authUC := auth.NewAuthUseCase(userRepo, auth.SessionConfig{
		Secret:     secret,
		ExpMinutes: cfg.Session.Expiration,
		Issuer:     cfg.Session.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ventas Dashboard API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "data": dashboardUC.Available()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		DashboardUC:  dashboardUC,
		CookieName:   cfg.Session.CookieName,
		SecureCookie: cfg.App.Env == "production",
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
