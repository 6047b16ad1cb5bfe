package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/ventas-dashboard/internal/application/analytics"
	"github.com/jhoicas/ventas-dashboard/internal/application/auth"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	DashboardUC  *appanalytics.DashboardUseCase
	CookieName   string
	SecureCookie bool
}

// Router registra las rutas de la aplicación.
func Router(app *fiber.App, deps RouterDeps) {
	// Sesión (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.CookieName, deps.SecureCookie)
	app.Get("/", authHandler.Root)
	app.Get("/login", authHandler.LoginPage)
	app.Post("/login", authHandler.Login)
	app.Get("/logout", authHandler.Logout)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)

	// Página del dashboard (sin sesión redirige a /login); sin StrictRouting también atiende /dashboard
	app.Get("/dashboard/", PageAuthMiddleware(deps.AuthUC, deps.CookieName), dashboardHandler.Index)

	// API JSON (requiere sesión)
	api := app.Group("/api/dashboard", AuthMiddleware(deps.AuthUC, deps.CookieName))
	api.Get("/periods", dashboardHandler.Periods)
	api.Get("/abc", dashboardHandler.ClassSummary)
	api.Get("/categories", dashboardHandler.Categories)
	api.Get("/products", dashboardHandler.Products)
	api.Get("/products/pdf", dashboardHandler.ProductsPDF)
}
