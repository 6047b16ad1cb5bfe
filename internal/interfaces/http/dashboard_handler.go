package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/ventas-dashboard/internal/application/analytics"
	"github.com/jhoicas/ventas-dashboard/internal/application/dto"
	"github.com/jhoicas/ventas-dashboard/internal/domain"
)

// DashboardHandler maneja los endpoints del dashboard de ventas.
// Cada request trae la selección completa (period, class, category); el servidor no guarda estado.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Index resume los endpoints disponibles para el usuario con sesión.
func (h *DashboardHandler) Index(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"title":    "Dashboard de Análisis Estratégico",
		"username": GetUsername(c),
		"data":     h.uc.Available(),
		"logout":   "/logout",
		"endpoints": []string{
			"/api/dashboard/periods",
			"/api/dashboard/abc?period=",
			"/api/dashboard/categories?period=&class=",
			"/api/dashboard/products?period=&class=&category=&limit=&offset=",
			"/api/dashboard/products/pdf?period=&class=&category=",
		},
	})
}

// Periods godoc
// @Summary      Opciones del selector de período
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.PeriodOptionsDTO
// @Router       /api/dashboard/periods [get]
func (h *DashboardHandler) Periods(c *fiber.Ctx) error {
	return c.JSON(h.uc.Periods())
}

// ClassSummary godoc
// @Summary      Facturación por clase ABC (Pareto) de la ventana
// @Tags         dashboard
// @Produce      json
// @Param        period  query  string  true  "90d o YYYY-MM"
// @Success      200  {object}  dto.ABCSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/abc [get]
func (h *DashboardHandler) ClassSummary(c *fiber.Ctx) error {
	sel, err := parseSelection(c)
	if err != nil {
		return badRequest(c, err)
	}
	out, err := h.uc.ClassSummary(sel)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Categories godoc
// @Summary      Desglose por categoría de la clase seleccionada
// @Tags         dashboard
// @Produce      json
// @Param        period  query  string  true   "90d o YYYY-MM"
// @Param        class   query  string  false  "A, B o C"
// @Success      200  {object}  dto.CategoryBreakdownDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/categories [get]
func (h *DashboardHandler) Categories(c *fiber.Ctx) error {
	sel, err := parseSelection(c)
	if err != nil {
		return badRequest(c, err)
	}
	out, err := h.uc.CategoryBreakdown(sel)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Products godoc
// @Summary      Detalle de productos con rotación de stock (paginado)
// @Tags         dashboard
// @Produce      json
// @Param        period    query  string  true   "90d o YYYY-MM"
// @Param        class     query  string  false  "A, B o C"
// @Param        category  query  string  false  "categoría principal"
// @Param        limit     query  int     false  "filas por página (default 10, max 100)"
// @Param        offset    query  int     false  "desplazamiento"
// @Success      200  {object}  dto.ProductDetailsDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/products [get]
func (h *DashboardHandler) Products(c *fiber.Ctx) error {
	sel, err := parseSelection(c)
	if err != nil {
		return badRequest(c, err)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	if err := validate.Struct(page); err != nil {
		return badRequest(c, err)
	}
	out, err := h.uc.ProductDetails(sel, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ProductsPDF godoc
// @Summary      Exporta la tabla de detalle como PDF
// @Tags         dashboard
// @Produce      application/pdf
// @Param        period    query  string  true  "90d o YYYY-MM"
// @Param        class     query  string  true  "A, B o C"
// @Param        category  query  string  true  "categoría principal"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dashboard/products/pdf [get]
func (h *DashboardHandler) ProductsPDF(c *fiber.Ctx) error {
	sel, err := parseSelection(c)
	if err != nil {
		return badRequest(c, err)
	}
	doc, err := h.uc.ExportDetailsPDF(c.UserContext(), sel)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="detalle_%s_%s.pdf"`, sel.Class, fileSafe(sel.Category)))
	return c.Send(doc)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func parseSelection(c *fiber.Ctx) (dto.Selection, error) {
	var sel dto.Selection
	if err := c.QueryParser(&sel); err != nil {
		return sel, err
	}
	sel.Period = strings.TrimSpace(sel.Period)
	sel.Class = strings.ToUpper(strings.TrimSpace(sel.Class))
	sel.Category = strings.TrimSpace(sel.Category)
	if err := validate.Struct(sel); err != nil {
		return sel, err
	}
	return sel, nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: validationMessage(err)})
}

// writeError traduce errores de dominio a status HTTP.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidPeriod), errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: err.Error()})
	case errors.Is(err, domain.ErrNoSelection):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NO_SELECTION", Message: "seleccione una clase y una categoría"})
	case errors.Is(err, domain.ErrEmptyWindow), errors.Is(err, domain.ErrDataUnavailable):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_DATA", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// fileSafe deja solo letras, dígitos y guiones bajos para el nombre del archivo.
func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, s)
}
