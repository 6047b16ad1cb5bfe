package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-dashboard/internal/application/auth"
	"github.com/jhoicas/ventas-dashboard/internal/application/dto"
	"github.com/jhoicas/ventas-dashboard/internal/domain"
)

const dashboardPath = "/dashboard/"

// AuthHandler maneja login, logout y la redirección de la raíz.
type AuthHandler struct {
	uc           *auth.AuthUseCase
	cookieName   string
	secureCookie bool
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, cookieName string, secureCookie bool) *AuthHandler {
	return &AuthHandler{uc: uc, cookieName: cookieName, secureCookie: secureCookie}
}

// Root godoc
// @Summary      Redirige al dashboard si hay sesión, si no al login
// @Tags         auth
// @Success      302
// @Router       / [get]
func (h *AuthHandler) Root(c *fiber.Ctx) error {
	if _, ok := currentUser(c, h.uc, h.cookieName); ok {
		return c.Redirect(dashboardPath, fiber.StatusFound)
	}
	return c.Redirect("/login", fiber.StatusFound)
}

// LoginPage indica cómo iniciar sesión (el formulario HTML lo sirve el front-end).
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	if _, ok := currentUser(c, h.uc, h.cookieName); ok {
		return c.Redirect(dashboardPath, fiber.StatusFound)
	}
	return c.JSON(fiber.Map{"login": "POST /login con username y password"})
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Success      302   "formulario: redirige a /dashboard/"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "Usuario o contraseña incorrectos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    out.Token,
		Path:     "/",
		Expires:  out.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	if c.Is("json") {
		return c.JSON(out)
	}
	return c.Redirect(dashboardPath, fiber.StatusFound)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Success      302
// @Router       /logout [get]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.ClearCookie(h.cookieName)
	return c.Redirect("/login", fiber.StatusFound)
}
