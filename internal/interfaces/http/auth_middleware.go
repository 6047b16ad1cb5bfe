package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-dashboard/internal/application/dto"
)

// LocalUsername key de c.Locals con el usuario autenticado.
const LocalUsername = "username"

// SessionAuthenticator valida un token de sesión y devuelve el username.
type SessionAuthenticator interface {
	Authenticate(token string) (string, error)
}

// AuthMiddleware exige una sesión válida para los endpoints JSON.
// El token se lee de la cookie de sesión y, si no está, del header "Authorization: Bearer".
func AuthMiddleware(authn SessionAuthenticator, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c, cookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_SESSION", Message: "sesión requerida"})
		}
		username, err := authn.Authenticate(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SESSION", Message: "sesión inválida o expirada"})
		}
		c.Locals(LocalUsername, username)
		return c.Next()
	}
}

// PageAuthMiddleware igual que AuthMiddleware pero redirige a /login en lugar de responder 401.
func PageAuthMiddleware(authn SessionAuthenticator, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, ok := currentUser(c, authn, cookieName)
		if !ok {
			return c.Redirect("/login", fiber.StatusFound)
		}
		c.Locals(LocalUsername, username)
		return c.Next()
	}
}

// GetUsername devuelve el usuario del contexto (después del middleware de auth).
func GetUsername(c *fiber.Ctx) string {
	v := c.Locals(LocalUsername)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func currentUser(c *fiber.Ctx, authn SessionAuthenticator, cookieName string) (string, bool) {
	token := sessionToken(c, cookieName)
	if token == "" {
		return "", false
	}
	username, err := authn.Authenticate(token)
	if err != nil {
		return "", false
	}
	return username, true
}

func sessionToken(c *fiber.Ctx, cookieName string) string {
	if v := strings.TrimSpace(c.Cookies(cookieName)); v != "" {
		return v
	}
	parts := strings.SplitN(c.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
