package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/ventas-dashboard/internal/application/analytics"
	"github.com/jhoicas/ventas-dashboard/internal/application/auth"
	"github.com/jhoicas/ventas-dashboard/internal/application/dto"
	"github.com/jhoicas/ventas-dashboard/internal/domain/entity"
	"github.com/jhoicas/ventas-dashboard/internal/domain/sales"
	apphttp "github.com/jhoicas/ventas-dashboard/internal/interfaces/http"
	"github.com/jhoicas/ventas-dashboard/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "ventas-dashboard-test"
	testCookie = "ventas_session"
	testUser   = "ana"
	testPass   = "secreta"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[username], nil
}

func (r *memUserRepo) CreateIfNotExists(_ context.Context, u *entity.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Username]; ok {
		return false, nil
	}
	r.users[u.Username] = u
	return true, nil
}

func newAuthUC(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	uc := auth.NewAuthUseCase(&memUserRepo{users: map[string]*entity.User{}},
		auth.SessionConfig{Secret: testSecret, ExpMinutes: 60, Issuer: testIssuer})
	_, err := uc.RegisterUser(context.Background(), dto.CreateUserRequest{Username: testUser, Password: testPass})
	require.NoError(t, err)
	return uc
}

func venta(date, id, name, qty, price string) entity.SalesRecord {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return entity.SalesRecord{
		SaleDate:      d,
		ProductID:     id,
		ProductName:   name,
		Subcategory:   "Tintos",
		UnitOfMeasure: entity.UnitOfMeasureUnit,
		QuantitySold:  decimal.RequireFromString(qty),
		UnitPrice:     decimal.RequireFromString(price),
		StockUnits:    decimal.NewNullDecimal(decimal.NewFromInt(10)),
	}
}

type fakePDF struct{}

func (fakePDF) GenerateDetailsPDF(context.Context, *dto.ProductDetailsDTO) ([]byte, error) {
	return []byte("%PDF-1.3 fake"), nil
}

// buildTestApp arma la app completa con el router; records nil simula la base sin datos.
func buildTestApp(t *testing.T, records []entity.SalesRecord) (*fiber.App, *auth.AuthUseCase) {
	t.Helper()
	authUC := newAuthUC(t)
	var snap *sales.Snapshot
	if records != nil {
		snap = sales.NewSnapshot(records)
	}
	dashUC := appanalytics.NewDashboardUseCase(snap, fakePDF{}, logger.Nop())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{AuthUC: authUC, DashboardUC: dashUC, CookieName: testCookie})
	return app, authUC
}

func sessionCookie(t *testing.T, uc *auth.AuthUseCase) *http.Cookie {
	t.Helper()
	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: testUser, Password: testPass})
	require.NoError(t, err)
	return &http.Cookie{Name: testCookie, Value: out.Token}
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out), "body: %s", body)
}

// ──────────────────────────────────────────────────────────────────────────────
// Middleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinSesion_401(t *testing.T) {
	app, _ := buildTestApp(t, nil)

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/dashboard/periods", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body dto.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "MISSING_SESSION", body.Code)
}

func TestAuthMiddleware_TokenInvalido_401(t *testing.T) {
	app, _ := buildTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/periods", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "no-es-un-jwt"})
	resp := doRequest(t, app, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body dto.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "INVALID_SESSION", body.Code)
}

func TestAuthMiddleware_CookieValida_200(t *testing.T) {
	app, uc := buildTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/periods", nil)
	req.AddCookie(sessionCookie(t, uc))
	resp := doRequest(t, app, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_BearerValido_200(t *testing.T) {
	app, uc := buildTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/periods", nil)
	req.Header.Set("Authorization", "Bearer "+sessionCookie(t, uc).Value)
	resp := doRequest(t, app, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPageAuthMiddleware_SinSesionRedirigeALogin(t *testing.T) {
	app, _ := buildTestApp(t, nil)

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/dashboard/", nil))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestPageAuthMiddleware_ConSesionMuestraUsuario(t *testing.T) {
	app, uc := buildTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/", nil)
	req.AddCookie(sessionCookie(t, uc))
	resp := doRequest(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, testUser, body["username"])
	assert.Equal(t, false, body["data"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / logout / raíz
// ──────────────────────────────────────────────────────────────────────────────

func TestRoot_RedirigeSegunSesion(t *testing.T) {
	app, uc := buildTestApp(t, nil)

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, uc))
	resp = doRequest(t, app, req)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard/", resp.Header.Get("Location"))
}

func TestLogin_FormularioCreaCookieYRedirige(t *testing.T) {
	app, _ := buildTestApp(t, nil)

	form := url.Values{"username": {testUser}, "password": {testPass}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := doRequest(t, app, req)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard/", resp.Header.Get("Location"))

	var session *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == testCookie {
			session = ck
		}
	}
	require.NotNil(t, session, "debe emitir la cookie de sesión")
	assert.NotEmpty(t, session.Value)
	assert.True(t, session.HttpOnly)
}

func TestLogin_JSONDevuelveToken(t *testing.T) {
	app, uc := buildTestApp(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"ana","password":"secreta"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := doRequest(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.LoginResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, testUser, body.Username)
	username, err := uc.Authenticate(body.Token)
	require.NoError(t, err)
	assert.Equal(t, testUser, username)
}

func TestLogin_CredencialesIncorrectas_401(t *testing.T) {
	app, _ := buildTestApp(t, nil)

	for _, body := range []string{
		`{"username":"ana","password":"otra"}`,
		`{"username":"nadie","password":"secreta"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp := doRequest(t, app, req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var out dto.ErrorResponse
		decodeBody(t, resp, &out)
		assert.Equal(t, "Usuario o contraseña incorrectos", out.Message, "el mensaje no distingue usuario de contraseña")
	}
}

func TestLogin_CamposVacios_400(t *testing.T) {
	app, _ := buildTestApp(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"ana"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := doRequest(t, app, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogout_BorraCookieYRedirige(t *testing.T) {
	app, uc := buildTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(sessionCookie(t, uc))
	resp := doRequest(t, app, req)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	for _, ck := range resp.Cookies() {
		if ck.Name == testCookie {
			assert.Empty(t, ck.Value)
		}
	}
}
