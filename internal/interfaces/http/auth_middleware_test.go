package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/facilgest/estoque-api/internal/interfaces/http"
	pkgjwt "github.com/facilgest/estoque-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de teste
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testActorID    = "00000000-0000-0000-0000-000000000001"
	testCustomerID = "00000000-0000-0000-0000-000000000002"
	testIssuer     = "estoque-api-test"
	testExpMin     = 60
)

// buildTestApp constrói uma aplicação Fiber mínima: AuthMiddleware mais um
// handler que ecoa os locals carregados pelo middleware.
func buildTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"actor_id":    apphttp.GetActorID(c),
				"customer_id": apphttp.GetCustomerID(c),
			})
		},
	)
	return app
}

// validToken gera um JWT assinado com o secret de teste.
func validToken(t *testing.T, actorID, customerID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, actorID, customerID, testIssuer, testExpMin)
	require.NoError(t, err, "deve gerar um token JWT válido")
	return "Bearer " + tok
}

// doRequest dispara um GET /protected e devolve a resposta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// errorCode extrai o campo "code" do corpo de erro.
func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

// Token válido: passa e carrega actor_id e customer_id nos locals.
func TestAuthMiddleware_TokenValido(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, validToken(t, testActorID, testCustomerID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, testActorID, out["actor_id"])
	assert.Equal(t, testCustomerID, out["customer_id"])
}

// Sem header Authorization → 401 MISSING_TOKEN.
func TestAuthMiddleware_SemHeader(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp))
}

// Header sem o prefixo Bearer → 401 INVALID_TOKEN.
func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "Token abc123")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
}

// Token assinado com outro secret → 401 INVALID_TOKEN.
func TestAuthMiddleware_AssinaturaErrada(t *testing.T) {
	tok, err := pkgjwt.Generate("outro-secret", testActorID, testCustomerID, testIssuer, testExpMin)
	require.NoError(t, err)

	app := buildTestApp()
	resp := doRequest(t, app, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
}

// Token expirado → 401 INVALID_TOKEN.
func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testActorID, testCustomerID, testIssuer, -5)
	require.NoError(t, err)

	app := buildTestApp()
	resp := doRequest(t, app, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
}

// Token válido mas sem customer_id → 401 MISSING_CUSTOMER: nenhuma rota opera
// sem o recorte de cliente.
func TestAuthMiddleware_SemCustomerID(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, validToken(t, testActorID, ""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_CUSTOMER", errorCode(t, resp))
}
