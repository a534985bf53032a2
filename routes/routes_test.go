package routes

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bakery/dataset"
	"bakery/forecast"
	"bakery/handlers"
	"bakery/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedGenerator string

func (g fixedGenerator) Generate(context.Context, string) (string, error) {
	return string(g), nil
}

func newApp(opts Options) *fiber.App {
	history := dataset.NewHistoryStore(nil)
	gen := fixedGenerator(`{"prediction": 9, "reasoning": "steady"}`)
	h := handlers.New(history, forecast.NewCatalogStore(nil), forecast.NewService(history, gen, 10, 0), nil, "")
	app := fiber.New()
	SetupRoutes(app, h, opts)
	return app
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	app := newApp(Options{JWTSecret: "secret"})

	for _, path := range []string{"/predict", "/api/v1/predict"} {
		req := httptest.NewRequest("POST", path, strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode, path)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/seasonality/Bread", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestProtectedRoutesAcceptToken(t *testing.T) {
	app := newApp(Options{JWTSecret: "secret"})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, models.JwtClaims{
		UserID: "baker-1",
		Role:   "staff",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/predict", strings.NewReader(`{"product":"Bread","target_date":"2024-02-19"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestServiceRoutesArePublic(t *testing.T) {
	app := newApp(Options{JWTSecret: "secret"})

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestOpenRoutesWithoutSecret(t *testing.T) {
	app := newApp(Options{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/seasonality/Bread", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/db", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
