package routes

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ifore/analytics"
	"ifore/config"
	"ifore/forecast"
	"ifore/handlers"
	"ifore/models"
	"ifore/store"
)

func testApp(t *testing.T) (*httptestApp, string) {
	t.Helper()
	config.AppConfig.JWTSecret = "routes-secret"

	now := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	qty := 2
	cat := models.Category{ID: 1, Name: "Pod"}
	snapshot := store.Snapshot{Categories: []models.Category{cat}}
	for d := 0; d < 10; d++ {
		snapshot.Transactions = append(snapshot.Transactions, models.Transaction{
			ID:          int64(d + 1),
			Status:      models.StatusCompleted,
			Total:       money(int64(100 + d)),
			TotalProfit: money(10),
			CreatedAt:   now.AddDate(0, 0, -d),
			OrderItems: []models.OrderItem{{
				ID: int64(d + 1), Qty: &qty, Total: money(50), Profit: money(5),
				Inventory: &models.InventoryItem{ID: 1, CategoryID: 1, Category: &cat},
			}},
		})
	}
	st := store.NewMemory(snapshot)
	svc := analytics.NewService(st, analytics.Config{
		Epoch:              now.AddDate(0, 0, -9),
		Location:           time.UTC,
		ForecastCategories: []string{"Pod"},
		Horizon:            3,
		Forest:             forecast.DefaultOptions(),
	}, analytics.WithClock(analytics.FixedClock(now)))

	logger := zerolog.Nop()
	app := NewApp(handlers.New(svc, st, nil, time.UTC), &logger, []string{"http://localhost:3000"})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, models.JwtClaims{
		UserID: 1,
		Role:   "owner",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("routes-secret"))
	require.NoError(t, err)
	return &httptestApp{app: app}, token
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, token := testApp(t)

	for _, path := range []string{
		"/api/v1/dashboard/card?startDate=2024-01-15&endDate=2024-01-20",
		"/api/v1/dashboard/income-profit",
		"/api/v1/dashboard/category?startDate=2024-01-15&endDate=2024-01-20",
		"/api/v1/prediction",
		"/api/v1/transactions",
		"/api/v1/transactions/1",
	} {
		assert.Equal(t, 401, app.status(t, path, ""), path)
		assert.Equal(t, 200, app.status(t, path, token), path)
	}
}

func TestInsightUnavailableWithoutExplainer(t *testing.T) {
	app, token := testApp(t)
	assert.Equal(t, 503, app.status(t, "/api/v1/prediction/insight", token))
}

func TestHealthAndCORS(t *testing.T) {
	app, _ := testApp(t)
	assert.Equal(t, 200, app.status(t, "/healthz", ""))

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := app.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp, err = app.app.Test(req)
	require.NoError(t, err)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
