package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ifore/models"
	"ifore/store"
)

func money(v int64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromInt(v), Valid: true}
}

// writeSnapshot stores one completed Pod sale per day for the 20 days before
// today, in UTC.
func writeSnapshot(t *testing.T) (string, time.Time) {
	t.Helper()
	y, m, d := time.Now().UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	pod := &models.Category{ID: 1, Name: "Pod"}

	snap := store.Snapshot{Categories: []models.Category{*pod, {ID: 2, Name: "Coil"}}}
	for i := 1; i <= 20; i++ {
		qty := 2
		snap.Transactions = append(snap.Transactions, models.Transaction{
			ID:          int64(i),
			Status:      models.StatusCompleted,
			Total:       money(100),
			TotalProfit: money(20),
			CreatedAt:   today.AddDate(0, 0, -i).Add(12 * time.Hour),
			OrderItems: []models.OrderItem{{
				ID: int64(i), ItemID: 9, Qty: &qty, Total: money(100), Profit: money(20),
				Inventory: &models.InventoryItem{ID: 9, Name: "Xros", CategoryID: 1, Category: pod},
			}},
		})
	}
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path, today
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "error")
	var out bytes.Buffer
	err := New(Options{Output: &out, Log: io.Discard}).Execute(context.Background(), args...)
	return out.String(), err
}

func TestReportCard(t *testing.T) {
	path, today := writeSnapshot(t)
	from := today.AddDate(0, 0, -7).Format("2006-01-02")
	to := today.AddDate(0, 0, -1).Format("2006-01-02")

	out, err := run(t, "report", "card", "--snapshot", path, "--from", from, "--to", to)
	require.NoError(t, err)
	assert.Contains(t, out, "Card summary "+from+" to "+to)
	assert.Contains(t, out, "Transactions: 7 (before 7) 0%")
	assert.Contains(t, out, "Income:       700.00 (before 700.00) 0%")
	assert.Contains(t, out, "Best seller:  Pod")
}

func TestReportCategoriesJSON(t *testing.T) {
	path, today := writeSnapshot(t)
	from := today.AddDate(0, 0, -3).Format("2006-01-02")
	to := today.AddDate(0, 0, -1).Format("2006-01-02")

	out, err := run(t, "report", "categories", "--json", "--snapshot", path, "--from", from, "--to", to)
	require.NoError(t, err)

	var totals []models.CategoryQty
	require.NoError(t, json.Unmarshal([]byte(out), &totals))
	assert.Equal(t, []models.CategoryQty{{Name: "Pod", Qty: 6}, {Name: "Coil", Qty: 0}}, totals)
}

func TestReportForecast(t *testing.T) {
	path, today := writeSnapshot(t)
	t.Setenv("ANALYTICS_EPOCH", today.AddDate(0, 0, -20).Format("2006-01-02"))
	t.Setenv("FORECAST_CATEGORIES", "Pod")
	t.Setenv("FORECAST_ESTIMATORS", "10")

	out, err := run(t, "report", "forecast", "--json", "--snapshot", path)
	require.NoError(t, err)

	var bundle models.PredictionBundle
	require.NoError(t, json.Unmarshal([]byte(out), &bundle))
	require.Len(t, bundle.Series, 2)

	overall := bundle.Series[0]
	assert.Equal(t, "Overall", overall.Name)
	assert.Len(t, overall.Actual, 8)
	require.Len(t, overall.Forecasting, 3)
	for _, p := range overall.Forecasting {
		assert.InDelta(t, 100, p.Y, 1e-9)
	}
	assert.True(t, overall.Forecasting[0].X.Equal(today.AddDate(0, 0, -1)))

	pod := bundle.Series[1]
	assert.Equal(t, "Pod", pod.Name)
	for _, p := range pod.Forecasting {
		assert.InDelta(t, 2, p.Y, 1e-9)
	}
}

func TestReportCardErrors(t *testing.T) {
	path, _ := writeSnapshot(t)

	_, err := run(t, "report", "card", "--snapshot", path, "--from", "2024-01-02")
	assert.ErrorContains(t, err, `required flag(s) "to" not set`)

	_, err = run(t, "report", "card", "--snapshot", path, "--from", "02/01/2024", "--to", "2024-01-03")
	assert.ErrorContains(t, err, "invalid --from")

	_, err = run(t, "report", "card", "--snapshot", path, "--from", "2024-01-05", "--to", "2024-01-03")
	assert.ErrorContains(t, err, "endDate")

	_, err = run(t, "report", "card", "--snapshot", filepath.Join(t.TempDir(), "none.json"), "--from", "2024-01-01", "--to", "2024-01-03")
	assert.ErrorContains(t, err, "failed to read snapshot")
}

func TestServeRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := run(t, "serve")
	assert.ErrorContains(t, err, "JWT_SECRET is not set")

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "")
	_, err = run(t, "serve")
	assert.ErrorContains(t, err, "DATABASE_URL is not set")
}

func TestInvalidLogLevel(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "loud")
	err := New(Options{Output: io.Discard, Log: io.Discard}).Execute(context.Background(), "report", "forecast")
	assert.ErrorContains(t, err, "invalid log_level")
}

func TestReporterTextForecast(t *testing.T) {
	day := time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC)
	bundle := &models.PredictionBundle{
		GeneratedAt: time.Date(2024, 1, 20, 15, 0, 0, 0, time.UTC),
		Series: []models.PredictionSeries{{
			Name:        "Overall",
			Actual:      []models.Point{{X: day, Y: 120}},
			Forecasting: []models.Point{{X: day.AddDate(0, 0, 1), Y: 130.5}},
		}},
	}
	var out bytes.Buffer
	require.NoError(t, NewReporter(&out, false).Forecast(bundle))
	assert.Equal(t, "Forecast generated 2024-01-20 15:00\n\n=== Overall ===\n  2024-01-19      120.00\n* 2024-01-20      130.50\n", out.String())
}
