package forecast

import (
	"errors"
	"fmt"
	"math"

	"ifore/models"
)

// DefaultLookback is the number of consecutive days used to predict the next one.
const DefaultLookback = 3

var (
	ErrInsufficientHistory = errors.New("insufficient history for forecasting")
	ErrInvalidHorizon      = errors.New("forecast horizon must be positive")
)

// Regressor is a single-output model trained on fixed-width rows.
type Regressor interface {
	Fit(X [][]float64, y []float64) error
	Predict(x []float64) (float64, error)
}

// Forecaster extends a series one day at a time, retraining on the grown
// series before every step.
type Forecaster struct {
	Lookback     int
	NewRegressor func() Regressor
}

// NewForecaster returns a Forecaster backed by random forests built from opts.
func NewForecaster(opts Options) *Forecaster {
	return &Forecaster{
		Lookback: DefaultLookback,
		NewRegressor: func() Regressor {
			return NewRandomForest(opts)
		},
	}
}

// Windows builds the supervised training set for a series: row i holds
// values[i:i+lookback] and its target is values[i+lookback].
func Windows(values []float64, lookback int) ([][]float64, []float64) {
	n := len(values) - lookback
	if lookback <= 0 || n <= 0 {
		return nil, nil
	}
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, lookback)
		copy(row, values[i:i+lookback])
		X[i] = row
		y[i] = values[i+lookback]
	}
	return X, y
}

// Forecast predicts horizon points after history, which must be ordered
// oldest to newest. The first point is dated one day after the last history
// point and each following point one day after the previous one.
func (f *Forecaster) Forecast(history []models.Point, horizon int) ([]models.Point, error) {
	if horizon < 1 {
		return nil, ErrInvalidHorizon
	}
	lookback := f.Lookback
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	if len(history) < lookback+1 {
		return nil, fmt.Errorf("%w: need at least %d points, got %d", ErrInsufficientHistory, lookback+1, len(history))
	}

	series := make([]float64, len(history), len(history)+horizon)
	for i, p := range history {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return nil, fmt.Errorf("history point %s is not finite", p.X.Format("2006-01-02"))
		}
		series[i] = p.Y
	}

	last := history[len(history)-1].X
	out := make([]models.Point, 0, horizon)

	for step := 0; step < horizon; step++ {
		X, y := Windows(series, lookback)

		model := f.NewRegressor()
		if err := model.Fit(X, y); err != nil {
			return nil, fmt.Errorf("fit step %d: %w", step+1, err)
		}

		next, err := model.Predict(series[len(series)-lookback:])
		if err != nil {
			return nil, fmt.Errorf("predict step %d: %w", step+1, err)
		}

		series = append(series, next)
		last = last.AddDate(0, 0, 1)
		out = append(out, models.Point{X: last, Y: next})
	}

	return out, nil
}
