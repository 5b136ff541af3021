/*
Package forecast extends a daily series a few days into the future.

The Forecaster trains a random-forest regressor on sliding windows of the
series (Lookback consecutive values predict the next one), predicts a single
step ahead, appends the prediction to the series and repeats. Every step
retrains a fresh forest from the configured seed, so a forecast is a sequence
of single-step models rather than one multi-output model.

Basic usage:

	f := forecast.NewForecaster(forecast.DefaultOptions())
	points, err := f.Forecast(history, 3)

The history must be ordered oldest to newest and hold at least Lookback+1
points; shorter histories fail with ErrInsufficientHistory.

RandomForest can also be used on its own:

	rf := forecast.NewRandomForest(forecast.DefaultOptions())
	if err := rf.Fit(X, y); err != nil {
		return err
	}
	next, err := rf.Predict([]float64{10, 12, 11})
*/
package forecast
