package models

import "time"

// Point is one day of a time series: an aggregated bucket or a forecast value.
type Point struct {
	X time.Time `json:"x"`
	Y float64   `json:"y"`
}

// CardSummary compares a date range against the immediately preceding range of equal length.
type CardSummary struct {
	TransactionTotal           int     `json:"transactionTotal"`
	TransactionTotalBefore     int     `json:"transactionTotalBefore"`
	TransactionTotalPercentage string  `json:"transactionTotalPercentage"`
	IncomeTotal                float64 `json:"incomeTotal"`
	IncomeTotalBefore          float64 `json:"incomeTotalBefore"`
	IncomeTotalPercentage      string  `json:"incomeTotalPercentage"`
	ProfitTotal                float64 `json:"profitTotal"`
	ProfitTotalBefore          float64 `json:"profitTotalBefore"`
	ProfitTotalPercentage      string  `json:"profitTotalPercentage"`
	BestSellerCategory         string  `json:"bestSellerCategory"`
}

// IncomeProfitSeries holds the daily income and profit series, newest day first.
type IncomeProfitSeries struct {
	DataIncome []Point `json:"dataIncome"`
	DataProfit []Point `json:"dataProfit"`
}

// CategoryQty is the quantity sold for one category within a date range.
type CategoryQty struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// PredictionSeries pairs the most recent actual values with the forecast that follows them.
type PredictionSeries struct {
	Name        string  `json:"name"`
	Actual      []Point `json:"actual"`
	Forecasting []Point `json:"forecasting"`
}

// PredictionBundle is the forecast for overall income and every configured category.
type PredictionBundle struct {
	GeneratedAt time.Time          `json:"generatedAt"`
	Series      []PredictionSeries `json:"series"`
}
