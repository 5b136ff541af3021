package models

import "time"

// PredictionInsight contains the qualitative reading of a prediction bundle from the Gemini model.
type PredictionInsight struct {
	GeneratedAt     time.Time `json:"generatedAt"`
	Summary         string    `json:"summary"`
	PositiveFactors []string  `json:"positive_factors"`
	NegativeFactors []string  `json:"negative_factors"`
	Recommendations []string  `json:"recommendations"`
}
