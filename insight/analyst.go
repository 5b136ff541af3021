package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ifore/models"
)

// Analyst explains prediction bundles through a Generator.
type Analyst struct {
	gen Generator
	now func() time.Time
}

func NewAnalyst(gen Generator) *Analyst {
	return &Analyst{gen: gen, now: time.Now}
}

// Explain asks the model to read bundle and returns its structured answer.
func (a *Analyst) Explain(ctx context.Context, bundle *models.PredictionBundle) (*models.PredictionInsight, error) {
	now := a.now()
	text, err := a.gen.Generate(ctx, BuildPrompt(bundle, now))
	if err != nil {
		return nil, err
	}

	jsonStr := extractJSON(text)
	if jsonStr == "" {
		zerolog.Ctx(ctx).Warn().Str("response", text).Msg("could not extract JSON from Gemini response")
		return nil, fmt.Errorf("failed to parse AI response format")
	}

	var parsed struct {
		Summary         string   `json:"summary"`
		PositiveFactors []string `json:"positive_factors"`
		NegativeFactors []string `json:"negative_factors"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("json", jsonStr).Msg("invalid Gemini JSON")
		return nil, fmt.Errorf("failed to parse AI insight data")
	}

	return &models.PredictionInsight{
		GeneratedAt:     now,
		Summary:         parsed.Summary,
		PositiveFactors: nonNil(parsed.PositiveFactors),
		NegativeFactors: nonNil(parsed.NegativeFactors),
		Recommendations: nonNil(parsed.Recommendations),
	}, nil
}

const insightFormat = `{"summary":"string","positive_factors":["string",...],"negative_factors":["string",...],"recommendations":["string",...]}`

// BuildPrompt describes every series of bundle as dated values.
func BuildPrompt(bundle *models.PredictionBundle, today time.Time) string {
	var b strings.Builder
	for _, s := range bundle.Series {
		fmt.Fprintf(&b, "Series %q\n", s.Name)
		b.WriteString("  Recent actual values:\n")
		writePoints(&b, s.Actual)
		b.WriteString("  Forecast values:\n")
		writePoints(&b, s.Forecasting)
	}
	data := b.String()
	if data == "" {
		data = "No series available.\n"
	}

	return fmt.Sprintf(`
        You are an expert retail data analyst for a vape shop. The first series is overall daily income, the other series are daily units sold per product category.

        **Analysis Context:**
        - Today's Date: %s

        **Daily Data:**
%s
        **Required Output:**
        You must provide a single, minified JSON object with the following exact structure. Do not include any markdown formatting, backticks, or explanatory text before or after the JSON object.

        %s
    `, today.Format("2006-01-02"), data, insightFormat)
}

func writePoints(b *strings.Builder, points []models.Point) {
	if len(points) == 0 {
		b.WriteString("    none\n")
		return
	}
	for _, p := range points {
		fmt.Fprintf(b, "    %s: %.2f\n", p.X.Format("2006-01-02"), p.Y)
	}
}

// extractJSON cuts the outermost JSON object out of model text.
func extractJSON(rawString string) string {
	start := strings.Index(rawString, "{")
	end := strings.LastIndex(rawString, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return rawString[start : end+1]
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
