package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/template"
	"time"

	"ifore/models"
)

// Reporter prints analytics results to the terminal, as text or JSON.
type Reporter struct {
	writer io.Writer
	json   bool
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer, asJSON bool) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer, json: asJSON}
}

const cardTemplate = `Card summary {{day .Start}} to {{day .End}}
Transactions: {{.Summary.TransactionTotal}} (before {{.Summary.TransactionTotalBefore}}){{change .Summary.TransactionTotalPercentage}}
Income:       {{printf "%.2f" .Summary.IncomeTotal}} (before {{printf "%.2f" .Summary.IncomeTotalBefore}}){{change .Summary.IncomeTotalPercentage}}
Profit:       {{printf "%.2f" .Summary.ProfitTotal}} (before {{printf "%.2f" .Summary.ProfitTotalBefore}}){{change .Summary.ProfitTotalPercentage}}
Best seller:  {{.Summary.BestSellerCategory}}
`

const categoryTemplate = `Units sold {{day .Start}} to {{day .End}}
{{range .Totals}}- {{.Name}}: {{.Qty}}
{{end}}`

const forecastTemplate = `Forecast generated {{.GeneratedAt.Format "2006-01-02 15:04"}}
{{range .Series}}
=== {{.Name}} ===
{{range .Actual}}  {{day .X}}  {{printf "%10.2f" .Y}}
{{end}}{{range .Forecasting}}* {{day .X}}  {{printf "%10.2f" .Y}}
{{end}}{{end}}`

var funcs = template.FuncMap{
	"day": func(t time.Time) string { return t.Format("2006-01-02") },
	"change": func(pct string) string {
		if pct == "" {
			return ""
		}
		return " " + pct
	},
}

func (r *Reporter) render(name, tmpl string, data any) error {
	t, err := template.New(name).Funcs(funcs).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(r.writer, data)
}

func (r *Reporter) encode(v any) error {
	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Card prints a card summary for [start, end].
func (r *Reporter) Card(start, end time.Time, summary *models.CardSummary) error {
	if r.json {
		return r.encode(summary)
	}
	return r.render("card", cardTemplate, struct {
		Start, End time.Time
		Summary    *models.CardSummary
	}{start, end, summary})
}

// Categories prints the units sold per category for [start, end].
func (r *Reporter) Categories(start, end time.Time, totals []models.CategoryQty) error {
	if r.json {
		return r.encode(totals)
	}
	return r.render("categories", categoryTemplate, struct {
		Start, End time.Time
		Totals     []models.CategoryQty
	}{start, end, totals})
}

// Forecast prints the recent actual values and the forecast of every series.
// Forecast rows are marked with an asterisk.
func (r *Reporter) Forecast(bundle *models.PredictionBundle) error {
	if r.json {
		return r.encode(bundle)
	}
	return r.render("forecast", forecastTemplate, bundle)
}
