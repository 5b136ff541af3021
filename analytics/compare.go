package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ifore/models"
)

// Window is an inclusive range of calendar days.
type Window struct {
	Start time.Time
	End   time.Time
}

// Days is the inclusive length of the window.
func (c Calendar) Days(w Window) int {
	return c.DaysBetween(w.Start, w.End) + 1
}

// Window validates [start, end] and truncates both ends to their days.
func (c Calendar) Window(start, end time.Time) (Window, error) {
	if start.IsZero() {
		return Window{}, &InputError{Field: "startDate", Message: "is required"}
	}
	if end.IsZero() {
		return Window{}, &InputError{Field: "endDate", Message: "is required"}
	}
	w := Window{Start: c.Day(start), End: c.Day(end)}
	if w.End.Before(w.Start) {
		return Window{}, &InputError{Field: "endDate", Message: "must not be before startDate"}
	}
	return w, nil
}

// Prior returns the window of equal length that ends the day before w starts.
func (c Calendar) Prior(w Window) Window {
	n := c.Days(w)
	return Window{Start: w.Start.AddDate(0, 0, -n), End: w.End.AddDate(0, 0, -n)}
}

// Percentage formats the change from prior to current as a signed whole
// percentage, rounded half away from zero: "+100%", "-50%", "0%". It returns
// "" when there is no baseline, that is when prior is zero.
func Percentage(current, prior decimal.Decimal) string {
	if prior.IsZero() {
		return ""
	}
	pct := current.Sub(prior).Div(prior).Mul(decimal.NewFromInt(100)).Round(0)
	switch pct.Sign() {
	case 0:
		return "0%"
	case 1:
		return "+" + pct.String() + "%"
	default:
		return pct.String() + "%"
	}
}

type periodTotals struct {
	count  int
	income decimal.Decimal
	profit decimal.Decimal
}

func totals(txs []models.Transaction) (periodTotals, error) {
	income, err := SumTransactions(txs, FieldTotal)
	if err != nil {
		return periodTotals{}, err
	}
	profit, err := SumTransactions(txs, FieldTotalProfit)
	if err != nil {
		return periodTotals{}, err
	}
	return periodTotals{count: len(txs), income: income, profit: profit}, nil
}

// quantities sums sold qty per category id.
func quantities(txs []models.Transaction) (map[int64]int, error) {
	qty := make(map[int64]int)
	for _, tx := range txs {
		for _, item := range tx.OrderItems {
			id, ok := item.CategoryID()
			if !ok {
				return nil, fmt.Errorf("order item %d of transaction %d has no inventory", item.ID, tx.ID)
			}
			if item.Qty == nil {
				return nil, fmt.Errorf("order item %d has NULL qty", item.ID)
			}
			qty[id] += *item.Qty
		}
	}
	return qty, nil
}

// BestSeller returns the category with the highest qty; the first one wins ties.
func BestSeller(categories []models.Category, qty map[int64]int) (string, error) {
	if len(categories) == 0 {
		return "", ErrNoCategories
	}
	best := categories[0]
	for _, cat := range categories[1:] {
		if qty[cat.ID] > qty[best.ID] {
			best = cat
		}
	}
	return best.Name, nil
}

// Compare summarizes the completed transactions of [start, end] against the
// window of equal length immediately before it.
func Compare(c Calendar, txs []models.Transaction, categories []models.Category, start, end time.Time) (*models.CardSummary, error) {
	current, err := c.Window(start, end)
	if err != nil {
		return nil, err
	}
	prior := c.Prior(current)

	currentTxs := c.Completed(txs, current.Start, current.End)
	now, err := totals(currentTxs)
	if err != nil {
		return nil, computation("compare current period", err)
	}
	before, err := totals(c.Completed(txs, prior.Start, prior.End))
	if err != nil {
		return nil, computation("compare prior period", err)
	}

	qty, err := quantities(currentTxs)
	if err != nil {
		return nil, computation("best seller", err)
	}
	best, err := BestSeller(categories, qty)
	if err != nil {
		return nil, err
	}

	return &models.CardSummary{
		TransactionTotal:           now.count,
		TransactionTotalBefore:     before.count,
		TransactionTotalPercentage: Percentage(decimal.NewFromInt(int64(now.count)), decimal.NewFromInt(int64(before.count))),
		IncomeTotal:                now.income.InexactFloat64(),
		IncomeTotalBefore:          before.income.InexactFloat64(),
		IncomeTotalPercentage:      Percentage(now.income, before.income),
		ProfitTotal:                now.profit.InexactFloat64(),
		ProfitTotalBefore:          before.profit.InexactFloat64(),
		ProfitTotalPercentage:      Percentage(now.profit, before.profit),
		BestSellerCategory:         best,
	}, nil
}

// CategoryTotals returns the qty sold per category in [start, end], in the
// order of categories. The categories themselves are not modified.
func CategoryTotals(c Calendar, txs []models.Transaction, categories []models.Category, start, end time.Time) ([]models.CategoryQty, error) {
	w, err := c.Window(start, end)
	if err != nil {
		return nil, err
	}
	qty, err := quantities(c.Completed(txs, w.Start, w.End))
	if err != nil {
		return nil, computation("category totals", err)
	}
	out := make([]models.CategoryQty, len(categories))
	for i, cat := range categories {
		out[i] = models.CategoryQty{Name: cat.Name, Qty: qty[cat.ID]}
	}
	return out, nil
}
