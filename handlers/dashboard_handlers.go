package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"ifore/analytics"
	"ifore/utils"
)

// dateRange reads the startDate and endDate query parameters.
func (h *Handler) dateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	var dates [2]time.Time
	for i, key := range []string{"startDate", "endDate"} {
		value := c.Query(key)
		if value == "" {
			return time.Time{}, time.Time{}, &analytics.InputError{Field: key, Message: "is required"}
		}
		t, err := utils.ParseDate(value, h.loc)
		if err != nil {
			return time.Time{}, time.Time{}, &analytics.InputError{Field: key, Message: "invalid date format, expected YYYY-MM-DD or RFC3339"}
		}
		dates[i] = t
	}
	return dates[0], dates[1], nil
}

// HandleGetCardSummary compares a date range with the range before it.
// GET /api/v1/dashboard/card?startDate=&endDate=
func (h *Handler) HandleGetCardSummary(c *fiber.Ctx) error {
	start, end, err := h.dateRange(c)
	if err != nil {
		return respondError(c, err)
	}
	summary, err := h.analytics.CardSummary(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, "Get card data", summary)
}

// HandleGetIncomeProfit returns the daily income and profit series.
// GET /api/v1/dashboard/income-profit?categories=Pod,Coil
func (h *Handler) HandleGetIncomeProfit(c *fiber.Ctx) error {
	series, err := h.analytics.IncomeProfitSeries(c.UserContext(), utils.SplitList(c.Query("categories")))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, "Get income and profit data", series)
}

// HandleGetCategoryTotals returns the units sold per category in a date range.
// GET /api/v1/dashboard/category?startDate=&endDate=
func (h *Handler) HandleGetCategoryTotals(c *fiber.Ctx) error {
	start, end, err := h.dateRange(c)
	if err != nil {
		return respondError(c, err)
	}
	totals, err := h.analytics.CategorySeries(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, "Get category data", totals)
}
