package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"ifore/models"
)

var (
	catPod  = models.Category{ID: 1, Name: "Pod"}
	catCoil = models.Category{ID: 2, Name: "Coil"}
	catMod  = models.Category{ID: 3, Name: "Mod"}
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func money(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func item(id int64, qty int, total, profit string, cat models.Category) models.OrderItem {
	c := cat
	return models.OrderItem{
		ID:     id,
		ItemID: id * 10,
		Qty:    &qty,
		Total:  money(total),
		Profit: money(profit),
		Inventory: &models.InventoryItem{
			ID:         id * 10,
			Name:       "item",
			CategoryID: c.ID,
			Category:   &c,
		},
	}
}

func txAt(id int64, status string, at time.Time, total, profit string, items ...models.OrderItem) models.Transaction {
	return models.Transaction{
		ID:          id,
		Status:      status,
		Total:       money(total),
		TotalProfit: money(profit),
		CreatedAt:   at,
		OrderItems:  items,
	}
}

func sumY(points []models.Point) float64 {
	var sum float64
	for _, p := range points {
		sum += p.Y
	}
	return sum
}
