package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusCompleted is the only transaction status that contributes to analytics.
const StatusCompleted = "completed"

// --- Core Models ---

// Category groups inventory items. Names are unique within the set.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PaymentType is the payment method recorded on a transaction.
type PaymentType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Customer is the optional buyer attached to a transaction.
type Customer struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Email       *string `json:"email,omitempty"`
	Address     *string `json:"address,omitempty"`
	Note        *string `json:"note,omitempty"`
}

// InventoryItem represents an item in the inventory, linked to its category.
type InventoryItem struct {
	ID            int64               `json:"id"`
	Name          string              `json:"name"`
	CategoryID    int64               `json:"category_id"`
	PurchasePrice decimal.NullDecimal `json:"purchase_price"`
	SellingPrice  decimal.NullDecimal `json:"selling_price"`
	QtyStock      *int                `json:"qty_stock,omitempty"`
	Note          *string             `json:"note,omitempty"`
	Category      *Category           `json:"category,omitempty"`
}

// OrderItem is a single line of a transaction.
type OrderItem struct {
	ID        int64               `json:"id"`
	ItemID    int64               `json:"item_id"`
	Qty       *int                `json:"qty"`
	Discount  decimal.NullDecimal `json:"discount"`
	Total     decimal.NullDecimal `json:"total"`
	Profit    decimal.NullDecimal `json:"profit"`
	Inventory *InventoryItem      `json:"inventory,omitempty"`
}

// CategoryName returns the name of the linked category, if the item carries the full link.
func (o OrderItem) CategoryName() (string, bool) {
	if o.Inventory == nil || o.Inventory.Category == nil {
		return "", false
	}
	return o.Inventory.Category.Name, true
}

// CategoryID returns the id of the linked category, if the item carries an inventory link.
func (o OrderItem) CategoryID() (int64, bool) {
	if o.Inventory == nil {
		return 0, false
	}
	if o.Inventory.Category != nil {
		return o.Inventory.Category.ID, true
	}
	return o.Inventory.CategoryID, true
}

// Transaction is a sale with its nested order items. It is read-only for analytics.
type Transaction struct {
	ID            int64               `json:"id"`
	Status        string              `json:"status"`
	Subtotal      decimal.NullDecimal `json:"subtotal"`
	TotalDiscount decimal.NullDecimal `json:"total_discount"`
	Total         decimal.NullDecimal `json:"total"`
	TotalProfit   decimal.NullDecimal `json:"total_profit"`
	Note          *string             `json:"note,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
	PaymentType   *PaymentType        `json:"payment_type,omitempty"`
	Customer      *Customer           `json:"customer,omitempty"`
	OrderItems    []OrderItem         `json:"order_items"`
}

// IsCompleted reports whether the transaction contributes to analytics totals.
func (t Transaction) IsCompleted() bool {
	return t.Status == StatusCompleted
}
