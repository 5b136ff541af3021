package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"ifore/models"
)

// Field names a numeric transaction-level column.
type Field string

const (
	FieldTotal         Field = "total"
	FieldTotalProfit   Field = "total_profit"
	FieldSubtotal      Field = "subtotal"
	FieldTotalDiscount Field = "total_discount"
)

// ItemField names a numeric order-item column.
type ItemField string

const (
	FieldQty        ItemField = "qty"
	FieldItemTotal  ItemField = "total"
	FieldItemProfit ItemField = "profit"
	FieldDiscount   ItemField = "discount"
)

func nullValue(v decimal.NullDecimal, field string, owner string, id int64) (decimal.Decimal, error) {
	if !v.Valid {
		return decimal.Zero, fmt.Errorf("%s %d has NULL %s", owner, id, field)
	}
	return v.Decimal, nil
}

// TransactionValue reads field from tx.
func TransactionValue(tx models.Transaction, field Field) (decimal.Decimal, error) {
	switch field {
	case FieldTotal:
		return nullValue(tx.Total, string(field), "transaction", tx.ID)
	case FieldTotalProfit:
		return nullValue(tx.TotalProfit, string(field), "transaction", tx.ID)
	case FieldSubtotal:
		return nullValue(tx.Subtotal, string(field), "transaction", tx.ID)
	case FieldTotalDiscount:
		return nullValue(tx.TotalDiscount, string(field), "transaction", tx.ID)
	default:
		return decimal.Zero, fmt.Errorf("unknown transaction field %q", field)
	}
}

// ItemValue reads field from item.
func ItemValue(item models.OrderItem, field ItemField) (decimal.Decimal, error) {
	switch field {
	case FieldQty:
		if item.Qty == nil {
			return decimal.Zero, fmt.Errorf("order item %d has NULL qty", item.ID)
		}
		return decimal.NewFromInt(int64(*item.Qty)), nil
	case FieldItemTotal:
		return nullValue(item.Total, string(field), "order item", item.ID)
	case FieldItemProfit:
		return nullValue(item.Profit, string(field), "order item", item.ID)
	case FieldDiscount:
		return nullValue(item.Discount, string(field), "order item", item.ID)
	default:
		return decimal.Zero, fmt.Errorf("unknown order item field %q", field)
	}
}

// CategorySet is a set of category names.
type CategorySet map[string]struct{}

// NewCategorySet trims names and drops blanks and duplicates.
func NewCategorySet(names ...string) CategorySet {
	set := make(CategorySet, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func (s CategorySet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the members sorted.
func (s CategorySet) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// SumTransactions sums field over txs.
func SumTransactions(txs []models.Transaction, field Field) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range txs {
		v, err := TransactionValue(tx, field)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(v)
	}
	return sum, nil
}

// SumItems sums field over the order items of txs whose category name is in set.
// An empty set matches nothing and inspects no items.
func SumItems(txs []models.Transaction, field ItemField, set CategorySet) (decimal.Decimal, error) {
	sum := decimal.Zero
	if len(set) == 0 {
		return sum, nil
	}
	for _, tx := range txs {
		for _, item := range tx.OrderItems {
			name, ok := item.CategoryName()
			if !ok {
				return decimal.Zero, fmt.Errorf("order item %d of transaction %d has no category", item.ID, tx.ID)
			}
			if !set.Has(name) {
				continue
			}
			v, err := ItemValue(item, field)
			if err != nil {
				return decimal.Zero, err
			}
			sum = sum.Add(v)
		}
	}
	return sum, nil
}

// Series sums field per bucket, keeping bucket order.
func Series(buckets []Bucket, field Field) ([]models.Point, error) {
	points := make([]models.Point, len(buckets))
	for i, b := range buckets {
		sum, err := SumTransactions(b.Transactions, field)
		if err != nil {
			return nil, computation("aggregate "+string(field), err)
		}
		points[i] = models.Point{X: b.Day, Y: sum.InexactFloat64()}
	}
	return points, nil
}

// CategorySeries sums the item field per bucket for items in set, keeping bucket order.
func CategorySeries(buckets []Bucket, field ItemField, set CategorySet) ([]models.Point, error) {
	points := make([]models.Point, len(buckets))
	for i, b := range buckets {
		sum, err := SumItems(b.Transactions, field, set)
		if err != nil {
			return nil, computation("aggregate item "+string(field), err)
		}
		points[i] = models.Point{X: b.Day, Y: sum.InexactFloat64()}
	}
	return points, nil
}
