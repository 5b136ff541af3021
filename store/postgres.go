package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ifore/models"
	"ifore/utils"
)

const transactionQuery = `
	SELECT th.id, th.status, th.subtotal, th.total_discount, th.total, th.total_profit,
	       th.note, th.created_at, th.updated_at,
	       pt.id, pt.name,
	       cu.id, cu.name, cu.phone_number, cu.email, cu.address, cu.note,
	       oi.id, oi.item_id, oi.qty, oi.discount, oi.total, oi.profit,
	       inv.id, inv.name, inv.category_id, inv.purchase_price, inv.selling_price, inv.qty_stock, inv.note,
	       cat.id, cat.name
	FROM transaction_histories th
	LEFT JOIN payment_types pt ON pt.id = th.payment_type_id
	LEFT JOIN customers cu ON cu.id = th.customer_id
	LEFT JOIN transaction_order_items toi ON toi.transaction_id = th.id
	LEFT JOIN order_items oi ON oi.id = toi.order_item_id
	LEFT JOIN inventories inv ON inv.id = oi.item_id
	LEFT JOIN categories cat ON cat.id = inv.category_id`

// Postgres reads the sales schema through database/sql.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("th.status = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where = append(where, fmt.Sprintf("th.created_at >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		where = append(where, fmt.Sprintf("th.created_at < $%d", len(args)))
	}

	query := transactionQuery
	if len(where) > 0 {
		query += "\n\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\tORDER BY th.created_at, th.id, oi.id"

	return p.queryTransactions(ctx, query, args...)
}

func (p *Postgres) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	query := transactionQuery + "\n\tWHERE th.id = $1\n\tORDER BY oi.id"
	txs, err := p.queryTransactions(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	return &txs[0], nil
}

func (p *Postgres) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	return categories, nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.User, string, error) {
	var (
		u    models.User
		hash string
	)
	err := p.db.QueryRowContext(ctx,
		`SELECT id, name, email, role, password_hash, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &hash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to query user: %w", err)
	}
	return &u, hash, nil
}

// joinedRow holds one row of transactionQuery. Every joined column is nullable.
type joinedRow struct {
	tx models.Transaction

	ptID   sql.NullInt64
	ptName sql.NullString

	cuID      sql.NullInt64
	cuName    sql.NullString
	cuPhone   sql.NullString
	cuEmail   sql.NullString
	cuAddress sql.NullString
	cuNote    sql.NullString

	oiID       sql.NullInt64
	oiItemID   sql.NullInt64
	oiQty      sql.NullInt64
	oiDiscount decimal.NullDecimal
	oiTotal    decimal.NullDecimal
	oiProfit   decimal.NullDecimal

	invID         sql.NullInt64
	invName       sql.NullString
	invCategoryID sql.NullInt64
	invPurchase   decimal.NullDecimal
	invSelling    decimal.NullDecimal
	invQtyStock   sql.NullInt64
	invNote       sql.NullString

	catID   sql.NullInt64
	catName sql.NullString

	txNote sql.NullString
}

func (r *joinedRow) dest() []any {
	return []any{
		&r.tx.ID, &r.tx.Status, &r.tx.Subtotal, &r.tx.TotalDiscount, &r.tx.Total, &r.tx.TotalProfit,
		&r.txNote, &r.tx.CreatedAt, &r.tx.UpdatedAt,
		&r.ptID, &r.ptName,
		&r.cuID, &r.cuName, &r.cuPhone, &r.cuEmail, &r.cuAddress, &r.cuNote,
		&r.oiID, &r.oiItemID, &r.oiQty, &r.oiDiscount, &r.oiTotal, &r.oiProfit,
		&r.invID, &r.invName, &r.invCategoryID, &r.invPurchase, &r.invSelling, &r.invQtyStock, &r.invNote,
		&r.catID, &r.catName,
	}
}

func (r *joinedRow) transaction() models.Transaction {
	tx := r.tx
	tx.Note = utils.NullStringToStringPtr(r.txNote)
	if r.ptID.Valid {
		tx.PaymentType = &models.PaymentType{ID: r.ptID.Int64, Name: r.ptName.String}
	}
	if r.cuID.Valid {
		tx.Customer = &models.Customer{
			ID:          r.cuID.Int64,
			Name:        r.cuName.String,
			PhoneNumber: utils.NullStringToStringPtr(r.cuPhone),
			Email:       utils.NullStringToStringPtr(r.cuEmail),
			Address:     utils.NullStringToStringPtr(r.cuAddress),
			Note:        utils.NullStringToStringPtr(r.cuNote),
		}
	}
	tx.OrderItems = make([]models.OrderItem, 0)
	return tx
}

func (r *joinedRow) orderItem() (models.OrderItem, bool) {
	if !r.oiID.Valid {
		return models.OrderItem{}, false
	}
	item := models.OrderItem{
		ID:       r.oiID.Int64,
		ItemID:   r.oiItemID.Int64,
		Qty:      utils.NullInt64ToIntPtr(r.oiQty),
		Discount: r.oiDiscount,
		Total:    r.oiTotal,
		Profit:   r.oiProfit,
	}
	if r.invID.Valid {
		item.Inventory = &models.InventoryItem{
			ID:            r.invID.Int64,
			Name:          r.invName.String,
			CategoryID:    r.invCategoryID.Int64,
			PurchasePrice: r.invPurchase,
			SellingPrice:  r.invSelling,
			QtyStock:      utils.NullInt64ToIntPtr(r.invQtyStock),
			Note:          utils.NullStringToStringPtr(r.invNote),
		}
		if r.catID.Valid {
			item.Inventory.Category = &models.Category{ID: r.catID.Int64, Name: r.catName.String}
		}
	}
	return item, true
}

// queryTransactions folds the joined rows back into nested transactions,
// keeping the order in which each transaction first appears.
func (p *Postgres) queryTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]models.Transaction, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var r joinedRow
		if err := rows.Scan(r.dest()...); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		i, ok := index[r.tx.ID]
		if !ok {
			i = len(txs)
			index[r.tx.ID] = i
			txs = append(txs, r.transaction())
		}
		if item, ok := r.orderItem(); ok {
			txs[i].OrderItems = append(txs[i].OrderItems, item)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return txs, nil
}
