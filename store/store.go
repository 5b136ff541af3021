// Package store reads transactions, categories and users for the analytics
// pipeline. Two backends exist: Postgres for the server and Memory for JSON
// snapshots used by the CLI and tests.
package store

import (
	"context"
	"errors"
	"time"

	"ifore/models"
)

// ErrNotFound is returned when a single record lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// TransactionFilter narrows ListTransactions. Zero values do not filter.
// From is inclusive and To is exclusive.
type TransactionFilter struct {
	Status string
	From   time.Time
	To     time.Time
}

// Match reports whether tx passes the filter.
func (f TransactionFilter) Match(tx models.Transaction) bool {
	if f.Status != "" && tx.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && tx.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !tx.CreatedAt.Before(f.To) {
		return false
	}
	return true
}

// TransactionStore is the read side the analytics and auth layers need.
type TransactionStore interface {
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	// GetUserByEmail returns the user and its bcrypt password hash.
	GetUserByEmail(ctx context.Context, email string) (*models.User, string, error)
	Ping(ctx context.Context) error
}
