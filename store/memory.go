package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"ifore/models"
)

// SnapshotUser is a user entry of a snapshot file.
type SnapshotUser struct {
	models.User
	PasswordHash string `json:"password_hash"`
}

// Snapshot is the JSON layout read by LoadSnapshot.
type Snapshot struct {
	Categories   []models.Category    `json:"categories"`
	Transactions []models.Transaction `json:"transactions"`
	Users        []SnapshotUser       `json:"users,omitempty"`
}

// Memory serves a fixed snapshot. It is safe for concurrent readers.
type Memory struct {
	snapshot Snapshot
}

func NewMemory(s Snapshot) *Memory {
	txs := append([]models.Transaction(nil), s.Transactions...)
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.Before(txs[j].CreatedAt)
	})
	s.Transactions = txs
	return &Memory{snapshot: s}
}

// LoadSnapshot reads a snapshot file written as JSON.
func LoadSnapshot(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return NewMemory(s), nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.Transaction, 0, len(m.snapshot.Transactions))
	for _, tx := range m.snapshot.Transactions {
		if filter.Match(tx) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *Memory) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, tx := range m.snapshot.Transactions {
		if tx.ID == id {
			found := tx
			return &found, nil
		}
	}
	return nil, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
}

func (m *Memory) ListCategories(ctx context.Context) ([]models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]models.Category{}, m.snapshot.Categories...), nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*models.User, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	for _, u := range m.snapshot.Users {
		if u.Email == email {
			user := u.User
			return &user, u.PasswordHash, nil
		}
	}
	return nil, "", fmt.Errorf("user %q: %w", email, ErrNotFound)
}
