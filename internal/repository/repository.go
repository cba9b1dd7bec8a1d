// Package repository handles all interactions with the expense table.
//
// The table is a key-value table keyed on expenseId. ExpenseStore hides
// which backend holds it; DynamoDB, Redis and PostgreSQL implementations
// are provided and selected by configuration.
package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/deppfellow/personal-dashboard/internal/model"
)

// ErrKeySchemaMismatch is returned when a key carries attributes the table
// schema does not define (the table is keyed on expenseId alone).
var ErrKeySchemaMismatch = errors.New("the provided key element does not match the schema")

// ExpenseStore is the expense table.
//
// Every operation is a single-item or single-scan call; there are no
// multi-item transactions. DeleteItem on a missing key succeeds. PutItem on
// an existing key replaces the record.
type ExpenseStore interface {
	PutItem(ctx context.Context, expense *model.Expense) error
	Scan(ctx context.Context, filter model.ScanFilter) ([]model.Expense, error)
	QueryByCategory(ctx context.Context, category string) ([]model.Expense, error)
	DeleteItem(ctx context.Context, key model.ExpenseKey) error
	UpdateItem(ctx context.Context, key model.ExpenseKey, update model.ExpenseUpdate) error
	Ping(ctx context.Context) error
}

// checkKey rejects keys that do not match the partition-key-only schema.
func checkKey(key model.ExpenseKey) error {
	if key.Timestamp != nil {
		return ErrKeySchemaMismatch
	}
	return nil
}

func sortByID(expenses []model.Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].ExpenseID.LessThan(expenses[j].ExpenseID)
	})
}
