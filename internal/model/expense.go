// Package model holds the data shapes shared by the store, service and
// handler layers.
package model

import (
	"github.com/shopspring/decimal"

	"github.com/deppfellow/personal-dashboard/internal/validation"
)

// Expense field names, as stored and as accepted in request bodies.
const (
	FieldExpenseID   = "expenseId"
	FieldDescription = "description"
	FieldTimestamp   = "timestamp"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldDate        = "date"
)

// Expense is a persisted expense record.
//
// ExpenseID and Timestamp hold the same millisecond instant. Amount is kept
// exact; it is never round-tripped through a float before being stored.
type Expense struct {
	ExpenseID   decimal.Decimal
	Description string
	Timestamp   decimal.Decimal
	Amount      decimal.Decimal
	Category    string
	Date        string
}

// ExpenseKey addresses a single record. The table is keyed on ExpenseID only;
// a key that also carries a Timestamp does not match the key schema.
type ExpenseKey struct {
	ExpenseID decimal.Decimal
	Timestamp *int64
}

// NewExpenseKey returns a key that matches the table schema.
func NewExpenseKey(id decimal.Decimal) ExpenseKey {
	return ExpenseKey{ExpenseID: id}
}

// ID returns the canonical text form of the key ("123.0" and "123" are the same record).
func (k ExpenseKey) ID() string {
	return k.ExpenseID.String()
}

// ExpenseUpdate is a sparse set of field changes, keyed by field name.
// Values are decimal.Decimal for amount and string for the others.
type ExpenseUpdate map[string]any

// UpdatableFields lists, in order, the fields an update may change.
var UpdatableFields = []string{FieldAmount, FieldDescription, FieldCategory, FieldDate}

// ScanFilter restricts a scan. A nil Category scans everything; a non-nil
// one (even empty) keeps only exact matches.
type ScanFilter struct {
	Category *string
}

// Matches reports whether e passes the filter.
func (f ScanFilter) Matches(e *Expense) bool {
	return f.Category == nil || *f.Category == e.Category
}

// ExpenseView is the wire form of an expense. Decimal fields become floats.
type ExpenseView struct {
	ExpenseID   float64 `json:"expenseId"`
	Description string  `json:"description"`
	Timestamp   float64 `json:"timestamp"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

// View converts e for serialization.
func (e *Expense) View() ExpenseView {
	return ExpenseView{
		ExpenseID:   e.ExpenseID.InexactFloat64(),
		Description: e.Description,
		Timestamp:   e.Timestamp.InexactFloat64(),
		Amount:      e.Amount.InexactFloat64(),
		Category:    e.Category,
		Date:        e.Date,
	}
}

// CreateExpenseRequest is a create body whose fields have passed the type checks.
type CreateExpenseRequest struct {
	Description string `validate:"required"`
	Amount      decimal.Decimal
	Category    string
	Date        string
}

func (r *CreateExpenseRequest) Validate() error {
	return validation.Struct(r)
}

// ExpensesResponse is the body of a successful read.
type ExpensesResponse struct {
	Expenses []ExpenseView `json:"expenses"`
}

// MessageResponse is the body of a successful write.
type MessageResponse struct {
	Message string `json:"message"`
}

// ListExpensesRequest is a read. A nil Category reads everything.
type ListExpensesRequest struct {
	Category *string
}

// ExpenseIDRequest addresses one expense by its path parameter.
type ExpenseIDRequest struct {
	ExpenseID decimal.Decimal

	// Raw is the path parameter as sent, echoed back in messages.
	Raw string
}

// UpdateExpenseRequest is a sparse update of one expense.
type UpdateExpenseRequest struct {
	ExpenseIDRequest
	Update ExpenseUpdate
}

// CategoryRequest is a read through the category index.
type CategoryRequest struct {
	Category string
}
