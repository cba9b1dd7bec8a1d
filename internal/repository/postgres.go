package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/deppfellow/personal-dashboard/internal/model"
	"github.com/deppfellow/personal-dashboard/internal/sqlerr"
)

// Column names of the expense table (see database/migrations).
const (
	colExpenseID   = "expense_id"
	colDescription = "description"
	colCreatedMS   = "created_ms"
	colAmount      = "amount"
	colCategory    = "category"
	colExpenseDate = "expense_date"
)

// columnFor maps an expense field onto its column.
var columnFor = map[string]string{
	model.FieldExpenseID:   colExpenseID,
	model.FieldDescription: colDescription,
	model.FieldTimestamp:   colCreatedMS,
	model.FieldAmount:      colAmount,
	model.FieldCategory:    colCategory,
	model.FieldDate:        colExpenseDate,
}

// PostgresExpenseStore keeps expenses in a single table keyed on expense_id.
// Numeric columns are exchanged as text so amounts stay exact.
type PostgresExpenseStore struct {
	pool  *pgxpool.Pool
	table string
	sb    squirrel.StatementBuilderType
}

func NewPostgresExpenseStore(pool *pgxpool.Pool, table string) *PostgresExpenseStore {
	return &PostgresExpenseStore{
		pool:  pool,
		table: pgx.Identifier{table}.Sanitize(),
		sb:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (s *PostgresExpenseStore) insertQuery(expense *model.Expense) (string, []any, error) {
	return s.sb.Insert(s.table).
		Columns(colExpenseID, colDescription, colCreatedMS, colAmount, colCategory, colExpenseDate).
		Values(
			expense.ExpenseID.String(),
			expense.Description,
			expense.Timestamp.IntPart(),
			expense.Amount.String(),
			expense.Category,
			expense.Date,
		).
		Suffix(`ON CONFLICT (expense_id) DO UPDATE SET
			description = EXCLUDED.description,
			created_ms = EXCLUDED.created_ms,
			amount = EXCLUDED.amount,
			category = EXCLUDED.category,
			expense_date = EXCLUDED.expense_date`).
		ToSql()
}

func (s *PostgresExpenseStore) selectQuery(category *string) (string, []any, error) {
	q := s.sb.Select(
		colExpenseID+"::text",
		colDescription,
		colCreatedMS,
		colAmount+"::text",
		colCategory,
		colExpenseDate,
	).From(s.table)

	if category != nil {
		q = q.Where(squirrel.Eq{colCategory: *category})
	}

	return q.OrderBy(colExpenseID).ToSql()
}

// updateQuery sets only the columns named in update.
func (s *PostgresExpenseStore) updateQuery(key model.ExpenseKey, update model.ExpenseUpdate) (string, []any, error) {
	set := make(map[string]any, len(update))
	for _, field := range model.UpdatableFields {
		v, ok := update[field]
		if !ok {
			continue
		}
		if d, isDecimal := v.(decimal.Decimal); isDecimal {
			v = d.String()
		}
		set[columnFor[field]] = v
	}
	if len(set) == 0 {
		return "", nil, fmt.Errorf("no fields to update")
	}

	return s.sb.Update(s.table).
		SetMap(set).
		Where(squirrel.Eq{colExpenseID: key.ID()}).
		ToSql()
}

func (s *PostgresExpenseStore) PutItem(ctx context.Context, expense *model.Expense) error {
	query, args, err := s.insertQuery(expense)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("put expense %s: %w", expense.ExpenseID, sqlerr.HandleError(err))
	}

	return nil
}

func (s *PostgresExpenseStore) Scan(ctx context.Context, filter model.ScanFilter) ([]model.Expense, error) {
	expenses, err := s.query(ctx, filter.Category)
	if err != nil {
		return nil, fmt.Errorf("scan expenses: %w", err)
	}
	return expenses, nil
}

func (s *PostgresExpenseStore) QueryByCategory(ctx context.Context, category string) ([]model.Expense, error) {
	expenses, err := s.query(ctx, &category)
	if err != nil {
		return nil, fmt.Errorf("query expenses by category: %w", err)
	}
	return expenses, nil
}

func (s *PostgresExpenseStore) query(ctx context.Context, category *string) ([]model.Expense, error) {
	query, args, err := s.selectQuery(category)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	expenses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Expense, error) {
		var (
			e          model.Expense
			id, amount string
			createdMS  int64
		)
		if err := row.Scan(&id, &e.Description, &createdMS, &amount, &e.Category, &e.Date); err != nil {
			return e, err
		}

		var err error
		if e.ExpenseID, err = decimal.NewFromString(id); err != nil {
			return e, err
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return e, err
		}
		e.Timestamp = decimal.NewFromInt(createdMS)

		return e, nil
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	return expenses, nil
}

func (s *PostgresExpenseStore) DeleteItem(ctx context.Context, key model.ExpenseKey) error {
	if err := checkKey(key); err != nil {
		return fmt.Errorf("delete expense %s: %w", key.ID(), err)
	}

	query, args, err := s.sb.Delete(s.table).Where(squirrel.Eq{colExpenseID: key.ID()}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete expense %s: %w", key.ID(), sqlerr.HandleError(err))
	}

	return nil
}

func (s *PostgresExpenseStore) UpdateItem(ctx context.Context, key model.ExpenseKey, update model.ExpenseUpdate) error {
	if err := checkKey(key); err != nil {
		return fmt.Errorf("update expense %s: %w", key.ID(), err)
	}

	query, args, err := s.updateQuery(key, update)
	if err != nil {
		return fmt.Errorf("update expense %s: %w", key.ID(), err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update expense %s: %w", key.ID(), sqlerr.HandleError(err))
	}

	return nil
}

func (s *PostgresExpenseStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return errors.New("database pool not initialized")
	}
	return s.pool.Ping(ctx)
}
