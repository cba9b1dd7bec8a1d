package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/deppfellow/personal-dashboard/internal/model"
)

// RedisExpenseStore keeps each expense in a hash and indexes ids in sets:
//
//	<table>:item:<id>          hash of the record fields
//	<table>:ids                set of every id
//	<table>:category:<name>    set of ids per category
//
// Writes run in a MULTI/EXEC block so a record and its index entries change together.
type RedisExpenseStore struct {
	client *redis.Client
	prefix string
}

func NewRedisExpenseStore(client *redis.Client, table string) *RedisExpenseStore {
	return &RedisExpenseStore{client: client, prefix: table}
}

func (s *RedisExpenseStore) itemKey(id string) string {
	return s.prefix + ":item:" + id
}

func (s *RedisExpenseStore) idsKey() string {
	return s.prefix + ":ids"
}

func (s *RedisExpenseStore) categoryKey(category string) string {
	return s.prefix + ":category:" + category
}

// currentCategory returns the stored category of id, and false if id does not exist.
func (s *RedisExpenseStore) currentCategory(ctx context.Context, id string) (string, bool, error) {
	category, err := s.client.HGet(ctx, s.itemKey(id), model.FieldCategory).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return category, true, nil
}

func (s *RedisExpenseStore) PutItem(ctx context.Context, expense *model.Expense) error {
	id := expense.ExpenseID.String()

	previous, exists, err := s.currentCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("put expense %s: %w", id, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if exists && previous != expense.Category {
			pipe.SRem(ctx, s.categoryKey(previous), id)
		}
		pipe.Del(ctx, s.itemKey(id))
		pipe.HSet(ctx, s.itemKey(id), map[string]any{
			model.FieldExpenseID:   id,
			model.FieldDescription: expense.Description,
			model.FieldTimestamp:   expense.Timestamp.String(),
			model.FieldAmount:      expense.Amount.String(),
			model.FieldCategory:    expense.Category,
			model.FieldDate:        expense.Date,
		})
		pipe.SAdd(ctx, s.idsKey(), id)
		pipe.SAdd(ctx, s.categoryKey(expense.Category), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put expense %s: %w", id, err)
	}

	return nil
}

func (s *RedisExpenseStore) Scan(ctx context.Context, filter model.ScanFilter) ([]model.Expense, error) {
	ids, err := s.client.SMembers(ctx, s.idsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("scan expenses: %w", err)
	}

	all, err := s.load(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("scan expenses: %w", err)
	}

	expenses := make([]model.Expense, 0, len(all))
	for i := range all {
		if filter.Matches(&all[i]) {
			expenses = append(expenses, all[i])
		}
	}

	return expenses, nil
}

func (s *RedisExpenseStore) QueryByCategory(ctx context.Context, category string) ([]model.Expense, error) {
	ids, err := s.client.SMembers(ctx, s.categoryKey(category)).Result()
	if err != nil {
		return nil, fmt.Errorf("query expenses by category: %w", err)
	}

	expenses, err := s.load(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("query expenses by category: %w", err)
	}

	return expenses, nil
}

// load fetches the hashes of ids in one pipeline, skipping ids whose hash is gone.
func (s *RedisExpenseStore) load(ctx context.Context, ids []string) ([]model.Expense, error) {
	if len(ids) == 0 {
		return []model.Expense{}, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.itemKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	expenses := make([]model.Expense, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}

		e, err := expenseFromHash(fields)
		if err != nil {
			return nil, fmt.Errorf("decode expense %s: %w", ids[i], err)
		}
		expenses = append(expenses, e)
	}

	sortByID(expenses)

	return expenses, nil
}

func expenseFromHash(fields map[string]string) (model.Expense, error) {
	var (
		e   model.Expense
		err error
	)

	if e.ExpenseID, err = decimalField(fields, model.FieldExpenseID); err != nil {
		return e, err
	}
	if e.Timestamp, err = decimalField(fields, model.FieldTimestamp); err != nil {
		return e, err
	}
	if e.Amount, err = decimalField(fields, model.FieldAmount); err != nil {
		return e, err
	}

	e.Description = fields[model.FieldDescription]
	e.Category = fields[model.FieldCategory]
	e.Date = fields[model.FieldDate]

	return e, nil
}

// decimalField parses a numeric hash field; a field never written reads as zero.
func decimalField(fields map[string]string, name string) (decimal.Decimal, error) {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", name, err)
	}

	return d, nil
}

func (s *RedisExpenseStore) DeleteItem(ctx context.Context, key model.ExpenseKey) error {
	if err := checkKey(key); err != nil {
		return fmt.Errorf("delete expense %s: %w", key.ID(), err)
	}

	id := key.ID()
	category, exists, err := s.currentCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.itemKey(id))
		pipe.SRem(ctx, s.idsKey(), id)
		if exists {
			pipe.SRem(ctx, s.categoryKey(category), id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}

	return nil
}

// UpdateItem sets only the fields present in update. Like DynamoDB, a
// missing record is created from the given fields.
func (s *RedisExpenseStore) UpdateItem(ctx context.Context, key model.ExpenseKey, update model.ExpenseUpdate) error {
	if err := checkKey(key); err != nil {
		return fmt.Errorf("update expense %s: %w", key.ID(), err)
	}
	if len(update) == 0 {
		return fmt.Errorf("update expense %s: no fields to update", key.ID())
	}

	id := key.ID()
	previous, exists, err := s.currentCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("update expense %s: %w", id, err)
	}

	values := map[string]any{model.FieldExpenseID: id}
	for _, field := range model.UpdatableFields {
		if v, ok := update[field]; ok {
			values[field] = fmt.Sprint(v)
		}
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.itemKey(id), values)
		pipe.SAdd(ctx, s.idsKey(), id)
		if category, ok := values[model.FieldCategory]; ok {
			if exists && previous != category {
				pipe.SRem(ctx, s.categoryKey(previous), id)
			}
			pipe.SAdd(ctx, s.categoryKey(category.(string)), id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update expense %s: %w", id, err)
	}

	return nil
}

func (s *RedisExpenseStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
