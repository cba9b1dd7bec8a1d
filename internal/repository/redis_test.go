package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/deppfellow/personal-dashboard/internal/model"
)

type RedisStoreSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	store  *RedisExpenseStore
	ctx    context.Context
}

func (s *RedisStoreSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.store = NewRedisExpenseStore(s.client, "expenses-table")
	s.ctx = context.Background()
}

func (s *RedisStoreSuite) TearDownTest() {
	s.client.Close()
}

func expense(id int64, amount, category string) *model.Expense {
	return &model.Expense{
		ExpenseID:   decimal.NewFromInt(id),
		Description: "item",
		Timestamp:   decimal.NewFromInt(id),
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Date:        "2024-05-01",
	}
}

func (s *RedisStoreSuite) TestPutAndScan() {
	s.Require().NoError(s.store.PutItem(s.ctx, expense(3, "12.50", "food")))
	s.Require().NoError(s.store.PutItem(s.ctx, expense(1, "0.1", "travel")))

	all, err := s.store.Scan(s.ctx, model.ScanFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("1", all[0].ExpenseID.String())
	s.Equal("3", all[1].ExpenseID.String())
	s.True(all[1].Amount.Equal(decimal.RequireFromString("12.5")))
}

func (s *RedisStoreSuite) TestScanWithCategoryFilter() {
	s.Require().NoError(s.store.PutItem(s.ctx, expense(1, "1", "food")))
	s.Require().NoError(s.store.PutItem(s.ctx, expense(2, "2", "travel")))

	food := "food"
	got, err := s.store.Scan(s.ctx, model.ScanFilter{Category: &food})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("food", got[0].Category)

	empty := ""
	got, err = s.store.Scan(s.ctx, model.ScanFilter{Category: &empty})
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *RedisStoreSuite) TestPutReplacesAndMovesCategory() {
	s.Require().NoError(s.store.PutItem(s.ctx, expense(7, "1", "food")))
	s.Require().NoError(s.store.PutItem(s.ctx, expense(7, "2", "travel")))

	all, err := s.store.Scan(s.ctx, model.ScanFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal("travel", all[0].Category)

	food, err := s.store.QueryByCategory(s.ctx, "food")
	s.Require().NoError(err)
	s.Empty(food)

	travel, err := s.store.QueryByCategory(s.ctx, "travel")
	s.Require().NoError(err)
	s.Len(travel, 1)
}

func (s *RedisStoreSuite) TestDeleteIsIdempotent() {
	s.Require().NoError(s.store.PutItem(s.ctx, expense(5, "1", "food")))

	key := model.NewExpenseKey(decimal.RequireFromString("5.0"))
	s.Require().NoError(s.store.DeleteItem(s.ctx, key))
	s.Require().NoError(s.store.DeleteItem(s.ctx, key))

	all, err := s.store.Scan(s.ctx, model.ScanFilter{})
	s.Require().NoError(err)
	s.Empty(all)
	s.False(s.mr.Exists("expenses-table:item:5"))
}

func (s *RedisStoreSuite) TestKeyWithTimestampIsRejected() {
	var zero int64
	key := model.ExpenseKey{ExpenseID: decimal.NewFromInt(5), Timestamp: &zero}

	err := s.store.UpdateItem(s.ctx, key, model.ExpenseUpdate{model.FieldDescription: "x"})
	s.ErrorIs(err, ErrKeySchemaMismatch)

	err = s.store.DeleteItem(s.ctx, key)
	s.ErrorIs(err, ErrKeySchemaMismatch)
}

func (s *RedisStoreSuite) TestUpdateSetsOnlyGivenFields() {
	s.Require().NoError(s.store.PutItem(s.ctx, expense(9, "4", "food")))

	err := s.store.UpdateItem(s.ctx, model.NewExpenseKey(decimal.NewFromInt(9)), model.ExpenseUpdate{
		model.FieldAmount:   decimal.RequireFromString("4.25"),
		model.FieldCategory: "travel",
	})
	s.Require().NoError(err)

	got, err := s.store.QueryByCategory(s.ctx, "travel")
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("item", got[0].Description)
	s.Equal("4.25", got[0].Amount.String())
}

func (s *RedisStoreSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))

	s.mr.SetError("LOADING")
	s.Error(s.store.Ping(s.ctx))
	s.mr.SetError("")
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}
