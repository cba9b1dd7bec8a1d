package repository

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/personal-dashboard/internal/model"
)

var errFakeKeySchema = errors.New("ValidationException: The provided key element does not match the schema")

// fakeDynamo keeps items in memory, pages scans and queries pageSize items
// at a time and rejects keys that carry more than expenseId. Filter and key
// condition expressions are recorded, not evaluated.
type fakeDynamo struct {
	items    map[string]map[string]types.AttributeValue
	pageSize int

	scans   []*dynamodb.ScanInput
	queries []*dynamodb.QueryInput
	updates []*dynamodb.UpdateItemInput

	describeErr error
}

func newFakeDynamo(pageSize int) *fakeDynamo {
	return &fakeDynamo{
		items:    map[string]map[string]types.AttributeValue{},
		pageSize: pageSize,
	}
}

func idOf(item map[string]types.AttributeValue) string {
	return item[model.FieldExpenseID].(*types.AttributeValueMemberN).Value
}

func checkFakeKey(key map[string]types.AttributeValue) error {
	if _, ok := key[model.FieldExpenseID]; !ok || len(key) != 1 {
		return errFakeKeySchema
	}
	return nil
}

// page returns the items after start, newest id first, and the key to resume from.
func (f *fakeDynamo) page(start map[string]types.AttributeValue) ([]map[string]types.AttributeValue, map[string]types.AttributeValue) {
	ids := make([]string, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))

	from := 0
	if start != nil {
		for i, id := range ids {
			if id == idOf(start) {
				from = i + 1
			}
		}
	}

	to := from + f.pageSize
	if to >= len(ids) {
		to = len(ids)
	}

	var out []map[string]types.AttributeValue
	for _, id := range ids[from:to] {
		out = append(out, f.items[id])
	}

	var last map[string]types.AttributeValue
	if to < len(ids) {
		last = map[string]types.AttributeValue{model.FieldExpenseID: f.items[ids[to-1]][model.FieldExpenseID]}
	}

	return out, last
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.items[idOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scans = append(f.scans, in)
	items, last := f.page(in.ExclusiveStartKey)
	return &dynamodb.ScanOutput{Items: items, LastEvaluatedKey: last}, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queries = append(f.queries, in)
	items, last := f.page(in.ExclusiveStartKey)
	return &dynamodb.QueryOutput{Items: items, LastEvaluatedKey: last}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if err := checkFakeKey(in.Key); err != nil {
		return nil, err
	}
	delete(f.items, idOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, in)
	if err := checkFakeKey(in.Key); err != nil {
		return nil, err
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) DescribeTable(_ context.Context, _ *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return &dynamodb.DescribeTableOutput{}, nil
}

func TestDynamoPutItemKeepsAmountExact(t *testing.T) {
	fake := newFakeDynamo(10)
	store := NewDynamoExpenseStore(fake, "expenses-table", "category-index")

	require.NoError(t, store.PutItem(context.Background(), expense(1700000000000, "0.1", "food")))

	item := fake.items["1700000000000"]
	require.NotNil(t, item)
	assert.Equal(t, &types.AttributeValueMemberN{Value: "0.1"}, item[model.FieldAmount])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "1700000000000"}, item[model.FieldTimestamp])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "food"}, item[model.FieldCategory])
}

func TestDynamoScanFollowsEveryPage(t *testing.T) {
	fake := newFakeDynamo(2)
	store := NewDynamoExpenseStore(fake, "expenses-table", "category-index")
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3, 4, 5} {
		require.NoError(t, store.PutItem(ctx, expense(id, "1", "food")))
	}

	all, err := store.Scan(ctx, model.ScanFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Len(t, fake.scans, 3)

	for i, e := range all {
		assert.True(t, e.ExpenseID.Equal(decimal.NewFromInt(int64(i+1))))
	}
	assert.Nil(t, fake.scans[0].FilterExpression)
}

func TestDynamoScanSendsCategoryFilter(t *testing.T) {
	fake := newFakeDynamo(10)
	store := NewDynamoExpenseStore(fake, "expenses-table", "category-index")

	category := "food"
	_, err := store.Scan(context.Background(), model.ScanFilter{Category: &category})
	require.NoError(t, err)

	require.Len(t, fake.scans, 1)
	in := fake.scans[0]
	require.NotNil(t, in.FilterExpression)
	assert.Contains(t, in.ExpressionAttributeNames, "#0")
	assert.Equal(t, model.FieldCategory, in.ExpressionAttributeNames["#0"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "food"}, in.ExpressionAttributeValues[":0"])
}

func TestDynamoQueryByCategoryUsesIndex(t *testing.T) {
	fake := newFakeDynamo(10)
	store := NewDynamoExpenseStore(fake, "expenses-table", "category-index")

	_, err := store.QueryByCategory(context.Background(), "travel")
	require.NoError(t, err)

	require.Len(t, fake.queries, 1)
	assert.Equal(t, "category-index", aws.ToString(fake.queries[0].IndexName))
	assert.NotNil(t, fake.queries[0].KeyConditionExpression)
}

func TestDynamoDeleteAndUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("delete by id", func(t *testing.T) {
		fake := newFakeDynamo(10)
		store := NewDynamoExpenseStore(fake, "expenses-table", "category-index")

		require.NoError(t, store.PutItem(ctx, expense(42, "1", "food")))
		require.NoError(t, store.DeleteItem(ctx, model.NewExpenseKey(decimal.NewFromInt(42))))
		assert.Empty(t, fake.items)
	})

	t.Run("update with a timestamp in the key is rejected by the table", func(t *testing.T) {
		fake := newFakeDynamo(10)
		store := NewDynamoExpenseStore(fake, "expenses-table", "category-index")

		var zero int64
		key := model.ExpenseKey{ExpenseID: decimal.NewFromInt(42), Timestamp: &zero}
		err := store.UpdateItem(ctx, key, model.ExpenseUpdate{model.FieldDescription: "lunch"})
		assert.ErrorIs(t, err, errFakeKeySchema)

		require.Len(t, fake.updates, 1)
		assert.Equal(t, &types.AttributeValueMemberN{Value: "0"}, fake.updates[0].Key[model.FieldTimestamp])
	})

	t.Run("update builds a set expression for the given fields", func(t *testing.T) {
		fake := newFakeDynamo(10)
		store := NewDynamoExpenseStore(fake, "expenses-table", "category-index")

		err := store.UpdateItem(ctx, model.NewExpenseKey(decimal.NewFromInt(42)), model.ExpenseUpdate{
			model.FieldAmount: decimal.RequireFromString("9.99"),
		})
		require.NoError(t, err)

		in := fake.updates[0]
		assert.Contains(t, aws.ToString(in.UpdateExpression), "SET #0 = :0")
		assert.Equal(t, &types.AttributeValueMemberN{Value: "9.99"}, in.ExpressionAttributeValues[":0"])
		assert.Equal(t, types.ReturnValueUpdatedNew, in.ReturnValues)
	})
}

func TestDynamoPing(t *testing.T) {
	fake := newFakeDynamo(10)
	store := NewDynamoExpenseStore(fake, "expenses-table", "category-index")

	assert.NoError(t, store.Ping(context.Background()))

	fake.describeErr = errors.New("ResourceNotFoundException")
	assert.Error(t, store.Ping(context.Background()))
}

func TestUnmarshalExpenses(t *testing.T) {
	item, err := attributevalue.MarshalMap(toDynamo(expense(7, "3.333", "misc")))
	require.NoError(t, err)

	got, err := unmarshalExpenses([]map[string]types.AttributeValue{item})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "3.333", got[0].Amount.String())
	assert.Equal(t, "misc", got[0].Category)
}
