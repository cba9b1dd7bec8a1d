package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/deppfellow/personal-dashboard/internal/model"
)

// DynamoAPI is the subset of the DynamoDB client the store uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// DynamoExpenseStore keeps expenses in a DynamoDB table with partition key
// expenseId (N) and a global secondary index on category.
type DynamoExpenseStore struct {
	client        DynamoAPI
	table         string
	categoryIndex string
}

func NewDynamoExpenseStore(client DynamoAPI, table, categoryIndex string) *DynamoExpenseStore {
	return &DynamoExpenseStore{
		client:        client,
		table:         table,
		categoryIndex: categoryIndex,
	}
}

// dynamoNumber stores a decimal as a DynamoDB number without passing through float64.
type dynamoNumber struct {
	decimal.Decimal
}

func (n dynamoNumber) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: n.String()}, nil
}

func (n *dynamoNumber) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	num, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return fmt.Errorf("expected number attribute, got %T", av)
	}

	d, err := decimal.NewFromString(num.Value)
	if err != nil {
		return err
	}
	n.Decimal = d

	return nil
}

type dynamoExpense struct {
	ExpenseID   dynamoNumber `dynamodbav:"expenseId"`
	Description string       `dynamodbav:"description"`
	Timestamp   dynamoNumber `dynamodbav:"timestamp"`
	Amount      dynamoNumber `dynamodbav:"amount"`
	Category    string       `dynamodbav:"category"`
	Date        string       `dynamodbav:"date"`
}

func toDynamo(e *model.Expense) dynamoExpense {
	return dynamoExpense{
		ExpenseID:   dynamoNumber{e.ExpenseID},
		Description: e.Description,
		Timestamp:   dynamoNumber{e.Timestamp},
		Amount:      dynamoNumber{e.Amount},
		Category:    e.Category,
		Date:        e.Date,
	}
}

func (d dynamoExpense) model() model.Expense {
	return model.Expense{
		ExpenseID:   d.ExpenseID.Decimal,
		Description: d.Description,
		Timestamp:   d.Timestamp.Decimal,
		Amount:      d.Amount.Decimal,
		Category:    d.Category,
		Date:        d.Date,
	}
}

// dynamoKey passes the key through as given; DynamoDB itself rejects a
// timestamp component against the expenseId-only schema.
func dynamoKey(key model.ExpenseKey) map[string]types.AttributeValue {
	k := map[string]types.AttributeValue{
		model.FieldExpenseID: &types.AttributeValueMemberN{Value: key.ID()},
	}
	if key.Timestamp != nil {
		k[model.FieldTimestamp] = &types.AttributeValueMemberN{Value: fmt.Sprint(*key.Timestamp)}
	}
	return k
}

func (s *DynamoExpenseStore) PutItem(ctx context.Context, expense *model.Expense) error {
	item, err := attributevalue.MarshalMap(toDynamo(expense))
	if err != nil {
		return fmt.Errorf("marshal expense: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put expense %s: %w", expense.ExpenseID, err)
	}

	return nil
}

// Scan reads the whole table, following every page.
func (s *DynamoExpenseStore) Scan(ctx context.Context, filter model.ScanFilter) ([]model.Expense, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	}

	if filter.Category != nil {
		expr, err := expression.NewBuilder().
			WithFilter(expression.Name(model.FieldCategory).Equal(expression.Value(*filter.Category))).
			Build()
		if err != nil {
			return nil, fmt.Errorf("build scan filter: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	var expenses []model.Expense
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan expenses: %w", err)
		}

		items, err := unmarshalExpenses(page.Items)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, items...)
	}

	sortByID(expenses)

	return expenses, nil
}

func (s *DynamoExpenseStore) QueryByCategory(ctx context.Context, category string) ([]model.Expense, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key(model.FieldCategory).Equal(expression.Value(category))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build category query: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		IndexName:                 aws.String(s.categoryIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var expenses []model.Expense
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query expenses by category: %w", err)
		}

		items, err := unmarshalExpenses(page.Items)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, items...)
	}

	sortByID(expenses)

	return expenses, nil
}

func (s *DynamoExpenseStore) DeleteItem(ctx context.Context, key model.ExpenseKey) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       dynamoKey(key),
	})
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", key.ID(), err)
	}

	return nil
}

// UpdateItem sets only the fields present in update.
func (s *DynamoExpenseStore) UpdateItem(ctx context.Context, key model.ExpenseKey, update model.ExpenseUpdate) error {
	if len(update) == 0 {
		return fmt.Errorf("update expense %s: no fields to update", key.ID())
	}

	var set expression.UpdateBuilder
	for _, field := range model.UpdatableFields {
		value, ok := update[field]
		if !ok {
			continue
		}
		if d, isDecimal := value.(decimal.Decimal); isDecimal {
			value = dynamoNumber{d}
		}
		set = set.Set(expression.Name(field), expression.Value(value))
	}

	expr, err := expression.NewBuilder().WithUpdate(set).Build()
	if err != nil {
		return fmt.Errorf("build update expression: %w", err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       dynamoKey(key),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return fmt.Errorf("update expense %s: %w", key.ID(), err)
	}

	return nil
}

func (s *DynamoExpenseStore) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	return err
}

func unmarshalExpenses(items []map[string]types.AttributeValue) ([]model.Expense, error) {
	var records []dynamoExpense
	if err := attributevalue.UnmarshalListOfMaps(items, &records); err != nil {
		return nil, fmt.Errorf("unmarshal expenses: %w", err)
	}

	expenses := make([]model.Expense, 0, len(records))
	for _, r := range records {
		expenses = append(expenses, r.model())
	}

	return expenses, nil
}
