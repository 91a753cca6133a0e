// Package ddb is a thin single-table layer over DynamoDB: items are keyed by
// a "pk" partition key and an "sk" sort key and encoded with attributevalue.
package ddb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cockroachdb/errors"
)

// API is the subset of the DynamoDB client used by Table.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Table reads and writes records in one DynamoDB table.
type Table struct {
	api  API
	name string
}

// NewTable returns a Table for the table called name.
func NewTable(api API, name string) *Table {
	return &Table{api: api, name: name}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Key builds the primary key attribute map.
func Key(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: pk},
		"sk": &types.AttributeValueMemberS{Value: sk},
	}
}

// Get loads the item at (pk, sk) into out. It reports false when the item
// does not exist.
func (t *Table) Get(ctx context.Context, pk, sk string, out any) (bool, error) {
	result, err := t.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(t.name),
		Key:            Key(pk, sk),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, errors.Wrapf(err, "failed to get item %s/%s from table %s", pk, sk, t.name)
	}
	if len(result.Item) == 0 {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(result.Item, out); err != nil {
		return false, errors.Wrapf(err, "failed to unmarshal item %s/%s", pk, sk)
	}
	return true, nil
}

// Put writes record, which must carry pk and sk attributes.
func (t *Table) Put(ctx context.Context, record any) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return errors.Wrap(err, "failed to marshal item")
	}
	if _, ok := item["pk"]; !ok {
		return errors.New("item has no pk attribute")
	}
	if _, ok := item["sk"]; !ok {
		return errors.New("item has no sk attribute")
	}

	_, err = t.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.name),
		Item:      item,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to put item into table %s", t.name)
	}
	return nil
}
