package contact

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamoDBClient records PutItem calls.
type mockDynamoDBClient struct {
	puts []*dynamodb.PutItemInput
}

func (m *mockDynamoDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockDynamoDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.puts = append(m.puts, params)
	return &dynamodb.PutItemOutput{}, nil
}

func TestDynamoSink(t *testing.T) {
	client := &mockDynamoDBClient{}
	sink := NewDynamoSink(client, "contact-submissions")

	sub := Submission{Name: "Ada", Email: "ada@example.com", Subject: "Hello there", Message: "I would like to chat."}
	receipt := Receipt{ID: "2test", ReceivedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	if err := sink.Deliver(context.Background(), sub, Meta{UserAgent: "curl"}, receipt); err != nil {
		t.Fatalf("Deliver failed: %v", err)
	}

	if len(client.puts) != 1 {
		t.Fatalf("Expected 1 put, got %d", len(client.puts))
	}
	item := client.puts[0].Item
	tests := map[string]string{
		"pk":          "contact#2test",
		"sk":          "submission",
		"email":       "ada@example.com",
		"received_at": "2024-05-01T12:00:00Z",
		"user_agent":  "curl",
	}
	for attr, want := range tests {
		got, ok := item[attr].(*types.AttributeValueMemberS)
		if !ok || got.Value != want {
			t.Errorf("Expected %s=%q, got %#v", attr, want, item[attr])
		}
	}
	if _, ok := item["remote_addr"]; ok {
		t.Error("Expected empty remote_addr to be omitted")
	}
}

func TestLogSink(t *testing.T) {
	if err := (LogSink{}).Deliver(context.Background(), Submission{Name: "Ada"}, Meta{}, Receipt{ID: "x"}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}
