package algolia

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// mockSecretsManagerClient implements SecretsManagerClient for testing
type mockSecretsManagerClient struct {
	secretValue *string
	err         error
	requested   string
}

func (m *mockSecretsManagerClient) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	m.requested = aws.ToString(params.SecretId)
	if m.err != nil {
		return nil, m.err
	}

	return &secretsmanager.GetSecretValueOutput{
		SecretString: m.secretValue,
	}, nil
}

func TestAWSSecrets_Success(t *testing.T) {
	client := &mockSecretsManagerClient{
		secretValue: aws.String(`{"app_id":"test-app-id","write_api_key":"test-api-key"}`),
	}

	secrets, err := AWSSecrets(context.Background(), client, "production")()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if client.requested != "production/algolia" {
		t.Errorf("Expected secret path 'production/algolia', got '%s'", client.requested)
	}
	if secrets.AppID != "test-app-id" {
		t.Errorf("Expected AppID to be 'test-app-id', got '%s'", secrets.AppID)
	}
	if secrets.WriteApiKey != "test-api-key" {
		t.Errorf("Expected WriteApiKey to be 'test-api-key', got '%s'", secrets.WriteApiKey)
	}
}

func TestAWSSecretsFromARN(t *testing.T) {
	arn := "arn:aws:secretsmanager:us-east-1:123456789012:secret:algolia"
	client := &mockSecretsManagerClient{
		secretValue: aws.String(`{"app_id":"arn-app","write_api_key":"arn-key"}`),
	}

	secrets, err := AWSSecretsFromARN(context.Background(), client, arn)()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if client.requested != arn {
		t.Errorf("Expected ARN %s to be requested, got %s", arn, client.requested)
	}
	if secrets.AppID != "arn-app" || secrets.WriteApiKey != "arn-key" {
		t.Errorf("Unexpected secrets %+v", secrets)
	}
}

func TestAWSSecrets_Errors(t *testing.T) {
	tests := map[string]struct {
		client      *mockSecretsManagerClient
		expectedMsg string
	}{
		"get secret error": {
			client:      &mockSecretsManagerClient{err: errors.New("secrets manager error")},
			expectedMsg: "get secret staging/algolia",
		},
		"nil secret string": {
			client:      &mockSecretsManagerClient{},
			expectedMsg: "secret staging/algolia has no string value",
		},
		"invalid json": {
			client:      &mockSecretsManagerClient{secretValue: aws.String("invalid json")},
			expectedMsg: "unmarshal secret JSON from staging/algolia",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := AWSSecrets(context.Background(), tc.client, "staging")()
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.expectedMsg) {
				t.Errorf("Expected error to contain '%s', got '%s'", tc.expectedMsg, err.Error())
			}
		})
	}
}
