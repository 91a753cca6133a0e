package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/letmevibethatforyou/sitesearch/contact"
)

const validBody = `{"name":"Ada","email":"ada@example.com","subject":"Hello there","message":"I would like to chat."}`

func newTestHandler(t *testing.T, sink contact.Sink) *Handler {
	t.Helper()
	v, err := contact.NewValidator()
	if err != nil {
		t.Fatalf("NewValidator failed: %v", err)
	}
	return NewHandler(contact.NewService(v, sink))
}

func request(method, body string, base64Encoded bool) events.APIGatewayV2HTTPRequest {
	req := events.APIGatewayV2HTTPRequest{Body: body, IsBase64Encoded: base64Encoded}
	req.RequestContext.HTTP.Method = method
	req.RequestContext.HTTP.SourceIP = "203.0.113.7"
	req.RequestContext.HTTP.UserAgent = "test-agent"
	return req
}

func TestHandleRequest(t *testing.T) {
	okSink := contact.SinkFunc(func(context.Context, contact.Submission, contact.Meta, contact.Receipt) error { return nil })
	failSink := contact.SinkFunc(func(context.Context, contact.Submission, contact.Meta, contact.Receipt) error {
		return errors.New("table unavailable")
	})

	tests := map[string]struct {
		req           events.APIGatewayV2HTTPRequest
		sink          contact.Sink
		expected      int
		expectedError string
	}{
		"valid": {
			req:      request(http.MethodPost, validBody, false),
			sink:     okSink,
			expected: http.StatusOK,
		},
		"base64 body": {
			req:      request(http.MethodPost, base64.StdEncoding.EncodeToString([]byte(validBody)), true),
			sink:     okSink,
			expected: http.StatusOK,
		},
		"bad base64": {
			req:           request(http.MethodPost, "%%%", true),
			sink:          okSink,
			expected:      http.StatusBadRequest,
			expectedError: "Invalid form data",
		},
		"invalid fields": {
			req:           request(http.MethodPost, `{"name":"A"}`, false),
			sink:          okSink,
			expected:      http.StatusBadRequest,
			expectedError: "Invalid form data",
		},
		"sink failure": {
			req:           request(http.MethodPost, validBody, false),
			sink:          failSink,
			expected:      http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
		"wrong method": {
			req:           request(http.MethodGet, "", false),
			sink:          okSink,
			expected:      http.StatusMethodNotAllowed,
			expectedError: "Method not allowed",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			resp, err := newTestHandler(t, tc.sink).HandleRequest(context.Background(), tc.req)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if resp.StatusCode != tc.expected {
				t.Errorf("Expected status %d, got %d", tc.expected, resp.StatusCode)
			}
			if resp.Headers["Content-Type"] != "application/json" {
				t.Errorf("Expected JSON content type, got %q", resp.Headers["Content-Type"])
			}

			var body contact.Response
			if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
				t.Fatalf("Expected JSON body, got %q", resp.Body)
			}
			if body.Error != tc.expectedError {
				t.Errorf("Expected error %q, got %q", tc.expectedError, body.Error)
			}
		})
	}
}

func TestHandleRequest_PassesMeta(t *testing.T) {
	var got contact.Meta
	sink := contact.SinkFunc(func(_ context.Context, _ contact.Submission, meta contact.Meta, _ contact.Receipt) error {
		got = meta
		return nil
	})

	if _, err := newTestHandler(t, sink).HandleRequest(context.Background(), request(http.MethodPost, validBody, false)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.RemoteAddr != "203.0.113.7" || got.UserAgent != "test-agent" {
		t.Errorf("Unexpected meta %+v", got)
	}
}
