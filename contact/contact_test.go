package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const validBody = `{"name":"Ada","email":"ada@example.com","subject":"Hello there","message":"I would like to chat."}`

func newTestService(t *testing.T, sink Sink) *Service {
	t.Helper()
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator failed: %v", err)
	}
	s := NewService(v, sink)
	s.newID = func() string { return "2test" }
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestValidate(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator failed: %v", err)
	}

	tests := map[string]struct {
		body       string
		wantFields []string
	}{
		"valid": {
			body: validBody,
		},
		"short_name": {
			body:       `{"name":"A","email":"ada@example.com","subject":"Hello there","message":"I would like to chat."}`,
			wantFields: []string{"name"},
		},
		"bad_email": {
			body:       `{"name":"Ada","email":"not-an-email","subject":"Hello there","message":"I would like to chat."}`,
			wantFields: []string{"email"},
		},
		"short_subject_and_message": {
			body:       `{"name":"Ada","email":"ada@example.com","subject":"Hi","message":"short"}`,
			wantFields: []string{"subject", "message"},
		},
		"missing_fields": {
			body:       `{"name":"Ada"}`,
			wantFields: []string{"email", "subject", "message"},
		},
		"wrong_type": {
			body:       `{"name":42,"email":"ada@example.com","subject":"Hello there","message":"I would like to chat."}`,
			wantFields: []string{"name"},
		},
		"not_an_object": {
			body:       `["Ada"]`,
			wantFields: []string{""},
		},
		"invalid_json": {
			body:       `{"name":`,
			wantFields: []string{""},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			sub, err := v.Validate([]byte(tc.body))
			if len(tc.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				if sub.Name != "Ada" || sub.Email != "ada@example.com" {
					t.Errorf("Unexpected submission %+v", sub)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected *ValidationError, got %v", err)
			}
			var fields []string
			for _, d := range verr.Details {
				fields = append(fields, d.Field)
				if d.Message == "" {
					t.Errorf("Expected message for field %q", d.Field)
				}
			}
			if strings.Join(fields, ",") != strings.Join(tc.wantFields, ",") {
				t.Errorf("Expected fields %v, got %v", tc.wantFields, fields)
			}
		})
	}
}

func TestSubmit(t *testing.T) {
	var delivered []Submission
	sink := SinkFunc(func(ctx context.Context, sub Submission, meta Meta, receipt Receipt) error {
		delivered = append(delivered, sub)
		if receipt.ID != "2test" {
			t.Errorf("Expected receipt id 2test, got %s", receipt.ID)
		}
		return nil
	})
	s := newTestService(t, sink)

	receipt, err := s.Submit(context.Background(), []byte(validBody), Meta{RemoteAddr: "127.0.0.1"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if receipt.ID != "2test" || receipt.ReceivedAt.Year() != 2024 {
		t.Errorf("Unexpected receipt %+v", receipt)
	}
	if len(delivered) != 1 || delivered[0].Subject != "Hello there" {
		t.Errorf("Expected one delivered submission, got %+v", delivered)
	}
}

func TestSubmit_InvalidNotDelivered(t *testing.T) {
	calls := 0
	sink := SinkFunc(func(context.Context, Submission, Meta, Receipt) error {
		calls++
		return nil
	})
	s := newTestService(t, sink)

	if _, err := s.Submit(context.Background(), []byte(`{}`), Meta{}); err == nil {
		t.Fatal("Expected error, got nil")
	}
	if calls != 0 {
		t.Errorf("Expected no delivery, got %d", calls)
	}
}

func TestServeHTTP(t *testing.T) {
	tests := map[string]struct {
		method     string
		body       string
		sinkErr    error
		wantStatus int
		wantError  string
		wantMsg    string
	}{
		"accepted": {
			method:     http.MethodPost,
			body:       validBody,
			wantStatus: http.StatusOK,
			wantMsg:    "Contact form submitted successfully",
		},
		"invalid": {
			method:     http.MethodPost,
			body:       `{"name":"A"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid form data",
		},
		"sink_failure": {
			method:     http.MethodPost,
			body:       validBody,
			sinkErr:    errors.New("table missing"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
		},
		"wrong_method": {
			method:     http.MethodGet,
			wantStatus: http.StatusMethodNotAllowed,
			wantError:  "Method not allowed",
		},
		"too_large": {
			method:     http.MethodPost,
			body:       `{"message":"` + strings.Repeat("x", maxBodyBytes) + `"}`,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantError:  "Request body too large",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			sink := SinkFunc(func(context.Context, Submission, Meta, Receipt) error {
				return tc.sinkErr
			})
			s := newTestService(t, sink)

			req := httptest.NewRequest(tc.method, "/api/contact", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("Expected status %d, got %d", tc.wantStatus, rec.Code)
			}
			var resp Response
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Error != tc.wantError {
				t.Errorf("Expected error %q, got %q", tc.wantError, resp.Error)
			}
			if resp.Message != tc.wantMsg {
				t.Errorf("Expected message %q, got %q", tc.wantMsg, resp.Message)
			}
			if tc.wantStatus == http.StatusBadRequest && len(resp.Details) == 0 {
				t.Error("Expected validation details")
			}
		})
	}
}

func TestMultiSink(t *testing.T) {
	var order []string
	first := SinkFunc(func(context.Context, Submission, Meta, Receipt) error {
		order = append(order, "first")
		return nil
	})
	failing := SinkFunc(func(context.Context, Submission, Meta, Receipt) error {
		order = append(order, "failing")
		return errors.New("nope")
	})
	never := SinkFunc(func(context.Context, Submission, Meta, Receipt) error {
		order = append(order, "never")
		return nil
	})

	err := MultiSink{first, failing, never}.Deliver(context.Background(), Submission{}, Meta{}, Receipt{})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if strings.Join(order, ",") != "first,failing" {
		t.Errorf("Unexpected delivery order %v", order)
	}
}
