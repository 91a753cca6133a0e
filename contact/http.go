package contact

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/cockroachdb/errors"
)

// maxBodyBytes bounds the accepted request body.
const maxBodyBytes = 64 << 10

// Response is the JSON body returned to form clients.
type Response struct {
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Details []Detail `json:"details,omitempty"`
	ID      string   `json:"id,omitempty"`
}

// Respond runs a submission and maps the outcome to a status code and body.
func (s *Service) Respond(ctx context.Context, raw []byte, meta Meta) (int, Response) {
	receipt, err := s.Submit(ctx, raw, meta)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return http.StatusBadRequest, Response{Error: "Invalid form data", Details: verr.Details}
		}
		slog.ErrorContext(ctx, "contact submission failed", "error", err)
		return http.StatusInternalServerError, Response{Error: "Internal server error"}
	}
	return http.StatusOK, Response{Message: "Contact form submitted successfully", ID: receipt.ID}
}

// ServeHTTP accepts POSTed JSON submissions.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, Response{Error: "Method not allowed"})
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Error: "Invalid form data"})
		return
	}
	if len(raw) > maxBodyBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, Response{Error: "Request body too large"})
		return
	}

	status, body := s.Respond(r.Context(), raw, Meta{
		RemoteAddr: r.RemoteAddr,
		UserAgent:  r.UserAgent(),
	})
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
