package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/club-tournaments/services"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    services.ErrorCode
		message string
	}{
		{"invalid argument", &services.Error{Code: services.CodeInvalidArgument, Message: "bad"}, 400, services.CodeInvalidArgument, "bad"},
		{"unauthenticated", &services.Error{Code: services.CodeUnauthenticated, Message: "who"}, 401, services.CodeUnauthenticated, "who"},
		{"permission denied", &services.Error{Code: services.CodePermissionDenied, Message: "no"}, 403, services.CodePermissionDenied, "no"},
		{"not found", &services.Error{Code: services.CodeNotFound, Message: "gone"}, 404, services.CodeNotFound, "gone"},
		{"failed precondition", &services.Error{Code: services.CodeFailedPrecondition, Message: "full", Err: services.ErrTournamentFull}, 409, services.CodeFailedPrecondition, "full"},
		{"coded internal", &services.Error{Code: services.CodeInternal, Message: "Application data is invalid"}, 500, services.CodeInternal, "Application data is invalid"},
		{"wrapped coded", errors.Join(errors.New("ctx"), &services.Error{Code: services.CodeNotFound, Message: "gone"}), 404, services.CodeNotFound, "gone"},
		{"uncoded", errors.New("pq: connection refused"), 500, services.CodeInternal, "the server encountered a problem and could not process your request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			env := decodeEnvelope(t, rec)
			if env.Success || env.Error == nil {
				t.Fatalf("expected error envelope, got %+v", env)
			}
			if env.Error.Code != tt.code || env.Error.Message != tt.message {
				t.Errorf("error = %+v, want %s %q", env.Error, tt.code, tt.message)
			}
		})
	}
}

func TestSuccessResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	successResponse(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusCreated, "done", map[string]int{"n": 1})

	if rec.Code != http.StatusCreated || rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("status %d, content type %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"success": true`) || !strings.Contains(body, `"message": "done"`) {
		t.Errorf("unexpected body %s", body)
	}
	if strings.Contains(body, `"error"`) {
		t.Errorf("success body must not carry an error: %s", body)
	}
}

func TestReadJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"name":"x"}`, ""},
		{"empty", ``, "body must not be empty"},
		{"malformed", `{"name":`, "badly-formed JSON"},
		{"wrong type", `{"name":1}`, `incorrect JSON type for field "name"`},
		{"unknown field", `{"nickname":"x"}`, "unknown key"},
		{"two values", `{"name":"x"}{"name":"y"}`, "single JSON value"},
		{"too large", `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`, "must not be larger than"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst payload
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := readJSON(httptest.NewRecorder(), req, &dst)
			if tt.wantErr == "" {
				if err != nil || dst.Name != "x" {
					t.Fatalf("got %+v, %v", dst, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
