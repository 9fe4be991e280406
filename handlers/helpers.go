package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/club-tournaments/middleware"
	"github.com/Dosada05/club-tournaments/services"
	"github.com/go-chi/chi/v5"
)

// envelope is the body of every JSON response.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    services.ErrorCode `json:"code"`
	Message string             `json:"message"`
}

const maxBodyBytes = 1_048_576

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func successResponse(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	if err := writeJSON(w, status, envelope{Success: true, Message: message, Data: data}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, code services.ErrorCode, message string) {
	env := envelope{Error: &apiError{Code: code, Message: message}}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.Default().Error("failed to write error response",
			slog.String("path", r.URL.Path), slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Default().Error("internal server error",
		slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.Any("error", err))
	errorResponse(w, r, http.StatusInternalServerError, services.CodeInternal,
		"the server encountered a problem and could not process your request")
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, services.CodeInvalidArgument, err.Error())
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, services.CodeUnauthenticated, message)
}

var statusByCode = map[services.ErrorCode]int{
	services.CodeInvalidArgument:    http.StatusBadRequest,
	services.CodeUnauthenticated:    http.StatusUnauthorized,
	services.CodePermissionDenied:   http.StatusForbidden,
	services.CodeNotFound:           http.StatusNotFound,
	services.CodeFailedPrecondition: http.StatusConflict,
	services.CodeInternal:           http.StatusInternalServerError,
}

// mapServiceErrorToHTTP writes the response for an error returned by a
// service. Uncoded errors become an opaque 500.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	var coded *services.Error
	if !errors.As(err, &coded) {
		serverErrorResponse(w, r, err)
		return
	}

	status, ok := statusByCode[coded.Code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		slog.Default().Error("service error",
			slog.String("method", r.Method), slog.String("path", r.URL.Path),
			slog.String("code", string(coded.Code)), slog.Any("error", err))
	}
	errorResponse(w, r, status, coded.Code, coded.Message)
}

// currentUser returns the authenticated caller or writes a 401.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return "", false
	}
	return userID, true
}

func getIDFromURL(r *http.Request, paramName string) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, paramName))
	if id == "" {
		return "", fmt.Errorf("missing %s in URL path", paramName)
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def, min int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min {
		return 0, fmt.Errorf("invalid %s query parameter", name)
	}
	return v, nil
}
