// Package httputil holds the JSON envelope and error writers shared by the HTTP handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/jannathh/Scentify-Project/pkg/errors"
	"github.com/jannathh/Scentify-Project/pkg/logger"
	"github.com/jannathh/Scentify-Project/pkg/validator"
)

// Response is the JSON envelope returned by every endpoint.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse is the error half of the envelope.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Redirect  string            `json:"redirect,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData wraps v in the envelope's data field.
func WriteData(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, Response{Data: v})
}

// WriteError maps err to a status and error code. AppErrors keep their own code
// and message; anything unrecognised becomes a logged 500 with a generic message.
// The request-scoped logger is preferred over fallback when one is mounted.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}
	requestID := logger.CorrelationIDFromContext(r.Context())

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:      "VALIDATION_ERROR",
				Message:   "request validation failed",
				Fields:    valErr.Fields(),
				RequestID: requestID,
			},
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	resp := &ErrorResponse{RequestID: requestID}

	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		resp.Code, resp.Message = appErr.Code, appErr.Message
	case errors.Is(err, apperrors.ErrNotFound):
		resp.Code, resp.Message = "NOT_FOUND", "resource not found"
	case errors.Is(err, apperrors.ErrInvalidInput):
		resp.Code, resp.Message = "INVALID_INPUT", err.Error()
	case errors.Is(err, apperrors.ErrUnavailable):
		resp.Code, resp.Message = "UNAVAILABLE", "service unavailable"
	default:
		resp.Code, resp.Message = "INTERNAL_ERROR", "an internal error occurred"
	}

	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.Int("status", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, Response{Error: resp})
}

// WriteRequestError reports a DecodeAndValidate failure: field messages for
// validation errors, INVALID_INPUT for malformed JSON.
func WriteRequestError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteError(w, r, err, nil)
		return
	}
	WriteJSON(w, http.StatusBadRequest, Response{
		Error: &ErrorResponse{
			Code:      "INVALID_INPUT",
			Message:   "request body must be valid JSON",
			RequestID: logger.CorrelationIDFromContext(r.Context()),
		},
	})
}

// WriteRedirect answers a request for a protected resource by pointing the
// client at target: 401 with a Location header and the target in the body.
func WriteRedirect(w http.ResponseWriter, r *http.Request, target string) {
	w.Header().Set("Location", target)
	WriteJSON(w, http.StatusUnauthorized, Response{
		Error: &ErrorResponse{
			Code:      "UNAUTHORIZED",
			Message:   "sign in to continue",
			Redirect:  target,
			RequestID: logger.CorrelationIDFromContext(r.Context()),
		},
	})
}

// ParseIntParam parses a positive integer path or query value. On failure it
// writes a 400 INVALID_PARAMETER response and returns false.
func ParseIntParam(w http.ResponseWriter, name, raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:    "INVALID_PARAMETER",
				Message: "invalid " + name + ": " + raw,
			},
		})
		return 0, false
	}
	return n, true
}
