// Package http provides HTTP utilities including chi-compatible error handling
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/chainsafe/nft-minter/pkg/app/errors"
)

// HandlerFunc defines a function that returns an error for clean error handling
type HandlerFunc func(http.ResponseWriter, *http.Request) error

type errorResponse struct {
	ErrMsg     string `json:"error"`
	ErrMsgCode int    `json:"code"`
	Details    any    `json:"details,omitempty"`
}

// HandleError wraps an error-returning HandlerFunc into a standard http.HandlerFunc
// This allows using clean error-returning handlers with any router (chi, http.ServeMux, etc.)
//
// Usage with chi:
//
//	r.Post("/mints", http.HandleError(handler.submit))
func HandleError(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			DefaultErrorHandler(w, err)
		}
	}
}

// DefaultErrorHandler renders err as {"error", "code", "details"}.
// Only ServiceError messages reach the client; anything else is reported generically.
func DefaultErrorHandler(w http.ResponseWriter, err error) {
	var svcErr *apperrors.ServiceError
	switch {
	case errors.As(err, &svcErr):
	case errors.Is(err, context.DeadlineExceeded):
		svcErr = apperrors.New(apperrors.CategoryConnectionTimeout, err, "Request timed out")
	default:
		svcErr = apperrors.New(apperrors.CategoryGeneralError, err, "Unexpected Service Error")
	}

	status := svcErr.StatusCode()
	_ = WriteJSON(w, status, &errorResponse{
		ErrMsg:     svcErr.Message,
		ErrMsgCode: status,
		Details:    svcErr.Details,
	})
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
