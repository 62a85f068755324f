package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/we-whacked/reviews-api/internal/app/caches"
	"github.com/we-whacked/reviews-api/internal/app/reviews"
)

type errorBody struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	body := errorResponse{Error: errorBody{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: middleware.GetReqID(r.Context()),
	}}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// handleServiceError maps application errors to HTTP responses. Anything
// unrecognized (persistence failures included) surfaces as a 500 without
// leaking internals.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if ae := (*reviews.Error)(nil); errors.As(err, &ae) {
		writeError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}
	if ce := (*caches.NotFoundError)(nil); errors.As(err, &ce) {
		writeError(w, r, http.StatusNotFound, "CACHE_NOT_FOUND", ce.Error(), nil)
		return
	}
	log.Printf("internal error: %v (request_id=%s)", err, middleware.GetReqID(r.Context()))
	writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
}
