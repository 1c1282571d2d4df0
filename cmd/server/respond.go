package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/printdesk/internal/inventory"
	"github.com/Simplici0/printdesk/internal/products"
	"github.com/Simplici0/printdesk/internal/quotes"
	"github.com/Simplici0/printdesk/internal/shopify"
	"github.com/Simplici0/printdesk/internal/validate"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// respondJSON marshals v before writing the header so an encoding failure
// still produces a well-formed 500.
func respondJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Success: false, Error: "internal error"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Success: false, Error: msg})
}

// respondError maps domain errors to a status code. Unknown errors are
// logged and reported as a generic 500.
func (s *server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *shopify.APIError
	switch {
	case validate.IsValidation(err):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, inventory.ErrNotFound),
		errors.Is(err, quotes.ErrNotFound),
		errors.Is(err, products.ErrNotFound):
		respondMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shopify.ErrNotConfigured),
		errors.Is(err, shopify.ErrBadPayload):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &apiErr):
		s.log.Warn("shopify api error",
			zap.Int("status", apiErr.StatusCode),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
		respondMessage(w, http.StatusBadGateway, err.Error())
	default:
		s.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		respondMessage(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads a JSON request body into dst. Failures are returned as
// validation errors so they surface as 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &validate.Error{Field: "body", Message: "is required"}
		}
		return &validate.Error{Field: "body", Message: fmt.Sprintf("is not valid JSON: %v", err)}
	}
	return nil
}

func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &validate.Error{Field: "id", Message: fmt.Sprintf("%q is not a valid id", raw)}
	}
	return id, nil
}
