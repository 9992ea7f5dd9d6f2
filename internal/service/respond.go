package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/mmynk/medialog/internal/errors"
	"github.com/mmynk/medialog/internal/storage"
)

const maxBodyBytes = 1 << 20

// errorsBody is the API's error shape: one message per problem.
type errorsBody struct {
	Errors []string `json:"errors"`
}

// errorBody is the shape used for authentication failures.
type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

// writeError maps err to a status and writes the matching error body.
// Coded errors keep their messages; anything else is a 500 and is logged.
func writeError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var appErr *apperrors.Error
	switch {
	case errors.As(err, &appErr):
		if appErr.Code == apperrors.CodeUnauthorized {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: appErr.Message}, logger)
			return
		}
		writeJSON(w, appErr.HTTPStatus(), errorsBody{Errors: appErr.List()}, logger)
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorsBody{Errors: []string{"Not found"}}, logger)
	default:
		logger.Error("Unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorsBody{Errors: []string{"Internal server error"}}, logger)
	}
}

// decode reads a JSON body into dst and validates it.
func (d *deps) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Validation("Request body must be valid JSON")
	}
	return d.validator.Validate(dst)
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation(fmt.Sprintf("Invalid %s", name))
	}
	return id, nil
}
