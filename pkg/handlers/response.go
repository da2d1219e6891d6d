package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/fguintu/FlySQL/pkg/apperrors"
)

// maxBodyBytes caps request bodies; ad-hoc SQL is never this large.
const maxBodyBytes = 1 << 20

// ErrorResponse writes {"error": message} and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// decodeJSON reads a JSON request body into dst. Failures are returned as
// *apperrors.ValidationError.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewValidationError(errors.New("invalid request body"))
	}
	return nil
}

// writeError maps the error taxonomy to a response: client errors are 400
// with their message, anything else is a 500 with a generic message.
func writeError(w http.ResponseWriter, err error, logger *zap.Logger) {
	status := http.StatusBadRequest
	message := err.Error()

	var execErr *apperrors.QueryExecutionError
	switch {
	case errors.As(err, &execErr):
		logger.Info("Query execution failed",
			zap.String("error", message),
			zap.Bool("retryable", execErr.Retryable))
	case apperrors.IsClientError(err):
	default:
		logger.Error("Unhandled error", zap.Error(err))
		status = http.StatusInternalServerError
		message = "internal server error"
	}

	if err := ErrorResponse(w, status, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}
