// Package response writes JSON bodies and API errors.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/dtroode/contactbook-server/internal/apierror"
	"github.com/dtroode/contactbook-server/internal/logger"
)

// ErrorBody is the body of every error response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// MessageBody is the body of plain status responses.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NoStore marks the response as not cacheable. Used for token responses.
func NoStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// Message writes {"message": msg} with status 200.
func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, MessageBody{Message: msg})
}

// Error maps err to a status and writes {"detail": ...}. Errors that are not
// an APIError are logged and reported as 500.
func Error(w http.ResponseWriter, err error, log *logger.Logger) {
	if apiErr, ok := apierror.As(err); ok {
		JSON(w, apiErr.Status, ErrorBody{Detail: apiErr.Message})
		return
	}

	log.Error("unhandled error", "error", err.Error())
	JSON(w, http.StatusInternalServerError, ErrorBody{Detail: "internal server error"})
}
