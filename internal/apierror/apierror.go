// Package apierror defines errors that are safe to show to API clients.
package apierror

import (
	"errors"
	"net/http"

	"github.com/dtroode/contactbook-server/internal/model"
)

// APIError is a user-facing failure carrying the HTTP status it maps to.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying domain error for errors.Is checks.
func (e *APIError) Unwrap() error {
	return e.Err
}

func New(status int, message string, err error) *APIError {
	return &APIError{Status: status, Message: message, Err: err}
}

// As extracts an APIError from err's chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func NewErrAccountExists() *APIError {
	return New(http.StatusConflict, "Account already exists", model.ErrAlreadyExists)
}

func NewErrInvalidUsername() *APIError {
	return New(http.StatusUnauthorized, "Invalid username", model.ErrUnknownUser)
}

func NewErrInvalidPassword() *APIError {
	return New(http.StatusUnauthorized, "Invalid password", model.ErrBadCredentials)
}

func NewErrEmailNotConfirmed() *APIError {
	return New(http.StatusUnauthorized, "Email wasn't confirmed", model.ErrEmailNotConfirmed)
}

func NewErrInvalidRefreshToken(err error) *APIError {
	return New(http.StatusUnauthorized, "Invalid or expired refresh token", err)
}

func NewErrInvalidToken(err error) *APIError {
	return New(http.StatusUnauthorized, "Invalid token", err)
}

func NewErrNotAuthenticated() *APIError {
	return New(http.StatusUnauthorized, "Not authenticated", model.ErrInvalidToken)
}

func NewErrUserNotFound() *APIError {
	return New(http.StatusUnauthorized, "User not found", model.ErrNotFound)
}

func NewErrVerification() *APIError {
	return New(http.StatusBadRequest, "Verification error", model.ErrVerification)
}

func NewErrAlreadyConfirmed() *APIError {
	return New(http.StatusBadRequest, "Your email has already been confirmed", model.ErrAlreadyConfirmed)
}

func NewErrForbidden() *APIError {
	return New(http.StatusForbidden, "No access rights", model.ErrForbidden)
}

func NewErrContactNotFound() *APIError {
	return New(http.StatusNotFound, "Contact not found", model.ErrNotFound)
}

func NewErrValidation(message string) *APIError {
	return New(http.StatusUnprocessableEntity, message, nil)
}

func NewErrBadRequest(message string) *APIError {
	return New(http.StatusBadRequest, message, nil)
}

func NewErrTooManyRequests() *APIError {
	return New(http.StatusTooManyRequests, "The request limit has been exceeded. Please try again later.", nil)
}
