package apperrors

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrProviderUnavailable indicates the external rate provider call failed or
// returned an unsuccessful or malformed response.
var ErrProviderUnavailable = errors.New("rate provider unavailable")

// ErrMissingCurrencyRate indicates a rate for a supported currency was absent or unusable.
var ErrMissingCurrencyRate = errors.New("missing currency rate")

// ErrNoCacheAvailable indicates no rate snapshot has ever been cached.
var ErrNoCacheAvailable = errors.New("no cached rates available")

// ErrInvalidCurrencyPair indicates a conversion was requested for an unsupported currency code.
var ErrInvalidCurrencyPair = errors.New("invalid currency pair")

// ErrRefreshInProgress indicates a rate refresh was triggered while another one is running.
var ErrRefreshInProgress = errors.New("rate refresh already in progress")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError builds an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewValidationError builds an AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}
