package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Public messages shared by the API surface.
const (
	MsgValidation      = "Erreur de validation"
	MsgUnauthenticated = "Non autorisé"
	MsgInvalidToken    = "Token invalide"
	MsgForbidden       = "Accès interdit"
	MsgRateLimited     = "Trop de requêtes, veuillez réessayer plus tard"
	MsgInternal        = "Erreur interne du serveur"
)

// FieldError is a single (field path, message) pair from input validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    []FieldError
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details []FieldError) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(details ...FieldError) error {
	return NewDomainError("VALIDATION_FAILED", MsgValidation, http.StatusBadRequest, details)
}

// NewBadRequest reports a malformed request that is not tied to a specific field.
func NewBadRequest(message string) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, nil)
}

func NewNotFound(message string) error {
	return NewDomainError("NOT_FOUND", message, http.StatusNotFound, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

// NewConflict reports a unique-constraint clash. It is a client error with a
// domain-specific message, so it renders as 400.
func NewConflict(message string) error {
	return NewDomainError("CONFLICT", message, http.StatusBadRequest, nil)
}

// NewRateLimited reports a caller over its request budget.
func NewRateLimited() error {
	return NewDomainError("RATE_LIMITED", MsgRateLimited, http.StatusTooManyRequests, nil)
}

// NewServerError wraps an unexpected failure. Only message reaches the caller;
// err is kept for the operator log.
func NewServerError(err error, message string) error {
	if message == "" {
		message = MsgInternal
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return NewServerError(err, MsgInternal)
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewDomainError("NOT_FOUND", "Ressource introuvable", http.StatusNotFound, nil)
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    MsgInternal,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
