// internal/core/domain/errors.go
package domain

import (
	"errors"
)

// Error kinds shared by every service. Callers test them with errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
)

// Error carries a client-facing message together with its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Invalid returns an ErrInvalidInput error with the given message.
func Invalid(message string) error {
	return &Error{Kind: ErrInvalidInput, Message: message}
}

// NotFound returns an ErrNotFound error with the given message.
func NotFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// Conflict returns an ErrConflict error with the given message.
func Conflict(message string) error {
	return &Error{Kind: ErrConflict, Message: message}
}

// Unauthorized returns an ErrUnauthorized error with the given message.
func Unauthorized(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

// InsufficientStock is returned whenever a sale would drive stock below zero.
func InsufficientStock() error {
	return &Error{Kind: ErrInsufficientStock, Message: "Not enough units available in stock"}
}

// Code maps an error onto the machine-readable code sent to clients.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "internal"
	}
}

// Message extracts the client-facing message of err, if it has one.
func Message(err error) (string, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Message, true
	}
	return "", false
}
