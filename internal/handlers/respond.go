// internal/handlers/respond.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
)

const (
	textContentType = "text/plain; charset=utf-8"
	maxBodyBytes    = 1 << 20

	genericErrorMessage = "An unexpected error occurred"
)

// responder writes the plain text, JSON and error responses shared by every
// handler.
type responder struct {
	logger *slog.Logger
}

func (h responder) respondText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", textContentType)
	w.WriteHeader(status)
	io.WriteString(w, message)
}

func (h responder) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

// respondError maps err onto a status and an `Error: {message}` body, with
// the machine-readable code in X-Error-Code. Errors without a client message
// are logged and answered generically.
func (h responder) respondError(ctx context.Context, w http.ResponseWriter, err error) {
	code := domain.Code(err)
	w.Header().Set("X-Error-Code", code)

	message, ok := domain.Message(err)
	if !ok {
		h.logger.ErrorContext(ctx, "request failed",
			slog.String("error", err.Error()))
		message = genericErrorMessage
	}

	if errors.Is(err, domain.ErrUnauthorized) {
		h.respondText(w, http.StatusUnauthorized, message)
		return
	}
	h.respondText(w, http.StatusBadRequest, "Error: "+message)
}

// decodeJSON reads a JSON request body into dst
func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return domain.Invalid("Invalid request body")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("Invalid request body")
	}
	return nil
}

// pathID parses the named path value as a UUID
func pathID(r *http.Request, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domain.Invalid("Invalid " + label + " ID format")
	}
	return id, nil
}

// optionalID parses an ID sent in a request body. An empty value yields
// uuid.Nil so the service reports the field as missing.
func optionalID(value, label string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, domain.Invalid("Invalid " + label + " ID format")
	}
	return id, nil
}
