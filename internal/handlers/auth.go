// internal/handlers/auth.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
	"github.com/ammerola/pharmacy-be/internal/handlers/middleware"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	responder
	service ports.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service ports.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		responder: responder{logger: logger.With(slog.String("handler", "auth"))},
		service:   service,
	}
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.Registration
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	if _, err := h.service.Register(ctx, req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.respondText(w, http.StatusOK, "User registered successfully.")
}

// Login handles POST /login. The token is returned in the Authorization
// response header.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.Credentials
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	token, _, err := h.service.Login(ctx, req)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	w.Header().Set("Cache-Control", "no-store")
	h.respondText(w, http.StatusOK, "Login successful.")
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := middleware.SessionID(ctx)
	if !ok {
		h.respondError(ctx, w, domain.Unauthorized("Unauthorized"))
		return
	}

	if err := h.service.Logout(ctx, sessionID); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.respondText(w, http.StatusOK, "Logout successful.")
}
