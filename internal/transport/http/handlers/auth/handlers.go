package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"onboarding/internal/domain/auth"
	"onboarding/internal/transport/http/api"
	"onboarding/internal/transport/http/middleware"
	"onboarding/internal/transport/http/shared"
)

type Handler struct {
	Auth *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{Auth: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
	r.With(middleware.RequireAuth).Get("/me", h.HandleMe)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("email", payload.Email, "is required")
	v.Required("password", payload.Password, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	user, err := h.Auth.Authenticate(payload.Email, payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		slog.Warn("login failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "login_failed", "login failed", middleware.GetRequestID(r.Context()))
		return
	}

	token, err := h.Auth.IssueToken(user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"token": token, "user": user}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	user, ok := h.Auth.Lookup(current.UserID)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "unknown user", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"user":        user,
		"permissions": auth.RolePermissions[user.RoleName],
	}, middleware.GetRequestID(r.Context()))
}
