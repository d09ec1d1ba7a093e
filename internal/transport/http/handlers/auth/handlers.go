package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/audit"
	"ems/internal/domain/auth"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
	Audit   *audit.Service
}

func NewHandler(service *auth.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Post("/request-reset", h.handleRequestReset)
		r.Post("/reset", h.handleReset)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/logout", h.handleLogout)
			r.Get("/profile", h.handleProfile)
			r.Post("/mfa/setup", h.handleMFASetup)
			r.Post("/mfa/enable", h.handleMFAEnable)
			r.Post("/mfa/disable", h.handleMFADisable)
		})
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		MFACode  string `json:"mfaCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	result, err := h.Service.Login(r.Context(), payload.Email, payload.Password, payload.MFACode)
	switch {
	case errors.Is(err, auth.ErrMFARequired):
		api.Fail(w, http.StatusUnauthorized, "mfa_required", "mfa code required", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, auth.ErrInvalidMFACode):
		api.Fail(w, http.StatusUnauthorized, "invalid_mfa_code", "invalid mfa code", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "login_failed", "login failed", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), result.User.ID, "auth.login", "user", result.User.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit auth.login failed", "err", err)
	}
	api.Success(w, map[string]any{"token": result.Token, "user": result.User}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Service.Logout(r.Context(), user.UserID, middleware.GetToken(r.Context())); err != nil {
		api.Fail(w, http.StatusInternalServerError, "logout_failed", "logout failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "logged out"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRequestReset(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Email == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "email is required", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.RequestReset(r.Context(), payload.Email); err != nil {
		slog.Warn("password reset request failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "if the account exists, a reset email was sent"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Token == "" || len(payload.NewPassword) < 8 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "token and a password of at least 8 characters are required", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.ResetPassword(r.Context(), payload.Token, payload.NewPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidResetToken) {
			api.Fail(w, http.StatusBadRequest, "invalid_reset_token", "invalid or expired reset token", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "reset_failed", "password reset failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "password updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	profile, err := h.Service.Profile(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile_failed", "failed to load profile", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, profile, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMFASetup(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	profile, err := h.Service.Profile(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to set up mfa", middleware.GetRequestID(r.Context()))
		return
	}
	setup, err := h.Service.SetupMFA(r.Context(), user.UserID, profile.Email)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to set up mfa", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, setup, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMFAEnable(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Code == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "code is required", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.EnableMFA(r.Context(), user.UserID, payload.Code); err != nil {
		if errors.Is(err, auth.ErrInvalidMFACode) {
			api.Fail(w, http.StatusBadRequest, "invalid_mfa_code", "invalid mfa code", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "mfa_enable_failed", "failed to enable mfa", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "mfa enabled"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMFADisable(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Service.DisableMFA(r.Context(), user.UserID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_disable_failed", "failed to disable mfa", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "mfa disabled"}, middleware.GetRequestID(r.Context()))
}
