// Package handler exposes the auth and user endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ireporter/internal/authz"
	"ireporter/internal/identity/models"
	"ireporter/internal/platform/metrics"
	"ireporter/internal/platform/middleware"
	dErrors "ireporter/pkg/domain-errors"
	"ireporter/pkg/platform/httputil"
)

// Service defines the interface for identity operations.
type Service interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenPair, *models.User, error)
	Refresh(ctx context.Context, req *models.RefreshRequest) (*models.TokenPair, error)
	Logout(ctx context.Context, jti string) error
	VerifyEmail(ctx context.Context, verifyToken string) error
	ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error
	Profile(ctx context.Context, actorID string) (*models.User, error)
	ResolvePrincipal(ctx context.Context, publicID string) (authz.Principal, error)
	GetUser(ctx context.Context, principal authz.Principal, targetID string) (*models.User, error)
	UpdateProfile(ctx context.Context, principal authz.Principal, targetID string, req *models.UpdateProfileRequest) (*models.User, error)
	DeleteUser(ctx context.Context, principal authz.Principal, targetID string) error
}

// Handler handles auth and user endpoints.
type Handler struct {
	logger      *slog.Logger
	identity    Service
	metrics     *metrics.Metrics
	validator   middleware.JWTValidator
	revocations middleware.RevocationChecker
}

// New creates a new identity Handler.
func New(
	identity Service,
	logger *slog.Logger,
	m *metrics.Metrics,
	validator middleware.JWTValidator,
	revocations middleware.RevocationChecker,
) *Handler {
	return &Handler{
		logger:      logger,
		identity:    identity,
		metrics:     m,
		validator:   validator,
		revocations: revocations,
	}
}

// Register registers the auth and user routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	common := func(g chi.Router) {
		g.Use(middleware.Recovery(h.logger))
		g.Use(middleware.RequestID)
		g.Use(middleware.Tracing)
		g.Use(middleware.Logger(h.logger))
		g.Use(middleware.Timeout(30 * time.Second))
		g.Use(middleware.ContentTypeJSON)
		g.Use(middleware.Latency(h.metrics))
	}

	r.Group(func(public chi.Router) {
		common(public)
		public.Use(middleware.Device)
		public.Post("/auth/register", h.handleRegister)
		public.Post("/auth/login", h.handleLogin)
		public.Post("/auth/refresh", h.handleRefresh)
		public.Get("/auth/verify", h.handleVerifyEmail)
		public.Post("/auth/password/forgot", h.handleForgotPassword)
		public.Post("/auth/password/reset", h.handleResetPassword)
	})

	r.Group(func(protected chi.Router) {
		common(protected)
		protected.Use(middleware.RequireAuth(h.validator, h.revocations, h.logger))
		protected.Post("/auth/logout", h.handleLogout)
		protected.Get("/auth/user", h.handleProfile)
		protected.Get("/users/{public_id}", h.handleGetUser)
		protected.Put("/users/{public_id}", h.handleUpdateUser)
		protected.Delete("/users/{public_id}", h.handleDeleteUser)
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, err := h.identity.Register(ctx, &req)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to register user")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, user.Redacted())
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	pair, user, err := h.identity.Login(ctx, &req)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to log in user")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, struct {
		models.TokenPair
		User models.RedactedUser `json:"user"`
	}{TokenPair: *pair, User: user.Redacted()})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	pair, err := h.identity.Refresh(ctx, &req)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to refresh token")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pair)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jti := middleware.GetTokenID(ctx)
	if jti == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}
	if err := h.identity.Logout(ctx, jti); err != nil {
		h.writeServiceError(ctx, w, err, "failed to log out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	verifyToken := r.URL.Query().Get("token")
	if verifyToken == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "token is required"))
		return
	}
	if err := h.identity.VerifyEmail(ctx, verifyToken); err != nil {
		h.writeServiceError(ctx, w, err, "failed to verify email")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

func (h *Handler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.identity.ForgotPassword(ctx, &req); err != nil {
		h.writeServiceError(ctx, w, err, "failed to queue password reset")
		return
	}
	// Same response whether or not the email is registered.
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.identity.ResetPassword(ctx, &req); err != nil {
		h.writeServiceError(ctx, w, err, "failed to reset password")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.GetUserID(ctx)
	if userID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}
	user, err := h.identity.Profile(ctx, userID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to load profile")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user.Redacted())
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	user, err := h.identity.GetUser(ctx, p, chi.URLParam(r, "public_id"))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to load user")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user.Redacted())
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, err := h.identity.UpdateProfile(ctx, p, chi.URLParam(r, "public_id"), &req)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to update user")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user.Redacted())
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	if err := h.identity.DeleteUser(ctx, p, chi.URLParam(r, "public_id")); err != nil {
		h.writeServiceError(ctx, w, err, "failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (authz.Principal, bool) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		h.logger.ErrorContext(ctx, "user id missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return nil, false
	}
	p, err := h.identity.ResolvePrincipal(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	return p, true
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
