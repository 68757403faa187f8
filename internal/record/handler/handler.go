// Package handler exposes the record endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ireporter/internal/authz"
	"ireporter/internal/platform/metrics"
	"ireporter/internal/platform/middleware"
	"ireporter/internal/record/models"
	dErrors "ireporter/pkg/domain-errors"
	"ireporter/pkg/platform/httputil"
)

// Service defines the interface for record operations.
type Service interface {
	Create(ctx context.Context, principal authz.Principal, req *models.CreateRecordRequest) (*models.Record, error)
	List(ctx context.Context, principal authz.Principal, typ models.Type) ([]*models.Record, error)
	Get(ctx context.Context, principal authz.Principal, publicID string) (*models.Record, error)
	Update(ctx context.Context, principal authz.Principal, publicID string, req *models.UpdateRecordRequest) (*models.Record, error)
	UpdateStatus(ctx context.Context, principal authz.Principal, publicID string, req *models.UpdateStatusRequest) (*models.Record, error)
	Delete(ctx context.Context, principal authz.Principal, publicID string) error
}

// PrincipalResolver re-fetches the acting principal from the identity store
// on every request, so role changes apply immediately.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, publicID string) (authz.Principal, error)
}

// Handler handles record endpoints.
type Handler struct {
	logger      *slog.Logger
	records     Service
	principals  PrincipalResolver
	metrics     *metrics.Metrics
	validator   middleware.JWTValidator
	revocations middleware.RevocationChecker
}

// New creates a new record Handler.
func New(
	records Service,
	principals PrincipalResolver,
	logger *slog.Logger,
	m *metrics.Metrics,
	validator middleware.JWTValidator,
	revocations middleware.RevocationChecker,
) *Handler {
	return &Handler{
		logger:      logger,
		records:     records,
		principals:  principals,
		metrics:     m,
		validator:   validator,
		revocations: revocations,
	}
}

// Register registers the record routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(g chi.Router) {
		g.Use(middleware.Recovery(h.logger))
		g.Use(middleware.RequestID)
		g.Use(middleware.Tracing)
		g.Use(middleware.Logger(h.logger))
		g.Use(middleware.Timeout(30 * time.Second))
		g.Use(middleware.ContentTypeJSON)
		g.Use(middleware.Latency(h.metrics))
		g.Use(middleware.RequireAuth(h.validator, h.revocations, h.logger))

		g.Post("/records", h.handleCreate)
		g.Get("/records", h.handleList)
		g.Get("/records/{public_id}", h.handleGet)
		g.Patch("/records/{public_id}", h.handleUpdate)
		g.Patch("/records/{public_id}/status", h.handleUpdateStatus)
		g.Delete("/records/{public_id}", h.handleDelete)
	})
}

// principal resolves the authenticated user set by RequireAuth into a
// principal variant. A deleted account reads as unauthenticated.
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
	p, err := h.principals.ResolvePrincipal(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	return p, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	rec, err := h.records.Create(ctx, p, &req)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to create record")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, rec)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	typ := models.Type(r.URL.Query().Get("type"))
	recs, err := h.records.List(ctx, p, typ)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to list records")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, recs)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	rec, err := h.records.Get(ctx, p, chi.URLParam(r, "public_id"))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to load record")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	rec, err := h.records.Update(ctx, p, chi.URLParam(r, "public_id"), &req)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to update record")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	rec, err := h.records.UpdateStatus(ctx, p, chi.URLParam(r, "public_id"), &req)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to update record status")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	if err := h.records.Delete(ctx, p, chi.URLParam(r, "public_id")); err != nil {
		h.writeServiceError(ctx, w, err, "failed to delete record")
		return
	}
	w.WriteHeader(http.StatusNoContent)
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
