// Package handler exposes the image and video endpoints. Uploads are
// multipart, so this router skips the JSON content-type gate.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ireporter/internal/authz"
	"ireporter/internal/media/models"
	"ireporter/internal/media/service"
	"ireporter/internal/platform/metrics"
	"ireporter/internal/platform/middleware"
	dErrors "ireporter/pkg/domain-errors"
	"ireporter/pkg/platform/httputil"
)

// Service defines the interface for attachment operations.
type Service interface {
	Upload(ctx context.Context, principal authz.Principal, in service.UploadInput) (*models.Media, error)
	List(ctx context.Context, principal authz.Principal, recordID string, kind models.Kind) ([]*models.Media, error)
	Get(ctx context.Context, principal authz.Principal, kind models.Kind, mediaID string) (*models.Media, error)
	Delete(ctx context.Context, principal authz.Principal, kind models.Kind, mediaID string) error
	ReplaceVideo(ctx context.Context, principal authz.Principal, mediaID string, in service.UploadInput) (*models.Media, error)
}

// PrincipalResolver re-fetches the acting principal from the identity store
// on every request.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, publicID string) (authz.Principal, error)
}

// Handler handles attachment endpoints.
type Handler struct {
	logger      *slog.Logger
	media       Service
	principals  PrincipalResolver
	metrics     *metrics.Metrics
	validator   middleware.JWTValidator
	revocations middleware.RevocationChecker
}

// New creates a new media Handler.
func New(
	media Service,
	principals PrincipalResolver,
	logger *slog.Logger,
	m *metrics.Metrics,
	validator middleware.JWTValidator,
	revocations middleware.RevocationChecker,
) *Handler {
	return &Handler{
		logger:      logger,
		media:       media,
		principals:  principals,
		metrics:     m,
		validator:   validator,
		revocations: revocations,
	}
}

// Register registers the media routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(g chi.Router) {
		g.Use(middleware.Recovery(h.logger))
		g.Use(middleware.RequestID)
		g.Use(middleware.Tracing)
		g.Use(middleware.Logger(h.logger))
		g.Use(middleware.Timeout(120 * time.Second))
		g.Use(middleware.Latency(h.metrics))
		g.Use(middleware.RequireAuth(h.validator, h.revocations, h.logger))

		g.Post("/records/{public_id}/images", h.handleUpload(models.KindImage))
		g.Get("/records/{public_id}/images", h.handleList(models.KindImage))
		g.Get("/images/{media_id}", h.handleGet(models.KindImage))
		g.Delete("/images/{media_id}", h.handleDelete(models.KindImage))

		g.Post("/records/{public_id}/videos", h.handleUpload(models.KindVideo))
		g.Get("/records/{public_id}/videos", h.handleList(models.KindVideo))
		g.Get("/videos/{media_id}", h.handleGet(models.KindVideo))
		g.Delete("/videos/{media_id}", h.handleDelete(models.KindVideo))
		g.Put("/videos/{media_id}", h.handleReplaceVideo)
	})
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
	p, err := h.principals.ResolvePrincipal(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	return p, true
}

// maxRequestBytes bounds the whole multipart request. It leaves 1 MiB of
// headroom over the attachment cap for part headers and boundaries.
const maxRequestBytes = service.MaxUploadBytes + 1<<20

// formFile pulls the uploaded part out of the multipart body. The body is
// capped on the wire so an oversized upload fails before it is spooled.
func formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, nil, dErrors.New(dErrors.CodeValidation, "file exceeds the 50MB limit")
		}
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, dErrors.New(dErrors.CodeValidation, "file is required")
		}
		return nil, nil, dErrors.New(dErrors.CodeBadRequest, "invalid multipart body")
	}
	return file, header, nil
}

func (h *Handler) handleUpload(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		p, ok := h.principal(w, r)
		if !ok {
			return
		}

		file, header, err := formFile(w, r)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		defer file.Close()

		m, err := h.media.Upload(ctx, p, service.UploadInput{
			RecordID:    chi.URLParam(r, "public_id"),
			Kind:        kind,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		})
		if err != nil {
			h.writeServiceError(ctx, w, err, "failed to upload attachment")
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, m)
	}
}

func (h *Handler) handleList(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		p, ok := h.principal(w, r)
		if !ok {
			return
		}

		items, err := h.media.List(ctx, p, chi.URLParam(r, "public_id"), kind)
		if err != nil {
			h.writeServiceError(ctx, w, err, "failed to list attachments")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, items)
	}
}

func (h *Handler) handleGet(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		p, ok := h.principal(w, r)
		if !ok {
			return
		}

		m, err := h.media.Get(ctx, p, kind, chi.URLParam(r, "media_id"))
		if err != nil {
			h.writeServiceError(ctx, w, err, "failed to load attachment")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, m)
	}
}

func (h *Handler) handleDelete(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		p, ok := h.principal(w, r)
		if !ok {
			return
		}

		if err := h.media.Delete(ctx, p, kind, chi.URLParam(r, "media_id")); err != nil {
			h.writeServiceError(ctx, w, err, "failed to delete attachment")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) handleReplaceVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	file, header, err := formFile(w, r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	defer file.Close()

	m, err := h.media.ReplaceVideo(ctx, p, chi.URLParam(r, "media_id"), service.UploadInput{
		Kind:        models.KindVideo,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to replace video")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
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
