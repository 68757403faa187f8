package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"ireporter/internal/authz"
	"ireporter/internal/media/models"
	recordmodels "ireporter/internal/record/models"
	dErrors "ireporter/pkg/domain-errors"
	"ireporter/pkg/platform/sentinel"
	"ireporter/pkg/requestcontext"
)

// UploadInput carries one incoming file.
type UploadInput struct {
	RecordID    string
	Kind        models.Kind
	ContentType string
	Size        int64
	Body        io.Reader
}

// MaxUploadBytes caps a single attachment. The HTTP layer enforces it on the
// wire as well, before the multipart body is parsed.
const MaxUploadBytes = 50 << 20

// Upload stores a file for a record the principal owns. The declared kind
// must match the uploaded MIME type.
func (s *Service) Upload(ctx context.Context, principal authz.Principal, in UploadInput) (*models.Media, error) {
	if err := validateUpload(in); err != nil {
		return nil, err
	}

	rec, err := s.fetchRecord(ctx, in.RecordID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanAttachMedia(principal, rec.OwnerID); err != nil {
		return nil, err
	}

	m := &models.Media{
		PublicID:    uuid.NewString(),
		RecordID:    rec.PublicID,
		UploaderID:  principal.PublicID(),
		Kind:        in.Kind,
		ObjectKey:   objectKey(rec.PublicID, in.ContentType),
		ContentType: in.ContentType,
		CreatedAt:   time.Now().UTC(),
	}
	m.URL, err = s.uploader.Upload(ctx, m.ObjectKey, in.Body, in.Size, in.ContentType)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store file")
	}
	if err := s.media.Create(ctx, m); err != nil {
		// Compensate the stored object so no orphan survives a failed insert.
		if rmErr := s.uploader.Remove(ctx, m.ObjectKey); rmErr != nil {
			s.logger.ErrorContext(ctx, "failed to remove object after insert error",
				"object_key", m.ObjectKey,
				"error", rmErr,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save attachment")
	}

	s.metrics.IncMediaUploads(string(m.Kind))
	s.logger.InfoContext(ctx, "media uploaded",
		"media_id", m.PublicID,
		"record_id", m.RecordID,
		"kind", m.Kind,
		"request_id", requestcontext.RequestID(ctx),
	)
	return m, nil
}

// List returns a record's attachments of one kind, readable by the record
// owner or an admin.
func (s *Service) List(ctx context.Context, principal authz.Principal, recordID string, kind models.Kind) ([]*models.Media, error) {
	rec, err := s.fetchRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanReadRecord(principal, rec.OwnerID); err != nil {
		return nil, err
	}
	items, err := s.media.ListByRecord(ctx, recordID, kind)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list attachments")
	}
	return items, nil
}

// Get returns one attachment, readable by the record owner or an admin.
func (s *Service) Get(ctx context.Context, principal authz.Principal, kind models.Kind, mediaID string) (*models.Media, error) {
	m, err := s.fetchMedia(ctx, kind, mediaID)
	if err != nil {
		return nil, err
	}
	rec, err := s.fetchRecord(ctx, m.RecordID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanReadRecord(principal, rec.OwnerID); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes one attachment. Only the uploader may delete; there is no
// admin override.
func (s *Service) Delete(ctx context.Context, principal authz.Principal, kind models.Kind, mediaID string) error {
	m, err := s.fetchMedia(ctx, kind, mediaID)
	if err != nil {
		return err
	}
	if err := authz.CanDeleteMedia(principal, m.UploaderID); err != nil {
		return err
	}
	if err := s.media.Delete(ctx, m.PublicID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "attachment not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete attachment")
	}
	// The row is gone; a stale object is only logged.
	if err := s.uploader.Remove(ctx, m.ObjectKey); err != nil {
		s.logger.WarnContext(ctx, "failed to remove stored object",
			"object_key", m.ObjectKey,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return nil
}

// ReplaceVideo swaps the stored file of an existing video. Uploader only.
func (s *Service) ReplaceVideo(ctx context.Context, principal authz.Principal, mediaID string, in UploadInput) (*models.Media, error) {
	if in.Kind != models.KindVideo {
		return nil, dErrors.New(dErrors.CodeValidation, "only videos can be replaced")
	}
	if err := validateUpload(in); err != nil {
		return nil, err
	}

	m, err := s.fetchMedia(ctx, models.KindVideo, mediaID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanDeleteMedia(principal, m.UploaderID); err != nil {
		return nil, err
	}

	oldKey := m.ObjectKey
	m.ObjectKey = objectKey(m.RecordID, in.ContentType)
	m.ContentType = in.ContentType
	m.URL, err = s.uploader.Upload(ctx, m.ObjectKey, in.Body, in.Size, in.ContentType)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store file")
	}
	if err := s.media.Update(ctx, m); err != nil {
		if rmErr := s.uploader.Remove(ctx, m.ObjectKey); rmErr != nil {
			s.logger.ErrorContext(ctx, "failed to remove object after update error",
				"object_key", m.ObjectKey,
				"error", rmErr,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "attachment not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save attachment")
	}
	if err := s.uploader.Remove(ctx, oldKey); err != nil {
		s.logger.WarnContext(ctx, "failed to remove replaced object",
			"object_key", oldKey,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return m, nil
}

// PurgeRecord removes every attachment row and stored object belonging to a
// record. The record service calls it while deleting the parent, so it runs
// before the record row goes away. Row removal must succeed; a stale object
// is only logged.
func (s *Service) PurgeRecord(ctx context.Context, recordID string) error {
	items, err := s.media.ListByRecord(ctx, recordID, "")
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list attachments")
	}
	for _, m := range items {
		if err := s.media.Delete(ctx, m.PublicID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete attachment")
		}
		if err := s.uploader.Remove(ctx, m.ObjectKey); err != nil {
			s.logger.WarnContext(ctx, "failed to remove stored object",
				"object_key", m.ObjectKey,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
	return nil
}

func validateUpload(in UploadInput) error {
	if in.Body == nil || in.Size == 0 {
		return dErrors.New(dErrors.CodeValidation, "file is required")
	}
	if in.Size > MaxUploadBytes {
		return dErrors.New(dErrors.CodeValidation, "file exceeds the 50MB limit")
	}
	kind, err := models.KindForContentType(in.ContentType)
	if err != nil {
		return err
	}
	if kind != in.Kind {
		return dErrors.New(dErrors.CodeValidation, "content type does not match the upload kind")
	}
	return nil
}

func (s *Service) fetchRecord(ctx context.Context, recordID string) (*recordmodels.Record, error) {
	rec, err := s.records.FindByPublicID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load record")
	}
	return rec, nil
}

// fetchMedia hides attachments of the wrong kind behind not found, so the
// image and video endpoints stay disjoint.
func (s *Service) fetchMedia(ctx context.Context, kind models.Kind, mediaID string) (*models.Media, error) {
	m, err := s.media.FindByPublicID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "attachment not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load attachment")
	}
	if kind != "" && m.Kind != kind {
		return nil, dErrors.New(dErrors.CodeNotFound, "attachment not found")
	}
	return m, nil
}

func objectKey(recordID, contentType string) string {
	ext := ""
	if i := strings.LastIndex(contentType, "/"); i >= 0 && i < len(contentType)-1 {
		ext = "." + contentType[i+1:]
	}
	return recordID + "/" + uuid.NewString() + ext
}
