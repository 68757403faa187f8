package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ireporter/internal/authz"
	"ireporter/internal/record/models"
	"ireporter/internal/record/store/record"
	dErrors "ireporter/pkg/domain-errors"
	"ireporter/pkg/platform/sentinel"
	"ireporter/pkg/requestcontext"
)

// Create stores a new record owned by the principal. Status always starts
// at the initial state regardless of input.
func (s *Service) Create(ctx context.Context, principal authz.Principal, req *models.CreateRecordRequest) (*models.Record, error) {
	if principal == nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rec := &models.Record{
		PublicID:    uuid.NewString(),
		OwnerID:     principal.PublicID(),
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Status:      models.StatusUnderInvestigation,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create record")
	}

	s.metrics.IncRecordsCreated(string(rec.Type))
	s.logger.InfoContext(ctx, "record created",
		"record_id", rec.PublicID,
		"type", rec.Type,
		"request_id", requestcontext.RequestID(ctx),
	)
	return rec, nil
}

// List returns the principal's own records; admins see every record. The
// optional type filter narrows either view.
func (s *Service) List(ctx context.Context, principal authz.Principal, typ models.Type) ([]*models.Record, error) {
	if principal == nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if typ != "" && !typ.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "type must be red-flag or intervention")
	}
	f := record.Filter{Type: typ}

	var (
		recs []*models.Record
		err  error
	)
	if authz.CanListAll(principal) == nil {
		recs, err = s.records.ListAll(ctx, f)
	} else {
		recs, err = s.records.ListByOwner(ctx, principal.PublicID(), f)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list records")
	}
	return recs, nil
}

// Get returns one record. Existence is checked before entitlement, so a
// missing id reads as not found for everyone.
func (s *Service) Get(ctx context.Context, principal authz.Principal, publicID string) (*models.Record, error) {
	rec, err := s.fetch(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanReadRecord(principal, rec.OwnerID); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update applies owner edits to content fields. Status is never touched
// here; the ownership and initial-status conditions both gate as Forbidden.
func (s *Service) Update(ctx context.Context, principal authz.Principal, publicID string, req *models.UpdateRecordRequest) (*models.Record, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.fetch(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanEditRecord(principal, rec.OwnerID, rec.Status.IsInitial()); err != nil {
		return nil, err
	}

	if req.Title != nil {
		rec.Title = *req.Title
	}
	if req.Description != nil {
		rec.Description = *req.Description
	}
	if req.Location != nil {
		rec.Location = *req.Location
	}
	if err := s.records.Update(ctx, rec); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update record")
	}
	return rec, nil
}

// Delete removes a record together with its attached media and their
// stored objects.
func (s *Service) Delete(ctx context.Context, principal authz.Principal, publicID string) error {
	rec, err := s.fetch(ctx, publicID)
	if err != nil {
		return err
	}
	if err := authz.CanDeleteRecord(principal, rec.OwnerID); err != nil {
		return err
	}
	// Attachments go first: once the record row is gone a DB cascade would
	// drop the media rows and their object keys with them.
	if s.attachments != nil {
		if err := s.attachments.PurgeRecord(ctx, publicID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete record attachments")
		}
	}
	if err := s.records.Delete(ctx, publicID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "record not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete record")
	}
	s.logger.InfoContext(ctx, "record deleted",
		"record_id", publicID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

func (s *Service) fetch(ctx context.Context, publicID string) (*models.Record, error) {
	rec, err := s.records.FindByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load record")
	}
	return rec, nil
}
