package service

import (
	"context"

	"ireporter/internal/authz"
	"ireporter/internal/notify"
	"ireporter/internal/record/models"
	dErrors "ireporter/pkg/domain-errors"
	"ireporter/pkg/requestcontext"
)

// UpdateStatus is the admin-only transition. Re-setting the same status is
// allowed; every successful write emits exactly one notification event to
// the record owner. Notification failures are logged, never rolled back.
func (s *Service) UpdateStatus(ctx context.Context, principal authz.Principal, publicID string, req *models.UpdateStatusRequest) (*models.Record, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.fetch(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanUpdateStatus(principal); err != nil {
		return nil, err
	}

	rec.Status = req.Status
	if err := s.records.Update(ctx, rec); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update record status")
	}
	s.metrics.IncStatusTransitions(string(rec.Status))
	s.logger.InfoContext(ctx, "record status updated",
		"record_id", rec.PublicID,
		"status", rec.Status,
		"request_id", requestcontext.RequestID(ctx),
	)

	s.notifyStatusChange(ctx, rec)
	return rec, nil
}

// notifyStatusChange queues the owner's email. The status write has already
// committed; failures here are only logged.
func (s *Service) notifyStatusChange(ctx context.Context, rec *models.Record) {
	owner, err := s.users.FindByPublicID(ctx, rec.OwnerID)
	if err != nil {
		s.metrics.IncNotificationsFailed()
		s.logger.WarnContext(ctx, "failed to resolve record owner for notification",
			"record_id", rec.PublicID,
			"owner_id", rec.OwnerID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}
	err = s.outbox.Append(ctx, notify.Event{
		Kind:      notify.KindStatusChange,
		Recipient: owner.Email,
		RecordID:  rec.PublicID,
		Status:    string(rec.Status),
	})
	if err != nil {
		s.metrics.IncNotificationsFailed()
		s.logger.WarnContext(ctx, "failed to queue status notification",
			"record_id", rec.PublicID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}
	s.metrics.IncNotificationsEnqueued()
}
