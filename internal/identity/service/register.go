package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"ireporter/internal/identity/models"
	"ireporter/internal/identity/password"
	"ireporter/internal/notify"
	"ireporter/internal/token"
	dErrors "ireporter/pkg/domain-errors"
	"ireporter/pkg/platform/sentinel"
)

const verifyTokenTTL = 24 * time.Hour

// Register creates a user, classifying it as admin iff the email domain
// matches the configured organization domain and the submitted worker id is
// on the allow-list. Worker ids submitted by regular citizens are discarded,
// never persisted.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	isAdmin := strings.HasSuffix(req.Email, "@"+s.policy.EmailDomain)
	workerID := ""
	if isAdmin {
		if req.WorkerID == "" || !slices.Contains(s.policy.WorkerIDs, req.WorkerID) {
			return nil, dErrors.New(dErrors.CodeValidation, "invalid worker id for organization email")
		}
		workerID = req.WorkerID
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		PublicID:     uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		WorkerID:     workerID,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	verifyToken, err := s.tokens.IssuePurpose(user.PublicID, token.PurposeVerify, verifyTokenTTL)
	if err == nil {
		err = s.outbox.Append(ctx, notify.Event{
			Kind:      notify.KindVerifyEmail,
			Recipient: user.Email,
			Token:     verifyToken,
		})
	}
	if err != nil {
		// Compensate the insert so registration never ends half-created: no
		// user row without a queued verification mail.
		if delErr := s.users.Delete(ctx, user.PublicID); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to compensate user after outbox error",
				"user_id", user.PublicID,
				"error", delErr,
			)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to queue verification email")
	}

	s.metrics.IncUsersRegistered()
	s.metrics.IncNotificationsEnqueued()
	s.logger.InfoContext(ctx, "user registered",
		"user_id", user.PublicID,
		"is_admin", user.IsAdmin,
	)
	return user, nil
}
