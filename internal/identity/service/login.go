package service

import (
	"context"
	"errors"
	"time"

	"ireporter/internal/identity/models"
	"ireporter/internal/identity/password"
	"ireporter/internal/notify"
	"ireporter/internal/token"
	dErrors "ireporter/pkg/domain-errors"
	"ireporter/pkg/platform/sentinel"
	"ireporter/pkg/requestcontext"
)

const resetTokenTTL = time.Hour

// Login verifies credentials and issues an access/refresh token pair scoped
// to the user's public id. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenPair, *models.User, error) {
	if req == nil {
		return nil, nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	if err := password.Verify(req.Password, user.PasswordHash); err != nil {
		return nil, nil, err
	}

	access, err := s.tokens.IssueAccess(user.PublicID)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue access token")
	}
	refresh, err := s.tokens.IssueRefresh(user.PublicID)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue refresh token")
	}

	s.logger.InfoContext(ctx, "user logged in",
		"user_id", user.PublicID,
		"device", requestcontext.Device(ctx),
	)
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, user, nil
}

// Refresh exchanges a valid refresh token for a new access token. The user
// is re-fetched so tokens for deleted accounts stop working immediately.
func (s *Service) Refresh(ctx context.Context, req *models.RefreshRequest) (*models.TokenPair, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	claims, err := s.tokens.Validate(req.RefreshToken, token.PurposeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByPublicID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	access, err := s.tokens.IssueAccess(user.PublicID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue access token")
	}
	return &models.TokenPair{AccessToken: access}, nil
}

// Logout revokes the presented access token by JTI for the remainder of its
// lifetime. A nil revocation list makes logout a no-op beyond client-side
// token disposal.
func (s *Service) Logout(ctx context.Context, jti string) error {
	if s.revoked == nil || jti == "" {
		return nil
	}
	if err := s.revoked.Revoke(ctx, jti, s.tokens.AccessTTL()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}
	return nil
}

// VerifyEmail marks the account verified based on a purpose-scoped token
// from the verification mail.
func (s *Service) VerifyEmail(ctx context.Context, verifyToken string) error {
	claims, err := s.tokens.Validate(verifyToken, token.PurposeVerify)
	if err != nil {
		return err
	}

	user, err := s.users.FindByPublicID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	if user.Verified {
		return nil
	}

	user.Verified = true
	if err := s.users.Update(ctx, user); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
	}
	return nil
}

// ForgotPassword queues a reset mail. Unknown addresses succeed silently so
// the endpoint cannot be used to probe registered emails.
func (s *Service) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error {
	if req == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.InfoContext(ctx, "password reset requested for unknown email")
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	resetToken, err := s.tokens.IssuePurpose(user.PublicID, token.PurposeReset, resetTokenTTL)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue reset token")
	}
	if err := s.outbox.Append(ctx, notify.Event{
		Kind:      notify.KindResetPassword,
		Recipient: user.Email,
		Token:     resetToken,
	}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to queue reset email")
	}
	s.metrics.IncNotificationsEnqueued()
	return nil
}

// ResetPassword sets a new password from a reset token.
func (s *Service) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	claims, err := s.tokens.Validate(req.Token, token.PurposeReset)
	if err != nil {
		return err
	}

	user, err := s.users.FindByPublicID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
	}
	s.logger.InfoContext(ctx, "password reset completed", "user_id", user.PublicID)
	return nil
}
