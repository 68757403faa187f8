package service

import (
	"context"
	"errors"

	"ireporter/internal/authz"
	"ireporter/internal/identity/models"
	"ireporter/internal/identity/password"
	dErrors "ireporter/pkg/domain-errors"
	"ireporter/pkg/platform/sentinel"
)

// ResolvePrincipal re-fetches the acting user by public id on every request
// so role changes and deletions take effect immediately rather than at token
// expiry.
func (s *Service) ResolvePrincipal(ctx context.Context, publicID string) (authz.Principal, error) {
	if publicID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	user, err := s.users.FindByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve principal")
	}
	return user.Principal(), nil
}

// Profile returns the acting user's own record.
func (s *Service) Profile(ctx context.Context, actorID string) (*models.User, error) {
	user, err := s.users.FindByPublicID(ctx, actorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	return user, nil
}

// GetUser returns a user by public id, subject to view rules.
func (s *Service) GetUser(ctx context.Context, principal authz.Principal, targetID string) (*models.User, error) {
	user, err := s.users.FindByPublicID(ctx, targetID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if err := authz.CanViewUser(principal, targetID); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies self-service profile changes.
func (s *Service) UpdateProfile(ctx context.Context, principal authz.Principal, targetID string, req *models.UpdateProfileRequest) (*models.User, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByPublicID(ctx, targetID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	if err := authz.CanUpdateUser(principal, targetID); err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
	}
	return user, nil
}

// DeleteUser removes an account: self-service, or any account for admins.
func (s *Service) DeleteUser(ctx context.Context, principal authz.Principal, targetID string) error {
	if _, err := s.users.FindByPublicID(ctx, targetID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	if err := authz.CanDeleteUser(principal, targetID); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete user")
	}
	s.logger.InfoContext(ctx, "user deleted",
		"user_id", targetID,
		"by_admin", authz.IsAdmin(principal),
	)
	return nil
}
