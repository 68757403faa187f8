// Package service implements identity operations: registration with admin
// classification, login, token refresh, email verification, password reset,
// and profile management.
package service

import (
	"context"
	"log/slog"
	"time"

	"ireporter/internal/identity/models"
	"ireporter/internal/notify"
	"ireporter/internal/platform/metrics"
	"ireporter/internal/token"
)

// UserStore is the identity persistence contract. Implementations return
// sentinel errors; this service translates them.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPublicID(ctx context.Context, publicID string) (*models.User, error)
	Delete(ctx context.Context, publicID string) error
}

// Outbox receives notification events produced by identity flows.
type Outbox interface {
	Append(ctx context.Context, event notify.Event) error
}

// TokenIssuer issues and validates the JWTs backing sessions and the email
// flows.
type TokenIssuer interface {
	IssueAccess(userPublicID string) (string, error)
	IssueRefresh(userPublicID string) (string, error)
	IssuePurpose(userPublicID string, purpose token.Purpose, ttl time.Duration) (string, error)
	Validate(tokenString string, purpose token.Purpose) (*token.Claims, error)
	AccessTTL() time.Duration
}

// RevocationList records logged-out access tokens.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// AdminPolicy holds the registration-time admin classification inputs.
type AdminPolicy struct {
	EmailDomain string
	WorkerIDs   []string
}

// Service orchestrates identity operations.
type Service struct {
	users   UserStore
	outbox  Outbox
	tokens  TokenIssuer
	revoked RevocationList
	policy  AdminPolicy

	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithRevocationList(r RevocationList) Option {
	return func(s *Service) {
		s.revoked = r
	}
}

// New constructs a Service.
func New(users UserStore, outbox Outbox, tokens TokenIssuer, policy AdminPolicy, opts ...Option) *Service {
	s := &Service{
		users:  users,
		outbox: outbox,
		tokens: tokens,
		policy: policy,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
