// Package token issues and validates the service's JWTs. Tokens carry only
// the user's opaque public id plus a purpose claim; role and admin status are
// never embedded so revoking a role takes effect on the next request.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ireporter/internal/platform/middleware"
	dErrors "ireporter/pkg/domain-errors"
)

// Purpose scopes a token to one use. Access and refresh drive sessions;
// verify and reset back the email flows.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
	PurposeVerify  Purpose = "verify_email"
	PurposeReset   Purpose = "reset_password"
)

// Claims is the JWT payload for all token purposes.
type Claims struct {
	UserID  string  `json:"user_id"`
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// Service handles JWT creation and validation.
type Service struct {
	signingKey []byte
	issuer     string

	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(signingKey string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     "ireporter",
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccess returns a short-lived access token for the user.
func (s *Service) IssueAccess(userPublicID string) (string, error) {
	return s.issue(userPublicID, PurposeAccess, s.accessTTL)
}

// IssueRefresh returns a long-lived refresh token for the user.
func (s *Service) IssueRefresh(userPublicID string) (string, error) {
	return s.issue(userPublicID, PurposeRefresh, s.refreshTTL)
}

// IssuePurpose returns a token bound to a one-shot purpose (email
// verification, password reset) with an explicit TTL.
func (s *Service) IssuePurpose(userPublicID string, purpose Purpose, ttl time.Duration) (string, error) {
	return s.issue(userPublicID, purpose, ttl)
}

func (s *Service) issue(userPublicID string, purpose Purpose, ttl time.Duration) (string, error) {
	now := time.Now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:  userPublicID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	return newToken.SignedString(s.signingKey)
}

// Validate parses and verifies a token, enforcing the expected purpose.
func (s *Service) Validate(tokenString string, purpose Purpose) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.Purpose != purpose {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token purpose mismatch")
	}
	return claims, nil
}

// ValidateAccessToken adapts Validate to the middleware contract.
func (s *Service) ValidateAccessToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := s.Validate(tokenString, PurposeAccess)
	if err != nil {
		return nil, err
	}
	return &middleware.JWTClaims{UserID: claims.UserID, JTI: claims.ID}, nil
}

// AccessTTL exposes the configured access token lifetime for revocation TTLs.
func (s *Service) AccessTTL() time.Duration {
	return s.accessTTL
}
