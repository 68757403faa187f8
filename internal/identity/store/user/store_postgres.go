package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"ireporter/internal/identity/models"
	"ireporter/pkg/platform/sentinel"
)

// PostgresStore persists users in the users table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (public_id, email, password_hash, is_admin, worker_id, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		u.PublicID,
		u.Email,
		u.PasswordHash,
		u.IsAdmin,
		nullableString(u.WorkerID),
		u.Verified,
		u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, u *models.User) error {
	query := `
		UPDATE users
		SET email = $2, password_hash = $3, verified = $4
		WHERE public_id = $1
	`
	res, err := s.db.ExecContext(ctx, query, u.PublicID, u.Email, u.PasswordHash, u.Verified)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res, "update user")
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findWhere(ctx, "email = $1", email)
}

func (s *PostgresStore) FindByPublicID(ctx context.Context, publicID string) (*models.User, error) {
	return s.findWhere(ctx, "public_id = $1", publicID)
}

func (s *PostgresStore) findWhere(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT public_id, email, password_hash, is_admin, worker_id, verified, created_at
		FROM users
		WHERE ` + where
	var u models.User
	var workerID sql.NullString
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&u.PublicID, &u.Email, &u.PasswordHash, &u.IsAdmin, &workerID, &u.Verified, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.WorkerID = workerID.String
	return &u, nil
}

func (s *PostgresStore) Delete(ctx context.Context, publicID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE public_id = $1`, publicID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(res, "delete user")
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
