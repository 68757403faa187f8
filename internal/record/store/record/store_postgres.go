package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"ireporter/internal/record/models"
	"ireporter/pkg/platform/sentinel"
)

// PostgresStore persists records in the records table. Attached media rows
// cascade on delete via foreign keys in the migration.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const recordColumns = `public_id, owner_id, type, title, description, location, status, created_at`

func (s *PostgresStore) Create(ctx context.Context, rec *models.Record) error {
	query := `
		INSERT INTO records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.PublicID,
		rec.OwnerID,
		rec.Type,
		rec.Title,
		rec.Description,
		rec.Location,
		rec.Status,
		rec.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, rec *models.Record) error {
	query := `
		UPDATE records
		SET title = $2, description = $3, location = $4, status = $5
		WHERE public_id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		rec.PublicID, rec.Title, rec.Description, rec.Location, rec.Status,
	)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return requireRow(res, "update record")
}

func (s *PostgresStore) FindByPublicID(ctx context.Context, publicID string) (*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE public_id = $1`
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, publicID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find record: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string, f Filter) ([]*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE owner_id = $1`
	args := []any{ownerID}
	if f.Type != "" {
		query += ` AND type = $2`
		args = append(args, f.Type)
	}
	query += ` ORDER BY created_at DESC`
	return s.list(ctx, query, args...)
}

func (s *PostgresStore) ListAll(ctx context.Context, f Filter) ([]*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records`
	var args []any
	if f.Type != "" {
		query += ` WHERE type = $1`
		args = append(args, f.Type)
	}
	query += ` ORDER BY created_at DESC`
	return s.list(ctx, query, args...)
}

func (s *PostgresStore) Delete(ctx context.Context, publicID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE public_id = $1`, publicID)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return requireRow(res, "delete record")
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*models.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list records: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.Record, error) {
	var rec models.Record
	err := row.Scan(
		&rec.PublicID, &rec.OwnerID, &rec.Type, &rec.Title,
		&rec.Description, &rec.Location, &rec.Status, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
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
