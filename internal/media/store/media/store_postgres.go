package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ireporter/internal/media/models"
	"ireporter/pkg/platform/sentinel"
)

// PostgresStore persists media in the media table. Rows cascade when the
// parent record row is deleted.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const mediaColumns = `public_id, record_id, uploader_id, kind, url, object_key, content_type, created_at`

func (s *PostgresStore) Create(ctx context.Context, m *models.Media) error {
	query := `
		INSERT INTO media (` + mediaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		m.PublicID, m.RecordID, m.UploaderID, m.Kind, m.URL, m.ObjectKey, m.ContentType, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create media: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, m *models.Media) error {
	query := `
		UPDATE media
		SET url = $2, object_key = $3, content_type = $4
		WHERE public_id = $1
	`
	res, err := s.db.ExecContext(ctx, query, m.PublicID, m.URL, m.ObjectKey, m.ContentType)
	if err != nil {
		return fmt.Errorf("update media: %w", err)
	}
	return requireRow(res, "update media")
}

func (s *PostgresStore) FindByPublicID(ctx context.Context, publicID string) (*models.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE public_id = $1`
	var m models.Media
	err := s.db.QueryRowContext(ctx, query, publicID).Scan(
		&m.PublicID, &m.RecordID, &m.UploaderID, &m.Kind, &m.URL, &m.ObjectKey, &m.ContentType, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find media: %w", err)
	}
	return &m, nil
}

func (s *PostgresStore) ListByRecord(ctx context.Context, recordID string, kind models.Kind) ([]*models.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE record_id = $1`
	args := []any{recordID}
	if kind != "" {
		query += ` AND kind = $2`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Media, 0)
	for rows.Next() {
		var m models.Media
		err := rows.Scan(
			&m.PublicID, &m.RecordID, &m.UploaderID, &m.Kind, &m.URL, &m.ObjectKey, &m.ContentType, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list media: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Delete(ctx context.Context, publicID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM media WHERE public_id = $1`, publicID)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return requireRow(res, "delete media")
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
