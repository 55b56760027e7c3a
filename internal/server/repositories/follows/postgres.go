package follows

import (
	"context"
	"fmt"

	"github.com/beatstream/accounts/internal/common"
	"github.com/beatstream/accounts/internal/dbx"
	"github.com/beatstream/accounts/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, artistID int64) error {
	query := `
		INSERT INTO follows (user_id, artist_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, artist_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, userID, artistID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string, artistID int64) error {
	query := `DELETE FROM follows WHERE user_id = $1 AND artist_id = $2`
	res, err := r.db.ExecContext(ctx, query, userID, artistID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Follow, error) {
	query := `
		SELECT user_id, artist_id, created_at
		FROM follows WHERE user_id = $1 ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Follow
	for rows.Next() {
		f := &models.Follow{}
		if err := rows.Scan(&f.UserID, &f.ArtistID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) CountByArtist(ctx context.Context, artistID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM follows WHERE artist_id = $1`
	var n int64
	if err := r.db.QueryRowContext(ctx, query, artistID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
