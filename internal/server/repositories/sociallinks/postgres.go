package sociallinks

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

func (r *PostgresRepository) Create(ctx context.Context, link *models.SocialLink) (*models.SocialLink, error) {
	query := `
		INSERT INTO social_links (user_id, platform, url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, link.UserID, link.Platform, link.URL).
		Scan(&link.ID, &link.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return link, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.SocialLink, error) {
	query := `
		SELECT id, user_id, platform, url, created_at
		FROM social_links WHERE user_id = $1 ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.SocialLink
	for rows.Next() {
		l := &models.SocialLink{}
		if err := rows.Scan(&l.ID, &l.UserID, &l.Platform, &l.URL, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM social_links WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
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
