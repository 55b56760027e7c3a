package artists

import (
	"context"
	"database/sql"
	"errors"
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

func (r *PostgresRepository) Create(ctx context.Context, artist *models.Artist) (*models.Artist, error) {
	query := `
		INSERT INTO artists (name, bio, genre)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, artist.Name, artist.Bio, artist.Genre).
		Scan(&artist.ID, &artist.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return artist, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Artist, error) {
	query := `SELECT id, name, bio, genre, created_at FROM artists WHERE id = $1`
	a := &models.Artist{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.Name, &a.Bio, &a.Genre, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Trending(ctx context.Context, limit int) ([]*models.Artist, error) {
	query := `
		SELECT a.id, a.name, a.bio, a.genre, a.created_at
		FROM artists a
		LEFT JOIN follows f ON f.artist_id = a.id
		GROUP BY a.id
		ORDER BY COUNT(f.user_id) DESC, a.id
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Artist
	for rows.Next() {
		a := &models.Artist{}
		if err := rows.Scan(&a.ID, &a.Name, &a.Bio, &a.Genre, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
