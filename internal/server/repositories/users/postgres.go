// Package users provides the PostgreSQL-backed account repository.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/beatstream/accounts/internal/common"
	"github.com/beatstream/accounts/internal/dbx"
	"github.com/beatstream/accounts/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const userColumns = `id, email, password_hash, display_name, slug, account_type,
	artist_id, external_subject, email_verified, avatar_key, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Slug,
		&u.AccountType, &u.ArtistID, &u.ExternalSubject, &u.EmailVerified,
		&u.AvatarKey, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// Create inserts a new account row. A duplicate email or slug is reported as
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, display_name, slug, account_type, artist_id, external_subject, email_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.DisplayName, user.Slug,
		user.AccountType, user.ArtistID, user.ExternalSubject, user.EmailVerified).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE slug = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, slug))
}

func (r *PostgresRepository) GetByExternalSubject(ctx context.Context, subject string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE external_subject = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, subject))
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id, displayName, avatarKey string) error {
	query := `
		UPDATE users SET display_name = $2, avatar_key = $3, updated_at = now()
		WHERE id = $1
	`
	return r.exec(ctx, query, id, displayName, avatarKey)
}

func (r *PostgresRepository) MarkEmailVerified(ctx context.Context, id string) error {
	query := `
		UPDATE users SET email_verified = TRUE, updated_at = now()
		WHERE id = $1
	`
	return r.exec(ctx, query, id)
}

func (r *PostgresRepository) SetPassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE users SET password_hash = $2, updated_at = now()
		WHERE id = $1
	`
	return r.exec(ctx, query, id, passwordHash)
}

func (r *PostgresRepository) SetExternalSubject(ctx context.Context, id, subject string) error {
	query := `
		UPDATE users SET external_subject = $2, updated_at = now()
		WHERE id = $1
	`
	return r.exec(ctx, query, id, subject)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`
	return r.exec(ctx, query, id)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
