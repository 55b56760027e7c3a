package verificationcodes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *PostgresRepository) Create(ctx context.Context, userID, purpose, code string, validity time.Duration) (*models.VerificationCode, error) {
	del := `DELETE FROM verification_codes WHERE user_id = $1 AND purpose = $2`
	if _, err := r.db.ExecContext(ctx, del, userID, purpose); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	query := `
		INSERT INTO verification_codes (user_id, purpose, code, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	vc := &models.VerificationCode{
		UserID:    userID,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: time.Now().Add(validity),
	}
	err := r.db.QueryRowContext(ctx, query, userID, purpose, code, vc.ExpiresAt).
		Scan(&vc.ID, &vc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return vc, nil
}

func (r *PostgresRepository) Find(ctx context.Context, userID, purpose, code string) (*models.VerificationCode, error) {
	query := `
		SELECT id, user_id, purpose, code, expires_at, created_at
		FROM verification_codes
		WHERE user_id = $1 AND purpose = $2 AND code = $3 AND expires_at > now()
	`
	vc := &models.VerificationCode{}
	err := r.db.QueryRowContext(ctx, query, userID, purpose, code).
		Scan(&vc.ID, &vc.UserID, &vc.Purpose, &vc.Code, &vc.ExpiresAt, &vc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return vc, nil
}

func (r *PostgresRepository) Consume(ctx context.Context, userID, purpose string) error {
	query := `DELETE FROM verification_codes WHERE user_id = $1 AND purpose = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, purpose); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM verification_codes WHERE expires_at < now()`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
