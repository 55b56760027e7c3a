package paymentmethods

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

func (r *PostgresRepository) Create(ctx context.Context, pm *models.PaymentMethod) (*models.PaymentMethod, error) {
	query := `
		INSERT INTO payment_methods (user_id, provider, last4, label)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, pm.UserID, pm.Provider, pm.Last4, pm.Label).
		Scan(&pm.ID, &pm.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return pm, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.PaymentMethod, error) {
	query := `
		SELECT id, user_id, provider, last4, label, created_at
		FROM payment_methods WHERE user_id = $1 ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.PaymentMethod
	for rows.Next() {
		pm := &models.PaymentMethod{}
		if err := rows.Scan(&pm.ID, &pm.UserID, &pm.Provider, &pm.Last4, &pm.Label, &pm.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, pm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM payment_methods WHERE id = $1 AND user_id = $2`
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
