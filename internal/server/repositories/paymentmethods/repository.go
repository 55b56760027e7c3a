// Package paymentmethods stores saved payment instruments for an account.
package paymentmethods

import (
	"context"

	"github.com/beatstream/accounts/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, pm *models.PaymentMethod) (*models.PaymentMethod, error)
	ListByUser(ctx context.Context, userID string) ([]*models.PaymentMethod, error)
	// Delete removes a payment method owned by userID. A method belonging to
	// another account is treated as not found.
	Delete(ctx context.Context, userID, id string) error
}
