// Package extidentity validates assertions from external identity providers
// (sign-in with Google, Apple, etc.) and maps them to a stable subject.
package extidentity

import (
	"context"
	"errors"
)

// ErrProviderDisabled is returned when no external provider is configured.
var ErrProviderDisabled = errors.New("external identity provider disabled")

// Verifier checks a provider assertion and returns the provider-scoped
// subject identifier plus the verified email address.
type Verifier interface {
	Verify(ctx context.Context, provider, assertion string) (subject, email string, err error)
}

// Disabled rejects every assertion. Deployments without an external provider
// wire this implementation in.
type Disabled struct{}

func (Disabled) Verify(ctx context.Context, provider, assertion string) (string, string, error) {
	return "", "", ErrProviderDisabled
}
