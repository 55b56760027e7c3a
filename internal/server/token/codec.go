// Package token implements the signed access-token codec: a compact HS256
// JWT carrying the session claim set. Tokens are never persisted server-side.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Decode failures, matched with errors.Is. The middleware maps each to its
// client-facing error code.
var (
	ErrExpired     = errors.New("token expired")
	ErrMalformed   = errors.New("token malformed")
	ErrUnsupported = errors.New("token unsupported")
	ErrSignature   = errors.New("token signature invalid")
)

// Claims is the access-token claim set. Subject is the user id, or
// common.ServiceSubject for machine callers. AccountType and ArtistID are
// omitted from the encoded token when empty/zero.
type Claims struct {
	jwt.RegisteredClaims
	Email       string `json:"email,omitempty"`
	AccountType string `json:"accountType,omitempty"`
	ArtistID    int64  `json:"artistId,omitempty"`
}

// Codec signs and validates access tokens with a symmetric key. The key and
// the clock are injected explicitly; there is no process-wide signing state.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret, now: time.Now}
}

// Issue serializes claims plus issued-at/expires-at and signs them. The same
// clock is used for issuance and validation, so expiry comparisons are exact:
// a token is already invalid at its expiresAt instant.
func (c *Codec) Issue(subject, email, accountType string, artistID int64, ttl time.Duration) (string, error) {
	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:       email,
		AccountType: accountType,
		ArtistID:    artistID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// ValidateAndDecode recomputes the signature and checks expiry, returning the
// claims on success. Failures are reported as the typed errors above; any
// unrecognized parse failure is passed through for the caller to treat as a
// generic invalid token.
func (c *Codec) ValidateAndDecode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		case errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrUnsupported
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignature
		default:
			return nil, err
		}
	}
	if !tok.Valid {
		return nil, ErrSignature
	}
	return claims, nil
}
