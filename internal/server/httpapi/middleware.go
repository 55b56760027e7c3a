package httpapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/beatstream/accounts/internal/common"
	"github.com/beatstream/accounts/internal/logging"
	"github.com/beatstream/accounts/internal/server/routes"
	"github.com/beatstream/accounts/internal/server/token"
)

// Principal is the authenticated identity attached to a request context.
type Principal struct {
	Subject     string
	Email       string
	AccountType string
	ArtistID    int64
}

// IsService reports whether the principal is a trusted machine caller.
func (p *Principal) IsService() bool {
	return p.Subject == common.ServiceSubject
}

type principalKeyType struct{}

var principalKey principalKeyType

// PrincipalFromContext returns the request principal, or nil when the request
// is unauthenticated.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}

func contextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// ServiceTrustGate checks the X-Service-Token header before any user-token
// validation. An absent header passes through untouched; a matching secret
// attaches the service principal; a mismatch halts the request even if a
// valid user token is also present, so a forged service header can never
// downgrade to user-level handling.
func ServiceTrustGate(serviceToken string, logger logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		presented := r.Header.Get(common.ServiceTokenHeader)
		if presented == "" {
			next.ServeHTTP(w, r)
			return
		}
		if subtle.ConstantTimeCompare([]byte(presented), []byte(serviceToken)) != 1 {
			logger.Warn(r.Context(), "service token mismatch",
				"remote_addr", r.RemoteAddr, "method", r.Method, "path", r.URL.Path)
			writeError(w, http.StatusUnauthorized, CodeInvalidServiceToken, "invalid service token")
			return
		}
		p := &Principal{Subject: common.ServiceSubject}
		next.ServeHTTP(w, r.WithContext(contextWithPrincipal(r.Context(), p)))
	})
}

// Authenticator decodes the bearer token on non-public routes. A request
// without credentials passes through unauthenticated; rejecting it is the
// authorizer's job. A request with a bad token is rejected here with the code
// matching the decode failure.
func Authenticator(codec *token.Codec, classifier *routes.Classifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if classifier.Classify(r.Method, r.URL.Path) == routes.Public {
			next.ServeHTTP(w, r)
			return
		}
		if p := PrincipalFromContext(r.Context()); p != nil && p.IsService() {
			// trust gate already established identity
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get(common.AuthorizationHeader)
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		scheme, rest, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, common.BearerScheme) {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := codec.ValidateAndDecode(strings.TrimSpace(rest))
		if err != nil {
			status, code, msg := mapTokenError(err)
			writeError(w, status, code, msg)
			return
		}

		p := &Principal{
			Subject:     claims.Subject,
			Email:       claims.Email,
			AccountType: claims.AccountType,
			ArtistID:    claims.ArtistID,
		}
		next.ServeHTTP(w, r.WithContext(contextWithPrincipal(r.Context(), p)))
	})
}

func mapTokenError(err error) (int, string, string) {
	switch {
	case errors.Is(err, token.ErrExpired):
		return http.StatusUnauthorized, CodeTokenExpired, "access token expired"
	case errors.Is(err, token.ErrMalformed):
		return http.StatusUnauthorized, CodeMalformedToken, "access token malformed"
	case errors.Is(err, token.ErrUnsupported):
		return http.StatusUnauthorized, CodeUnsupportedToken, "access token uses an unsupported algorithm"
	case errors.Is(err, token.ErrSignature):
		return http.StatusUnauthorized, CodeInvalidToken, "access token invalid"
	default:
		return http.StatusInternalServerError, CodeInternal, "internal error"
	}
}

// Authorizer enforces the route class: service routes require the service
// principal, every other non-public route requires some principal.
func Authorizer(classifier *routes.Classifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		class := classifier.Classify(r.Method, r.URL.Path)
		if class == routes.Public {
			next.ServeHTTP(w, r)
			return
		}

		p := PrincipalFromContext(r.Context())
		switch class {
		case routes.Service:
			if p == nil || !p.IsService() {
				writeError(w, http.StatusUnauthorized, CodeInvalidServiceToken, "service credentials required")
				return
			}
		default:
			if p == nil {
				writeError(w, http.StatusUnauthorized, CodeInvalidToken, "authentication required")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
