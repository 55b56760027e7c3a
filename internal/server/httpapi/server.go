package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/beatstream/accounts/internal/common"
	"github.com/beatstream/accounts/internal/logging"
	"github.com/beatstream/accounts/internal/server/routes"
	"github.com/beatstream/accounts/internal/server/services"
	"github.com/beatstream/accounts/internal/server/token"
)

const shutdownTimeout = 5 * time.Second

// Server wires handlers and middleware into an http.Server.
type Server struct {
	addr       string
	logger     logging.Logger
	users      *services.UserService
	sessions   *services.SessionService
	profiles   *services.ProfileService
	media      *services.MediaService
	codec      *token.Codec
	classifier *routes.Classifier

	serviceToken string
}

func NewServer(addr string, logger logging.Logger, users *services.UserService,
	sessions *services.SessionService, profiles *services.ProfileService,
	media *services.MediaService, codec *token.Codec, classifier *routes.Classifier,
	serviceToken string) *Server {
	return &Server{
		addr:         addr,
		logger:       logger,
		users:        users,
		sessions:     sessions,
		profiles:     profiles,
		media:        media,
		codec:        codec,
		classifier:   classifier,
		serviceToken: serviceToken,
	}
}

// Handler builds the full middleware chain: trust gate, then authenticator,
// then authorizer, then the route mux. The order is load-bearing.
func (s *Server) Handler() http.Handler {
	mux := s.initRoutes()
	var h http.Handler = mux
	h = Authorizer(s.classifier, h)
	h = Authenticator(s.codec, s.classifier, h)
	h = ServiceTrustGate(s.serviceToken, s.logger, h)
	return h
}

func (s *Server) initRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/users", s.register)
	mux.HandleFunc("POST /api/v1/users/verify", s.verifyEmail)
	mux.HandleFunc("POST /api/v1/users/verify/resend", s.resendVerification)

	mux.HandleFunc("POST /api/v1/auth/login", s.login)
	mux.HandleFunc("POST /api/v1/auth/external", s.externalLogin)
	mux.HandleFunc("POST /api/v1/auth/refresh", s.refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", s.logout)
	mux.HandleFunc("POST /api/v1/auth/logout/all", s.logoutAll)
	mux.HandleFunc("POST /api/v1/auth/recovery", s.requestRecovery)
	mux.HandleFunc("POST /api/v1/auth/recovery/confirm", s.confirmRecovery)

	mux.HandleFunc("GET /api/v1/me", s.me)
	mux.HandleFunc("PATCH /api/v1/me", s.updateMe)
	mux.HandleFunc("GET /api/v1/profiles/{slug}", s.publicProfile)
	mux.HandleFunc("POST /api/v1/me/avatar", s.avatarUploadURL)
	mux.HandleFunc("GET /api/v1/me/avatar", s.avatarDownloadURL)

	mux.HandleFunc("GET /api/v1/me/payment-methods", s.listPaymentMethods)
	mux.HandleFunc("POST /api/v1/me/payment-methods", s.addPaymentMethod)
	mux.HandleFunc("DELETE /api/v1/me/payment-methods/{id}", s.deletePaymentMethod)

	mux.HandleFunc("GET /api/v1/me/social-links", s.listSocialLinks)
	mux.HandleFunc("POST /api/v1/me/social-links", s.addSocialLink)
	mux.HandleFunc("DELETE /api/v1/me/social-links/{id}", s.deleteSocialLink)

	mux.HandleFunc("GET /api/v1/me/follows", s.listFollows)
	mux.HandleFunc("PUT /api/v1/me/follows/{artistID}", s.follow)
	mux.HandleFunc("DELETE /api/v1/me/follows/{artistID}", s.unfollow)

	mux.HandleFunc("GET /api/v1/artists/{id}", s.getArtist)
	mux.HandleFunc("GET /api/v1/trends/artists", s.trendingArtists)

	mux.HandleFunc("GET /api/v1/internal/users/{id}", s.internalGetUser)

	mux.HandleFunc("GET /health", s.health)

	return mux
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "http server listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// writeServiceError maps service-layer sentinels onto the HTTP error surface.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, CodeValidation, "invalid request")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, CodeAlreadyExists, "already exists")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, "not found")
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, CodeInvalidToken, "invalid credentials")
	case errors.Is(err, common.ErrRefreshTokenNotFound), errors.Is(err, common.ErrRefreshTokenInvalid):
		// both failure modes look identical to the client
		writeError(w, http.StatusUnauthorized, CodeInvalidToken, "invalid or expired refresh token")
	default:
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
