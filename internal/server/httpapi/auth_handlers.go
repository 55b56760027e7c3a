package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/beatstream/accounts/internal/server/models"
	"github.com/beatstream/accounts/internal/server/services"
)

type userResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	Slug          string `json:"slug"`
	AccountType   string `json:"accountType"`
	ArtistID      int64  `json:"artistId,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		Slug:          u.Slug,
		AccountType:   u.AccountType,
		ArtistID:      u.ArtistID,
		EmailVerified: u.EmailVerified,
	}
}

type sessionResponse struct {
	Token        string        `json:"token"`
	RefreshToken string        `json:"refreshToken"`
	TokenType    string        `json:"tokenType"`
	User         *userResponse `json:"user,omitempty"`
}

func toSessionResponse(pair *services.TokenPair, user *models.User) sessionResponse {
	resp := sessionResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
	}
	if user != nil {
		u := toUserResponse(user)
		resp.User = &u
	}
	return resp
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "invalid request body")
		return false
	}
	return true
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
		AccountType string `json:"accountType"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.Password, req.DisplayName, req.AccountType)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := s.users.ConfirmEmail(r.Context(), req.Email, req.Code)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(pair, nil))
}

func (s *Server) resendVerification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.users.ResendVerification(r.Context(), req.Email); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, pair, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(pair, user))
}

func (s *Server) externalLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Provider  string `json:"provider"`
		Assertion string `json:"assertion"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, pair, err := s.users.ExternalLogin(r.Context(), req.Provider, req.Assertion)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(pair, user))
}

// refresh mints a new access token. The presented refresh token stays valid
// and is echoed back unchanged.
func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	access, err := s.sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"accessToken":  access,
		"refreshToken": req.RefreshToken,
		"tokenType":    "Bearer",
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.sessions.Revoke(r.Context(), req.RefreshToken); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) logoutAll(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	if err := s.sessions.RevokeAll(r.Context(), p.Subject); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) requestRecovery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.users.RequestRecovery(r.Context(), req.Email); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	// identical response for known and unknown addresses
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (s *Server) confirmRecovery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"newPassword"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.users.ConfirmRecovery(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
