package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/beatstream/accounts/internal/server/models"
)

type paymentMethodResponse struct {
	ID        string    `json:"id"`
	Provider  string    `json:"provider"`
	Last4     string    `json:"last4"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPaymentMethodResponse(pm *models.PaymentMethod) paymentMethodResponse {
	return paymentMethodResponse{
		ID: pm.ID, Provider: pm.Provider, Last4: pm.Last4, Label: pm.Label, CreatedAt: pm.CreatedAt,
	}
}

func (s *Server) listPaymentMethods(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	methods, err := s.profiles.ListPaymentMethods(r.Context(), p.Subject)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	resp := make([]paymentMethodResponse, 0, len(methods))
	for _, pm := range methods {
		resp = append(resp, toPaymentMethodResponse(pm))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) addPaymentMethod(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	var req struct {
		Provider string `json:"provider"`
		Last4    string `json:"last4"`
		Label    string `json:"label"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	pm, err := s.profiles.AddPaymentMethod(r.Context(), p.Subject, req.Provider, req.Last4, req.Label)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentMethodResponse(pm))
}

func (s *Server) deletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	if err := s.profiles.DeletePaymentMethod(r.Context(), p.Subject, r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type socialLinkResponse struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

func (s *Server) listSocialLinks(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	links, err := s.profiles.ListSocialLinks(r.Context(), p.Subject)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	resp := make([]socialLinkResponse, 0, len(links))
	for _, l := range links {
		resp = append(resp, socialLinkResponse{ID: l.ID, Platform: l.Platform, URL: l.URL})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) addSocialLink(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	var req struct {
		Platform string `json:"platform"`
		URL      string `json:"url"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	link, err := s.profiles.AddSocialLink(r.Context(), p.Subject, req.Platform, req.URL)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, socialLinkResponse{ID: link.ID, Platform: link.Platform, URL: link.URL})
}

func (s *Server) deleteSocialLink(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	if err := s.profiles.DeleteSocialLink(r.Context(), p.Subject, r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func artistIDFromPath(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "invalid artist id")
		return 0, false
	}
	return id, true
}

func (s *Server) listFollows(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	follows, err := s.profiles.ListFollows(r.Context(), p.Subject)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	type followResponse struct {
		ArtistID  int64     `json:"artistId"`
		CreatedAt time.Time `json:"createdAt"`
	}
	resp := make([]followResponse, 0, len(follows))
	for _, f := range follows {
		resp = append(resp, followResponse{ArtistID: f.ArtistID, CreatedAt: f.CreatedAt})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) follow(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	artistID, ok := artistIDFromPath(w, r, "artistID")
	if !ok {
		return
	}
	if err := s.profiles.Follow(r.Context(), p.Subject, artistID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) unfollow(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	artistID, ok := artistIDFromPath(w, r, "artistID")
	if !ok {
		return
	}
	if err := s.profiles.Unfollow(r.Context(), p.Subject, artistID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type artistResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Bio       string `json:"bio,omitempty"`
	Genre     string `json:"genre,omitempty"`
	Followers int64  `json:"followers"`
}

func (s *Server) getArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := artistIDFromPath(w, r, "id")
	if !ok {
		return
	}
	artist, err := s.profiles.GetArtist(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	followers, err := s.profiles.ArtistFollowerCount(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artistResponse{
		ID: artist.ID, Name: artist.Name, Bio: artist.Bio, Genre: artist.Genre, Followers: followers,
	})
}

func (s *Server) trendingArtists(w http.ResponseWriter, r *http.Request) {
	trending, err := s.profiles.TrendingArtists(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	resp := make([]artistResponse, 0, len(trending))
	for _, a := range trending {
		resp = append(resp, artistResponse{ID: a.ID, Name: a.Name, Bio: a.Bio, Genre: a.Genre})
	}
	writeJSON(w, http.StatusOK, resp)
}
