package httpapi

import (
	"net/http"
)

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	user, err := s.profiles.GetByID(r.Context(), p.Subject)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	var req struct {
		DisplayName string `json:"displayName"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.profiles.UpdateProfile(r.Context(), p.Subject, req.DisplayName)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// publicProfile serves the profile fields safe to show to anyone.
func (s *Server) publicProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.profiles.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	links, err := s.profiles.ListSocialLinks(r.Context(), user.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	type linkResponse struct {
		Platform string `json:"platform"`
		URL      string `json:"url"`
	}
	resp := struct {
		DisplayName string         `json:"displayName"`
		Slug        string         `json:"slug"`
		AccountType string         `json:"accountType"`
		ArtistID    int64          `json:"artistId,omitempty"`
		SocialLinks []linkResponse `json:"socialLinks"`
	}{
		DisplayName: user.DisplayName,
		Slug:        user.Slug,
		AccountType: user.AccountType,
		ArtistID:    user.ArtistID,
		SocialLinks: []linkResponse{},
	}
	for _, l := range links {
		resp.SocialLinks = append(resp.SocialLinks, linkResponse{Platform: l.Platform, URL: l.URL})
	}
	writeJSON(w, http.StatusOK, resp)
}

// avatarUploadURL hands the client a presigned PUT URL and records the
// storage key the upload will land under.
func (s *Server) avatarUploadURL(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	key, url, err := s.media.GetPresignedPutURL(r.Context(), p.Subject)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := s.profiles.SetAvatarKey(r.Context(), p.Subject, key); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"uploadUrl": url, "key": key})
}

func (s *Server) avatarDownloadURL(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	user, err := s.profiles.GetByID(r.Context(), p.Subject)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if user.AvatarKey == "" {
		writeError(w, http.StatusNotFound, CodeNotFound, "no avatar uploaded")
		return
	}
	url, err := s.media.GetPresignedGetURL(r.Context(), user.AvatarKey)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"downloadUrl": url})
}

// internalGetUser serves trusted machine callers a full account record by id.
func (s *Server) internalGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.profiles.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}
