// ABOUTME: Handlers for the singleton site settings document
// ABOUTME: GET is public (the home page TikTok embed reads it), PUT is admin only

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/amldecoded/amld-site/internal/store"
)

// settingsRequest is the JSON request body for PUT /api/settings.
type settingsRequest struct {
	TikTokVideoURL string `json:"tiktokVideoUrl"`
}

// settingsResponse is the JSON view of the settings singleton.
type settingsResponse struct {
	TikTokVideoURL string `json:"tiktokVideoUrl"`
	UpdatedAt      string `json:"updatedAt"`
}

func settingsView(s *store.SiteSettings) settingsResponse {
	return settingsResponse{
		TikTokVideoURL: s.TikTokVideoURL,
		UpdatedAt:      s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// handleGetSettings returns the settings document, creating it with defaults
// on first access.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		s.serverError(w, "Failed to fetch settings", err)
		return
	}
	s.writeJSON(w, http.StatusOK, settingsView(settings))
}

// handleUpdateSettings replaces the TikTok video URL. Admin only.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	req.TikTokVideoURL = strings.TrimSpace(req.TikTokVideoURL)
	if req.TikTokVideoURL == "" {
		s.writeError(w, http.StatusBadRequest, "tiktokVideoUrl is required")
		return
	}

	settings, err := s.store.UpdateSettings(r.Context(), req.TikTokVideoURL)
	if err != nil {
		s.serverError(w, "Failed to update settings", err)
		return
	}
	s.writeJSON(w, http.StatusOK, settingsView(settings))
}
