// ABOUTME: Serves the XML sitemap over the API prefix
// ABOUTME: Static pages plus one entry per published blog post

package api

import (
	"net/http"
	"time"

	"github.com/amldecoded/amld-site/internal/sitemap"
)

// handleSitemap regenerates the sitemap on every request. Post volume is
// small enough that caching would buy nothing.
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListBlogs(r.Context())
	if err != nil {
		s.serverError(w, "Failed to generate sitemap", err)
		return
	}

	body, err := sitemap.Build(s.baseURL, posts, time.Now())
	if err != nil {
		s.serverError(w, "Failed to generate sitemap", err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.logger.Error("failed to write sitemap", "error", err)
	}
}
