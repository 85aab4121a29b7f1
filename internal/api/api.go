// ABOUTME: REST API server wiring handlers to the store, auth gate, uploader, and mailer
// ABOUTME: Registers method-scoped routes and provides shared JSON helpers

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/amldecoded/amld-site/internal/auth"
	"github.com/amldecoded/amld-site/internal/mailer"
	"github.com/amldecoded/amld-site/internal/store"
	"github.com/amldecoded/amld-site/internal/upload"
)

// Server holds the dependencies shared by all API handlers. Everything is
// injected at startup; handlers never reach for globals.
type Server struct {
	store    store.Store
	gate     *auth.Gate
	uploader upload.Uploader
	mailer   mailer.Mailer
	baseURL  string
	logger   *slog.Logger
	mux      *http.ServeMux
}

// NewServer creates the API server.
func NewServer(st store.Store, gate *auth.Gate, up upload.Uploader, m mailer.Mailer, baseURL string) *Server {
	return &Server{
		store:    st,
		gate:     gate,
		uploader: up,
		mailer:   m,
		baseURL:  baseURL,
		logger:   slog.Default().With("component", "api"),
	}
}

// Register attaches all API routes to the mux. Reads on blogs and settings
// are public; every mutation goes through the admin gate, including the blog
// mutations the admin UI used to guard only client-side.
func (s *Server) Register(mux *http.ServeMux) {
	s.mux = mux

	mux.HandleFunc("POST /api/auth/create-admin", s.handleCreateAdmin)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.Handle("GET /api/auth/me", s.gate.Authenticate(http.HandlerFunc(s.handleMe)))

	mux.HandleFunc("GET /api/blogs", s.handleListBlogs)
	mux.HandleFunc("GET /api/blogs/{id}", s.handleGetBlog)
	mux.Handle("POST /api/blogs", s.gate.RequireAdmin(http.HandlerFunc(s.handleCreateBlog)))
	mux.Handle("PUT /api/blogs/{id}", s.gate.RequireAdmin(http.HandlerFunc(s.handleUpdateBlog)))
	mux.Handle("DELETE /api/blogs/{id}", s.gate.RequireAdmin(http.HandlerFunc(s.handleDeleteBlog)))

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.Handle("PUT /api/settings", s.gate.RequireAdmin(http.HandlerFunc(s.handleUpdateSettings)))

	mux.Handle("POST /api/upload", s.gate.RequireAdmin(http.HandlerFunc(s.handleUpload)))
	mux.HandleFunc("POST /api/contact", s.handleContact)

	mux.HandleFunc("GET /api/sitemap.xml", s.handleSitemap)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("/api/", s.handleFallback)
}

// fallbackMethods are the verbs checked when deciding between 404 and 405.
var fallbackMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// handleFallback catches API requests no route matched. Registering a
// method-less "/api/" pattern swallows the mux's own 405 handling, so this
// handler recovers it: if the path is served under some other verb, respond
// 405 with an Allow header, otherwise 404. Either way the body is JSON.
func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	var allowed []string
	for _, method := range fallbackMethods {
		if method == r.Method {
			continue
		}
		alt := r.Clone(r.Context())
		alt.Method = method
		if _, pattern := s.mux.Handler(alt); pattern != "" && pattern != "/api/" {
			allowed = append(allowed, method)
		}
	}

	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeError(w, http.StatusNotFound, "Not found")
}

// writeJSON writes a JSON response with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes the standard JSON error body.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// serverError logs the underlying cause and responds with a generic message,
// never leaking upstream error text to clients.
func (s *Server) serverError(w http.ResponseWriter, message string, err error) {
	s.logger.Error(message, "error", err)
	s.writeError(w, http.StatusInternalServerError, message)
}

// handleHealth reports process liveness; it does not touch the store.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
