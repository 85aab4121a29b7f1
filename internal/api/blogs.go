// ABOUTME: CRUD handlers for blog posts
// ABOUTME: Reads are public; create/update/delete sit behind the admin gate

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amldecoded/amld-site/internal/store"
)

// blogRequest is the JSON request body for creating or replacing a post.
type blogRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Author   string `json:"author"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// blogResponse is the JSON view of a post.
type blogResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	ImageURL  string `json:"imageUrl,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func blogView(p *store.BlogPost) blogResponse {
	return blogResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.Author,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// decodeJSON decodes a request body, treating any malformed input as one error.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// parseBlogRequest validates a blog body. Title and author are trimmed;
// content is kept verbatim, an opaque blob this layer never interprets.
func parseBlogRequest(r *http.Request) (*blogRequest, error) {
	var req blogRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, errors.New("Invalid JSON body")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	if req.Title == "" || req.Content == "" || req.Author == "" {
		return nil, errors.New("Title, content, and author are required")
	}
	return &req, nil
}

// handleListBlogs returns all posts, newest first. Public.
func (s *Server) handleListBlogs(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListBlogs(r.Context())
	if err != nil {
		s.serverError(w, "Failed to fetch blogs", err)
		return
	}

	views := make([]blogResponse, 0, len(posts))
	for _, p := range posts {
		views = append(views, blogView(p))
	}
	s.writeJSON(w, http.StatusOK, views)
}

// handleGetBlog returns one post by ID. Public.
func (s *Server) handleGetBlog(w http.ResponseWriter, r *http.Request) {
	post, err := s.store.GetBlog(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "Blog not found")
			return
		}
		s.serverError(w, "Failed to fetch blog", err)
		return
	}
	s.writeJSON(w, http.StatusOK, blogView(post))
}

// handleCreateBlog stores a new post. Admin only.
func (s *Server) handleCreateBlog(w http.ResponseWriter, r *http.Request) {
	req, err := parseBlogRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	post := &store.BlogPost{
		ID:       uuid.NewString(),
		Title:    req.Title,
		Content:  req.Content,
		Author:   req.Author,
		ImageURL: req.ImageURL,
	}
	if err := s.store.CreateBlog(r.Context(), post); err != nil {
		s.serverError(w, "Failed to create blog", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, blogView(post))
}

// handleUpdateBlog replaces a post's fields wholesale. Admin only.
// Last write wins; concurrent updates are not serialized beyond the store's
// own consistency.
func (s *Server) handleUpdateBlog(w http.ResponseWriter, r *http.Request) {
	req, err := parseBlogRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.store.ReplaceBlog(r.Context(), &store.BlogPost{
		ID:       r.PathValue("id"),
		Title:    req.Title,
		Content:  req.Content,
		Author:   req.Author,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "Blog not found")
			return
		}
		s.serverError(w, "Failed to update blog", err)
		return
	}
	s.writeJSON(w, http.StatusOK, blogView(updated))
}

// handleDeleteBlog removes a post unconditionally. Admin only.
func (s *Server) handleDeleteBlog(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteBlog(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "Blog not found")
			return
		}
		s.serverError(w, "Failed to delete blog", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Blog deleted successfully"})
}
