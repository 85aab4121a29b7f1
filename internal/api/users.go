// ABOUTME: Handlers for admin bootstrap, login, and identity introspection
// ABOUTME: POST /api/auth/create-admin, POST /api/auth/login, GET /api/auth/me

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/amldecoded/amld-site/internal/auth"
	"github.com/amldecoded/amld-site/internal/store"
)

// createAdminRequest is the JSON request body for POST /api/auth/create-admin.
type createAdminRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the JSON request body for POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse is the public view of a credential; the hash never leaves the store layer.
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func publicUser(u *store.Credential) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// handleCreateAdmin bootstraps an administrator account. Duplicate email or
// username is a 400, same as a missing field.
func (s *Server) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "Username, email, and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.serverError(w, "Failed to create admin", err)
		return
	}

	user := &store.Credential{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Role:         store.RoleAdmin,
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			s.writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
		s.serverError(w, "Failed to create admin", err)
		return
	}

	s.logger.Info("admin user created", "username", user.Username)
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Admin user created successfully",
		"user":    publicUser(user),
	})
}

// handleLogin verifies credentials and issues a bearer token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Email == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a bcrypt comparison so missing accounts are not
			// detectable by response timing.
			auth.VerifyPassword("", req.Password)
			s.writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		s.serverError(w, "Failed to log in", err)
		return
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		s.writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.gate.Issue(&auth.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
	if err != nil {
		s.serverError(w, "Failed to log in", err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  publicUser(user),
	})
}

// handleMe echoes the verified claim set back as the user object.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())

	s.writeJSON(w, http.StatusOK, map[string]any{
		"user": userResponse{
			ID:       claims.UserID,
			Username: claims.Username,
			Email:    claims.Email,
			Role:     claims.Role,
		},
	})
}
