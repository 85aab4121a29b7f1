// ABOUTME: Contact form handler that relays messages over SMTP
// ABOUTME: Public endpoint; the only unauthenticated write in the API

package api

import (
	"net/http"
	"strings"

	"github.com/amldecoded/amld-site/internal/mailer"
)

// contactRequest is the JSON request body for POST /api/contact.
type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// handleContact validates the form and hands it to the mailer. Delivery is
// synchronous; the client waits on the SMTP round trip.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		s.writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	err := s.mailer.SendContact(r.Context(), &mailer.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		s.logger.Error("contact email failed", "from", req.Email, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to send email")
		return
	}

	s.logger.Info("contact email sent", "from", req.Email)
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Email sent successfully!"})
}
