// ABOUTME: Proxies image uploads from the admin UI to the media CDN
// ABOUTME: The CDN credentials stay server-side; clients only ever see the result URL

package api

import (
	"net/http"
)

// maxUploadBytes caps the multipart form held in memory before spilling to
// temp files.
const maxUploadBytes = 32 << 20

// handleUpload accepts a multipart form with an "image" field and forwards it
// to the uploader. Admin only.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	result, err := s.uploader.Upload(r.Context(), header.Filename, file)
	if err != nil {
		s.logger.Error("upload failed", "filename", header.Filename, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"url":       result.URL,
		"public_id": result.PublicID,
	})
}
