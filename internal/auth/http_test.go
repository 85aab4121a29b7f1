// ABOUTME: Tests for HTTP authentication middleware
// ABOUTME: Covers token extraction, the 401 paths, and the admin role gate

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{"missing header", "", "", false},
		{"wrong scheme", "Token abc", "", false},
		{"lowercase prefix", "bearer abc", "", false},
		{"no space", "Bearerabc", "", false},
		{"empty token", "Bearer ", "", false},
		{"valid", "Bearer abc", "abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := http.Header{}
			if tt.header != "" {
				headers.Set("Authorization", tt.header)
			}

			got, ok := ExtractBearerToken(headers)
			if ok != tt.wantOK {
				t.Errorf("ExtractBearerToken() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ExtractBearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body["error"]
}

func TestAuthenticate_ValidToken(t *testing.T) {
	gate, _ := NewGate(testSecret)
	token, _ := gate.Issue(testClaims())

	var gotClaims *Claims
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	gate.Authenticate(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if gotClaims == nil {
		t.Fatal("expected Claims in context")
	}
	if gotClaims.UserID != "user-123" || gotClaims.Email != "a@x.com" {
		t.Errorf("unexpected claims: %+v", gotClaims)
	}
}

func TestAuthenticate_MissingToken(t *testing.T) {
	gate, _ := NewGate(testSecret)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()

	gate.Authenticate(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "No token provided" {
		t.Errorf("error = %q, want %q", msg, "No token provided")
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	gate, _ := NewGate(testSecret)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()

	gate.Authenticate(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Invalid token" {
		t.Errorf("error = %q, want %q", msg, "Invalid token")
	}
}

func TestRequireAdmin_AdminPasses(t *testing.T) {
	gate, _ := NewGate(testSecret)
	token, _ := gate.Issue(testClaims())

	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/blogs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	gate.RequireAdmin(handler).ServeHTTP(rec, req)

	if !called {
		t.Error("handler was not called for admin token")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestRequireAdmin_NonAdminForbidden(t *testing.T) {
	gate, _ := NewGate(testSecret)
	token, _ := gate.Issue(&Claims{UserID: "user-456", Username: "reader", Email: "r@x.com", Role: "editor"})

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/blogs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	gate.RequireAdmin(handler).ServeHTTP(rec, req)

	// A valid token with the wrong role is Forbidden, not Unauthenticated.
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Admin access required" {
		t.Errorf("error = %q, want %q", msg, "Admin access required")
	}
}

func TestRequireAdmin_AuthFailurePropagates(t *testing.T) {
	gate, _ := NewGate(testSecret)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/blogs/b1", nil)
	rec := httptest.NewRecorder()

	gate.RequireAdmin(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "No token provided" {
		t.Errorf("error = %q, want %q", msg, "No token provided")
	}
}
