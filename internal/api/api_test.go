// ABOUTME: Handler tests for the REST API using httptest and the in-memory store
// ABOUTME: Covers auth bootstrap/login, blog CRUD with gating, settings, contact, sitemap

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amldecoded/amld-site/internal/auth"
	"github.com/amldecoded/amld-site/internal/mailer"
	"github.com/amldecoded/amld-site/internal/store"
	"github.com/amldecoded/amld-site/internal/upload"
)

// fakeUploader records the last upload and returns canned results.
type fakeUploader struct {
	lastFilename string
	result       upload.Result
	err          error
}

func (f *fakeUploader) Upload(ctx context.Context, filename string, r io.Reader) (*upload.Result, error) {
	f.lastFilename = filename
	if f.err != nil {
		return nil, f.err
	}
	return &f.result, nil
}

// fakeMailer records sent messages and can simulate delivery failure.
type fakeMailer struct {
	sent []mailer.ContactMessage
	err  error
}

func (f *fakeMailer) SendContact(ctx context.Context, msg *mailer.ContactMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, *msg)
	return nil
}

type testEnv struct {
	server   *httptest.Server
	store    *store.MockStore
	uploader *fakeUploader
	mailer   *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gate, err := auth.NewGate([]byte("test-secret-key-for-jwt-signing!"))
	require.NoError(t, err)

	env := &testEnv{
		store:    store.NewMockStore(),
		uploader: &fakeUploader{result: upload.Result{URL: "https://cdn.example.com/x.jpg", PublicID: "blog-images/x"}},
		mailer:   &fakeMailer{},
	}

	mux := http.NewServeMux()
	NewServer(env.store, gate, env.uploader, env.mailer, "https://example.com").Register(mux)
	env.server = httptest.NewServer(mux)
	t.Cleanup(env.server.Close)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// login creates an admin via the API and returns a bearer token for it.
func (e *testEnv) login(t *testing.T) string {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/api/auth/create-admin", "", map[string]string{
		"username": "admin",
		"email":    "a@x.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)

	token, ok := body["token"].(string)
	require.True(t, ok, "login response must include a token")
	return token
}

func TestCreateAdmin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/create-admin", "", map[string]string{
		"username": "admin",
		"email":    "Admin@Example.COM",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Admin user created successfully", body["message"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "admin@example.com", user["email"], "email must be stored lowercase")
	assert.Equal(t, "admin", user["role"])
	assert.NotContains(t, user, "passwordHash")

	// Same email again, different case.
	resp = env.do(t, http.MethodPost, "/api/auth/create-admin", "", map[string]string{
		"username": "admin2",
		"email":    "admin@example.com",
		"password": "other",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists", decodeBody(t, resp)["error"])
}

func TestCreateAdmin_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/create-admin", "", map[string]string{
		"username": "admin",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Username, email, and password are required", decodeBody(t, resp)["error"])
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	resp := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)

	user := body["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "admin", user["username"])
	assert.Equal(t, "admin", user["role"])
}

func TestLogin_BadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"wrong password", "a@x.com", "wrong"},
		{"unknown email", "nobody@x.com", "secret1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
				"email":    tt.email,
				"password": tt.pass,
			})
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "Invalid credentials", decodeBody(t, resp)["error"])
		})
	}
}

func TestLogin_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email and password are required", decodeBody(t, resp)["error"])
}

func TestMe_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No token provided", decodeBody(t, resp)["error"])
}

func TestBlogCRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	// Create.
	resp := env.do(t, http.MethodPost, "/api/blogs", token, map[string]string{
		"title":   "First Post",
		"content": "# Hello",
		"author":  "AMLD",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	id := created["id"].(string)
	require.NotEmpty(t, id)
	createdAt := created["createdAt"]

	// Public read by ID.
	resp = env.do(t, http.MethodGet, "/api/blogs/"+id, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody(t, resp)
	assert.Equal(t, "First Post", got["title"])

	// Update preserves creation time.
	resp = env.do(t, http.MethodPut, "/api/blogs/"+id, token, map[string]string{
		"title":   "First Post (edited)",
		"content": "# Hello again",
		"author":  "AMLD",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody(t, resp)
	assert.Equal(t, "First Post (edited)", updated["title"])
	assert.Equal(t, createdAt, updated["createdAt"])

	// Public list.
	resp = env.do(t, http.MethodGet, "/api/blogs", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	require.Len(t, list, 1)

	// Delete.
	resp = env.do(t, http.MethodDelete, "/api/blogs/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Blog deleted successfully", decodeBody(t, resp)["message"])

	resp = env.do(t, http.MethodGet, "/api/blogs/"+id, "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Blog not found", decodeBody(t, resp)["error"])
}

func TestBlogMutations_RequireAdmin(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{"title": "t", "content": "c", "author": "a"}
	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPost, "/api/blogs", body},
		{http.MethodPut, "/api/blogs/some-id", body},
		{http.MethodDelete, "/api/blogs/some-id", nil},
		{http.MethodPut, "/api/settings", map[string]string{"tiktokVideoUrl": "https://example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp := env.do(t, tt.method, tt.path, "", tt.body)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "No token provided", decodeBody(t, resp)["error"])
		})
	}
}

func TestCreateBlog_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing title", map[string]string{"content": "c", "author": "a"}},
		{"whitespace title", map[string]string{"title": "   ", "content": "c", "author": "a"}},
		{"missing content", map[string]string{"title": "t", "author": "a"}},
		{"missing author", map[string]string{"title": "t", "content": "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/blogs", token, tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "Title, content, and author are required", decodeBody(t, resp)["error"])
		})
	}
}

func TestUpdateBlog_NotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	resp := env.do(t, http.MethodPut, "/api/blogs/missing", token, map[string]string{
		"title": "t", "content": "c", "author": "a",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Blog not found", decodeBody(t, resp)["error"])
}

func TestSettings(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	// First read creates the document with the default URL.
	resp := env.do(t, http.MethodGet, "/api/settings", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, store.DefaultTikTokURL, decodeBody(t, resp)["tiktokVideoUrl"])

	resp = env.do(t, http.MethodPut, "/api/settings", token, map[string]string{
		"tiktokVideoUrl": "https://www.tiktok.com/@someone/video/123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://www.tiktok.com/@someone/video/123", decodeBody(t, resp)["tiktokVideoUrl"])

	resp = env.do(t, http.MethodGet, "/api/settings", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://www.tiktok.com/@someone/video/123", decodeBody(t, resp)["tiktokVideoUrl"])
}

func TestUpdateSettings_RequiresURL(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	resp := env.do(t, http.MethodPut, "/api/settings", token, map[string]string{"tiktokVideoUrl": "  "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "tiktokVideoUrl is required", decodeBody(t, resp)["error"])
}

func TestContact(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/contact", "", map[string]string{
		"name":    "Visitor",
		"email":   "visitor@example.com",
		"message": "Hello there",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Email sent successfully!", decodeBody(t, resp)["message"])

	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "visitor@example.com", env.mailer.sent[0].Email)
}

func TestContact_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/contact", "", map[string]string{
		"name": "Visitor", "email": "", "message": "Hello",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required fields", decodeBody(t, resp)["error"])
	assert.Empty(t, env.mailer.sent)
}

func TestContact_DeliveryFailure(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.err = errors.New("smtp: connection refused")

	resp := env.do(t, http.MethodPost, "/api/contact", "", map[string]string{
		"name": "Visitor", "email": "v@example.com", "message": "Hello",
	})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to send email", decodeBody(t, resp)["error"])
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "cover.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := env.server.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "https://cdn.example.com/x.jpg", body["url"])
	assert.Equal(t, "blog-images/x", body["public_id"])
	assert.Equal(t, "cover.png", env.uploader.lastFilename)
}

func TestUpload_NoFile(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "not a file"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := env.server.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No file uploaded", decodeBody(t, resp)["error"])
}

func TestSitemap(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	resp := env.do(t, http.MethodPost, "/api/blogs", token, map[string]string{
		"title": "Post", "content": "c", "author": "a",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := decodeBody(t, resp)["id"].(string)

	resp = env.do(t, http.MethodGet, "/api/sitemap.xml", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	body := string(raw)
	assert.Contains(t, body, "<loc>https://example.com/</loc>")
	assert.Contains(t, body, "<loc>https://example.com/blog</loc>")
	assert.Contains(t, body, "<loc>https://example.com/books</loc>")
	assert.Contains(t, body, "<loc>https://example.com/blog/"+id+"</loc>")
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decodeBody(t, resp)["status"])
}

func TestUnknownAPIPath(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/nope", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	assert.Equal(t, "Not found", decodeBody(t, resp)["error"])
}

func TestMethodNotAllowedIsJSON(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodDelete, "/api/health"},
		{http.MethodPut, "/api/contact"},
		{http.MethodPost, "/api/sitemap.xml"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp := env.do(t, tt.method, tt.path, "", nil)
			require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
			assert.NotEmpty(t, resp.Header.Get("Allow"))
			assert.Equal(t, "Method not allowed", decodeBody(t, resp)["error"])
		})
	}
}

func TestInvalidJSONBody(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/auth/login",
		strings.NewReader("{not json"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := env.server.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid JSON body", decodeBody(t, resp)["error"])
}
