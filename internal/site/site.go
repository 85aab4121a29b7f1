// ABOUTME: Server-rendered public pages: home, blog, books, admin shell
// ABOUTME: Serves embedded static assets and the root-level sitemap

package site

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/yuin/goldmark"

	"github.com/amldecoded/amld-site/internal/sitemap"
	"github.com/amldecoded/amld-site/internal/store"
)

// homePostCount is how many recent posts the home page shows below the embed.
const homePostCount = 3

// Site renders the public-facing pages. It reads through the same store the
// API writes to, so published edits appear on the next request.
type Site struct {
	store   store.Store
	baseURL string
	logger  *slog.Logger
}

// New creates the site handler set.
func New(st store.Store, baseURL string) *Site {
	return &Site{
		store:   st,
		baseURL: baseURL,
		logger:  slog.Default().With("component", "site"),
	}
}

// Register attaches the public page routes to the mux.
func (s *Site) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /blog", s.handleBlogList)
	mux.HandleFunc("GET /blog/{id}", s.handleBlogPost)
	mux.HandleFunc("GET /books", s.handleBooks)
	mux.HandleFunc("GET /admin", s.handleAdmin)
	mux.HandleFunc("GET /sitemap.xml", s.handleSitemap)
	mux.Handle("GET /static/", http.StripPrefix("/static/", s.staticHandler()))
}

// markdownHTML converts trusted markdown (authored by the site owner) to HTML.
func (s *Site) markdownHTML(src []byte) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		s.logger.Error("failed to convert markdown", "error", err)
		return "<p>Failed to render content.</p>"
	}
	return template.HTML(buf.String())
}

func (s *Site) handleHome(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		s.logger.Error("failed to load settings for home page", "error", err)
		settings = &store.SiteSettings{TikTokVideoURL: store.DefaultTikTokURL}
	}

	posts, err := s.store.ListBlogs(r.Context())
	if err != nil {
		s.logger.Error("failed to load posts for home page", "error", err)
		posts = nil
	}
	if len(posts) > homePostCount {
		posts = posts[:homePostCount]
	}

	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, newPostView(p, s.markdownHTML([]byte(p.Content))))
	}

	s.render(w, "home.html", homeData{
		Title:          "AMLD | Always Bullish",
		TikTokVideoURL: settings.TikTokVideoURL,
		LatestPosts:    views,
	})
}

func (s *Site) handleBlogList(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListBlogs(r.Context())
	if err != nil {
		s.logger.Error("failed to load blog list", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, newPostView(p, s.markdownHTML([]byte(p.Content))))
	}

	s.render(w, "blog_list.html", blogListData{Title: "Blog", Posts: views})
}

func (s *Site) handleBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.store.GetBlog(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.Error("failed to load blog post", "id", r.PathValue("id"), "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	s.render(w, "blog_post.html", blogPostData{
		Title: post.Title,
		Post:  newPostView(post, s.markdownHTML([]byte(post.Content))),
	})
}

func (s *Site) handleBooks(w http.ResponseWriter, r *http.Request) {
	md, err := contentFS.ReadFile("content/books.md")
	if err != nil {
		s.logger.Error("failed to read books content", "error", err)
		md = []byte("# Books\n\nReading list coming soon.")
	}

	s.render(w, "books.html", booksData{
		Title:   "Recommended Books",
		Content: s.markdownHTML(md),
	})
}

// handleAdmin serves the admin shell page. The page itself is public; every
// API call it makes requires a bearer token.
func (s *Site) handleAdmin(w http.ResponseWriter, r *http.Request) {
	s.render(w, "admin.html", adminData{Title: "Admin"})
}

func (s *Site) handleSitemap(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListBlogs(r.Context())
	if err != nil {
		s.logger.Error("failed to load posts for sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	body, err := sitemap.Build(s.baseURL, posts, time.Now())
	if err != nil {
		s.logger.Error("failed to build sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(body)
}

func (s *Site) staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("site: failed to create static sub filesystem: " + err.Error())
	}
	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r)
	})
}
