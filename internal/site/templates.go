// ABOUTME: Template data types and rendering helpers for the public pages
// ABOUTME: Each page parses base.html plus its own template from the embedded FS

package site

import (
	"html/template"
	"net/http"

	"github.com/amldecoded/amld-site/internal/store"
)

// postView is a blog post prepared for rendering: markdown already converted,
// timestamps formatted for display.
type postView struct {
	ID        string
	Title     string
	Author    string
	ImageURL  string
	Body      template.HTML
	Published string
}

type homeData struct {
	Title          string
	TikTokVideoURL string
	LatestPosts    []postView
}

type blogListData struct {
	Title string
	Posts []postView
}

type blogPostData struct {
	Title string
	Post  postView
}

type booksData struct {
	Title   string
	Content template.HTML
}

type adminData struct {
	Title string
}

const displayDate = "January 2, 2006"

func newPostView(p *store.BlogPost, body template.HTML) postView {
	return postView{
		ID:        p.ID,
		Title:     p.Title,
		Author:    p.Author,
		ImageURL:  p.ImageURL,
		Body:      body,
		Published: p.CreatedAt.UTC().Format(displayDate),
	}
}

// pageNames lists every page template; each is parsed against the base once
// at startup so a broken template fails the process, not a request.
var pageNames = []string{"home.html", "blog_list.html", "blog_post.html", "books.html", "admin.html"}

var pageTemplates = make(map[string]*template.Template, len(pageNames))

func init() {
	for _, name := range pageNames {
		pageTemplates[name] = template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/"+name))
	}
}

func (s *Site) render(w http.ResponseWriter, page string, data any) {
	tmpl, ok := pageTemplates[page]
	if !ok {
		s.logger.Error("unknown page template", "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to render page", "page", page, "error", err)
	}
}
