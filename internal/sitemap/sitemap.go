// ABOUTME: Sitemap XML generation from static routes and blog posts
// ABOUTME: Produces sitemaps.org urlset documents with lastmod dates

package sitemap

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/amldecoded/amld-site/internal/store"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URL is a single sitemap entry.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// staticPages are the fixed site routes, listed ahead of blog entries.
var staticPages = []URL{
	{Loc: "/", Priority: "1.0", ChangeFreq: "weekly"},
	{Loc: "/blog", Priority: "0.9", ChangeFreq: "daily"},
	{Loc: "/books", Priority: "0.8", ChangeFreq: "monthly"},
}

// Build renders the sitemap for the given base URL and blog posts. Static
// pages carry now as lastmod; blog entries use their own update time.
func Build(baseURL string, blogs []*store.BlogPost, now time.Time) ([]byte, error) {
	base := strings.TrimSuffix(baseURL, "/")
	today := now.UTC().Format("2006-01-02")

	set := urlSet{Xmlns: xmlns}
	for _, p := range staticPages {
		set.URLs = append(set.URLs, URL{
			Loc:        base + p.Loc,
			LastMod:    today,
			ChangeFreq: p.ChangeFreq,
			Priority:   p.Priority,
		})
	}
	for _, b := range blogs {
		set.URLs = append(set.URLs, URL{
			Loc:        fmt.Sprintf("%s/blog/%s", base, b.ID),
			LastMod:    b.UpdatedAt.UTC().Format("2006-01-02"),
			ChangeFreq: "monthly",
			Priority:   "0.7",
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling sitemap: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
