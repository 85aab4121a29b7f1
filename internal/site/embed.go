// ABOUTME: Embeds HTML templates, static assets, and markdown content into the binary
// ABOUTME: Provides the filesystems the site handlers render and serve from

package site

import "embed"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

//go:embed content/*.md
var contentFS embed.FS
