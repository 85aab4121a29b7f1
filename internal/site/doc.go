// ABOUTME: Package documentation for the server-rendered public site
// ABOUTME: Covers page routes, embedded assets, and markdown rendering

// Package site serves the public HTML pages: the home page with the featured
// TikTok embed and latest posts, the blog index and individual posts, the
// books page, and the admin shell.
//
// Templates, static assets, and markdown content are embedded in the binary.
// Blog post bodies and the books page are authored in markdown and converted
// to HTML at render time; the author is trusted, so the output is not
// sanitized beyond what the converter produces.
//
// The root-level /sitemap.xml is also served here so crawlers find it at the
// conventional path.
package site
