// Package content holds the blog content model: posts and static pages parsed
// from Markdown files with YAML frontmatter.
package content

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"time"
)

// Post is a blog post parsed from a Markdown file.
type Post struct {
	// Path is the source file the post was parsed from.
	Path string

	Title    string
	Markdown string
	HTML     template.HTML

	// Date is the publication date; the zero value means the post is undated.
	Date     time.Time
	Tags     []string
	Category string
	Author   string
	Draft    bool

	// Meta carries any additional frontmatter fields verbatim.
	Meta map[string]any
}

// Slug returns the URL slug derived from the post filename.
func (p *Post) Slug() string {
	return fileStem(p.Path)
}

// URL returns the site-relative URL for the post. Dated posts live under
// /{yyyy}/{mm}/{dd}/, with any date prefix stripped from the slug.
func (p *Post) URL() string {
	if p.Date.IsZero() {
		return "/" + p.Slug() + ".html"
	}
	return fmt.Sprintf("/%04d/%02d/%02d/%s.html",
		p.Date.Year(), p.Date.Month(), p.Date.Day(), RemoveDatePrefix(p.Slug()))
}

// Page is a static page (about, contact, ...) from the pages subdirectory.
type Page struct {
	Path  string
	Title string
	HTML  template.HTML
}

// Slug returns the URL slug derived from the page filename.
func (p *Page) Slug() string {
	return fileStem(p.Path)
}

// URL returns the site-relative URL for the page.
func (p *Page) URL() string {
	return "/" + p.Slug() + ".html"
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
