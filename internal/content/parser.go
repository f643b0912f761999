package content

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/davep/blogmore/internal/frontmatter"
	"github.com/davep/blogmore/internal/markdown"
)

// ErrMissingTitle indicates a content file without the required title field.
var ErrMissingTitle = errors.New("missing required 'title' in frontmatter")

// dateFormats are the string layouts accepted for the frontmatter date field,
// tried in order. YAML-native timestamps are used as-is.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Parser parses Markdown files with frontmatter into Posts and Pages.
type Parser struct {
	md *markdown.Renderer
}

// NewParser creates a Parser. siteURL feeds the external-link rewriting in the
// Markdown pipeline and may be empty.
func NewParser(siteURL string) *Parser {
	return &Parser{md: markdown.New(siteURL)}
}

// ParseFile parses a single Markdown post file.
func (p *Parser) ParseFile(path string) (*Post, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read post %s: %w", path, err)
	}

	fm, body, _, err := frontmatter.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter of %s: %w", path, err)
	}
	fields, err := frontmatter.Parse(fm)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter of %s: %w", path, err)
	}

	title, _ := fields["title"].(string)
	if title == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingTitle)
	}

	html, err := p.md.Render(body)
	if err != nil {
		return nil, fmt.Errorf("render markdown of %s: %w", path, err)
	}

	post := &Post{
		Path:     path,
		Title:    title,
		Markdown: string(body),
		HTML:     template.HTML(html),
		Date:     parseDate(fields["date"]),
		Tags:     normalizeTags(fields["tags"]),
		Category: stringField(fields["category"]),
		Author:   stringField(fields["author"]),
		Meta:     fields,
	}
	if draft, ok := fields["draft"].(bool); ok {
		post.Draft = draft
	}
	return post, nil
}

// ParseDir parses all *.md files directly inside dir. Files that fail to
// parse are skipped with a warning; the build never aborts on a single bad
// post. The result is sorted newest first; undated posts sort last. Posts
// sharing a date keep directory order.
func (p *Parser) ParseDir(dir string, includeDrafts bool) ([]*Post, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read content directory: %w", err)
	}

	var posts []*Post
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		post, err := p.ParseFile(path)
		if err != nil {
			slog.Warn("Skipping post", "path", path, "error", err)
			continue
		}
		if post.Draft && !includeDrafts {
			continue
		}
		posts = append(posts, post)
	}

	SortByDate(posts)
	return posts, nil
}

// ParsePagesDir parses static pages from dir (typically content/pages).
// A missing directory yields no pages and no error.
func (p *Parser) ParsePagesDir(dir string) ([]*Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read pages directory: %w", err)
	}

	var pages []*Page
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		page, err := p.parsePageFile(path)
		if err != nil {
			slog.Warn("Skipping page", "path", path, "error", err)
			continue
		}
		pages = append(pages, page)
	}

	sort.Slice(pages, func(i, j int) bool {
		return strings.ToLower(pages[i].Title) < strings.ToLower(pages[j].Title)
	})
	return pages, nil
}

func (p *Parser) parsePageFile(path string) (*Page, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page %s: %w", path, err)
	}

	fm, body, _, err := frontmatter.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter of %s: %w", path, err)
	}
	fields, err := frontmatter.Parse(fm)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter of %s: %w", path, err)
	}

	title, _ := fields["title"].(string)
	if title == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingTitle)
	}

	html, err := p.md.Render(body)
	if err != nil {
		return nil, fmt.Errorf("render markdown of %s: %w", path, err)
	}

	return &Page{Path: path, Title: title, HTML: template.HTML(html)}, nil
}

// SortByDate sorts posts newest first, keeping undated posts at the end.
// The sort is stable so posts with equal dates keep their input order.
func SortByDate(posts []*Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
}

func parseDate(value any) time.Time {
	switch v := value.(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range dateFormats {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

func normalizeTags(value any) []string {
	switch v := value.(type) {
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				tags = append(tags, s)
			}
		}
		return tags
	case string:
		var tags []string
		for _, part := range strings.Split(v, ",") {
			if s := strings.TrimSpace(part); s != "" {
				tags = append(tags, s)
			}
		}
		return tags
	}
	return nil
}

func stringField(value any) string {
	s, _ := value.(string)
	return s
}
