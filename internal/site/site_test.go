package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davep/blogmore/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.SiteTitle = "Test Blog"
	cfg.SiteURL = "https://blog.example.com"
	cfg.ContentDir = t.TempDir()
	cfg.OutputDir = t.TempDir()
	cfg.WithSearch = true
	cfg.WithSitemap = true
	return cfg
}

func writePost(t *testing.T, contentDir, name, frontmatter, body string) {
	t.Helper()
	writeFile(t, filepath.Join(contentDir, name), "---\n"+frontmatter+"\n---\n\n"+body+"\n")
}

func readOutput(t *testing.T, cfg config.Config, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(cfg.OutputDir, filepath.FromSlash(rel)))
	require.NoError(t, err, rel)
	return string(b)
}

func TestBuild_FullSite(t *testing.T) {
	cfg := testConfig(t)
	writePost(t, cfg.ContentDir, "2026-01-02-first.md",
		"title: First Post\ndate: 2026-01-02\ntags: [Go, emacs]\ncategory: Coding", "First body.")
	writePost(t, cfg.ContentDir, "2026-02-03-second.md",
		"title: Second Post\ndate: 2026-02-03\ntags: [go]", "Second body.")
	writePost(t, cfg.ContentDir, "undated.md", "title: Undated", "No date here.")
	writePost(t, cfg.ContentDir, filepath.Join("pages", "about.md"), "title: About", "About me.")
	writeFile(t, filepath.Join(cfg.ContentDir, "extras", "robots.txt"), "User-agent: *\n")
	writeFile(t, filepath.Join(cfg.ContentDir, "attachments", "notes.txt"), "notes")

	result, err := New(cfg, nil).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, result.Posts)
	require.Equal(t, 1, result.Pages)

	// Post pages at dated paths, undated at the root.
	first := readOutput(t, cfg, "2026/01/02/first.html")
	require.Contains(t, first, "First Post")
	require.Contains(t, readOutput(t, cfg, "undated.html"), "Undated")

	// Newer/older navigation on the middle post.
	require.Contains(t, first, "/2026/02/03/second.html")

	// Index lists newest first.
	index := readOutput(t, cfg, "index.html")
	require.Less(t, strings.Index(index, "Second Post"), strings.Index(index, "First Post"))
	require.Contains(t, index, `<meta name="generator" content="blogmore `)

	// Tag pages use case-insensitive grouping with the first spelling.
	tagPage := readOutput(t, cfg, "tag/go.html")
	require.Contains(t, tagPage, "First Post")
	require.Contains(t, tagPage, "Second Post")
	require.Contains(t, readOutput(t, cfg, "tags.html"), "Go")

	// Category pages with their own feeds.
	require.Contains(t, readOutput(t, cfg, "category/coding.html"), "First Post")
	require.Contains(t, readOutput(t, cfg, "categories.html"), "Coding")
	require.Contains(t, readOutput(t, cfg, "category/coding/feed.rss"), "First Post")

	// Date archives at all three depths.
	require.Contains(t, readOutput(t, cfg, "2026/index.html"), "First Post")
	require.Contains(t, readOutput(t, cfg, "2026/01/index.html"), "January 2026")
	require.Contains(t, readOutput(t, cfg, "2026/01/02/index.html"), "First Post")

	// Archive, feeds, search, sitemap.
	require.Contains(t, readOutput(t, cfg, "archive.html"), "Undated")
	require.Contains(t, readOutput(t, cfg, "feed.rss"), "Second Post")
	require.Contains(t, readOutput(t, cfg, "feed.atom"), "Second Post")
	require.Contains(t, readOutput(t, cfg, "search.html"), "search-input")
	require.Contains(t, readOutput(t, cfg, "search_index.json"), "First body.")
	sm := readOutput(t, cfg, "sitemap.xml")
	require.Contains(t, sm, "https://blog.example.com/2026/01/02/first.html")
	require.NotContains(t, sm, "search.html")

	// Assets, extras, attachments, pages.
	require.FileExists(t, filepath.Join(cfg.OutputDir, "static", "style.css"))
	require.Equal(t, "User-agent: *\n", readOutput(t, cfg, "robots.txt"))
	require.Equal(t, "notes", readOutput(t, cfg, "attachments/notes.txt"))
	about := readOutput(t, cfg, "about.html")
	require.Contains(t, about, "About me.")
	require.Contains(t, index, `href="/about.html"`)
}

func TestBuild_Pagination(t *testing.T) {
	cfg := testConfig(t)
	for i := 1; i <= 15; i++ {
		name := fmt.Sprintf("2026-03-%02d-post.md", i)
		writePost(t, cfg.ContentDir, name, fmt.Sprintf("title: Post %d\ndate: 2026-03-%02d", i, i), "Body.")
	}

	_, err := New(cfg, nil).Build(context.Background())
	require.NoError(t, err)

	index := readOutput(t, cfg, "index.html")
	require.Contains(t, index, "Page 1 of 2")
	require.Contains(t, index, `href="/page/2.html"`)
	page2 := readOutput(t, cfg, "page/2.html")
	require.Contains(t, page2, "Page 2 of 2")
	require.Contains(t, page2, `href="/index.html"`)
}

func TestBuild_NoTags_SkipsOverviewPages(t *testing.T) {
	cfg := testConfig(t)
	writePost(t, cfg.ContentDir, "2026-01-01-plain.md", "title: Plain\ndate: 2026-01-01", "Body.")

	_, err := New(cfg, nil).Build(context.Background())
	require.NoError(t, err)

	require.NoFileExists(t, filepath.Join(cfg.OutputDir, "tags.html"))
	require.NoFileExists(t, filepath.Join(cfg.OutputDir, "categories.html"))
}

func TestBuild_DefaultAuthorFill(t *testing.T) {
	cfg := testConfig(t)
	cfg.DefaultAuthor = "Dave"
	writePost(t, cfg.ContentDir, "2026-01-01-a.md", "title: A\ndate: 2026-01-01", "Body.")
	writePost(t, cfg.ContentDir, "2026-01-02-b.md", "title: B\ndate: 2026-01-02\nauthor: Someone Else", "Body.")

	_, err := New(cfg, nil).Build(context.Background())
	require.NoError(t, err)

	require.Contains(t, readOutput(t, cfg, "2026/01/01/a.html"), "Dave")
	require.Contains(t, readOutput(t, cfg, "2026/01/02/b.html"), "Someone Else")
}

func TestBuild_CleanFirst(t *testing.T) {
	cfg := testConfig(t)
	cfg.CleanFirst = true
	writePost(t, cfg.ContentDir, "2026-01-01-a.md", "title: A\ndate: 2026-01-01", "Body.")
	stale := filepath.Join(cfg.OutputDir, "stale.html")
	writeFile(t, stale, "old")

	_, err := New(cfg, nil).Build(context.Background())
	require.NoError(t, err)

	require.NoFileExists(t, stale)
	require.FileExists(t, filepath.Join(cfg.OutputDir, "index.html"))
}

func TestBuild_NoContentDir_Errors(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()

	_, err := New(cfg, nil).Build(context.Background())
	require.ErrorIs(t, err, ErrNoContentDir)
}
