package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSlugify_BasicCases(t *testing.T) {
	for input, want := range map[string]string{
		"Hello World":     "hello-world",
		"Go & Rust!":      "go-rust",
		"  spaced  out  ": "spaced-out",
		"already-fine":    "already-fine",
		"under_score":     "under_score",
		"!!!":             "unnamed",
		"":                "unnamed",
	} {
		require.Equal(t, want, Slugify(input), "input %q", input)
	}
}

func TestSlugify_FoldsDiacritics(t *testing.T) {
	require.Equal(t, "cafe-con-leche", Slugify("Café con Leche"))
	require.Equal(t, "uber-blogging", Slugify("Über Blogging"))
}

func TestSlugify_KeepsNonLatinLetters(t *testing.T) {
	require.Equal(t, "日本語", Slugify("日本語"))
	require.Equal(t, "go-言語", Slugify("Go 言語"))
	require.Equal(t, "кириллица", Slugify("Кириллица!"))
}

func TestRemoveDatePrefix(t *testing.T) {
	require.Equal(t, "my-post", RemoveDatePrefix("2024-03-01-my-post"))
	require.Equal(t, "my-post", RemoveDatePrefix("my-post"))
	require.Equal(t, "2024-march-post", RemoveDatePrefix("2024-march-post"))
}

func TestPostURL_DatedPostUsesDatePath(t *testing.T) {
	p := &Post{
		Path: "/content/2024-03-01-hello.md",
		Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.Equal(t, "/2024/03/01/hello.html", p.URL())
}

func TestPostURL_UndatedPostLivesAtRoot(t *testing.T) {
	p := &Post{Path: "/content/standalone.md"}
	require.Equal(t, "/standalone.html", p.URL())
}

func TestPageURL(t *testing.T) {
	pg := &Page{Path: "/content/pages/about.md"}
	require.Equal(t, "about", pg.Slug())
	require.Equal(t, "/about.html", pg.URL())
}
