// Package markdown converts post bodies to HTML using Goldmark.
//
// The pipeline mirrors what the blog engine needs and nothing more: GFM
// tables and fenced code, syntax highlighting, emoji shortcodes, auto
// heading IDs, plus two site-specific extensions (GitHub-style admonitions
// and external-link rewriting).
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown bodies (frontmatter already removed) to HTML.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a Renderer. siteURL is used to decide which links are external;
// it may be empty, in which case every absolute link counts as external.
func New(siteURL string) *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
				emoji.Emoji,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
				Admonitions,
				ExternalLinks(siteURL),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				// Post bodies are trusted authoring input; raw HTML passes through.
				html.WithUnsafe(),
			),
		),
	}
}

// Render converts a Markdown body to HTML.
func (r *Renderer) Render(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
