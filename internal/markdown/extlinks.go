package markdown

import (
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// externalLinkTransformer adds target="_blank" and rel="noopener noreferrer"
// to links pointing outside the site.
type externalLinkTransformer struct {
	siteHost string
}

func (t externalLinkTransformer) Transform(doc *gast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}

		var dest string
		switch node := n.(type) {
		case *gast.Link:
			dest = string(node.Destination)
		case *gast.AutoLink:
			if node.AutoLinkType != gast.AutoLinkURL {
				return gast.WalkContinue, nil
			}
			dest = string(node.URL(source))
		default:
			return gast.WalkContinue, nil
		}

		if t.isExternal(dest) {
			n.SetAttributeString("target", []byte("_blank"))
			n.SetAttributeString("rel", []byte("noopener noreferrer"))
		}
		return gast.WalkContinue, nil
	})
}

func (t externalLinkTransformer) isExternal(dest string) bool {
	if dest == "" {
		return false
	}

	// Rooted paths and fragments are always internal.
	if strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "#") {
		return false
	}

	u, err := url.Parse(dest)
	if err != nil {
		return false
	}

	// Relative links without scheme and host are internal.
	if u.Scheme == "" && u.Host == "" {
		return false
	}

	if t.siteHost != "" {
		host := strings.ToLower(u.Hostname())
		if host == t.siteHost || host == "www."+t.siteHost {
			return false
		}
	}

	return true
}

type externalLinkExtension struct {
	siteHost string
}

// ExternalLinks returns a Goldmark extension that opens external links in a
// new tab. Links whose host matches siteURL (www-insensitive) stay untouched.
func ExternalLinks(siteURL string) goldmark.Extender {
	host := ""
	if siteURL != "" {
		if u, err := url.Parse(siteURL); err == nil {
			host = strings.ToLower(u.Hostname())
		}
	}
	return &externalLinkExtension{siteHost: host}
}

// Extend implements goldmark.Extender.
func (e *externalLinkExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithASTTransformers(
			// After the admonition rewrite; link nodes survive that move.
			util.Prioritized(externalLinkTransformer{siteHost: e.siteHost}, 900),
		),
	)
}
