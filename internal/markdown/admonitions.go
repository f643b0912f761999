package markdown

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// admonitionIcons maps each supported alert type to its title icon.
var admonitionIcons = map[string]string{
	"note":      "ℹ️",
	"tip":       "\U0001f4a1",
	"important": "❗",
	"warning":   "⚠️",
	"caution":   "\U0001f6a8",
}

// alertMarkerRe matches the GitHub alert marker line inside a blockquote,
// e.g. "[!NOTE]".
var alertMarkerRe = regexp.MustCompile(`(?i)^\[!(note|tip|important|warning|caution)\]\s*$`)

// AdmonitionNode is a block node holding the body of a GitHub-style alert.
type AdmonitionNode struct {
	gast.BaseBlock

	// AdmonitionType is the lowercase alert type (note, tip, ...).
	AdmonitionType string
}

// KindAdmonition is the node kind for AdmonitionNode.
var KindAdmonition = gast.NewNodeKind("Admonition")

// Kind implements ast.Node.
func (n *AdmonitionNode) Kind() gast.NodeKind { return KindAdmonition }

// Dump implements ast.Node.
func (n *AdmonitionNode) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Type": n.AdmonitionType}, nil)
}

// NewAdmonitionNode creates an AdmonitionNode of the given type.
func NewAdmonitionNode(admonitionType string) *AdmonitionNode {
	return &AdmonitionNode{AdmonitionType: admonitionType}
}

// admonitionTransformer rewrites blockquotes that start with a GitHub alert
// marker into AdmonitionNode blocks. Single pass, no backtracking: quotes are
// collected first, then rewritten.
type admonitionTransformer struct{}

func (admonitionTransformer) Transform(doc *gast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()

	var quotes []*gast.Blockquote
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if entering {
			if bq, ok := n.(*gast.Blockquote); ok {
				quotes = append(quotes, bq)
			}
		}
		return gast.WalkContinue, nil
	})

	for _, bq := range quotes {
		marker, admonitionType := alertMarker(bq, source)
		if marker == nil {
			continue
		}

		para := bq.FirstChild().(*gast.Paragraph)
		para.RemoveChild(para, marker)
		if para.ChildCount() == 0 {
			bq.RemoveChild(bq, para)
		}

		ad := NewAdmonitionNode(admonitionType)
		for c := bq.FirstChild(); c != nil; {
			next := c.NextSibling()
			ad.AppendChild(ad, c)
			c = next
		}

		parent := bq.Parent()
		parent.ReplaceChild(parent, bq, ad)
	}
}

// alertMarker returns the text node carrying the alert marker and the lowercase
// alert type, or nil when the blockquote is not a GitHub alert.
func alertMarker(bq *gast.Blockquote, source []byte) (*gast.Text, string) {
	para, ok := bq.FirstChild().(*gast.Paragraph)
	if !ok {
		return nil, ""
	}
	txt, ok := para.FirstChild().(*gast.Text)
	if !ok {
		return nil, ""
	}
	m := alertMarkerRe.FindSubmatch(txt.Segment.Value(source))
	if m == nil {
		return nil, ""
	}
	return txt, strings.ToLower(string(m[1]))
}

type admonitionHTMLRenderer struct{}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *admonitionHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAdmonition, r.renderAdmonition)
}

func (r *admonitionHTMLRenderer) renderAdmonition(w util.BufWriter, _ []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	n := node.(*AdmonitionNode)
	if entering {
		icon := admonitionIcons[n.AdmonitionType]
		title := strings.ToUpper(n.AdmonitionType[:1]) + n.AdmonitionType[1:]
		_, _ = w.WriteString(`<div class="admonition admonition-` + n.AdmonitionType + "\">\n")
		_, _ = w.WriteString(`<div class="admonition-title">` + icon + " " + title + "</div>\n")
		_, _ = w.WriteString(`<div class="admonition-content">` + "\n")
	} else {
		_, _ = w.WriteString("</div>\n</div>\n")
	}
	return gast.WalkContinue, nil
}

type admonitionExtension struct{}

// Admonitions is a Goldmark extension rendering GitHub-style blockquote
// alerts (`> [!NOTE]` etc.) as styled callout boxes.
var Admonitions goldmark.Extender = &admonitionExtension{}

// Extend implements goldmark.Extender.
func (e *admonitionExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithASTTransformers(
			util.Prioritized(admonitionTransformer{}, 500),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&admonitionHTMLRenderer{}, 500),
		),
	)
}
