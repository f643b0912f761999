package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_BasicMarkdown_ProducesHTML(t *testing.T) {
	r := New("")

	out, err := r.Render([]byte("# Hello\n\nSome *text*.\n"))
	require.NoError(t, err)
	require.Contains(t, out, "<h1 id=\"hello\">Hello</h1>")
	require.Contains(t, out, "<em>text</em>")
}

func TestRender_GFMTable_ProducesTable(t *testing.T) {
	r := New("")

	out, err := r.Render([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	require.NoError(t, err)
	require.Contains(t, out, "<table>")
	require.Contains(t, out, "<td>1</td>")
}

func TestRender_FencedCode_IsHighlighted(t *testing.T) {
	r := New("")

	out, err := r.Render([]byte("```go\nfunc main() {}\n```\n"))
	require.NoError(t, err)
	require.Contains(t, out, "<pre")
	require.Contains(t, out, "main")
}

func TestRender_RawHTML_PassesThrough(t *testing.T) {
	r := New("")

	out, err := r.Render([]byte("<div class=\"x\">raw</div>\n"))
	require.NoError(t, err)
	require.Contains(t, out, "<div class=\"x\">raw</div>")
}
