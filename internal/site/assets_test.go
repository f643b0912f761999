package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestCopyTree_PreservesLayout(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "a")
	writeFile(t, filepath.Join(src, "sub", "b.txt"), "b")

	require.NoError(t, copyTree(src, dst))

	b, err := os.ReadFile(filepath.Join(dst, "sub", "b.txt"))
	require.NoError(t, err)
	require.Equal(t, "b", string(b))
}

func TestCopyTree_MissingSource_IsNoop(t *testing.T) {
	require.NoError(t, copyTree(filepath.Join(t.TempDir(), "nope"), t.TempDir()))
}

func TestCopyTree_OverwritesExisting(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "index.html"), "new")
	writeFile(t, filepath.Join(dst, "index.html"), "old")

	require.NoError(t, copyTree(src, dst))

	b, err := os.ReadFile(filepath.Join(dst, "index.html"))
	require.NoError(t, err)
	require.Equal(t, "new", string(b))
}

func TestMinifyStatic_CSSAndJS(t *testing.T) {
	out := t.TempDir()
	writeFile(t, filepath.Join(out, "static", "style.css"), "body {\n    color: #ffffff;\n}\n")
	writeFile(t, filepath.Join(out, "static", "app.js"), "var x = 1;\nvar y = 2;\n")

	minifyStatic(out, true, true)

	css, err := os.ReadFile(filepath.Join(out, "static", "style.css"))
	require.NoError(t, err)
	require.NotContains(t, string(css), "\n")
	require.Contains(t, string(css), "body{")

	js, err := os.ReadFile(filepath.Join(out, "static", "app.js"))
	require.NoError(t, err)
	require.Less(t, len(js), len("var x = 1;\nvar y = 2;\n"))
}

func TestMinifyStatic_DisabledTypesUntouched(t *testing.T) {
	out := t.TempDir()
	original := "body {\n    color: red;\n}\n"
	writeFile(t, filepath.Join(out, "static", "style.css"), original)

	minifyStatic(out, false, true)

	b, err := os.ReadFile(filepath.Join(out, "static", "style.css"))
	require.NoError(t, err)
	require.Equal(t, original, string(b))
}

func TestDetectFavicon_PrefersGeneratedIco(t *testing.T) {
	out := t.TempDir()
	writeFile(t, filepath.Join(out, "icons", "favicon.ico"), "x")
	writeFile(t, filepath.Join(out, "favicon.png"), "x")

	require.Equal(t, "/icons/favicon.ico", detectFavicon(out))
}

func TestDetectFavicon_FallsBackToExtras(t *testing.T) {
	out := t.TempDir()
	writeFile(t, filepath.Join(out, "favicon.svg"), "x")

	require.Equal(t, "/favicon.svg", detectFavicon(out))
}

func TestDetectFavicon_None(t *testing.T) {
	require.Equal(t, "", detectFavicon(t.TempDir()))
}
