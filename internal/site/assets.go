package site

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

// faviconExtras are the output-root favicon names checked after the
// generated /icons/favicon.ico, in order of preference.
var faviconExtras = []string{
	"favicon.ico", "favicon.png", "favicon.svg",
	"favicon.gif", "favicon.jpg", "favicon.jpeg",
}

// copyTree copies every regular file under src into dst, preserving the
// directory layout. Missing src is not an error. Individual file failures
// are logged and skipped.
func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return nil
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("Could not read asset", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if _, err := os.Stat(target); err == nil {
			slog.Debug("Overwriting existing output file", "path", target)
		}
		if err := copyFile(path, target); err != nil {
			slog.Warn("Could not copy asset", "path", path, "error", err)
		}
		return nil
	})
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// minifyStatic minifies CSS and/or JS files under the output static
// directory in place. Per-file failures are logged and the original file
// kept.
func minifyStatic(outputDir string, minifyCSS, minifyJS bool) {
	if !minifyCSS && !minifyJS {
		return
	}

	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)

	staticDir := filepath.Join(outputDir, "static")
	_ = filepath.WalkDir(staticDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		var mediatype string
		switch {
		case minifyCSS && strings.HasSuffix(path, ".css"):
			mediatype = "text/css"
		case minifyJS && strings.HasSuffix(path, ".js"):
			mediatype = "application/javascript"
		default:
			return nil
		}

		original, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("Could not read asset for minification", "path", path, "error", err)
			return nil
		}
		minified, err := m.Bytes(mediatype, original)
		if err != nil {
			slog.Warn("Could not minify asset", "path", path, "error", err)
			return nil
		}
		if err := os.WriteFile(path, minified, 0o644); err != nil {
			slog.Warn("Could not write minified asset", "path", path, "error", err)
		}
		return nil
	})
}

// detectFavicon returns the site-relative favicon URL: the generated
// /icons/favicon.ico when present, otherwise the first favicon.* copied to
// the output root from extras, otherwise "".
func detectFavicon(outputDir string) string {
	if _, err := os.Stat(filepath.Join(outputDir, "icons", "favicon.ico")); err == nil {
		return "/icons/favicon.ico"
	}
	for _, name := range faviconExtras {
		if _, err := os.Stat(filepath.Join(outputDir, name)); err == nil {
			return "/" + name
		}
	}
	return ""
}
