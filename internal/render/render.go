// Package render turns page data into HTML through a set of embedded
// default templates, each of which can be overridden by a file of the same
// name in the site's templates directory.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed static/*
var embeddedStatic embed.FS

// baseTemplate is the shared layout every page template plugs into.
const baseTemplate = "base.html.tmpl"

var funcs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Format("January 02, 2006")
	},
}

// Renderer executes page templates against the shared base layout.
type Renderer struct {
	overrideDir string
}

// New creates a Renderer. overrideDir may be empty, in which case only the
// embedded defaults are used.
func New(overrideDir string) *Renderer {
	return &Renderer{overrideDir: overrideDir}
}

// templateSource returns the template body, preferring an override file in
// the templates directory over the embedded default.
func (r *Renderer) templateSource(name string) (string, error) {
	if r.overrideDir != "" {
		path := filepath.Join(r.overrideDir, name)
		if b, err := os.ReadFile(path); err == nil {
			slog.Debug("Loaded template override", slog.String("template", name), slog.String("path", path))
			return string(b), nil
		}
	}
	b, err := embeddedTemplates.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("no template named %s: %w", name, err)
	}
	return string(b), nil
}

// load parses the base layout together with the named page template.
func (r *Renderer) load(name string) (*template.Template, error) {
	base, err := r.templateSource(baseTemplate)
	if err != nil {
		return nil, err
	}
	page, err := r.templateSource(name)
	if err != nil {
		return nil, err
	}

	t, err := template.New(baseTemplate).Funcs(funcs).Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", baseTemplate, err)
	}
	if _, err := t.Parse(page); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return t, nil
}

// Render executes the named page template into w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	t, err := r.load(name)
	if err != nil {
		return err
	}
	if err := t.ExecuteTemplate(w, baseTemplate, data); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}
	return nil
}

// RenderToFile renders the named template and writes the result to path,
// creating parent directories as needed.
func (r *Renderer) RenderToFile(path, name string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := r.Render(f, name, data); err != nil {
		return err
	}
	return f.Close()
}

// WriteDefaultAssets copies the embedded static assets (stylesheet, search
// script) into the output directory's static/ folder. Site-provided static
// files are copied afterwards by the generator and take precedence.
func WriteDefaultAssets(outputDir string) error {
	entries, err := embeddedStatic.ReadDir("static")
	if err != nil {
		return err
	}
	staticDir := filepath.Join(outputDir, "static")
	if err := os.MkdirAll(staticDir, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		b, err := embeddedStatic.ReadFile("static/" + entry.Name())
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(staticDir, entry.Name()), b, 0o644); err != nil {
			return err
		}
	}
	return nil
}
