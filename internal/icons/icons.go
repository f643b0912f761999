// Package icons generates the favicon and Apple touch icons from a single
// source image found in the content extras directory.
package icons

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
)

// sourceCandidates are the default source image filenames, in priority order.
var sourceCandidates = []string{
	"icon.png",
	"icon.jpg",
	"icon.jpeg",
	"source-icon.png",
	"source-icon.jpg",
	"app-icon.png",
}

// appleIcons lists the Apple touch icon sizes and filenames to generate.
var appleIcons = []struct {
	size int
	name string
}{
	{180, "apple-touch-icon.png"},
	{120, "apple-touch-icon-120.png"},
	{152, "apple-touch-icon-152.png"},
	{167, "apple-touch-icon-167.png"},
	{180, "apple-touch-icon-precomposed.png"},
}

// faviconSizes are the resolutions embedded in the multi-image favicon.ico.
var faviconSizes = []int{16, 32, 48}

// DetectSource looks for the source icon in extrasDir. When customName is
// set only that file is considered. The boolean reports whether a source
// image was found.
func DetectSource(extrasDir, customName string) (string, bool) {
	if _, err := os.Stat(extrasDir); err != nil {
		return "", false
	}

	if customName != "" {
		path := filepath.Join(extrasDir, customName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
		return "", false
	}

	for _, candidate := range sourceCandidates {
		path := filepath.Join(extrasDir, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Generator produces all icon formats from one source image.
type Generator struct {
	sourcePath string
	outputDir  string
}

// NewGenerator creates a Generator writing into outputDir (the site's /icons
// subdirectory).
func NewGenerator(sourcePath, outputDir string) *Generator {
	return &Generator{sourcePath: sourcePath, outputDir: outputDir}
}

// GenerateAll generates the favicon and Apple touch icons, returning the
// filenames successfully written. Individual icon failures are logged and
// skipped; only being unable to read the source image is an error.
func (g *Generator) GenerateAll() ([]string, error) {
	src, err := g.loadSource()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create icons directory: %w", err)
	}

	var generated []string
	if err := g.writeFavicon(src); err != nil {
		slog.Warn("Could not generate favicon", "error", err)
	} else {
		generated = append(generated, "favicon.ico")
	}

	for _, icon := range appleIcons {
		if err := g.writePNG(src, icon.size, icon.name); err != nil {
			slog.Warn("Could not generate icon", "name", icon.name, "error", err)
			continue
		}
		generated = append(generated, icon.name)
	}
	return generated, nil
}

func (g *Generator) loadSource() (image.Image, error) {
	f, err := os.Open(g.sourcePath)
	if err != nil {
		return nil, fmt.Errorf("open source icon: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode source icon %s: %w", g.sourcePath, err)
	}
	return img, nil
}

// writeFavicon writes a multi-resolution favicon.ico. Transparency is
// flattened onto a white matte since classic ICO consumers expect opaque
// favicons.
func (g *Generator) writeFavicon(src image.Image) error {
	images := make([]image.Image, 0, len(faviconSizes))
	for _, size := range faviconSizes {
		matte := image.NewRGBA(image.Rect(0, 0, size, size))
		draw.Draw(matte, matte.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		xdraw.CatmullRom.Scale(matte, matte.Bounds(), src, src.Bounds(), xdraw.Over, nil)
		images = append(images, matte)
	}

	out, err := os.Create(filepath.Join(g.outputDir, "favicon.ico"))
	if err != nil {
		return err
	}
	defer out.Close()
	return writeICO(out, images)
}

func (g *Generator) writePNG(src image.Image, size int, name string) error {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	out, err := os.Create(filepath.Join(g.outputDir, name))
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, dst)
}
