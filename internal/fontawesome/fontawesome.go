// Package fontawesome generates a minimal FontAwesome CSS file containing
// only the brand icons the site configuration actually uses, cutting the CSS
// payload from ~80KB to a few KB. Fonts stay on the CDN so browsers can
// cache them across sites.
package fontawesome

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Version is the FontAwesome release targeted by the optimizer.
const Version = "6.5.1"

// CDNStylesheetURL is the full CDN stylesheet, used as the fallback when
// optimization fails.
const CDNStylesheetURL = "https://cdnjs.cloudflare.com/ajax/libs/font-awesome/" + Version + "/css/all.min.css"

// CDNStylesheetIntegrity is the subresource integrity hash for the fallback.
const CDNStylesheetIntegrity = "sha512-DTOQO9RWCH3ppGqcWaEA1BIZOC6xxalwEsw9c2QQeAIftl+Vegovlnee1c9QX4TctnWMn13TZye+giMm8e2LwA=="

// metadataURL serves the official icon metadata with Unicode codepoints.
const metadataURL = "https://raw.githubusercontent.com/FortAwesome/Font-Awesome/" + Version + "/metadata/icons.json"

// webfontsBase is the CDN location of the brand webfont files.
const webfontsBase = "https://cdnjs.cloudflare.com/ajax/libs/font-awesome/" + Version + "/webfonts"

// LocalStylesheetPath is where the optimized CSS lives, relative to the site
// root.
const LocalStylesheetPath = "/static/fontawesome.css"

type iconMeta struct {
	Unicode string `json:"unicode"`
}

// Optimizer builds the subsetted stylesheet for a fixed set of brand icons.
type Optimizer struct {
	iconNames   []string
	client      *http.Client
	metadataURL string
}

// NewOptimizer creates an Optimizer for the given brand icon names
// (e.g. "github", "mastodon").
func NewOptimizer(iconNames []string) *Optimizer {
	return &Optimizer{
		iconNames:   iconNames,
		client:      &http.Client{Timeout: 15 * time.Second},
		metadataURL: metadataURL,
	}
}

// FetchMetadata downloads the FontAwesome icon metadata.
func (o *Optimizer) FetchMetadata(ctx context.Context) (map[string]iconMeta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.metadataURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch fontawesome metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch fontawesome metadata: unexpected status %s", resp.Status)
	}

	var metadata map[string]iconMeta
	if err := json.NewDecoder(resp.Body).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("decode fontawesome metadata: %w", err)
	}
	return metadata, nil
}

// BuildCSS assembles the minimal stylesheet: the @font-face declaration, the
// base brand classes, and one ::before rule per requested icon present in
// the metadata. Unknown icon names are silently skipped.
func (o *Optimizer) BuildCSS(metadata map[string]iconMeta) string {
	var b strings.Builder
	b.WriteString(`@font-face {
    font-family: "Font Awesome 6 Brands";
    font-style: normal;
    font-weight: 400;
    font-display: block;
    src: url("` + webfontsBase + `/fa-brands-400.woff2") format("woff2"),
         url("` + webfontsBase + `/fa-brands-400.ttf") format("truetype");
}

.fa-brands,
.fab {
    font-family: "Font Awesome 6 Brands";
    font-style: normal;
    font-weight: 400;
    font-variant: normal;
    text-rendering: auto;
    line-height: 1;
    -webkit-font-smoothing: antialiased;
    -moz-osx-font-smoothing: grayscale;
    display: var(--fa-display, inline-block);
}

`)

	for _, name := range o.iconNames {
		meta, ok := metadata[name]
		if !ok || meta.Unicode == "" {
			continue
		}
		fmt.Fprintf(&b, ".fa-%s::before { content: \"\\%s\"; }\n", name, meta.Unicode)
	}
	return b.String()
}

// Generate fetches metadata, builds the CSS, and writes it under the output
// directory at LocalStylesheetPath. A fetch failure is returned so the
// caller can fall back to the CDN stylesheet.
func (o *Optimizer) Generate(ctx context.Context, outputDir string) error {
	metadata, err := o.FetchMetadata(ctx)
	if err != nil {
		return err
	}

	css := o.BuildCSS(metadata)
	staticDir := filepath.Join(outputDir, "static")
	if err := os.MkdirAll(staticDir, 0o755); err != nil {
		return fmt.Errorf("create static directory: %w", err)
	}
	return os.WriteFile(filepath.Join(staticDir, "fontawesome.css"), []byte(css), 0o644)
}
