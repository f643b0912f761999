// Package sitemap generates an XML sitemap for the generated site.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Filename is the sitemap file written at the output root.
const Filename = "sitemap.xml"

// fallbackBaseURL is used when no site URL is configured.
const fallbackBaseURL = "https://example.com"

// excludedPages are generated pages that never appear in the sitemap.
var excludedPages = map[string]bool{"search.html": true}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc string `xml:"loc"`
}

// CollectURLs walks the output directory and returns the absolute URL of
// every generated HTML page, sorted, excluding search.html.
func CollectURLs(outputDir, siteURL string) ([]string, error) {
	base := strings.TrimRight(siteURL, "/")
	if base == "" {
		base = fallbackBaseURL
	}

	var urls []string
	err := filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		if excludedPages[d.Name()] {
			return nil
		}
		rel, err := filepath.Rel(outputDir, path)
		if err != nil {
			return err
		}
		urls = append(urls, base+"/"+filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk output directory: %w", err)
	}

	sort.Strings(urls)
	return urls, nil
}

// Build renders the sitemap XML for the given URLs.
func Build(urls []string) (string, error) {
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, u := range urls {
		set.URLs = append(set.URLs, urlEntry{Loc: u})
	}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal sitemap: %w", err)
	}
	return xml.Header + string(body) + "\n", nil
}

// Write collects the site's pages and writes sitemap.xml at the output root.
func Write(outputDir, siteURL string) error {
	urls, err := CollectURLs(outputDir, siteURL)
	if err != nil {
		return err
	}
	doc, err := Build(urls)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, Filename), []byte(doc), 0o644)
}
