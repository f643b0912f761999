// Package search builds the client-side search index for the generated site.
package search

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/davep/blogmore/internal/content"
)

// IndexFilename is the search index written at the output root.
const IndexFilename = "search_index.json"

// Entry is one searchable post in the index.
type Entry struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

// StripHTML returns the plain text of an HTML fragment with tags removed and
// whitespace collapsed, preserving word boundaries between elements.
func StripHTML(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(tokenizer.Text())
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// BuildIndex builds index entries for the given posts.
func BuildIndex(posts []*content.Post) []Entry {
	entries := make([]Entry, 0, len(posts))
	for _, post := range posts {
		entry := Entry{
			Title:   post.Title,
			URL:     post.URL(),
			Content: StripHTML(string(post.HTML)),
		}
		if !post.Date.IsZero() {
			entry.Date = post.Date.Format("2006-01-02")
		}
		entries = append(entries, entry)
	}
	return entries
}

// WriteIndex writes search_index.json at the output root.
func WriteIndex(posts []*content.Post, outputDir string) error {
	raw, err := json.Marshal(BuildIndex(posts))
	if err != nil {
		return fmt.Errorf("marshal search index: %w", err)
	}
	return os.WriteFile(filepath.Join(outputDir, IndexFilename), raw, 0o644)
}
