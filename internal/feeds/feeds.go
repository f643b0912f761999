// Package feeds writes RSS 2.0 and Atom 1.0 documents for the blog index and
// per-category post lists.
package feeds

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/davep/blogmore/internal/content"
)

type rssFeed struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	XMLNSAtom string     `xml:"xmlns:atom,attr"`
	Channel   rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string      `xml:"title"`
	Link        string      `xml:"link"`
	SelfLink    rssSelfLink `xml:"atom:link"`
	Description string      `xml:"description"`
	Language    string      `xml:"language"`
	Items       []rssItem   `xml:"item"`
}

// rssSelfLink is the atom-namespaced self reference recommended for RSS
// channels.
type rssSelfLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        string   `xml:"guid"`
	PubDate     string   `xml:"pubDate,omitempty"`
	Categories  []string `xml:"category,omitempty"`
	Description string   `xml:"description"`
}

type atomFeed struct {
	XMLName  xml.Name    `xml:"feed"`
	XMLNS    string      `xml:"xmlns,attr"`
	ID       string      `xml:"id"`
	Title    string      `xml:"title"`
	Subtitle string      `xml:"subtitle,omitempty"`
	Updated  string      `xml:"updated"`
	Links    []atomLink  `xml:"link"`
	Entries  []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Link       atomLink       `xml:"link"`
	Published  string         `xml:"published,omitempty"`
	Updated    string         `xml:"updated"`
	Categories []atomCategory `xml:"category,omitempty"`
	Content    atomContent    `xml:"content"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomContent struct {
	Type string `xml:"type,attr"`
	Body string `xml:",chardata"`
}

// Generator writes feed files into the output directory.
type Generator struct {
	outputDir string
	siteTitle string
	siteURL   string
	maxPosts  int
}

// NewGenerator creates a feed generator. maxPosts caps the number of entries
// per feed; values <= 0 mean no cap.
func NewGenerator(outputDir, siteTitle, siteURL string, maxPosts int) *Generator {
	return &Generator{outputDir: outputDir, siteTitle: siteTitle, siteURL: siteURL, maxPosts: maxPosts}
}

// WriteIndexFeeds writes the main feed.rss and feed.atom at the site root.
func (g *Generator) WriteIndexFeeds(posts []*content.Post) error {
	description := fmt.Sprintf("Latest posts from %s", g.siteTitle)
	return g.writeFeedPair("feed", g.siteURL+"/feed", description, posts)
}

// WriteCategoryFeed writes category/{slug}/feed.rss and .atom for one category.
func (g *Generator) WriteCategoryFeed(categoryDir, slug, display string, posts []*content.Post) error {
	relPath := filepath.Join(categoryDir, slug, "feed")
	feedURL := fmt.Sprintf("%s/%s/%s/feed", g.siteURL, categoryDir, slug)
	description := fmt.Sprintf("Posts in category %q from %s", display, g.siteTitle)
	return g.writeFeedPair(relPath, feedURL, description, posts)
}

func (g *Generator) writeFeedPair(relPath, feedURL, description string, posts []*content.Post) error {
	if g.maxPosts > 0 && len(posts) > g.maxPosts {
		posts = posts[:g.maxPosts]
	}

	rss, err := g.BuildRSS(feedURL, description, posts)
	if err != nil {
		return err
	}
	atom, err := g.BuildAtom(feedURL, description, posts)
	if err != nil {
		return err
	}

	dir := filepath.Dir(filepath.Join(g.outputDir, relPath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create feed directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(g.outputDir, relPath+".rss"), []byte(rss), 0o644); err != nil {
		return fmt.Errorf("write rss feed: %w", err)
	}
	if err := os.WriteFile(filepath.Join(g.outputDir, relPath+".atom"), []byte(atom), 0o644); err != nil {
		return fmt.Errorf("write atom feed: %w", err)
	}
	return nil
}

// BuildRSS renders an RSS 2.0 document for the given posts (newest first).
// feedURL is the feed location without extension; the channel's self link
// points at its .rss form.
func (g *Generator) BuildRSS(feedURL, description string, posts []*content.Post) (string, error) {
	items := make([]rssItem, 0, len(posts))
	for _, post := range posts {
		postURL := g.siteURL + post.URL()
		item := rssItem{
			Title:       post.Title,
			Link:        postURL,
			GUID:        postURL,
			Categories:  postCategories(post),
			Description: string(post.HTML),
		}
		if !post.Date.IsZero() {
			item.PubDate = asUTC(post.Date).Format(time.RFC1123Z)
		}
		items = append(items, item)
	}

	feed := rssFeed{
		Version:   "2.0",
		XMLNSAtom: "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title: g.siteTitle,
			Link:  g.siteURL,
			SelfLink: rssSelfLink{
				Href: feedURL + ".rss",
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Description: description,
			Language:    "en",
			Items:       items,
		},
	}
	return marshalDocument(feed)
}

// BuildAtom renders an Atom 1.0 document for the given posts (newest first).
func (g *Generator) BuildAtom(feedURL, description string, posts []*content.Post) (string, error) {
	entries := make([]atomEntry, 0, len(posts))
	updated := time.Now().UTC()
	for i, post := range posts {
		postURL := g.siteURL + post.URL()
		entry := atomEntry{
			ID:      postURL,
			Title:   post.Title,
			Link:    atomLink{Href: postURL},
			Updated: asUTC(post.Date).Format(time.RFC3339),
			Content: atomContent{Type: "html", Body: string(post.HTML)},
		}
		if !post.Date.IsZero() {
			entry.Published = asUTC(post.Date).Format(time.RFC3339)
			if i == 0 {
				updated = asUTC(post.Date)
			}
		}
		for _, cat := range postCategories(post) {
			entry.Categories = append(entry.Categories, atomCategory{Term: cat})
		}
		entries = append(entries, entry)
	}

	feed := atomFeed{
		XMLNS:    "http://www.w3.org/2005/Atom",
		ID:       g.siteURL + "/",
		Title:    g.siteTitle,
		Subtitle: description,
		Updated:  updated.Format(time.RFC3339),
		Links: []atomLink{
			{Href: g.siteURL, Rel: "alternate"},
			{Href: feedURL + ".atom", Rel: "self"},
		},
		Entries: entries,
	}
	return marshalDocument(feed)
}

// postCategories flattens a post's category and tags into feed categories.
func postCategories(post *content.Post) []string {
	var cats []string
	if post.Category != "" {
		cats = append(cats, post.Category)
	}
	cats = append(cats, post.Tags...)
	return cats
}

func asUTC(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC()
}

func marshalDocument(doc any) (string, error) {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal feed: %w", err)
	}
	return xml.Header + string(body) + "\n", nil
}
