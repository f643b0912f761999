package render

import (
	"html/template"
	"time"
)

// Link is a sidebar navigation link.
type Link struct {
	Title string
	URL   string
}

// Social is a sidebar social-media link rendered with a FontAwesome brand
// icon.
type Social struct {
	Name string
	URL  string
	Icon string
}

// CloudTag is one entry in a tag or category cloud. FontSize is a CSS
// length ("1.4em") scaled by how often the tag appears.
type CloudTag struct {
	Name     string
	URL      string
	Count    int
	FontSize string
}

// Site carries the values every page shares: identity, sidebar content and
// the stylesheet wiring.
type Site struct {
	Title    string
	Subtitle string
	URL      string
	Author   string
	Logo     string

	Links   []Link
	Socials []Social
	Pages   []Link
	Cloud   []CloudTag

	// FontAwesomeHref is either the locally optimized stylesheet or the
	// CDN fallback; Integrity is empty for the local copy.
	FontAwesomeHref      string
	FontAwesomeIntegrity string

	ExtraStylesheets []string

	// Favicon is the detected favicon URL, empty when the site has none.
	Favicon string
	// HasTouchIcons is set when apple-touch icons were generated.
	HasTouchIcons bool
	// WithSearch controls whether the search page is linked.
	WithSearch bool

	// Version is the generator version, surfaced as a meta tag.
	Version string

	Year int
}

// PostView is a post prepared for template consumption.
type PostView struct {
	Title    string
	URL      string
	Date     time.Time
	Author   string
	Tags     []Link
	Category *Link
	Content  template.HTML
}

// ListData renders any paginated post list: the front page, a tag or
// category page, or a date archive.
type ListData struct {
	Site  Site
	Title string

	Posts      []PostView
	PageNumber int
	TotalPages int
	PrevURL    string
	NextURL    string

	// FeedRSS/FeedAtom are set when the list has its own feeds.
	FeedRSS  string
	FeedAtom string
}

// PostData renders a single post page with adjacent-post navigation.
type PostData struct {
	Site  Site
	Title string
	Post  PostView
	Prev  *Link
	Next  *Link
}

// PageData renders a standalone page.
type PageData struct {
	Site    Site
	Title   string
	Content template.HTML
}

// CloudData renders the all-tags or all-categories cloud page.
type CloudData struct {
	Site  Site
	Title string
	Cloud []CloudTag
}

// SearchData renders the client-side search page.
type SearchData struct {
	Site  Site
	Title string
}
