package site

import (
	"fmt"
	"sort"
	"strings"

	"github.com/davep/blogmore/internal/content"
	"github.com/davep/blogmore/internal/render"
)

// postsPerPage is the pagination size for list pages.
const postsPerPage = 10

// group is a set of posts sharing one tag or category. Grouping is
// case-insensitive; Display keeps the spelling of the first occurrence.
type group struct {
	Display string
	Slug    string
	Posts   []*content.Post
}

// groupPosts buckets posts by the keys func (a post's tags, or its
// category), keyed case-insensitively. Groups come back sorted by their
// lowercased display name.
func groupPosts(posts []*content.Post, keys func(*content.Post) []string) []group {
	byKey := map[string]*group{}
	var order []string

	for _, post := range posts {
		for _, key := range keys(post) {
			lower := strings.ToLower(key)
			g, ok := byKey[lower]
			if !ok {
				g = &group{Display: key, Slug: content.Slugify(key)}
				byKey[lower] = g
				order = append(order, lower)
			}
			g.Posts = append(g.Posts, post)
		}
	}

	sort.Strings(order)
	groups := make([]group, 0, len(order))
	for _, key := range order {
		groups = append(groups, *byKey[key])
	}
	return groups
}

// paginate splits posts into pages of postsPerPage. An empty slice still
// yields one (empty) page so every list renders.
func paginate(posts []*content.Post) [][]*content.Post {
	if len(posts) == 0 {
		return [][]*content.Post{nil}
	}
	var pages [][]*content.Post
	for start := 0; start < len(posts); start += postsPerPage {
		end := start + postsPerPage
		if end > len(posts) {
			end = len(posts)
		}
		pages = append(pages, posts[start:end])
	}
	return pages
}

// cloudFontSize maps a count within [min, max] onto a font size between
// 1.0em and 2.5em. When every count is the same everything gets the middle
// size.
func cloudFontSize(count, min, max int) string {
	if max <= min {
		return "1.75em"
	}
	size := 1.0 + 1.5*float64(count-min)/float64(max-min)
	return fmt.Sprintf("%.2fem", size)
}

// buildCloud turns groups into cloud entries with scaled font sizes.
// urlFor maps a group slug to its page URL.
func buildCloud(groups []group, urlFor func(slug string) string) []render.CloudTag {
	if len(groups) == 0 {
		return nil
	}
	min, max := len(groups[0].Posts), len(groups[0].Posts)
	for _, g := range groups[1:] {
		if n := len(g.Posts); n < min {
			min = n
		} else if n > max {
			max = n
		}
	}

	cloud := make([]render.CloudTag, 0, len(groups))
	for _, g := range groups {
		cloud = append(cloud, render.CloudTag{
			Name:     g.Display,
			URL:      urlFor(g.Slug),
			Count:    len(g.Posts),
			FontSize: cloudFontSize(len(g.Posts), min, max),
		})
	}
	return cloud
}

// postView prepares a post for the templates.
func postView(post *content.Post) render.PostView {
	view := render.PostView{
		Title:   post.Title,
		URL:     post.URL(),
		Date:    post.Date,
		Author:  post.Author,
		Content: post.HTML,
	}
	for _, tag := range post.Tags {
		view.Tags = append(view.Tags, render.Link{
			Title: tag,
			URL:   "/tag/" + content.Slugify(tag) + ".html",
		})
	}
	if post.Category != "" {
		view.Category = &render.Link{
			Title: post.Category,
			URL:   "/category/" + content.Slugify(post.Category) + ".html",
		}
	}
	return view
}

func postViews(posts []*content.Post) []render.PostView {
	views := make([]render.PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, postView(post))
	}
	return views
}
