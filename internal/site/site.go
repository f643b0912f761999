// Package site builds the whole output tree of a blog: post and page HTML,
// paginated indexes, tag and category pages, date archives, feeds, search
// index, sitemap and assets.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/davep/blogmore/internal/config"
	"github.com/davep/blogmore/internal/content"
	"github.com/davep/blogmore/internal/feeds"
	"github.com/davep/blogmore/internal/fontawesome"
	"github.com/davep/blogmore/internal/icons"
	"github.com/davep/blogmore/internal/metrics"
	"github.com/davep/blogmore/internal/render"
	"github.com/davep/blogmore/internal/search"
	"github.com/davep/blogmore/internal/sitemap"
	"github.com/davep/blogmore/internal/version"
)

// ErrNoContentDir is returned when a build is requested without a content
// directory configured.
var ErrNoContentDir = errors.New("no content directory configured")

// Result summarizes one completed build.
type Result struct {
	Posts    int
	Pages    int
	Duration time.Duration
}

// Generator runs site builds for one configuration.
type Generator struct {
	cfg      config.Config
	parser   *content.Parser
	renderer *render.Renderer
	recorder metrics.Recorder
}

// New creates a Generator. recorder may be nil, in which case metrics are
// discarded.
func New(cfg config.Config, recorder metrics.Recorder) *Generator {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Generator{
		cfg:      cfg,
		parser:   content.NewParser(cfg.SiteURL),
		renderer: render.New(cfg.TemplatesDir),
		recorder: recorder,
	}
}

// Build generates the complete site into the configured output directory.
func (g *Generator) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	buildID := uuid.NewString()
	log := slog.With(slog.String("build_id", buildID))
	log.Info("Starting build", slog.String("output", g.cfg.OutputDir))

	result, err := g.build(ctx, log)
	duration := time.Since(start)

	g.recorder.ObserveBuildDuration(duration)
	g.recorder.IncBuildOutcome(err == nil)
	if err != nil {
		log.Error("Build failed", slog.Any("error", err))
		return nil, err
	}

	result.Duration = duration
	g.recorder.SetPostCount(result.Posts)
	g.recorder.SetPageCount(result.Pages)
	log.Info("Build complete",
		slog.Int("posts", result.Posts),
		slog.Int("pages", result.Pages),
		slog.Duration("duration", duration))
	return result, nil
}

func (g *Generator) build(ctx context.Context, log *slog.Logger) (*Result, error) {
	if g.cfg.ContentDir == "" {
		return nil, ErrNoContentDir
	}

	if g.cfg.CleanFirst {
		log.Info("Cleaning output directory", slog.String("path", g.cfg.OutputDir))
		if err := os.RemoveAll(g.cfg.OutputDir); err != nil {
			return nil, fmt.Errorf("clean output directory: %w", err)
		}
	}
	if err := os.MkdirAll(g.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	posts, err := g.parser.ParseDir(g.cfg.ContentDir, g.cfg.IncludeDrafts)
	if err != nil {
		return nil, err
	}
	pages, err := g.parser.ParsePagesDir(filepath.Join(g.cfg.ContentDir, "pages"))
	if err != nil {
		return nil, err
	}

	if g.cfg.DefaultAuthor != "" {
		for _, post := range posts {
			if post.Author == "" {
				post.Author = g.cfg.DefaultAuthor
			}
		}
	}

	g.writeAssets(log)
	hasIcons := g.generateIcons(log)
	faHref, faIntegrity := g.fontAwesome(ctx, log)
	minifyStatic(g.cfg.OutputDir, g.cfg.MinifyCSS, g.cfg.MinifyJS)

	tagGroups := groupPosts(posts, func(p *content.Post) []string { return p.Tags })
	categoryGroups := groupPosts(posts, func(p *content.Post) []string {
		if p.Category == "" {
			return nil
		}
		return []string{p.Category}
	})

	site := g.siteContext(pages, tagGroups, hasIcons, faHref, faIntegrity)

	g.renderPosts(site, posts, log)
	g.renderPages(site, pages, log)

	if err := g.renderIndex(site, posts); err != nil {
		return nil, err
	}
	if err := g.renderGroups(site, "tag", "Tagged", tagGroups); err != nil {
		return nil, err
	}
	if err := g.renderGroups(site, "category", "Category:", categoryGroups); err != nil {
		return nil, err
	}
	if err := g.renderClouds(site, tagGroups, categoryGroups); err != nil {
		return nil, err
	}
	if err := g.renderDateArchives(site, posts); err != nil {
		return nil, err
	}

	feedGen := feeds.NewGenerator(g.cfg.OutputDir, g.cfg.SiteTitle, g.cfg.SiteURL, g.cfg.PostsPerFeed)
	if err := feedGen.WriteIndexFeeds(posts); err != nil {
		return nil, err
	}
	for _, grp := range categoryGroups {
		if err := feedGen.WriteCategoryFeed("category", grp.Slug, grp.Display, grp.Posts); err != nil {
			return nil, err
		}
	}

	if g.cfg.WithSearch {
		if err := search.WriteIndex(posts, g.cfg.OutputDir); err != nil {
			return nil, err
		}
		data := render.SearchData{Site: site, Title: "Search"}
		if err := g.renderTo("/search.html", "search.html.tmpl", data); err != nil {
			return nil, err
		}
	}

	if g.cfg.WithSitemap {
		if err := sitemap.Write(g.cfg.OutputDir, g.cfg.SiteURL); err != nil {
			return nil, err
		}
	}

	return &Result{Posts: len(posts), Pages: len(pages)}, nil
}

// writeAssets lays down the theme assets and the site's own files: bundled
// static defaults, then {templates}/static overrides, then attachments and
// extras from the content tree.
func (g *Generator) writeAssets(log *slog.Logger) {
	if err := render.WriteDefaultAssets(g.cfg.OutputDir); err != nil {
		log.Warn("Could not write bundled assets", slog.Any("error", err))
	}
	if g.cfg.TemplatesDir != "" {
		if err := copyTree(filepath.Join(g.cfg.TemplatesDir, "static"), filepath.Join(g.cfg.OutputDir, "static")); err != nil {
			log.Warn("Could not copy template static files", slog.Any("error", err))
		}
	}
	if err := copyTree(filepath.Join(g.cfg.ContentDir, "attachments"), filepath.Join(g.cfg.OutputDir, "attachments")); err != nil {
		log.Warn("Could not copy attachments", slog.Any("error", err))
	}
	if err := copyTree(filepath.Join(g.cfg.ContentDir, "extras"), g.cfg.OutputDir); err != nil {
		log.Warn("Could not copy extras", slog.Any("error", err))
	}
}

// generateIcons builds the favicon and touch icons when a source image is
// available. Reports whether icons were generated.
func (g *Generator) generateIcons(log *slog.Logger) bool {
	extrasDir := filepath.Join(g.cfg.ContentDir, "extras")
	source, ok := icons.DetectSource(extrasDir, g.cfg.IconSource)
	if !ok {
		return false
	}

	gen := icons.NewGenerator(source, filepath.Join(g.cfg.OutputDir, "icons"))
	generated, err := gen.GenerateAll()
	if err != nil {
		log.Warn("Could not generate icons", slog.Any("error", err))
		return false
	}
	log.Info("Generated icons", slog.Int("count", len(generated)))
	return len(generated) > 0
}

// fontAwesome writes the optimized stylesheet for the configured social
// icons, falling back to the CDN copy when the subset cannot be built.
func (g *Generator) fontAwesome(ctx context.Context, log *slog.Logger) (href, integrity string) {
	if len(g.cfg.Sidebar.Socials) == 0 {
		return "", ""
	}

	names := make([]string, 0, len(g.cfg.Sidebar.Socials))
	for _, social := range g.cfg.Sidebar.Socials {
		names = append(names, social.Icon)
	}

	optimizer := fontawesome.NewOptimizer(names)
	if err := optimizer.Generate(ctx, g.cfg.OutputDir); err != nil {
		log.Warn("FontAwesome optimization failed, using CDN stylesheet", slog.Any("error", err))
		return fontawesome.CDNStylesheetURL, fontawesome.CDNStylesheetIntegrity
	}
	return fontawesome.LocalStylesheetPath, ""
}

// siteContext assembles the values shared by every rendered page.
func (g *Generator) siteContext(pages []*content.Page, tagGroups []group, hasIcons bool, faHref, faIntegrity string) render.Site {
	site := render.Site{
		Title:                g.cfg.SiteTitle,
		Subtitle:             g.cfg.SiteSubtitle,
		URL:                  g.cfg.SiteURL,
		Author:               g.cfg.DefaultAuthor,
		Logo:                 g.cfg.Sidebar.SiteLogo,
		FontAwesomeHref:      faHref,
		FontAwesomeIntegrity: faIntegrity,
		ExtraStylesheets:     g.cfg.ExtraStylesheets,
		Favicon:              detectFavicon(g.cfg.OutputDir),
		HasTouchIcons:        hasIcons,
		WithSearch:           g.cfg.WithSearch,
		Version:              version.Version,
		Year:                 time.Now().Year(),
		Cloud:                buildCloud(tagGroups, tagURL),
	}
	for _, link := range g.cfg.Sidebar.Links {
		site.Links = append(site.Links, render.Link{Title: link.Title, URL: link.URL})
	}
	for _, social := range g.cfg.Sidebar.Socials {
		site.Socials = append(site.Socials, render.Social{Name: social.Name, URL: social.URL, Icon: social.Icon})
	}
	for _, page := range pages {
		site.Pages = append(site.Pages, render.Link{Title: page.Title, URL: page.URL()})
	}
	return site
}

// renderPosts writes every post page with newer/older navigation. A failed
// post is logged and skipped.
func (g *Generator) renderPosts(site render.Site, posts []*content.Post, log *slog.Logger) {
	for i, post := range posts {
		data := render.PostData{
			Site:  site,
			Title: post.Title,
			Post:  postView(post),
		}
		// Posts are sorted newest first.
		if i > 0 {
			newer := posts[i-1]
			data.Prev = &render.Link{Title: newer.Title, URL: newer.URL()}
		}
		if i < len(posts)-1 {
			older := posts[i+1]
			data.Next = &render.Link{Title: older.Title, URL: older.URL()}
		}
		if err := g.renderTo(post.URL(), "post.html.tmpl", data); err != nil {
			log.Warn("Could not render post", slog.String("post", post.Path), slog.Any("error", err))
		}
	}
}

func (g *Generator) renderPages(site render.Site, pages []*content.Page, log *slog.Logger) {
	for _, page := range pages {
		data := render.PageData{Site: site, Title: page.Title, Content: page.HTML}
		if err := g.renderTo(page.URL(), "page.html.tmpl", data); err != nil {
			log.Warn("Could not render page", slog.String("page", page.Path), slog.Any("error", err))
		}
	}
}

// renderIndex writes the paginated front page and the single-page archive.
func (g *Generator) renderIndex(site render.Site, posts []*content.Post) error {
	index := func(n int) string {
		if n == 1 {
			return "/index.html"
		}
		return fmt.Sprintf("/page/%d.html", n)
	}
	if err := g.renderList(site, "", posts, index, "/feed.rss", "/feed.atom"); err != nil {
		return err
	}

	archive := render.ListData{
		Site:       site,
		Title:      "Archive",
		Posts:      postViews(posts),
		PageNumber: 1,
		TotalPages: 1,
	}
	return g.renderTo("/archive.html", "index.html.tmpl", archive)
}

func tagURL(slug string) string { return "/tag/" + slug + ".html" }

func categoryURL(slug string) string { return "/category/" + slug + ".html" }

// renderGroups writes the paginated per-tag or per-category list pages.
func (g *Generator) renderGroups(site render.Site, kind, titlePrefix string, groups []group) error {
	for _, grp := range groups {
		urlFor := func(n int) string {
			if n == 1 {
				return fmt.Sprintf("/%s/%s.html", kind, grp.Slug)
			}
			return fmt.Sprintf("/%s/%s/%d.html", kind, grp.Slug, n)
		}
		title := fmt.Sprintf("%s %s", titlePrefix, grp.Display)
		feedRSS, feedAtom := "", ""
		if kind == "category" {
			feedRSS = fmt.Sprintf("/category/%s/feed.rss", grp.Slug)
			feedAtom = fmt.Sprintf("/category/%s/feed.atom", grp.Slug)
		}
		if err := g.renderList(site, title, grp.Posts, urlFor, feedRSS, feedAtom); err != nil {
			return err
		}
	}
	return nil
}

// renderClouds writes the tags and categories overview pages, skipped when
// there is nothing to show.
func (g *Generator) renderClouds(site render.Site, tagGroups, categoryGroups []group) error {
	if len(tagGroups) > 0 {
		data := render.CloudData{Site: site, Title: "Tags", Cloud: buildCloud(tagGroups, tagURL)}
		if err := g.renderTo("/tags.html", "cloud.html.tmpl", data); err != nil {
			return err
		}
	}
	if len(categoryGroups) > 0 {
		data := render.CloudData{Site: site, Title: "Categories", Cloud: buildCloud(categoryGroups, categoryURL)}
		if err := g.renderTo("/categories.html", "cloud.html.tmpl", data); err != nil {
			return err
		}
	}
	return nil
}

// renderDateArchives writes /{yyyy}/, /{yyyy}/{mm}/ and /{yyyy}/{mm}/{dd}/
// index pages, each paginated.
func (g *Generator) renderDateArchives(site render.Site, posts []*content.Post) error {
	type bucket struct {
		prefix string
		title  string
		posts  []*content.Post
	}
	byPrefix := map[string]*bucket{}
	var order []string

	add := func(prefix, title string, post *content.Post) {
		b, ok := byPrefix[prefix]
		if !ok {
			b = &bucket{prefix: prefix, title: title}
			byPrefix[prefix] = b
			order = append(order, prefix)
		}
		b.posts = append(b.posts, post)
	}

	for _, post := range posts {
		if post.Date.IsZero() {
			continue
		}
		y := post.Date.Format("2006")
		m := post.Date.Format("01")
		d := post.Date.Format("02")
		add("/"+y, y, post)
		add("/"+y+"/"+m, post.Date.Format("January 2006"), post)
		add("/"+y+"/"+m+"/"+d, post.Date.Format("January 02, 2006"), post)
	}

	for _, prefix := range order {
		b := byPrefix[prefix]
		urlFor := func(n int) string {
			if n == 1 {
				return b.prefix + "/index.html"
			}
			return fmt.Sprintf("%s/page/%d.html", b.prefix, n)
		}
		if err := g.renderList(site, b.title, b.posts, urlFor, "", ""); err != nil {
			return err
		}
	}
	return nil
}

// renderList paginates posts and writes one list page per chunk.
func (g *Generator) renderList(site render.Site, title string, posts []*content.Post, urlFor func(n int) string, feedRSS, feedAtom string) error {
	pages := paginate(posts)
	for i, chunk := range pages {
		n := i + 1
		data := render.ListData{
			Site:       site,
			Title:      title,
			Posts:      postViews(chunk),
			PageNumber: n,
			TotalPages: len(pages),
			FeedRSS:    feedRSS,
			FeedAtom:   feedAtom,
		}
		if n > 1 {
			data.PrevURL = urlFor(n - 1)
		}
		if n < len(pages) {
			data.NextURL = urlFor(n + 1)
		}
		if err := g.renderTo(urlFor(n), "index.html.tmpl", data); err != nil {
			return err
		}
	}
	return nil
}

// renderTo renders a template to the output file for a site-relative URL.
func (g *Generator) renderTo(url, tmpl string, data any) error {
	rel := filepath.FromSlash(strings.TrimPrefix(url, "/"))
	return g.renderer.RenderToFile(filepath.Join(g.cfg.OutputDir, rel), tmpl, data)
}
