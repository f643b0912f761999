// Package config loads and merges blogmore site configuration.
//
// Configuration comes from three layers, later layers winning: built-in
// defaults, a YAML config file (blogmore.yaml / blogmore.yml, or an explicit
// path), and command-line flags. Environment variables are expanded inside
// the YAML before decoding, with an optional .env file loaded first.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFiles are searched in order when no explicit path is given.
var DefaultConfigFiles = []string{"blogmore.yaml", "blogmore.yml"}

// Config is the full site configuration.
type Config struct {
	SiteTitle       string      `yaml:"site_title"`
	SiteSubtitle    string      `yaml:"site_subtitle"`
	SiteDescription string      `yaml:"site_description"`
	SiteKeywords    KeywordList `yaml:"site_keywords"`
	SiteURL         string      `yaml:"site_url"`

	ContentDir   string `yaml:"content_dir"`
	TemplatesDir string `yaml:"templates"`
	OutputDir    string `yaml:"output"`

	IncludeDrafts    bool         `yaml:"include_drafts"`
	PostsPerFeed     int          `yaml:"posts_per_feed"`
	ExtraStylesheets StringOrList `yaml:"extra_stylesheets"`
	DefaultAuthor    string       `yaml:"default_author"`
	CleanFirst       bool         `yaml:"clean_first"`

	IconSource  string `yaml:"icon_source"`
	WithSearch  bool   `yaml:"with_search"`
	WithSitemap bool   `yaml:"with_sitemap"`
	MinifyCSS   bool   `yaml:"minify_css"`
	MinifyJS    bool   `yaml:"minify_js"`

	// Publishing target.
	Branch string `yaml:"branch"`
	Remote string `yaml:"remote"`

	// Local server.
	Port    int  `yaml:"port"`
	NoWatch bool `yaml:"no_watch"`

	Sidebar Sidebar `yaml:",inline"`
}

// Sidebar holds site-wide navigation and social-link settings merged into
// every page's render context.
type Sidebar struct {
	SiteLogo string       `yaml:"site_logo"`
	Links    []Link       `yaml:"links"`
	Socials  []SocialLink `yaml:"socials"`
}

// Link is a sidebar navigation link.
type Link struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// SocialLink is a sidebar social-media link with a FontAwesome brand icon.
type SocialLink struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Icon string `yaml:"icon"`
}

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		SiteTitle:    "My Blog",
		OutputDir:    "output",
		PostsPerFeed: 20,
		Branch:       "gh-pages",
		Remote:       "origin",
		Port:         8000,
	}
}

// Load reads configuration from path, or searches the default config files
// when path is empty. The returned string is the config file actually used
// ("" when none was found, which is not an error). The result starts from
// Default() with file values applied on top.
func Load(path string) (Config, string, error) {
	cfg := Default()

	if path == "" {
		for _, candidate := range DefaultConfigFiles {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return cfg, "", nil
		}
	} else if _, err := os.Stat(path); err != nil {
		return cfg, "", fmt.Errorf("config file not found: %s", path)
	}

	loadEnvFile()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, "", fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(raw))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return cfg, "", fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, path, nil
}

// normalize cleans up loaded values: trailing-slash removal on the site URL
// and ~-expansion of path settings.
func (c *Config) normalize() {
	c.SiteURL = NormalizeSiteURL(c.SiteURL)
	c.ContentDir = expandHome(c.ContentDir)
	c.TemplatesDir = expandHome(c.TemplatesDir)
	c.OutputDir = expandHome(c.OutputDir)
}

// NormalizeSiteURL removes trailing slashes from a site URL.
func NormalizeSiteURL(siteURL string) string {
	return strings.TrimRight(siteURL, "/")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}
