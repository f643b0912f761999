package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_NoConfigFile_ReturnsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, used, err := Load("")
	require.NoError(t, err)
	require.Empty(t, used)
	require.Equal(t, "My Blog", cfg.SiteTitle)
	require.Equal(t, "output", cfg.OutputDir)
	require.Equal(t, 20, cfg.PostsPerFeed)
	require.Equal(t, "gh-pages", cfg.Branch)
	require.Equal(t, "origin", cfg.Remote)
	require.Equal(t, 8000, cfg.Port)
}

func TestLoad_ExplicitMissingFile_ReturnsError(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_FileValues_OverrideDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "blogmore.yaml", `
site_title: Example Blog
site_url: https://example.com/
posts_per_feed: 5
with_search: true
`)

	cfg, used, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, used)
	require.Equal(t, "Example Blog", cfg.SiteTitle)
	require.Equal(t, "https://example.com", cfg.SiteURL, "trailing slash removed")
	require.Equal(t, 5, cfg.PostsPerFeed)
	require.True(t, cfg.WithSearch)
	require.Equal(t, "My Blog", Default().SiteTitle, "defaults untouched")
}

func TestLoad_SearchesDefaultFilenames(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "blogmore.yml", "site_title: Found\n")
	t.Chdir(dir)

	cfg, used, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "blogmore.yml", used)
	require.Equal(t, "Found", cfg.SiteTitle)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("BLOG_TITLE", "Env Blog")
	path := writeConfig(t, t.TempDir(), "blogmore.yaml", "site_title: ${BLOG_TITLE}\n")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Env Blog", cfg.SiteTitle)
}

func TestLoad_SidebarKeys_AreInlined(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "blogmore.yaml", `
site_logo: /static/logo.png
links:
  - title: Projects
    url: https://example.com/projects
socials:
  - name: GitHub
    url: https://github.com/example
    icon: github
`)

	cfg, _, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/static/logo.png", cfg.Sidebar.SiteLogo)
	require.Len(t, cfg.Sidebar.Links, 1)
	require.Equal(t, "Projects", cfg.Sidebar.Links[0].Title)
	require.Len(t, cfg.Sidebar.Socials, 1)
	require.Equal(t, "github", cfg.Sidebar.Socials[0].Icon)
}

func TestLoad_KeywordsAsCommaString(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "blogmore.yaml", "site_keywords: go, blogging , web\n")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, KeywordList{"go", "blogging", "web"}, cfg.SiteKeywords)
}

func TestLoad_KeywordsAsList(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "blogmore.yaml", "site_keywords:\n  - go\n  - web\n")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, KeywordList{"go", "web"}, cfg.SiteKeywords)
}

func TestLoad_ExtraStylesheetsAsSingleString(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "blogmore.yaml", "extra_stylesheets: /static/custom.css\n")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, StringOrList{"/static/custom.css"}, cfg.ExtraStylesheets)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "blogmore.yaml", "site_title: [unclosed\n")

	_, _, err := Load(path)
	require.Error(t, err)
}

func TestNormalizeSiteURL(t *testing.T) {
	require.Equal(t, "https://example.com", NormalizeSiteURL("https://example.com///"))
	require.Equal(t, "", NormalizeSiteURL(""))
}
