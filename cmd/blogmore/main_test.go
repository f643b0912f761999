package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davep/blogmore/internal/config"
)

func resetCLI(t *testing.T) {
	t.Helper()
	saved := cli
	t.Cleanup(func() { cli = saved })
}

func TestApplyBuildFlags_SiteFlagsOverrideConfig(t *testing.T) {
	resetCLI(t)
	cli.SiteTitle = "Flagged Title"
	cli.SiteURL = "https://flags.example.com/"
	cli.Templates = "/tmp/templates"
	cli.PostsPerFeed = 5
	cli.ExtraStylesheet = []string{"/static/extra.css"}
	cli.Build.Input = "/tmp/content"
	cli.Build.Drafts = true

	cfg := config.Default()
	cfg.SiteTitle = "File Title"
	cfg.SiteURL = "https://file.example.com"
	cfg.ExtraStylesheets = config.StringOrList{"/static/base.css"}

	cfg = applyBuildFlags(cfg)

	require.Equal(t, "Flagged Title", cfg.SiteTitle)
	require.Equal(t, "https://flags.example.com", cfg.SiteURL)
	require.Equal(t, "/tmp/templates", cfg.TemplatesDir)
	require.Equal(t, 5, cfg.PostsPerFeed)
	require.Equal(t, config.StringOrList{"/static/base.css", "/static/extra.css"}, cfg.ExtraStylesheets)
	require.Equal(t, "/tmp/content", cfg.ContentDir)
	require.True(t, cfg.IncludeDrafts)
}

func TestApplyBuildFlags_UnsetFlagsKeepConfig(t *testing.T) {
	resetCLI(t)
	cli.SiteTitle = ""
	cli.SiteURL = ""
	cli.Templates = ""
	cli.PostsPerFeed = 0
	cli.ExtraStylesheet = nil

	cfg := config.Default()
	cfg.SiteTitle = "File Title"
	cfg.SiteURL = "https://file.example.com"
	cfg.TemplatesDir = "themes"
	cfg.PostsPerFeed = 10
	cfg.ExtraStylesheets = config.StringOrList{"/static/base.css"}

	cfg = applyBuildFlags(cfg)

	require.Equal(t, "File Title", cfg.SiteTitle)
	require.Equal(t, "https://file.example.com", cfg.SiteURL)
	require.Equal(t, "themes", cfg.TemplatesDir)
	require.Equal(t, 10, cfg.PostsPerFeed)
	require.Equal(t, config.StringOrList{"/static/base.css"}, cfg.ExtraStylesheets)
}

func TestApplyServeFlags_SiteFlagsSurviveReload(t *testing.T) {
	resetCLI(t)
	cli.SiteTitle = "Served Title"
	cli.PostsPerFeed = 3
	cli.Serve.Port = 9000

	// Simulate the config file being re-read on change: the flag layer is
	// re-applied each time, so the flag values win again.
	for i := 0; i < 2; i++ {
		cfg := config.Default()
		cfg.SiteTitle = "File Title"
		cfg.PostsPerFeed = 10

		cfg = applyServeFlags(cfg)

		require.Equal(t, "Served Title", cfg.SiteTitle)
		require.Equal(t, 3, cfg.PostsPerFeed)
		require.Equal(t, 9000, cfg.Port)
	}
}
