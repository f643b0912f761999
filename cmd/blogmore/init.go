package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const starterConfig = `# blogmore site configuration.
site_title: My Blog
site_subtitle: Notes and ramblings
# site_url is needed for feeds, the sitemap and absolute links.
site_url: https://example.com

content_dir: content
output: output

# default_author: Your Name
with_search: true
with_sitemap: true

# links:
#   - title: Projects
#     url: https://example.com/projects
# socials:
#   - name: GitHub
#     url: https://github.com/you
#     icon: github
`

const starterPost = `---
title: Hello, World
date: %s
tags: [meta]
---

Welcome to your new blog. Edit or delete this post and run
` + "`blogmore build`" + ` to regenerate the site, or ` + "`blogmore serve`" + ` to
preview it locally while you write.
`

// runInit scaffolds a site: config file, content directory and one sample
// post.
func runInit(force bool) error {
	configPath := "blogmore.yaml"
	if cli.Config != "" {
		configPath = cli.Config
	}
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(starterConfig), 0o644); err != nil {
		return err
	}
	slog.Info("Wrote configuration", "path", configPath)

	contentDir := "content"
	for _, dir := range []string{contentDir, filepath.Join(contentDir, "pages"), filepath.Join(contentDir, "extras"), filepath.Join(contentDir, "attachments")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	today := time.Now().Format("2006-01-02")
	postPath := filepath.Join(contentDir, today+"-hello-world.md")
	if _, err := os.Stat(postPath); err == nil && !force {
		slog.Info("Sample post already exists, leaving it alone", "path", postPath)
		return nil
	}
	if err := os.WriteFile(postPath, []byte(fmt.Sprintf(starterPost, today)), 0o644); err != nil {
		return err
	}
	slog.Info("Wrote sample post", "path", postPath)
	return nil
}
