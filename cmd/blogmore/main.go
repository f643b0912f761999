package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/davep/blogmore/internal/config"
	"github.com/davep/blogmore/internal/publish"
	"github.com/davep/blogmore/internal/server"
	"github.com/davep/blogmore/internal/site"
	"github.com/davep/blogmore/internal/version"
)

var cli struct {
	Config  string           `short:"c" help:"Configuration file path (default: blogmore.yaml)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `help:"Print version and exit"`

	SiteTitle       string   `help:"Site title"`
	SiteURL         string   `help:"Site URL used for absolute links and feeds"`
	Templates       string   `short:"t" help:"Templates directory" type:"path"`
	PostsPerFeed    int      `help:"Maximum posts per feed"`
	ExtraStylesheet []string `help:"Additional stylesheet URL (repeatable)"`

	Build struct {
		Input  string `short:"i" help:"Content directory" type:"path"`
		Output string `short:"o" help:"Output directory" type:"path"`
		Drafts bool   `help:"Include draft posts"`
		Clean  bool   `help:"Remove the output directory before building"`
	} `cmd:"" aliases:"gen,generate" help:"Build the site"`

	Serve struct {
		Input   string `short:"i" help:"Content directory" type:"path"`
		Output  string `short:"o" help:"Output directory" type:"path"`
		Port    int    `short:"p" help:"Port to serve on"`
		NoWatch bool   `help:"Do not watch for changes"`
	} `cmd:"" aliases:"test" help:"Build the site and serve it locally, rebuilding on change"`

	Publish struct {
		Output string `short:"o" help:"Output directory to publish" type:"path"`
		Branch string `help:"Branch to publish to"`
		Remote string `help:"Remote to push to"`
	} `cmd:"" help:"Push the built site to the publishing branch"`

	Init struct {
		Force bool `help:"Overwrite existing files"`
	} `cmd:"" help:"Create a starter configuration and sample post"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("blogmore"),
		kong.Description("A blog-oriented static site generator."),
		kong.Vars{"version": version.Version},
	)

	logLevel := slog.LevelInfo
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, usedConfig, err := config.Load(cli.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if usedConfig != "" {
		slog.Debug("Loaded configuration", "path", usedConfig)
	}

	switch ctx.Command() {
	case "build":
		if err := runBuild(applyBuildFlags(cfg)); err != nil {
			slog.Error("Build failed", "error", err)
			os.Exit(1)
		}
	case "serve":
		if err := runServe(applyServeFlags(cfg), usedConfig); err != nil {
			slog.Error("Serve failed", "error", err)
			os.Exit(1)
		}
	case "publish":
		if err := runPublish(applyPublishFlags(cfg)); err != nil {
			slog.Error("Publish failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := runInit(cli.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
	}
}

// applySiteFlags layers the global site-identity flags over the file
// configuration. Shared by build and serve so a config-file reload cannot
// undo them.
func applySiteFlags(cfg config.Config) config.Config {
	if cli.SiteTitle != "" {
		cfg.SiteTitle = cli.SiteTitle
	}
	if cli.SiteURL != "" {
		cfg.SiteURL = config.NormalizeSiteURL(cli.SiteURL)
	}
	if cli.Templates != "" {
		cfg.TemplatesDir = cli.Templates
	}
	if cli.PostsPerFeed != 0 {
		cfg.PostsPerFeed = cli.PostsPerFeed
	}
	cfg.ExtraStylesheets = append(cfg.ExtraStylesheets, cli.ExtraStylesheet...)
	return cfg
}

// applyBuildFlags layers non-empty build flags over the file configuration.
func applyBuildFlags(cfg config.Config) config.Config {
	cfg = applySiteFlags(cfg)
	if cli.Build.Input != "" {
		cfg.ContentDir = cli.Build.Input
	}
	if cli.Build.Output != "" {
		cfg.OutputDir = cli.Build.Output
	}
	if cli.Build.Drafts {
		cfg.IncludeDrafts = true
	}
	if cli.Build.Clean {
		cfg.CleanFirst = true
	}
	return cfg
}

func applyServeFlags(cfg config.Config) config.Config {
	cfg = applySiteFlags(cfg)
	if cli.Serve.Input != "" {
		cfg.ContentDir = cli.Serve.Input
	}
	if cli.Serve.Output != "" {
		cfg.OutputDir = cli.Serve.Output
	}
	if cli.Serve.Port != 0 {
		cfg.Port = cli.Serve.Port
	}
	if cli.Serve.NoWatch {
		cfg.NoWatch = true
	}
	return cfg
}

func applyPublishFlags(cfg config.Config) config.Config {
	if cli.Publish.Output != "" {
		cfg.OutputDir = cli.Publish.Output
	}
	if cli.Publish.Branch != "" {
		cfg.Branch = cli.Publish.Branch
	}
	if cli.Publish.Remote != "" {
		cfg.Remote = cli.Publish.Remote
	}
	return cfg
}

func runBuild(cfg config.Config) error {
	result, err := site.New(cfg, nil).Build(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Built %d posts and %d pages into %s in %s\n",
		result.Posts, result.Pages, cfg.OutputDir, result.Duration.Round(time.Millisecond))
	return nil
}

func runServe(cfg config.Config, configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Re-assert the command-line flags whenever the config file reloads.
	srv := server.New(cfg, configPath, server.Overrides(applyServeFlags))
	return srv.Run(ctx)
}

func runPublish(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return publish.New(".", cfg.OutputDir, cfg.Branch, cfg.Remote).Publish(ctx)
}
