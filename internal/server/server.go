// Package server runs the local preview server: it serves the generated
// site, watches the content and templates directories, and rebuilds on
// change.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/davep/blogmore/internal/config"
	"github.com/davep/blogmore/internal/metrics"
	"github.com/davep/blogmore/internal/site"
)

const shutdownTimeout = 5 * time.Second

// Overrides reapplies command-line settings on top of a freshly loaded
// configuration, so a config-file reload cannot undo explicit flags.
type Overrides func(config.Config) config.Config

// Server is the live-preview server.
type Server struct {
	configPath string
	overrides  Overrides
	recorder   metrics.Recorder
	registry   *prom.Registry

	mu  sync.Mutex
	cfg config.Config
	gen *site.Generator

	addrMu sync.Mutex
	addr   string
}

// New creates a Server. configPath is the config file to watch for changes
// and may be empty; overrides may be nil.
func New(cfg config.Config, configPath string, overrides Overrides) *Server {
	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)
	return &Server{
		configPath: configPath,
		overrides:  overrides,
		recorder:   recorder,
		registry:   registry,
		cfg:        cfg,
		gen:        site.New(cfg, recorder),
	}
}

// Addr returns the bound listen address once Run has started listening.
func (s *Server) Addr() string {
	s.addrMu.Lock()
	defer s.addrMu.Unlock()
	return s.addr
}

func (s *Server) setAddr(addr string) {
	s.addrMu.Lock()
	s.addr = addr
	s.addrMu.Unlock()
}

func (s *Server) config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Run builds the site, serves it, and blocks until ctx is cancelled or the
// server fails.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.config()

	if cfg.ContentDir != "" {
		if _, err := s.gen.Build(ctx); err != nil {
			// Keep serving whatever output already exists.
			slog.Error("Initial build failed", slog.Any("error", err))
		}
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.setAddr(listener.Addr().String())

	httpServer := &http.Server{
		Handler:           s.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	slog.Info("Serving site", slog.String("url", fmt.Sprintf("http://localhost:%d", listenPort(listener))))

	var watcher *fsnotify.Watcher
	if !cfg.NoWatch && cfg.ContentDir != "" {
		watcher, err = s.startWatching(ctx)
		if err != nil {
			slog.Warn("File watching disabled", slog.Any("error", err))
		} else {
			defer func() { _ = watcher.Close() }()
		}
	}

	select {
	case <-ctx.Done():
		return s.shutdown(httpServer)
	case err := <-serveErr:
		return err
	}
}

func listenPort(l net.Listener) int {
	if tcp, ok := l.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

// handler serves the output directory with the metrics endpoint mounted
// alongside.
func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(s.registry))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The output dir can move on a config reload, so resolve per
		// request.
		http.FileServer(http.Dir(s.config().OutputDir)).ServeHTTP(w, r)
	}))
	return requestLog(mux)
}

// startWatching wires the filesystem watcher, the rebuild debouncer and the
// single rebuild worker.
func (s *Server) startWatching(ctx context.Context) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}

	cfg := s.config()
	if err := watchDirsRecursive(watcher, cfg.ContentDir); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	if cfg.TemplatesDir != "" {
		if err := watchDirsRecursive(watcher, cfg.TemplatesDir); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}
	if s.configPath != "" {
		if err := watcher.Add(s.configPath); err != nil {
			slog.Warn("Could not watch config file", "path", s.configPath, "error", err)
		}
	}

	requests, trigger := newDebouncer()
	go s.rebuildWorker(ctx, requests)
	go s.eventLoop(ctx, watcher, trigger)
	return watcher, nil
}

// eventLoop feeds filesystem events into the debouncer, handling config
// reloads and newly created directories along the way.
func (s *Server) eventLoop(ctx context.Context, watcher *fsnotify.Watcher, trigger func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if s.configPath != "" && ev.Name == s.configPath {
				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					s.reloadConfig(ctx)
					s.recorder.IncRebuildTrigger("config")
					trigger()
				}
				continue
			}
			if shouldIgnoreEvent(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = watchDirsRecursive(watcher, ev.Name)
				}
			}
			slog.Debug("File change detected", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			s.recorder.IncRebuildTrigger("content")
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", slog.Any("error", err))
		}
	}
}

// rebuildWorker processes coalesced rebuild requests one at a time. A
// request arriving mid-build is remembered and run once, after the current
// build finishes.
func (s *Server) rebuildWorker(ctx context.Context, requests chan struct{}) {
	var mu sync.Mutex
	running := false
	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-requests:
			if !ok {
				return
			}
			mu.Lock()
			if running {
				pending = true
				mu.Unlock()
				continue
			}
			running = true
			mu.Unlock()

			slog.Info("Change detected; rebuilding site")
			s.mu.Lock()
			gen := s.gen
			s.mu.Unlock()
			if _, err := gen.Build(ctx); err != nil {
				slog.Warn("Rebuild failed", slog.Any("error", err))
			}

			mu.Lock()
			running = false
			if pending {
				pending = false
				mu.Unlock()
				select {
				case requests <- struct{}{}:
				default:
				}
			} else {
				mu.Unlock()
			}
		}
	}
}

// reloadConfig re-reads the config file and swaps in a new generator,
// keeping any command-line overrides in force.
func (s *Server) reloadConfig(_ context.Context) {
	cfg, used, err := config.Load(s.configPath)
	if err != nil {
		slog.Warn("Config reload failed", slog.Any("error", err))
		return
	}
	if s.overrides != nil {
		cfg = s.overrides(cfg)
	}
	slog.Info("Configuration reloaded", slog.String("path", used))

	s.mu.Lock()
	s.cfg = cfg
	s.gen = site.New(cfg, s.recorder)
	s.mu.Unlock()
}

func (s *Server) shutdown(httpServer *http.Server) error {
	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
