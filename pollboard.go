// Package pollboard serves a dashboard over the Stage1st poll feed: a
// filterable, sortable table of poll threads and a ranked visualization of
// the most voted ones, built with Go, Echo and templ.
//
// The feed is fetched once and held in memory; nothing is written back.
package pollboard

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pollboard/source"
	"github.com/eringen/pollboard/vizimage"
)

// App is the central pollboard application. It wires together the feed
// source, the snapshot cache, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Cache  *PollCache

	refreshLimiter *RefreshLimiter
	renderer       *vizimage.Renderer
	source         source.Fetcher
	customRoutes   []func(*App)
	staticDir      string
	ready          bool
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup validates the configuration, starts the initial feed load in the
// background and registers middleware and routes. Start calls it; tests and
// embedders that drive a.Echo directly call it themselves.
func (a *App) Setup(ctx context.Context) error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("pollboard: SessionSecret is required")
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}

	if a.source == nil {
		a.source = source.NewClient(a.Config.SourceURL, a.Config.FetchTimeout)
	}
	a.Cache = NewPollCache(a.source, a.Config.RefreshInterval, a.Echo.Logger)
	go func() {
		if _, err := a.Cache.Load(ctx); err != nil {
			a.Echo.Logger.Errorf("pollboard: initial load: %v", err)
		}
	}()

	a.refreshLimiter = NewRefreshLimiter(a.Config.RefreshPerMinute, time.Minute)

	var err error
	if a.Config.FontPath != "" {
		a.renderer, err = vizimage.NewFromFile(a.Config.FontPath)
	} else {
		a.renderer, err = vizimage.New()
	}
	if err != nil {
		return fmt.Errorf("pollboard: init renderer: %w", err)
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start sets the app up and serves until the server is closed.
func (a *App) Start() error {
	if err := a.Setup(context.Background()); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	assets, _ := fs.Sub(EmbeddedAssets, "embedded")
	assetHandler := echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(assets))))
	e.GET("/public/dashboard.js", assetHandler)
	e.GET("/public/dashboard.css", assetHandler)
	if a.staticDir != "" {
		e.Static("/public", a.staticDir)
	}
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleTable)
	e.GET("/rows/", a.handleRows)
	e.GET("/viz/", a.handleViz)
	e.GET("/viz.png", a.handleVizPNG)
	e.POST("/refresh/", a.handleRefresh)

	api := e.Group("/api")
	api.GET("/posts", a.handleAPIPosts)
	api.GET("/years", a.handleAPIYears)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.refreshLimiter != nil {
		a.refreshLimiter.Close()
	}
	return a.Echo.Close()
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
