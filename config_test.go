package pollboard

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eringen/pollboard/source"
)

func TestSetDefaults(t *testing.T) {
	var cfg SiteConfig
	cfg.setDefaults()

	if cfg.Name != "Poll Board" || cfg.Addr != ":3000" || cfg.URL != "http://localhost:3000" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SourceURL != source.DefaultURL {
		t.Fatalf("source url = %q", cfg.SourceURL)
	}
	if cfg.FetchTimeout != 10*time.Second || cfg.RefreshInterval != time.Minute {
		t.Fatalf("durations = %s, %s", cfg.FetchTimeout, cfg.RefreshInterval)
	}
	if cfg.PageSize != 100 || cfg.VizLimit != 75 || cfg.RefreshPerMinute != 5 {
		t.Fatalf("limits = %d, %d, %d", cfg.PageSize, cfg.VizLimit, cfg.RefreshPerMinute)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*SiteConfig){
		"url scheme":    func(c *SiteConfig) { c.URL = "example.com" },
		"source scheme": func(c *SiteConfig) { c.SourceURL = "ftp://feed" },
		"thread format": func(c *SiteConfig) { c.ThreadURLFormat = "https://bbs/thread.html" },
		"page size":     func(c *SiteConfig) { c.PageSize = 5000 },
		"viz limit":     func(c *SiteConfig) { c.VizLimit = -1 },
		"fetch timeout": func(c *SiteConfig) { c.FetchTimeout = -time.Second },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			var cfg SiteConfig
			cfg.setDefaults()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pollboard.yaml")
	data := []byte(`name: S1 Polls
url: https://polls.example.com
addr: ":8080"
fetch_timeout: 5s
page_size: 50
session_secret: from-file
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("POLLBOARD_PAGE_SIZE", "25")
	t.Setenv("POLLBOARD_SESSION_SECRET", "from-env")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "S1 Polls" || cfg.URL != "https://polls.example.com" || cfg.Addr != ":8080" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Fatalf("fetch timeout = %s", cfg.FetchTimeout)
	}
	if cfg.PageSize != 25 || cfg.SessionSecret != "from-env" {
		t.Fatalf("env overrides not applied: page size %d, secret %q", cfg.PageSize, cfg.SessionSecret)
	}
	if cfg.VizLimit != 75 {
		t.Fatalf("defaults not applied: viz limit %d", cfg.VizLimit)
	}
}

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Setenv("POLLBOARD_CONFIG", "")
	t.Setenv("POLLBOARD_REFRESH_INTERVAL", "30s")
	t.Setenv("POLLBOARD_COOKIE_SECURE", "true")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.RefreshInterval != 30*time.Second || !cfg.CookieSecure {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Setenv("POLLBOARD_CONFIG", "")

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for a missing file")
	}

	t.Setenv("POLLBOARD_VIZ_LIMIT", "lots")
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected error for a non-numeric env value")
	}
}
